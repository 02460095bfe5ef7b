package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/app/services"
	"github.com/antonkh/eventory/internal/middleware"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// CompilationController handles the admin and public compilation surfaces
type CompilationController struct {
	compilationService services.CompilationService
}

// NewCompilationController creates a new CompilationController
func NewCompilationController(compilationService services.CompilationService) *CompilationController {
	return &CompilationController{
		compilationService: compilationService,
	}
}

// CreateCompilation handles compilation creation
// @Summary Create a compilation
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.NewCompilationRequest true "Compilation information"
// @Success 201 {object} dto.CompilationDto
// @Failure 400 {object} dto.ApiError
// @Failure 404 {object} dto.ApiError
// @Router /admin/compilations [post]
func (c *CompilationController) CreateCompilation(ctx *gin.Context) {
	var req dto.NewCompilationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	compilation, err := c.compilationService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, compilation)
}

// UpdateCompilation changes a compilation
// @Summary Update a compilation
// @Tags admin
// @Accept json
// @Produce json
// @Param compId path int true "Compilation ID"
// @Param request body dto.UpdateCompilationRequest true "Changed fields"
// @Success 200 {object} dto.CompilationDto
// @Failure 404 {object} dto.ApiError
// @Router /admin/compilations/{compId} [patch]
func (c *CompilationController) UpdateCompilation(ctx *gin.Context) {
	compID, ok := parsePathID(ctx, "compId")
	if !ok {
		return
	}

	var req dto.UpdateCompilationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	compilation, err := c.compilationService.Update(ctx, compID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, compilation)
}

// DeleteCompilation removes a compilation
// @Summary Delete a compilation
// @Tags admin
// @Param compId path int true "Compilation ID"
// @Success 204
// @Failure 404 {object} dto.ApiError
// @Router /admin/compilations/{compId} [delete]
func (c *CompilationController) DeleteCompilation(ctx *gin.Context) {
	compID, ok := parsePathID(ctx, "compId")
	if !ok {
		return
	}

	if err := c.compilationService.Delete(ctx, compID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListCompilations retrieves a page of compilations
// @Summary List compilations
// @Tags public
// @Produce json
// @Param pinned query bool false "Pinned filter"
// @Param from query int false "Elements to skip"
// @Param size query int false "Page size"
// @Success 200 {array} dto.CompilationDto
// @Failure 400 {object} dto.ApiError
// @Router /compilations [get]
func (c *CompilationController) ListCompilations(ctx *gin.Context) {
	pinned, err := parseOptionalBool(ctx, "pinned")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	compilations, err := c.compilationService.List(ctx, pinned, helpers.ParsePageParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, compilations)
}

// GetCompilation retrieves a compilation by id
// @Summary Get a compilation
// @Tags public
// @Produce json
// @Param compId path int true "Compilation ID"
// @Success 200 {object} dto.CompilationDto
// @Failure 404 {object} dto.ApiError
// @Router /compilations/{compId} [get]
func (c *CompilationController) GetCompilation(ctx *gin.Context) {
	compID, ok := parsePathID(ctx, "compId")
	if !ok {
		return
	}

	compilation, err := c.compilationService.GetByID(ctx, compID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, compilation)
}
