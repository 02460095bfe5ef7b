package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/app/services"
	"github.com/antonkh/eventory/internal/middleware"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// CategoryController handles the admin and public category surfaces
type CategoryController struct {
	categoryService services.CategoryService
}

// NewCategoryController creates a new CategoryController
func NewCategoryController(categoryService services.CategoryService) *CategoryController {
	return &CategoryController{
		categoryService: categoryService,
	}
}

// CreateCategory handles category creation
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.NewCategoryRequest true "Category information"
// @Success 201 {object} dto.CategoryDto
// @Failure 400 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /admin/categories [post]
func (c *CategoryController) CreateCategory(ctx *gin.Context) {
	var req dto.NewCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	category, err := c.categoryService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category
// @Summary Update a category
// @Tags admin
// @Accept json
// @Produce json
// @Param catId path int true "Category ID"
// @Param request body dto.NewCategoryRequest true "Category information"
// @Success 200 {object} dto.CategoryDto
// @Failure 404 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /admin/categories/{catId} [patch]
func (c *CategoryController) UpdateCategory(ctx *gin.Context) {
	catID, ok := parsePathID(ctx, "catId")
	if !ok {
		return
	}

	var req dto.NewCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	category, err := c.categoryService.Update(ctx, catID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, category)
}

// DeleteCategory removes an empty category
// @Summary Delete a category
// @Tags admin
// @Param catId path int true "Category ID"
// @Success 204
// @Failure 404 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /admin/categories/{catId} [delete]
func (c *CategoryController) DeleteCategory(ctx *gin.Context) {
	catID, ok := parsePathID(ctx, "catId")
	if !ok {
		return
	}

	if err := c.categoryService.Delete(ctx, catID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// ListCategories retrieves a page of categories
// @Summary List categories
// @Tags public
// @Produce json
// @Param from query int false "Elements to skip"
// @Param size query int false "Page size"
// @Success 200 {array} dto.CategoryDto
// @Router /categories [get]
func (c *CategoryController) ListCategories(ctx *gin.Context) {
	categories, err := c.categoryService.List(ctx, helpers.ParsePageParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, categories)
}

// GetCategory retrieves a category by id
// @Summary Get a category
// @Tags public
// @Produce json
// @Param catId path int true "Category ID"
// @Success 200 {object} dto.CategoryDto
// @Failure 404 {object} dto.ApiError
// @Router /categories/{catId} [get]
func (c *CategoryController) GetCategory(ctx *gin.Context) {
	catID, ok := parsePathID(ctx, "catId")
	if !ok {
		return
	}

	category, err := c.categoryService.GetByID(ctx, catID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, category)
}
