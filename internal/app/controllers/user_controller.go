package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/antonkh/eventory/internal/app/models/dto"
	"github.com/antonkh/eventory/internal/app/services"
	"github.com/antonkh/eventory/internal/middleware"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// UserController handles the admin user surface
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// RegisterUser handles user creation
// @Summary Register a new user
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.NewUserRequest true "User information"
// @Success 201 {object} dto.UserDto
// @Failure 400 {object} dto.ApiError
// @Failure 409 {object} dto.ApiError
// @Router /admin/users [post]
func (c *UserController) RegisterUser(ctx *gin.Context) {
	var req dto.NewUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	user, err := c.userService.Register(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// ListUsers retrieves users by ids or page
// @Summary List users
// @Tags admin
// @Produce json
// @Param ids query []int false "User ids"
// @Param from query int false "Elements to skip"
// @Param size query int false "Page size"
// @Success 200 {array} dto.UserDto
// @Failure 400 {object} dto.ApiError
// @Router /admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	ids, err := parseIDList(ctx, "ids")
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	users, err := c.userService.List(ctx, ids, helpers.ParsePageParams(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, users)
}

// DeleteUser removes a user
// @Summary Delete a user
// @Tags admin
// @Param userId path int true "User ID"
// @Success 204
// @Failure 404 {object} dto.ApiError
// @Router /admin/users/{userId} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	userID, ok := parsePathID(ctx, "userId")
	if !ok {
		return
	}

	if err := c.userService.Delete(ctx, userID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
