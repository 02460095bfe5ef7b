package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/antonkh/eventory/internal/middleware"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// parsePathID reads a positive integer path parameter. On failure it writes
// the bad-request body and reports false.
func parsePathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError(
			fmt.Sprintf("%s must be a positive number", name)))
		return 0, false
	}
	return id, true
}

// parseIDList reads a repeated integer query parameter
func parseIDList(ctx *gin.Context, name string) ([]int64, error) {
	values := ctx.QueryArray(name)
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, apperrors.NewBadRequestError(
				fmt.Sprintf("%s must contain numbers, got %q", name, v))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// parseOptionalBool reads an optional boolean query parameter
func parseOptionalBool(ctx *gin.Context, name string) (*bool, error) {
	value, ok := ctx.GetQuery(name)
	if !ok {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return nil, apperrors.NewBadRequestError(
			fmt.Sprintf("%s must be a boolean, got %q", name, value))
	}
	return &parsed, nil
}

// parseOptionalTime reads an optional wire-format timestamp query parameter
func parseOptionalTime(ctx *gin.Context, name string) (*time.Time, error) {
	value, ok := ctx.GetQuery(name)
	if !ok || value == "" {
		return nil, nil
	}
	parsed, err := helpers.ParseDateTime(value)
	if err != nil {
		return nil, apperrors.NewBadRequestError(err.Error())
	}
	return &parsed, nil
}
