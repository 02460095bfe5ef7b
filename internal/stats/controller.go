package stats

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/antonkh/eventory/internal/middleware"
	"github.com/antonkh/eventory/internal/pkg/apperrors"
	"github.com/antonkh/eventory/internal/pkg/helpers"
)

// Controller handles the telemetry HTTP surface
type Controller struct {
	service Service
}

// NewController creates a new telemetry Controller
func NewController(service Service) *Controller {
	return &Controller{
		service: service,
	}
}

// RecordHit stores one endpoint hit
// @Summary Record an endpoint hit
// @Tags stats
// @Accept json
// @Produce json
// @Param request body stats.EndpointHitRequest true "Hit information"
// @Success 201 {object} stats.EndpointHit
// @Failure 400 {object} dto.ApiError
// @Router /hit [post]
func (c *Controller) RecordHit(ctx *gin.Context) {
	var req EndpointHitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}

	hit, err := c.service.RecordHit(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, hit)
}

// GetStats answers the aggregation query
// @Summary Aggregate hits per app and URI
// @Tags stats
// @Produce json
// @Param start query string true "Window start"
// @Param end query string true "Window end"
// @Param uris query []string false "URI filter"
// @Param unique query bool false "Count each IP once"
// @Success 200 {array} stats.ViewStats
// @Failure 400 {object} dto.ApiError
// @Router /stats [get]
func (c *Controller) GetStats(ctx *gin.Context) {
	query, err := parseStatsQuery(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	result, err := c.service.GetStats(ctx, query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func parseStatsQuery(ctx *gin.Context) (StatsQuery, error) {
	var query StatsQuery

	start, ok := ctx.GetQuery("start")
	if !ok {
		return query, apperrors.NewBadRequestError("start is required")
	}
	end, ok := ctx.GetQuery("end")
	if !ok {
		return query, apperrors.NewBadRequestError("end is required")
	}

	var err error
	if query.Start, err = helpers.ParseDateTime(start); err != nil {
		return query, apperrors.NewBadRequestError(err.Error())
	}
	if query.End, err = helpers.ParseDateTime(end); err != nil {
		return query, apperrors.NewBadRequestError(err.Error())
	}

	query.URIs = ctx.QueryArray("uris")

	if unique, ok := ctx.GetQuery("unique"); ok {
		parsed, err := strconv.ParseBool(unique)
		if err != nil {
			return query, apperrors.NewBadRequestError("unique must be a boolean")
		}
		query.Unique = parsed
	}

	return query, nil
}

// SetupRoutes registers the telemetry routes on the engine
func SetupRoutes(router *gin.Engine, controller *Controller) {
	router.POST("/hit", controller.RecordHit)
	router.GET("/stats", controller.GetStats)
}
