package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pv-pipeline/internal/api/models"
	"pv-pipeline/internal/model"
)

// writeError maps pipeline error types to HTTP responses. Typed errors
// from the core keep their identity all the way to the client.
func writeError(c *gin.Context, err error) {
	var (
		parseErr *model.ParseError
		dupErr   *model.DuplicateTimestampError
		scaleErr *model.ScalingError
		convErr  *model.ConversionError
	)
	switch {
	case errors.As(err, &parseErr):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "PARSE_ERROR",
				Message: parseErr.Error(),
				Details: map[string]interface{}{
					"file":   parseErr.File,
					"row":    parseErr.Row,
					"column": parseErr.Column,
				},
			},
		})
	case errors.As(err, &dupErr):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{
				Code:    "DUPLICATE_TIMESTAMP",
				Message: dupErr.Error(),
				Details: map[string]interface{}{
					"timestamp": dupErr.Timestamp,
					"count":     dupErr.Count,
				},
			},
		})
	case errors.As(err, &scaleErr):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "SCALING_ERROR", Message: scaleErr.Error()},
		})
	case errors.As(err, &convErr):
		c.JSON(http.StatusUnprocessableEntity, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "CONVERSION_ERROR", Message: convErr.Error()},
		})
	default:
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INVALID_REQUEST", Message: err.Error()},
		})
	}
}
