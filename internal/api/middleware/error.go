package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"pv-pipeline/internal/api/models"
)

// ErrorHandler recovers panics into the API's standard error envelope so
// clients always see the same ErrorResponse shape, crash or not.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		msg := "an unexpected error occurred"
		switch v := recovered.(type) {
		case string:
			msg = v
		case error:
			msg = v.Error()
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, models.ErrorResponse{
			Error: models.ErrorDetail{Code: "INTERNAL_ERROR", Message: msg},
		})
	})
}
