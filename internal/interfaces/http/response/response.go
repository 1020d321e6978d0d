package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	domainerrors "promptmint.backend/internal/domain/errors"
	"promptmint.backend/pkg/utils"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Paginated sends a list response with pagination metadata
func Paginated(c *gin.Context, status int, items interface{}, meta utils.PaginationMeta) {
	c.JSON(status, gin.H{
		"items": items,
		"meta":  meta,
	})
}

// Error maps a domain error onto the wire: HTTP status from the error
// taxonomy plus a machine-readable code the console switches on.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(appErr.Code, gin.H{
			"code":    domainerrors.CodeFor(appErr),
			"message": appErr.Message,
		})
		return
	}

	c.JSON(domainerrors.StatusFor(err), gin.H{
		"code":    domainerrors.CodeFor(err),
		"message": err.Error(),
	})
}
