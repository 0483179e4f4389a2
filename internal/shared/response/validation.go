package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationFailed writes a 400 with per-field details when err comes from
// ozzo-validation. It reports false and writes nothing otherwise.
func ValidationFailed(c *gin.Context, err error) bool {
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "request validation failed", fieldErrs)
		return true
	}

	var single validation.Error
	if errors.As(err, &single) {
		ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", single.Error())
		return true
	}

	return false
}
