package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the uniform structure for failed API responses.
// Error holds either a message or a field -> message map.
type ErrorBody struct {
	Code  int         `json:"code"`
	Error interface{} `json:"error"`
}

// MessageBody is returned by endpoints that only report an outcome.
type MessageBody struct {
	Message string `json:"message"`
}

// Error writes an error response and stops the handler chain.
func Error(ctx *gin.Context, status int, code int, message string) {
	ctx.AbortWithStatusJSON(status, ErrorBody{Code: code, Error: message})
}

// ValidationError reports field-level problems with a 400.
func ValidationError(ctx *gin.Context, code int, fields map[string]string) {
	ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Code: code, Error: fields})
}

// Message writes {"message": msg} with the given status.
func Message(ctx *gin.Context, status int, msg string) {
	ctx.JSON(status, MessageBody{Message: msg})
}
