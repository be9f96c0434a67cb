package middleware

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cppla/socialnet/utils"
)

// StoreUnavailableBody is sent when the database cannot be reached.
type StoreUnavailableBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

const errorPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>{{.status}} {{.title}}</title></head>
<body>
<h1>{{.status}} {{.title}}</h1>
<p>{{.message}}</p>
</body>
</html>
`

// ErrorTemplate renders non-API error pages; install it with engine.SetHTMLTemplate.
var ErrorTemplate = template.Must(template.New("error.html").Parse(errorPage))

// ErrorHandler renders errors pushed with ctx.Error that nothing else answered.
func ErrorHandler() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Next()

		if len(ctx.Errors) == 0 || ctx.Writer.Written() {
			return
		}
		err := ctx.Errors.Last().Err
		if utils.IsStoreUnavailable(err) {
			utils.Logger.Warn("store unavailable", zap.String("path", ctx.Request.URL.Path), zap.Error(err))
			ctx.AbortWithStatusJSON(http.StatusServiceUnavailable, StoreUnavailableBody{
				Type:    "StoreUnavailable",
				Message: "The service is temporarily unavailable, please try again later",
			})
			return
		}

		utils.Logger.Error("unhandled error", zap.String("path", ctx.Request.URL.Path), zap.Error(err))
		if IsAPIPath(ctx.Request.URL.Path) {
			utils.Error(ctx, http.StatusInternalServerError, 50000, "internal server error")
			return
		}
		RenderErrorPage(ctx, http.StatusInternalServerError, "Something went wrong")
	}
}

// RenderErrorPage writes the HTML error view.
func RenderErrorPage(ctx *gin.Context, status int, message string) {
	ctx.HTML(status, "error.html", gin.H{
		"status":  status,
		"title":   http.StatusText(status),
		"message": message,
	})
	ctx.Abort()
}

func IsAPIPath(path string) bool {
	return path == "/api" || strings.HasPrefix(path, "/api/")
}
