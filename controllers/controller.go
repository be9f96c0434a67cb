package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/cppla/socialnet/middleware"
	"github.com/cppla/socialnet/models"
	"github.com/cppla/socialnet/services"
	"github.com/cppla/socialnet/utils"
)

// Cache key prefixes for rendered responses.
const (
	cacheKeyPostList   = "cache:posts:list"
	cacheKeyPostDetail = "cache:post:detail:"
	cacheKeyUserList   = "cache:users:list"
	cacheKeyUserDetail = "cache:user:detail:"
	cacheKeyAll        = "cache:"
)

// Deps carries the shared collaborators every controller is built from.
type Deps struct {
	DB            *gorm.DB
	Tokens        *utils.TokenManager
	Blacklist     *utils.TokenBlacklist
	Cache         *utils.Cache
	MaxImageBytes int64
}

type base struct {
	services *services.Services
	cache    *utils.Cache
}

func newBase(d Deps) base {
	return base{services: services.New(d.DB), cache: d.Cache}
}

// svc returns services bound to the request transaction when one is open.
func (b *base) svc(ctx *gin.Context) *services.Services {
	if tx, ok := middleware.Tx(ctx); ok {
		return b.services.WithDB(tx)
	}
	return b.services
}

// cached answers from the response cache and reports whether it did.
func (b *base) cached(ctx *gin.Context, key string) bool {
	raw, ok := b.cache.GetBytes(ctx.Request.Context(), key)
	if !ok {
		return false
	}
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", raw)
	return true
}

// invalidate drops cached responses under the prefixes once the transaction commits.
func (b *base) invalidate(ctx *gin.Context, prefixes ...string) {
	middleware.AfterCommit(ctx, func() {
		for _, p := range prefixes {
			b.cache.InvalidateByPrefix(context.Background(), p)
		}
	})
}

func requireUser(ctx *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "Unauthorized")
		return nil, false
	}
	return user, true
}

// storeFailure logs err and answers 500 with code. Unreachable-store errors are handed
// to the error middleware instead, which answers 503.
func storeFailure(ctx *gin.Context, code int, message string, err error) {
	utils.Logger.Error(message, zap.Int("code", code), zap.String("path", ctx.Request.URL.Path), zap.Error(err))
	if utils.IsStoreUnavailable(err) {
		_ = ctx.Error(err)
		ctx.Abort()
		return
	}
	utils.Error(ctx, http.StatusInternalServerError, code, "Something went wrong, please try again")
}
