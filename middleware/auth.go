package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cppla/socialnet/models"
	"github.com/cppla/socialnet/services"
	"github.com/cppla/socialnet/utils"
)

const (
	// ContextUserKey is the key used to store the authenticated *models.User in Gin context.
	ContextUserKey = "user"
	// ContextTokenKey stores the raw bearer token.
	ContextTokenKey = "token"
	// ContextTokenExpiryKey stores the token expiry as time.Time.
	ContextTokenExpiryKey = "token_expiry"
)

// AuthRequired ensures the request carries a valid, unrevoked JWT for an existing user.
func AuthRequired(tokens *utils.TokenManager, blacklist *utils.TokenBlacklist, users *services.UserService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40101, "Unauthorized")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.Error(ctx, http.StatusUnauthorized, 40102, "Unauthorized")
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			utils.Error(ctx, http.StatusUnauthorized, 40103, "Unauthorized")
			return
		}

		if blacklist != nil && blacklist.IsRevoked(ctx.Request.Context(), tokenString) {
			utils.Error(ctx, http.StatusForbidden, 40301, "Unauthorized")
			return
		}

		claims, err := tokens.Parse(tokenString)
		if err != nil {
			utils.Error(ctx, http.StatusForbidden, 40302, "Unauthorized")
			return
		}

		user, err := users.FindByID(ctx.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				utils.Error(ctx, http.StatusForbidden, 40303, "Unauthorized")
				return
			}
			utils.Sugar.Errorf("auth user lookup failed id=%s err=%v", claims.UserID, err)
			if utils.IsStoreUnavailable(err) {
				_ = ctx.Error(err)
				ctx.Abort()
				return
			}
			utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to load user")
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Set(ContextTokenKey, tokenString)
		if claims.ExpiresAt != nil {
			ctx.Set(ContextTokenExpiryKey, claims.ExpiresAt.Time)
		}
		ctx.Next()
	}
}

// CurrentUser returns the user attached by AuthRequired.
func CurrentUser(ctx *gin.Context) (*models.User, bool) {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}

// CurrentToken returns the bearer token and its expiry.
func CurrentToken(ctx *gin.Context) (string, time.Time) {
	token := ctx.GetString(ContextTokenKey)
	exp, _ := ctx.Get(ContextTokenExpiryKey)
	t, _ := exp.(time.Time)
	return token, t
}
