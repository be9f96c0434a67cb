package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/cppla/socialnet/middleware"
	"github.com/cppla/socialnet/services"
	"github.com/cppla/socialnet/utils"
)

const (
	msgEmpty          = "Must not be empty"
	msgInvalidEmail   = "Must be a valid email address"
	msgShortPassword  = "Password must be at least 6 characters"
	msgLongPassword   = "Password must be at most 72 bytes"
	msgHandleReserved = "this handle is reserved"
	msgPasswordsMatch = "Passwords must match"
	msgHandleTaken    = "this handle is already taken"
	msgEmailTaken     = "email is already in use"
	msgWrongLogin     = "Wrong credentials, please try again"

	minPasswordLength = 6
	// bcrypt only hashes the first 72 bytes and rejects longer input
	maxPasswordBytes = 72
)

// reservedHandles collide with the static /api/user/<name> routes.
var reservedHandles = map[string]bool{
	"list":         true,
	"like":         true,
	"login":        true,
	"logout":       true,
	"register":     true,
	"image":        true,
	"notification": true,
}

var validate = validator.New()

// AuthController handles registration, login and logout.
type AuthController struct {
	base
	tokens    *utils.TokenManager
	blacklist *utils.TokenBlacklist
}

func NewAuthController(d Deps) *AuthController {
	return &AuthController{base: newBase(d), tokens: d.Tokens, blacklist: d.Blacklist}
}

type registerRequest struct {
	Handle          string `json:"handle"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// validate returns field -> message for every problem found.
func (r *registerRequest) validate() map[string]string {
	errs := map[string]string{}
	if r.Handle == "" {
		errs["handle"] = msgEmpty
	} else if reservedHandles[strings.ToLower(r.Handle)] {
		errs["handle"] = msgHandleReserved
	}
	if r.Email == "" {
		errs["email"] = msgEmpty
	} else if validate.Var(r.Email, "email") != nil {
		errs["email"] = msgInvalidEmail
	}
	if r.Password == "" {
		errs["password"] = msgEmpty
	} else if len(r.Password) < minPasswordLength {
		errs["password"] = msgShortPassword
	} else if len(r.Password) > maxPasswordBytes {
		errs["password"] = msgLongPassword
	}
	if r.Password != r.ConfirmPassword {
		errs["confirmPassword"] = msgPasswordsMatch
	}
	return errs
}

// Register creates a new account and returns a token for it.
func (a *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}
	req.Handle = strings.TrimSpace(req.Handle)
	req.Email = strings.TrimSpace(req.Email)

	if errs := req.validate(); len(errs) > 0 {
		utils.ValidationError(ctx, 40002, errs)
		return
	}

	rctx := ctx.Request.Context()
	users := a.svc(ctx).Users
	if errs, err := takenErrors(ctx, users, req.Handle, req.Email); err != nil {
		storeFailure(ctx, 50001, "failed to check existing users", err)
		return
	} else if len(errs) > 0 {
		utils.ValidationError(ctx, 40003, errs)
		return
	}

	user, err := users.Register(rctx, req.Handle, req.Email, req.Password)
	if errors.Is(err, services.ErrDuplicate) {
		// lost a race with a concurrent registration
		errs, terr := takenErrors(ctx, users, req.Handle, req.Email)
		if terr != nil || len(errs) == 0 {
			errs = map[string]string{"handle": msgHandleTaken}
		}
		utils.ValidationError(ctx, 40003, errs)
		return
	}
	if err != nil {
		storeFailure(ctx, 50002, "failed to create user", err)
		return
	}

	token, err := a.tokens.Generate(user.ID, user.Handle)
	if err != nil {
		utils.Sugar.Errorf("token generation failed user=%s err=%v", user.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50003, "Failed to create token")
		return
	}
	a.invalidate(ctx, cacheKeyUserList)
	ctx.JSON(http.StatusCreated, gin.H{"token": token})
}

func takenErrors(ctx *gin.Context, users *services.UserService, handle, email string) (map[string]string, error) {
	handleTaken, emailTaken, err := users.Taken(ctx.Request.Context(), handle, email)
	if err != nil {
		return nil, err
	}
	errs := map[string]string{}
	if handleTaken {
		errs["handle"] = msgHandleTaken
	}
	if emailTaken {
		errs["email"] = msgEmailTaken
	}
	return errs, nil
}

// Login authenticates a user by email and password.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40004, "invalid request payload")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	errs := map[string]string{}
	if req.Email == "" {
		errs["email"] = msgEmpty
	}
	if req.Password == "" {
		errs["password"] = msgEmpty
	}
	if len(errs) > 0 {
		utils.ValidationError(ctx, 40005, errs)
		return
	}

	user, err := a.svc(ctx).Users.Authenticate(ctx.Request.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		ctx.AbortWithStatusJSON(http.StatusForbidden, utils.ErrorBody{
			Code:  40310,
			Error: map[string]string{"general": msgWrongLogin},
		})
		return
	}
	if err != nil {
		storeFailure(ctx, 50004, "failed to authenticate", err)
		return
	}

	token, err := a.tokens.Generate(user.ID, user.Handle)
	if err != nil {
		utils.Sugar.Errorf("token generation failed user=%s err=%v", user.ID, err)
		utils.Error(ctx, http.StatusInternalServerError, 50005, "Failed to login user")
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"token": token, "handle": user.Handle})
}

// Logout revokes the presented token until it would have expired.
func (a *AuthController) Logout(ctx *gin.Context) {
	token, expiresAt := middleware.CurrentToken(ctx)
	if token == "" {
		utils.Error(ctx, http.StatusUnauthorized, 40111, "Unauthorized")
		return
	}
	a.blacklist.Revoke(ctx.Request.Context(), token, expiresAt)
	utils.Message(ctx, http.StatusOK, "Logged out successfully")
}
