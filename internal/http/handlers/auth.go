package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/observability"
	"github.com/geocoder89/userhub/internal/security"
	"github.com/geocoder89/userhub/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// bound for every store round trip made while serving a request
const storeTimeout = 3 * time.Second

type UserReader interface {
	GetUser(ctx context.Context, username string) (user.User, error)
}

type UserCreator interface {
	CreateUser(ctx context.Context, u user.User) error
}

type TokenIssuer interface {
	Issue(username string) (string, error)
}

type TokenVerifier interface {
	Verify(token string) (*auth.Claims, bool)
}

type TokenService interface {
	TokenIssuer
	TokenVerifier
}

type AuthHandler struct {
	users      UserReader
	userWriter UserCreator
	tokens     TokenService
	hasher     security.Hasher
	prom       *observability.Prom
	log        *slog.Logger
}

func NewAuthHandler(users UserReader, userWriter UserCreator, tokens TokenService, hasher security.Hasher, prom *observability.Prom, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		users:      users,
		userWriter: userWriter,
		tokens:     tokens,
		hasher:     hasher,
		prom:       prom,
		log:        log,
	}
}

// Authenticate handles POST /auth.
func (h *AuthHandler) Authenticate(ctx *gin.Context) {
	var req user.Credentials

	if !BindJSON(ctx, &req, msgMissingParams) {
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	found, err := h.users.GetUser(cctx, req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			h.prom.CountAuth("login", "rejected")
			RespondBadRequest(ctx, msgWrongCredentials)
			return
		}

		storeFailure(ctx, h.log, "users.get", err)
		return
	}

	// same message whichever part is wrong
	if found.Username != req.Username || !h.hasher.Verify(found.Password, req.Password) {
		h.prom.CountAuth("login", "rejected")
		RespondBadRequest(ctx, msgWrongCredentials)
		return
	}

	h.issue(ctx, "login", found.Username)
}

// Register handles POST /register.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var req user.Credentials

	if !BindJSON(ctx, &req, msgMissingParams) {
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	_, err := h.users.GetUser(cctx, req.Username)

	switch {
	case err == nil:
		h.prom.CountAuth("register", "taken")
		RespondBadRequest(ctx, msgUsernameTaken)
		return
	case !errors.Is(err, store.ErrUserNotFound):
		storeFailure(ctx, h.log, "users.get", err)
		return
	}

	if err := binding.Validator.ValidateStruct(user.Account(req)); err != nil {
		h.prom.CountAuth("register", "invalid")
		RespondBadRequest(ctx, msgRulesMismatch)
		return
	}

	hash, err := h.hasher.Hash(req.Password)
	if errors.Is(err, security.ErrPasswordTooLong) {
		h.prom.CountAuth("register", "invalid")
		RespondBadRequest(ctx, msgRulesMismatch)
		return
	}
	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	// the lookup above only orders the error messages; this write is the real uniqueness check
	err = h.userWriter.CreateUser(cctx, user.User{Username: req.Username, Password: hash})
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			h.prom.CountAuth("register", "taken")
			RespondBadRequest(ctx, msgUsernameTaken)
			return
		}

		storeFailure(ctx, h.log, "users.create", err)
		return
	}

	h.issue(ctx, "register", req.Username)
}

// CheckToken handles GET /check/:token. An invalid token is still a 200.
func (h *AuthHandler) CheckToken(ctx *gin.Context) {
	token := ctx.Param("token")

	if token == "" {
		RespondBadRequest(ctx, msgMissingToken)
		return
	}

	if _, ok := h.tokens.Verify(token); !ok {
		h.prom.CountAuth("token", "invalid")
		ctx.JSON(http.StatusOK, gin.H{"success": false, "message": msgTokenWrong})
		return
	}

	h.prom.CountAuth("token", "valid")
	ctx.JSON(http.StatusOK, gin.H{"success": true, "message": msgTokenValid})
}

func (h *AuthHandler) issue(ctx *gin.Context, kind, username string) {
	token, err := h.tokens.Issue(username)

	if err != nil {
		h.log.ErrorContext(ctx.Request.Context(), "token signing failed", "err", err)
		RespondInternal(ctx, msgTokenNotGenerated)
		return
	}

	h.prom.CountAuth(kind, "ok")

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   token,
	})
}

// storeFailure answers a request whose store call failed and logs the cause.
func storeFailure(ctx *gin.Context, log *slog.Logger, op string, err error) {
	log.ErrorContext(ctx.Request.Context(), "store call failed",
		"op", op,
		"err", err,
		"unavailable", errors.Is(err, store.ErrUnavailable),
		"request_id", requestIDFrom(ctx),
	)
	RespondUnavailable(ctx)
}
