package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/userhub/internal/auth"
	"github.com/geocoder89/userhub/internal/cache"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/profile"
	"github.com/geocoder89/userhub/internal/store"
	"github.com/gin-gonic/gin"
)

type ProfileReader interface {
	GetProfile(ctx context.Context, username string) (profile.Profile, error)
}

type ProfileWriter interface {
	PutProfile(ctx context.Context, username string, p profile.Profile) error
}

type TokenDecoder interface {
	TokenVerifier
	Decode(token string) (*auth.Claims, error)
}

type ProfileHandler struct {
	reader  ProfileReader
	writer  ProfileWriter
	tokens  TokenDecoder
	results *cache.Cache[SearchResult]
	log     *slog.Logger
}

// NewProfileHandler takes the search cache so writes can invalidate it; results may be nil.
func NewProfileHandler(reader ProfileReader, writer ProfileWriter, tokens TokenDecoder, results *cache.Cache[SearchResult], log *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		reader:  reader,
		writer:  writer,
		tokens:  tokens,
		results: results,
		log:     log,
	}
}

// GetProfile handles GET /profile/:username. The ?token= check runs in middleware first.
func (h *ProfileHandler) GetProfile(ctx *gin.Context) {
	username := ctx.Param("username")

	if username == "" {
		RespondBadRequest(ctx, msgMissingUsername)
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	p, err := h.reader.GetProfile(cctx, username)
	if err != nil {
		if errors.Is(err, store.ErrProfileNotFound) {
			RespondBadRequest(ctx, msgNoProfile)
			return
		}

		storeFailure(ctx, h.log, "profiles.get", err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":  true,
		"profile":  p,
		"username": username,
	})
}

// SetProfile handles POST /profile. The token decides whose profile is written.
func (h *ProfileHandler) SetProfile(ctx *gin.Context) {
	var req profile.SetProfileRequest

	if !BindJSON(ctx, &req, msgInvalidToken) {
		return
	}

	if req.Token == "" {
		RespondBadRequest(ctx, msgInvalidToken)
		return
	}

	if _, ok := h.tokens.Verify(req.Token); !ok {
		RespondBadRequest(ctx, msgInvalidToken)
		return
	}

	claims, err := h.tokens.Decode(req.Token)
	if err != nil {
		RespondBadRequest(ctx, msgInvalidToken)
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	err = h.writer.PutProfile(cctx, claims.Username, profile.FromRequest(req))
	if err != nil {
		storeFailure(ctx, h.log, "profiles.put", err)
		return
	}

	h.results.Clear()

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": msgProfileSaved,
	})
}
