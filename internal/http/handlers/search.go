package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/geocoder89/userhub/internal/cache"
	"github.com/geocoder89/userhub/internal/config"
	"github.com/geocoder89/userhub/internal/domain/profile"
	"github.com/geocoder89/userhub/internal/search"
	"github.com/gin-gonic/gin"
)

type ProfileFinder interface {
	FindProfilesByNormalizedField(ctx context.Context, field, value string) (map[string]profile.Profile, error)
}

// SearchResult maps username to profile.
type SearchResult map[string]profile.Profile

type SearchHandler struct {
	finder  ProfileFinder
	results *cache.Cache[SearchResult]
	log     *slog.Logger
}

func NewSearchHandler(finder ProfileFinder, results *cache.Cache[SearchResult], log *slog.Logger) *SearchHandler {
	return &SearchHandler{
		finder:  finder,
		results: results,
		log:     log,
	}
}

// Search handles GET /search/:query. Every token is matched against both
// normalized name fields; results are merged by username.
func (h *SearchHandler) Search(ctx *gin.Context) {
	query := ctx.Param("query")

	if query == "" {
		RespondBadRequest(ctx, msgMissingQuery)
		return
	}

	tokens := search.Tokens(query)
	cacheKey := strings.Join(tokens, " ")

	if found, ok := h.results.Get(cacheKey); ok {
		ctx.JSON(http.StatusOK, gin.H{"success": true, "profiles": found})
		return
	}

	cctx, cancel := config.WithTimeoutFrom(ctx.Request.Context(), storeTimeout)
	defer cancel()

	found := make(SearchResult)

	for _, token := range tokens {
		for _, field := range profile.SearchFields {
			matches, err := h.finder.FindProfilesByNormalizedField(cctx, field, token)
			if err != nil {
				storeFailure(ctx, h.log, "profiles.find."+field, err)
				return
			}

			// later matches overwrite earlier ones
			for username, p := range matches {
				found[username] = p
			}
		}
	}

	h.results.Set(cacheKey, found)

	ctx.JSON(http.StatusOK, gin.H{"success": true, "profiles": found})
}
