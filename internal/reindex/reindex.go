// Package reindex rewrites stored profiles whose search keys no longer match
// their display names, for example after an edit made outside the API.
package reindex

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/geocoder89/userhub/internal/domain/profile"
)

type ProfileStore interface {
	ListProfiles(ctx context.Context) (map[string]profile.Profile, error)
	PutProfile(ctx context.Context, username string, p profile.Profile) error
}

type Result struct {
	Scanned   int
	Rewritten int
}

// Run scans every profile once. With dryRun set nothing is written.
func Run(ctx context.Context, s ProfileStore, log *slog.Logger, dryRun bool) (Result, error) {
	var res Result

	all, err := s.ListProfiles(ctx)
	if err != nil {
		return res, fmt.Errorf("list profiles: %w", err)
	}

	for username, p := range all {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		res.Scanned++

		fixed := p.Reindexed()
		if fixed == p {
			continue
		}

		log.InfoContext(ctx, "stale search keys",
			"username", username,
			"have", p.SearchOptimized,
			"want", fixed.SearchOptimized,
			"dry_run", dryRun,
		)

		if dryRun {
			res.Rewritten++
			continue
		}

		if err := s.PutProfile(ctx, username, fixed); err != nil {
			return res, fmt.Errorf("put profile %s: %w", username, err)
		}
		res.Rewritten++
	}

	return res, nil
}
