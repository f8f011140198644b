package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/vidtube-backend/internal/store"
	"github.com/google/uuid"
)

// OwnerSummary is the public slice of a user inlined next to the videos,
// tweets and playlists they own.
type OwnerSummary struct {
	ID       uuid.UUID
	FullName string
	Username string
	Avatar   string
}

// loadOwners batch-fetches the public fields of ids. Unknown ids are absent
// from the result.
func loadOwners(ctx context.Context, users *store.UserStore, ids []uuid.UUID) (map[uuid.UUID]OwnerSummary, error) {
	out := make(map[uuid.UUID]OwnerSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	owners, err := users.ListByIDs(ctx, ids)
	if err != nil {
		return nil, internal("load owners", err)
	}
	for _, o := range owners {
		out[o.ID] = OwnerSummary{ID: o.ID, FullName: o.FullName, Username: o.Username, Avatar: o.Avatar}
	}
	return out, nil
}

// distinct returns ids without repeats, keeping first-seen order.
func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
