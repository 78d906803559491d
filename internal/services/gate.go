// Package services holds the business logic of focolare: authorization,
// calendar and budget operations, recurrence expansion, and statistics.
// Services orchestrate storage and messaging; they own no state themselves.
package services

import (
	"context"
	"fmt"

	"focolare/internal/core"
	"focolare/internal/storage"
)

// Gate answers the single authorization question of the system: may this
// user touch this group's data? Every service method runs through it before
// reading or writing group data.
type Gate struct {
	store storage.Store
}

func NewGate(store storage.Store) *Gate {
	return &Gate{store: store}
}

// VerifyAccess returns nil when userID holds an accepted membership in
// groupID. A missing group is ErrGroupNotFound; an existing group without
// an accepted membership is ErrAccessDenied. The two never collapse into
// each other.
func (g *Gate) VerifyAccess(ctx context.Context, groupID, userID string) error {
	if _, err := g.store.FindGroupByID(ctx, groupID); err != nil {
		return err
	}
	ok, err := g.store.ExistsAcceptedMembership(ctx, groupID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: user %s in group %s", core.ErrAccessDenied, userID, groupID)
	}
	return nil
}
