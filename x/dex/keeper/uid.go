package keeper

import (
	"context"
)

// GetNextOrderUID returns the next uid without consuming it.
func (k Keeper) GetNextOrderUID(ctx context.Context) uint64 {
	bz := k.getStore(ctx).Get(NextOrderUIDKey)
	if bz == nil {
		return 1
	}
	return uidFromBytes(bz)
}

// SetNextOrderUID stores the uid counter.
func (k Keeper) SetNextOrderUID(ctx context.Context, uid uint64) {
	k.getStore(ctx).Set(NextOrderUIDKey, uidBytes(uid))
}

// nextOrderUID consumes and returns a uid. Exchange and OTC orders share the
// sequence so a uid names at most one order of either kind.
func (k Keeper) nextOrderUID(ctx context.Context) uint64 {
	uid := k.GetNextOrderUID(ctx)
	k.SetNextOrderUID(ctx, uid+1)
	return uid
}
