package core

import "context"

// IStateStore snapshot persistence for engine state. The engine owns the
// live state; the store only loads it at boot and flushes it afterwards.
type IStateStore interface {
	Save(ctx context.Context, state *State) error
	Load(ctx context.Context) (*State, error)
}
