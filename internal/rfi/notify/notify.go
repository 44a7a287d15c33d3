// Package notify hands successful workflow events to the downstream
// notification dispatcher. Emission is fire-and-forget: a slow or failing
// dispatcher must never fail or block the workflow call that triggered it.
package notify

import (
	"context"

	"github.com/buildvane/rfihub/internal/rfi/domain"
)

// Emitter accepts an event and returns immediately. Implementations must
// not surface delivery failures to the caller.
type Emitter interface {
	Emit(ctx context.Context, event domain.NotificationEvent)
}

// EmitterFunc adapts a function to the Emitter interface, mainly for tests.
type EmitterFunc func(ctx context.Context, event domain.NotificationEvent)

func (f EmitterFunc) Emit(ctx context.Context, event domain.NotificationEvent) {
	f(ctx, event)
}
