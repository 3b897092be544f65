package notify

import (
	"context"
	"errors"

	"github.com/tgienger/teamboard/internal/tasks"
)

// Fanout delivers every batch to each emitter in order. A failing emitter does
// not stop the ones after it.
type Fanout []tasks.Emitter

func (f Fanout) Emit(ctx context.Context, events []tasks.Event) error {
	var errs []error
	for _, e := range f {
		if e == nil {
			continue
		}
		if err := e.Emit(ctx, events); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
