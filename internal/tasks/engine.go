// Package tasks is the orchestration core: task lifecycle, assignment sets,
// super task grouping and status rollup. Every command runs in one database
// transaction and returns a snapshot of the affected task.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/identity"
	"github.com/tgienger/teamboard/internal/logging"
	"github.com/tgienger/teamboard/internal/models"
)

// Roles answers capability questions about free-form role names
type Roles interface {
	IsAdmin(role string) bool
	Prefix(role string) string
}

// Options configures an Engine. Zero values fall back to sane defaults.
type Options struct {
	Roles     Roles
	Emitter   Emitter
	Logger    *slog.Logger
	Location  *time.Location // zone for calendar dates and code year/month
	Metrics   *Metrics
	Now       func() time.Time
	Allocator *identity.Allocator
}

// Engine runs task commands against the store
type Engine struct {
	db        *db.DB
	roles     Roles
	allocator *identity.Allocator
	emitter   Emitter
	logger    *slog.Logger
	loc       *time.Location
	metrics   *Metrics
	now       func() time.Time
}

type adminOnly []string

func (a adminOnly) IsAdmin(role string) bool {
	for _, r := range a {
		if r == role {
			return true
		}
	}
	return false
}

func (adminOnly) Prefix(string) string { return identity.DefaultPrefix }

// NewEngine creates an engine over store
func NewEngine(store *db.DB, opts Options) *Engine {
	e := &Engine{
		db:        store,
		roles:     opts.Roles,
		allocator: opts.Allocator,
		emitter:   opts.Emitter,
		logger:    opts.Logger,
		loc:       opts.Location,
		metrics:   opts.Metrics,
		now:       opts.Now,
	}
	if e.roles == nil {
		e.roles = adminOnly{"admin"}
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.allocator == nil {
		e.allocator = identity.NewAllocator(e.loc)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	e.logger = e.logger.With("component", "tasks")
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Location returns the zone used for calendar dates
func (e *Engine) Location() *time.Location { return e.loc }

// IsAdmin reports whether role holds admin capability
func (e *Engine) IsAdmin(role string) bool { return e.roles.IsAdmin(role) }

// run executes fn in a transaction, emits the buffered events after commit and
// records metrics. Errors come back classified.
func (e *Engine) run(ctx context.Context, command string, actorID int64, fn func(q *db.Queries, buf *eventBuffer) error) error {
	start := time.Now()
	buf := &eventBuffer{actorID: actorID, at: e.now().UTC()}

	err := classify(e.db.WithTx(ctx, func(q *db.Queries) error {
		return fn(q, buf)
	}))

	if e.metrics != nil {
		outcome := "ok"
		if err != nil {
			outcome = string(KindOf(err))
		}
		e.metrics.Commands.WithLabelValues(command, outcome).Inc()
		e.metrics.CommandDuration.WithLabelValues(command).Observe(time.Since(start).Seconds())
	}

	if err != nil {
		logging.WithActor(e.logger, actorID).Debug("command failed", "command", command, "kind", KindOf(err), "error", err)
		return err
	}

	e.emit(ctx, command, buf.events)
	return nil
}

func (e *Engine) emit(ctx context.Context, command string, events []Event) {
	if e.emitter == nil || len(events) == 0 {
		return
	}
	if err := e.emitter.Emit(ctx, events); err != nil {
		if e.metrics != nil {
			e.metrics.EmitFailures.Inc()
		}
		logging.WithTask(e.logger, events[0].Task.ID).Warn("failed to emit events", "command", command, "events", len(events), "error", err)
	}
}

// timestamp is the engine clock truncated the way storage keeps it
func (e *Engine) timestamp() time.Time {
	return e.now().UTC().Truncate(time.Second)
}

func (e *Engine) getUser(ctx context.Context, q *db.Queries, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, validation("user_required", "acting user is required")
	}
	u, err := q.GetUser(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return u, nil
}

func (e *Engine) getTask(ctx context.Context, q *db.Queries, id int64) (*models.Task, error) {
	t, err := q.GetTask(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	return t, nil
}

// adminIDs lists every user whose role holds admin capability
func (e *Engine) adminIDs(ctx context.Context, q *db.Queries) ([]int64, error) {
	users, err := q.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	var ids []int64
	for _, u := range users {
		if e.roles.IsAdmin(u.Role) {
			ids = append(ids, u.ID)
		}
	}
	return ids, nil
}

// allocateCode takes the next identity code for creator's role inside q's transaction
func (e *Engine) allocateCode(ctx context.Context, q *db.Queries, creator *models.User, at time.Time) (*string, error) {
	code, err := e.allocator.Allocate(ctx, q, e.roles.Prefix(creator.Role), at)
	if err != nil {
		return nil, &Error{Kind: KindConflict, Code: "identity", Message: fmt.Sprintf("could not allocate a task code for %q", creator.Role), Err: err}
	}
	return &code, nil
}
