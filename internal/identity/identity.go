// Package identity allocates human-readable task codes such as DES-202610-0007.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultPrefix is used when a role yields no usable prefix
const DefaultPrefix = "TSK"

// Counter is an atomic per-key counter. Increment must bump and read in one
// step; a read followed by a separate write races under concurrent callers.
type Counter interface {
	IncrementCounter(ctx context.Context, prefix string, year, month int) (int64, error)
}

// Format renders a code from its parts. The counter is padded to four digits
// and widens past 9999.
func Format(prefix string, year int, month time.Month, n int64) string {
	return fmt.Sprintf("%s-%04d%02d-%04d", prefix, year, int(month), n)
}

// NormalizePrefix upper-cases a prefix and strips anything that is not a
// letter or digit. It returns DefaultPrefix when nothing is left.
func NormalizePrefix(prefix string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(prefix) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return DefaultPrefix
	}
	return b.String()
}

// Allocator hands out codes for a fixed time zone. Year and month come from
// the allocation time as seen in that zone.
type Allocator struct {
	loc *time.Location
}

// NewAllocator creates an allocator for loc (UTC when nil)
func NewAllocator(loc *time.Location) *Allocator {
	if loc == nil {
		loc = time.UTC
	}
	return &Allocator{loc: loc}
}

// Allocate increments the counter for (prefix, year, month) of at and returns
// the formatted code. Pass the transaction-scoped counter so the code and the
// row that carries it commit or roll back together.
func (a *Allocator) Allocate(ctx context.Context, c Counter, prefix string, at time.Time) (string, error) {
	if c == nil {
		return "", errors.New("identity: no counter")
	}

	prefix = NormalizePrefix(prefix)
	local := at.In(a.loc)

	n, err := c.IncrementCounter(ctx, prefix, local.Year(), int(local.Month()))
	if err != nil {
		return "", fmt.Errorf("allocate %s code: %w", prefix, err)
	}
	if n <= 0 {
		return "", fmt.Errorf("allocate %s code: counter returned %d", prefix, n)
	}

	return Format(prefix, local.Year(), local.Month(), n), nil
}
