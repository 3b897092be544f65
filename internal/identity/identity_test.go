package identity

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memCounter struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (m *memCounter) IncrementCounter(_ context.Context, prefix string, year, month int) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.counts == nil {
		m.counts = map[string]int64{}
	}
	key := Format(prefix, year, time.Month(month), 0)
	m.counts[key]++
	return m.counts[key], nil
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "DES-202610-0007", Format("DES", 2026, time.October, 7))
	assert.Equal(t, "VID-202601-12345", Format("VID", 2026, time.January, 12345))
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "DES", NormalizePrefix("des"))
	assert.Equal(t, "QA1", NormalizePrefix("q-a 1"))
	assert.Equal(t, DefaultPrefix, NormalizePrefix(""))
	assert.Equal(t, DefaultPrefix, NormalizePrefix("--"))
}

func TestAllocateCountsPerKey(t *testing.T) {
	ctx := context.Background()
	a := NewAllocator(time.UTC)
	c := &memCounter{}
	oct := time.Date(2026, time.October, 19, 12, 0, 0, 0, time.UTC)

	code, err := a.Allocate(ctx, c, "des", oct)
	require.NoError(t, err)
	assert.Equal(t, "DES-202610-0001", code)

	code, err = a.Allocate(ctx, c, "DES", oct)
	require.NoError(t, err)
	assert.Equal(t, "DES-202610-0002", code)

	code, err = a.Allocate(ctx, c, "VID", oct)
	require.NoError(t, err)
	assert.Equal(t, "VID-202610-0001", code)

	code, err = a.Allocate(ctx, c, "DES", oct.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Equal(t, "DES-202611-0001", code)
}

func TestAllocateUsesZone(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*3600)
	a := NewAllocator(loc)

	// 20:00 UTC on the last day of October is already November in UTC+7
	at := time.Date(2026, time.October, 31, 20, 0, 0, 0, time.UTC)
	code, err := a.Allocate(context.Background(), &memCounter{}, "DES", at)
	require.NoError(t, err)
	assert.Equal(t, "DES-202611-0001", code)
}

func TestAllocateFailsWithoutCode(t *testing.T) {
	a := NewAllocator(nil)
	code, err := a.Allocate(context.Background(), &memCounter{err: errors.New("disk full")}, "DES", time.Now())
	assert.Error(t, err)
	assert.Empty(t, code)

	code, err = a.Allocate(context.Background(), nil, "DES", time.Now())
	assert.Error(t, err)
	assert.Empty(t, code)
}
