package roles

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/teamboard/internal/models"
)

func TestIsAdmin(t *testing.T) {
	r := New([]string{"admin", " Manager "}, nil)

	assert.True(t, r.IsAdmin("admin"))
	assert.True(t, r.IsAdmin("ADMIN"))
	assert.True(t, r.IsAdmin("manager"))
	assert.False(t, r.IsAdmin("designer"))
	assert.False(t, r.IsAdmin(""))
}

func TestPrefix(t *testing.T) {
	r := New(nil, nil)

	assert.Equal(t, "DES", r.Prefix("designer"))
	assert.Equal(t, "VID", r.Prefix("Video Editor"))
	assert.Equal(t, "QA", r.Prefix("qa"))
	assert.Equal(t, "TSK", r.Prefix("42"))
	assert.Equal(t, "TSK", r.Prefix(""))
}

func writeRoles(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	writeRoles(t, path, `
admin_roles: [lead]
prefixes:
  video editor: vx
  copywriter: CPY
`)

	r := New([]string{"admin"}, nil)
	require.NoError(t, r.LoadFile(path))

	assert.True(t, r.IsAdmin("admin"), "base admin roles survive a load")
	assert.True(t, r.IsAdmin("Lead"))
	assert.Equal(t, "VX", r.Prefix("Video Editor"))
	assert.Equal(t, "CPY", r.Prefix("copywriter"))
	assert.Equal(t, "DES", r.Prefix("designer"))
}

func TestLoadFileErrors(t *testing.T) {
	r := New(nil, nil)
	assert.Error(t, r.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))

	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeRoles(t, path, "admin_roles: {not: [a list")
	assert.Error(t, r.LoadFile(path))
}

func TestWatchReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roles.yaml")
	writeRoles(t, path, "admin_roles: []\n")

	r := New(nil, nil)
	require.NoError(t, r.LoadFile(path))
	assert.False(t, r.IsAdmin("lead"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, r.Watch(ctx, path))

	writeRoles(t, path, "admin_roles: [lead]\n")

	assert.Eventually(t, func() bool { return r.IsAdmin("lead") }, 5*time.Second, 50*time.Millisecond)
}

type countingUsers struct {
	calls int
	user  models.User
}

func (c *countingUsers) GetUser(_ context.Context, id int64) (*models.User, error) {
	c.calls++
	u := c.user
	u.ID = id
	return &u, nil
}

func TestUserCache(t *testing.T) {
	r := New(nil, nil)
	users := &countingUsers{user: models.User{Name: "Ana", Role: "designer"}}
	ctx := context.Background()

	u, err := r.User(ctx, users, 7)
	require.NoError(t, err)
	assert.Equal(t, "designer", u.Role)

	_, err = r.User(ctx, users, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, users.calls)

	r.Forget(7)
	users.user.Role = "admin"
	u, err = r.User(ctx, users, 7)
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, 2, users.calls)
}
