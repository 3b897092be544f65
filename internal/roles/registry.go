// Package roles maps free-form role names onto capabilities. Roles are plain
// strings; the registry only answers whether a role is an admin role and which
// code prefix tasks created by that role carry.
package roles

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"gopkg.in/yaml.v3"

	"github.com/tgienger/teamboard/internal/identity"
	"github.com/tgienger/teamboard/internal/models"
)

// File is the on-disk roles configuration
//
//	admin_roles: [admin, manager]
//	prefixes:
//	  designer: DES
//	  video editor: VID
type File struct {
	AdminRoles []string          `yaml:"admin_roles"`
	Prefixes   map[string]string `yaml:"prefixes"`
}

// UserLookup fetches a user by id
type UserLookup interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

// Registry answers capability questions about roles. It is safe for
// concurrent use; reloads swap the tables under a lock.
type Registry struct {
	mu       sync.RWMutex
	base     []string
	admin    map[string]bool
	prefixes map[string]string

	users  *cache.Cache
	logger *slog.Logger
}

// New creates a registry where adminRoles hold admin capability
func New(adminRoles []string, logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	r := &Registry{
		base:   adminRoles,
		users:  cache.New(time.Minute, 5*time.Minute),
		logger: logger.With("component", "roles"),
	}
	r.apply(File{})
	return r
}

func normalize(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}

func (r *Registry) apply(f File) {
	admin := make(map[string]bool, len(r.base)+len(f.AdminRoles))
	for _, role := range r.base {
		admin[normalize(role)] = true
	}
	for _, role := range f.AdminRoles {
		admin[normalize(role)] = true
	}

	prefixes := make(map[string]string, len(f.Prefixes))
	for role, prefix := range f.Prefixes {
		prefixes[normalize(role)] = identity.NormalizePrefix(prefix)
	}

	r.mu.Lock()
	r.admin = admin
	r.prefixes = prefixes
	r.mu.Unlock()
}

// LoadFile replaces the file-provided tables with the contents of path.
// Admin roles passed to New stay in effect.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read roles file: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse roles file: %w", err)
	}

	r.apply(f)
	r.logger.Info("roles loaded", "path", path, "admin_roles", len(f.AdminRoles), "prefixes", len(f.Prefixes))
	return nil
}

// IsAdmin reports whether role carries admin capability
func (r *Registry) IsAdmin(role string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.admin[normalize(role)]
}

// Prefix returns the code prefix for role: an explicit mapping, else the first
// three letters of the role upper-cased, else identity.DefaultPrefix
func (r *Registry) Prefix(role string) string {
	key := normalize(role)

	r.mu.RLock()
	prefix, ok := r.prefixes[key]
	r.mu.RUnlock()
	if ok {
		return prefix
	}

	var letters []rune
	for _, ch := range key {
		if ch >= 'a' && ch <= 'z' {
			letters = append(letters, ch)
			if len(letters) == 3 {
				break
			}
		}
	}
	if len(letters) == 0 {
		return identity.DefaultPrefix
	}
	return strings.ToUpper(string(letters))
}

// User resolves a user through a short-lived cache. Callers that change a
// user's role must call Forget.
func (r *Registry) User(ctx context.Context, users UserLookup, id int64) (*models.User, error) {
	key := strconv.FormatInt(id, 10)
	if cached, found := r.users.Get(key); found {
		u := cached.(models.User)
		return &u, nil
	}

	u, err := users.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	r.users.Set(key, *u, cache.DefaultExpiration)
	return u, nil
}

// Forget drops a cached user
func (r *Registry) Forget(id int64) {
	r.users.Delete(strconv.FormatInt(id, 10))
}
