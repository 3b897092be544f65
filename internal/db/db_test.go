package db

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tgienger/teamboard/internal/models"
)

var at = time.Date(2026, time.October, 19, 8, 0, 0, 0, time.UTC)

func openTest(t *testing.T) *DB {
	t.Helper()
	database, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })
	return database
}

func TestNewIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	first, err := New(path)
	require.NoError(t, err)
	_, err = first.CreateUser(context.Background(), "Ana", "designer", "", at)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := New(path)
	require.NoError(t, err)
	defer second.Close()

	count, err := second.UserCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSettings(t *testing.T) {
	database := openTest(t)
	ctx := context.Background()

	value, err := database.GetSetting(ctx, "last_user_id")
	require.NoError(t, err)
	assert.Empty(t, value)

	require.NoError(t, database.SetSetting(ctx, "last_user_id", "3"))
	require.NoError(t, database.SetSetting(ctx, "last_user_id", "4"))

	value, err = database.GetSetting(ctx, "last_user_id")
	require.NoError(t, err)
	assert.Equal(t, "4", value)
}

func TestIncrementCounter(t *testing.T) {
	database := openTest(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := database.IncrementCounter(ctx, "DES", 2026, 10)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	got, err := database.IncrementCounter(ctx, "DES", 2026, 11)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)

	got, err = database.IncrementCounter(ctx, "VID", 2026, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got)
}

func TestIncrementCounterConcurrent(t *testing.T) {
	database := openTest(t)
	ctx := context.Background()

	const n = 100
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[int64]bool{}
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := database.IncrementCounter(ctx, "TSK", 2026, 10)
			assert.NoError(t, err)
			mu.Lock()
			seen[v] = true
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for i := int64(1); i <= n; i++ {
		assert.True(t, seen[i])
	}
}

func TestWithTxRollsBack(t *testing.T) {
	database := openTest(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := database.WithTx(ctx, func(q *Queries) error {
		if _, err := q.CreateUser(ctx, "Ghost", "designer", "", at); err != nil {
			return err
		}
		if _, err := q.IncrementCounter(ctx, "DES", 2026, 10); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	count, err := database.UserCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	n, err := database.IncrementCounter(ctx, "DES", 2026, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUsers(t *testing.T) {
	database := openTest(t)
	ctx := context.Background()

	bea, err := database.CreateUser(ctx, "Bea", "designer", "#fff", at)
	require.NoError(t, err)
	_, err = database.CreateUser(ctx, "Al", "admin", "#000", at)
	require.NoError(t, err)

	got, err := database.GetUser(ctx, bea.ID)
	require.NoError(t, err)
	assert.Equal(t, "Bea", got.Name)
	assert.True(t, got.CreatedAt.Equal(at))

	users, err := database.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Al", users[0].Name)

	require.NoError(t, database.UpdateUserRole(ctx, bea.ID, "lead"))
	got, err = database.GetUser(ctx, bea.ID)
	require.NoError(t, err)
	assert.Equal(t, "lead", got.Role)

	_, err = database.GetUser(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, database.UpdateUserRole(ctx, 99, "x"), ErrNotFound)
}

func newTask(creator int64, title string) *models.Task {
	return &models.Task{
		Title:     title,
		Priority:  models.PriorityMedium,
		Category:  models.CategoryOther,
		Status:    models.StatusPending,
		CreatedBy: creator,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func TestTaskRoundTrip(t *testing.T) {
	database := openTest(t)
	ctx := context.Background()
	u, err := database.CreateUser(ctx, "Bea", "designer", "", at)
	require.NoError(t, err)

	code := "DES-202610-0001"
	due := models.Date{Year: 2026, Month: time.October, Day: 31}
	task := newTask(u.ID, "Poster")
	task.Code = &code
	task.Description = models.ChecklistDescription([]models.ChecklistItem{{Text: "sketch", Checked: true}, {Text: "ink"}})
	task.DueDate = &due
	task.AssignedTo = &u.ID

	id, err := database.InsertTask(ctx, task)
	require.NoError(t, err)

	got, err := database.GetTask(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, code, got.CodeString())
	assert.Equal(t, task.Description, got.Description)
	assert.Equal(t, due, *got.DueDate)
	assert.Nil(t, got.StartDate)
	assert.Equal(t, u.ID, *got.AssignedTo)
	assert.True(t, got.CreatedAt.Equal(at))

	dup := newTask(u.ID, "Copy")
	dup.Code = &code
	_, err = database.InsertTask(ctx, dup)
	assert.Error(t, err, "codes are unique")

	_, err = database.GetTask(ctx, id+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSchemaRejectsInvalidStates(t *testing.T) {
	database := openTest(t)
	ctx := context.Background()
	u, err := database.CreateUser(ctx, "Bea", "designer", "", at)
	require.NoError(t, err)

	approvedPending := newTask(u.ID, "Bad")
	approvedPending.AdminApproved = true
	_, err = database.InsertTask(ctx, approvedPending)
	assert.Error(t, err)

	id, err := database.InsertTask(ctx, newTask(u.ID, "Leaf"))
	require.NoError(t, err)
	nested := newTask(u.ID, "Nested container")
	nested.IsSuperTask = true
	nested.ParentTaskID = &id
	_, err = database.InsertTask(ctx, nested)
	assert.Error(t, err)

	bad := newTask(u.ID, "Bad priority")
	bad.Priority = "someday"
	_, err = database.InsertTask(ctx, bad)
	assert.Error(t, err)
}

func TestAssigneesAndChildren(t *testing.T) {
	database := openTest(t)
	ctx := context.Background()
	a, err := database.CreateUser(ctx, "Ana", "designer", "", at)
	require.NoError(t, err)
	b, err := database.CreateUser(ctx, "Ben", "writer", "", at)
	require.NoError(t, err)

	container := newTask(a.ID, "Group")
	container.IsSuperTask = true
	groupID, err := database.InsertTask(ctx, container)
	require.NoError(t, err)

	leafID, err := database.InsertTask(ctx, newTask(a.ID, "Leaf"))
	require.NoError(t, err)

	require.NoError(t, database.ReplaceAssignees(ctx, leafID, []int64{b.ID, a.ID}, at))
	users, err := database.ListAssignees(ctx, leafID)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, b.ID, users[0].ID, "primary first")

	require.NoError(t, database.ReplaceAssignees(ctx, leafID, []int64{a.ID}, at))
	n, err := database.AssigneeCount(ctx, leafID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, database.SetParent(ctx, leafID, &groupID, at))
	children, err := database.ListChildren(ctx, groupID)
	require.NoError(t, err)
	require.Len(t, children, 1)

	filtered, err := database.ListTasks(ctx, TaskFilter{AssigneeID: &a.ID})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, leafID, filtered[0].ID)

	top, err := database.ListTasks(ctx, TaskFilter{TopLevelOnly: true})
	require.NoError(t, err)
	require.Len(t, top, 1)
	assert.Equal(t, groupID, top[0].ID)

	orphaned, err := database.OrphanChildren(ctx, groupID, at)
	require.NoError(t, err)
	assert.Equal(t, int64(1), orphaned)

	require.NoError(t, database.DeleteTask(ctx, leafID))
	n, err = database.AssigneeCount(ctx, leafID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNotifications(t *testing.T) {
	database := openTest(t)
	ctx := context.Background()
	u, err := database.CreateUser(ctx, "Ana", "designer", "", at)
	require.NoError(t, err)
	other, err := database.CreateUser(ctx, "Ben", "writer", "", at)
	require.NoError(t, err)

	old := &models.Notification{UserID: u.ID, Type: "task_created", Title: "old", CreatedAt: at.AddDate(0, 0, -40)}
	fresh := &models.Notification{UserID: u.ID, Type: "task_assigned", Title: "fresh", CreatedAt: at}
	oldID, err := database.CreateNotification(ctx, old)
	require.NoError(t, err)
	_, err = database.CreateNotification(ctx, fresh)
	require.NoError(t, err)

	list, err := database.ListNotifications(ctx, u.ID, false, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "fresh", list[0].Title, "newest first")

	unread, err := database.UnreadCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	assert.ErrorIs(t, database.MarkNotificationRead(ctx, oldID, other.ID), ErrNotFound)
	require.NoError(t, database.MarkNotificationRead(ctx, oldID, u.ID))

	list, err = database.ListNotifications(ctx, u.ID, true, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "fresh", list[0].Title)

	purged, err := database.DeleteReadNotificationsBefore(ctx, at.AddDate(0, 0, -30))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	list, err = database.ListNotifications(ctx, u.ID, false, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
