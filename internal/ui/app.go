package ui

import (
	"context"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
	"github.com/tgienger/teamboard/internal/tasks"
	"github.com/tgienger/teamboard/internal/ui/views"
)

const lastUserSetting = "last_user_id"

// Currently active view
type View int

const (
	ViewUsers View = iota
	ViewBoard
)

type App struct {
	db           *db.DB
	engine       *tasks.Engine
	pollInterval time.Duration
	userID       int64 // forced by --user; 0 means pick or reuse the last one
	currentView  View
	userList     *views.UserListView
	board        *views.BoardView
	width        int
	height       int
}

// NewApp creates the board application. A non-zero userID skips the picker.
func NewApp(database *db.DB, engine *tasks.Engine, pollInterval time.Duration, userID int64) *App {
	return &App{
		db:           database,
		engine:       engine,
		pollInterval: pollInterval,
		userID:       userID,
		currentView:  ViewUsers,
		userList:     views.NewUserListView(engine),
	}
}

func (a *App) Init() tea.Cmd {
	ctx := context.Background()

	id := a.userID
	if id == 0 {
		if last, err := a.db.GetSetting(ctx, lastUserSetting); err == nil && last != "" {
			id, _ = strconv.ParseInt(last, 10, 64)
		}
	}
	if id != 0 {
		if user, err := a.engine.GetUser(ctx, id); err == nil {
			return a.openBoard(*user)
		}
	}

	return a.userList.Init()
}

func (a *App) openBoard(user models.User) tea.Cmd {
	a.currentView = ViewBoard
	a.board = views.NewBoardView(a.engine, user, a.pollInterval)

	a.db.SetSetting(context.Background(), lastUserSetting, strconv.FormatInt(user.ID, 10))

	return tea.Batch(
		a.board.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.userList.Update(msg)

	case views.SelectedUser:
		return a, a.openBoard(msg.User)

	case views.BackToUsers:
		a.currentView = ViewUsers
		a.board = nil
		a.db.SetSetting(context.Background(), lastUserSetting, "")
		return a, tea.Batch(
			a.userList.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.currentView {
	case ViewUsers:
		_, cmd = a.userList.Update(msg)
	case ViewBoard:
		_, cmd = a.board.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	if a.currentView == ViewBoard && a.board != nil {
		return a.board.View()
	}
	return a.userList.View()
}
