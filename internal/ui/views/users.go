package views

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/teamboard/internal/models"
	"github.com/tgienger/teamboard/internal/tasks"
	"github.com/tgienger/teamboard/internal/ui/keys"
	"github.com/tgienger/teamboard/internal/ui/styles"
)

type userItem struct {
	user models.User
}

func (i userItem) Title() string       { return i.user.Name }
func (i userItem) Description() string { return i.user.Role }
func (i userItem) FilterValue() string { return i.user.Name }

type userDelegate struct {
	styles *styles.Styles
	width  int
}

func (d userDelegate) Height() int                               { return 2 }
func (d userDelegate) Spacing() int                              { return 1 }
func (d userDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d userDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	u, ok := item.(userItem)
	if !ok {
		return
	}

	selected := index == m.Index()
	width := max(d.width-4, 20)

	var titleStyle, descStyle lipgloss.Style
	if selected {
		titleStyle = d.styles.ListSelected.Width(width)
		descStyle = d.styles.ListSelected.Foreground(styles.Current.ForegroundDim).Width(width)
	} else {
		titleStyle = d.styles.ListItem.Width(width)
		descStyle = d.styles.ListItem.Foreground(styles.Current.ForegroundDim).Width(width)
	}

	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(u.user.AvatarColor)).Render("●")
	fmt.Fprintf(w, "%s\n%s", titleStyle.Render(dot+" "+u.Title()), descStyle.Render(u.Description()))
}

// UserListView picks the user the board acts as
type UserListView struct {
	engine   *tasks.Engine
	list     list.Model
	delegate *userDelegate
	styles   *styles.Styles
	keys     keys.KeyMap
	width    int
	height   int
	loaded   bool
	err      string

	creating bool
	newName  textinput.Model
	newRole  textinput.Model
	focusIdx int // 0=name, 1=role, 2=confirm

	showHelpPopup bool
}

// NewUserListView creates the user picker
func NewUserListView(engine *tasks.Engine) *UserListView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Name"
	newName.CharLimit = 100
	newName.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Current.Cursor)

	newRole := textinput.New()
	newRole.Placeholder = "Role (e.g. designer, admin)"
	newRole.CharLimit = 50
	newRole.Cursor.Style = newName.Cursor.Style

	delegate := &userDelegate{styles: s, width: 80}

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Who are you?"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = s.Title
	l.SetShowHelp(false)

	return &UserListView{
		engine:   engine,
		list:     l,
		delegate: delegate,
		styles:   s,
		keys:     keys.DefaultKeyMap(),
		newName:  newName,
		newRole:  newRole,
	}
}

// SelectedUser is sent when a user is picked or created
type SelectedUser struct {
	User models.User
}

type usersLoadedMsg struct {
	users []models.User
}

func (v *UserListView) Init() tea.Cmd {
	return v.loadUsers
}

func (v *UserListView) loadUsers() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	users, err := v.engine.ListUsers(ctx)
	if err != nil {
		return errMsg{err}
	}
	return usersLoadedMsg{users: users}
}

func (v *UserListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		contentWidth := styles.ContentWidth(msg.Width)
		v.delegate.width = contentWidth
		v.list.SetSize(contentWidth-4, msg.Height-6)
		return v, nil

	case usersLoadedMsg:
		items := make([]list.Item, len(msg.users))
		for i, u := range msg.users {
			items[i] = userItem{user: u}
		}
		v.list.SetItems(items)
		v.loaded = true
		return v, nil

	case errMsg:
		v.err = msg.Error()
		v.loaded = true
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		// Let the list own keys while its filter is being typed
		if v.list.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, v.keys.Quit):
			return v, tea.Quit
		case key.Matches(msg, v.keys.New):
			v.startCreate()
			return v, textinput.Blink
		case key.Matches(msg, v.keys.Help):
			v.showHelpPopup = true
			return v, nil
		case key.Matches(msg, v.keys.Enter):
			if item, ok := v.list.SelectedItem().(userItem); ok {
				return v, func() tea.Msg {
					return SelectedUser{User: item.user}
				}
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

func (v *UserListView) startCreate() {
	v.creating = true
	v.err = ""
	v.focusIdx = 0
	v.newName.Reset()
	v.newRole.Reset()
	v.updateFocus()
}

func (v *UserListView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		return v, nil

	case msg.String() == "ctrl+s":
		return v, v.createUser()

	case msg.String() == "shift+tab":
		v.focusIdx = (v.focusIdx + 2) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Tab):
		v.focusIdx = (v.focusIdx + 1) % 3
		v.updateFocus()
		return v, nil

	case key.Matches(msg, v.keys.Enter):
		if v.focusIdx < 2 {
			v.focusIdx++
			v.updateFocus()
			return v, nil
		}
		return v, v.createUser()
	}

	var cmd tea.Cmd
	switch v.focusIdx {
	case 0:
		v.newName, cmd = v.newName.Update(msg)
	case 1:
		v.newRole, cmd = v.newRole.Update(msg)
	}
	return v, cmd
}

func (v *UserListView) createUser() tea.Cmd {
	name := strings.TrimSpace(v.newName.Value())
	role := strings.TrimSpace(v.newRole.Value())
	if name == "" || role == "" {
		v.err = "name and role are required"
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	user, err := v.engine.CreateUser(ctx, name, role, "")
	if err != nil {
		v.err = err.Error()
		return nil
	}
	v.creating = false
	return func() tea.Msg {
		return SelectedUser{User: *user}
	}
}

func (v *UserListView) updateFocus() {
	v.newName.Blur()
	v.newRole.Blur()
	switch v.focusIdx {
	case 0:
		v.newName.Focus()
	case 1:
		v.newRole.Focus()
	}
}

// View renders the view
func (v *UserListView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.creating {
		return v.renderCreateForm()
	}

	if !v.loaded {
		return v.styles.TitleMuted.Render("Loading...")
	}

	if len(v.list.Items()) == 0 {
		return v.renderEmpty()
	}

	content := v.list.View() + "\n" + v.renderHelp()
	if v.err != "" {
		content += "\n" + v.styles.Error.Render(v.err)
	}
	return styles.CenterView(content, v.width, v.height)
}

func (v *UserListView) renderEmpty() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Render("No Team Members"),
		"",
		s.TitleMuted.Render("Press 'n' to add the first one"),
		"",
		s.ButtonPrimary.Render(" New User "),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *UserListView) renderCreateForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	nameStyle := s.Input
	roleStyle := s.Input
	btnStyle := s.Button

	switch v.focusIdx {
	case 0:
		nameStyle = s.InputFocused
	case 1:
		roleStyle = s.InputFocused
	case 2:
		btnStyle = s.ButtonFocused
	}

	inputWidth := clamp(contentWidth-6, 20, 50)

	rows := []string{
		s.Title.Render("New User"),
		"",
		"Name:",
		nameStyle.Width(inputWidth).Render(v.newName.View()),
		"",
		"Role:",
		roleStyle.Width(inputWidth).Render(v.newRole.View()),
		"",
		btnStyle.Render(" Create "),
		"",
		s.TitleMuted.Render("Tab: next • Ctrl+S: save • Esc: cancel"),
	}
	if v.err != "" {
		rows = append(rows, "", s.Error.Render(v.err))
	}

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
	return styles.CenterView(centered, v.width, v.height)
}

func (v *UserListView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s select • %s new • %s filter • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("/"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *UserListView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	helpItems := []string{
		s.HelpKey.Render("↵") + "      " + s.HelpDesc.Render("act as user"),
		s.HelpKey.Render("n") + "      " + s.HelpDesc.Render("new user"),
		s.HelpKey.Render("/") + "      " + s.HelpDesc.Render("filter"),
		s.HelpKey.Render("q") + "      " + s.HelpDesc.Render("quit"),
		"",
		s.TitleMuted.Render("Press any key to close"),
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		append([]string{s.Title.Render("Keyboard Shortcuts"), ""}, helpItems...)...,
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		s.FilterBar.Render(content),
	)
	return styles.CenterView(centered, v.width, v.height)
}
