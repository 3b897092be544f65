package views

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tgienger/teamboard/internal/db"
	"github.com/tgienger/teamboard/internal/models"
	"github.com/tgienger/teamboard/internal/tasks"
	"github.com/tgienger/teamboard/internal/ui/keys"
	"github.com/tgienger/teamboard/internal/ui/styles"
)

const requestTimeout = 10 * time.Second

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// nextStatus is the order the status key cycles through
func nextStatus(s models.Status) models.Status {
	switch s {
	case models.StatusPending:
		return models.StatusInProgress
	case models.StatusInProgress:
		return models.StatusCompleted
	}
	return models.StatusPending
}

type errMsg struct{ error }

// pollMsg fires every poll interval
type pollMsg time.Time

type boardLoadedMsg struct {
	views []models.TaskView
	at    time.Time
}

type detailLoadedMsg struct {
	view *models.TaskView
}

type actionDoneMsg struct {
	err error
}

// BackToUsers signals to go back to the user picker
type BackToUsers struct{}

// boardRow is one line of the board: a top-level task or a member of a
// super task listed under it
type boardRow struct {
	task      models.Task
	assignees []models.User
	progress  *models.Progress
	child     bool
}

func flatten(views []models.TaskView) []boardRow {
	var rows []boardRow
	for _, tv := range views {
		rows = append(rows, boardRow{task: tv.Task, assignees: tv.Assignees, progress: tv.Progress})
		for _, c := range tv.Children {
			rows = append(rows, boardRow{task: c, child: true})
		}
	}
	return rows
}

// BoardView shows every top-level task, with super tasks expanded, and
// refreshes itself on a timer
type BoardView struct {
	engine       *tasks.Engine
	actor        models.User
	pollInterval time.Duration
	styles       *styles.Styles
	keys         keys.KeyMap

	width  int
	height int

	rows     []boardRow
	loaded   bool
	polledAt time.Time
	cursor   int
	scrollY  int
	marked   map[int64]bool
	err      string

	// New task / new group title entry
	creating      bool
	creatingGroup bool
	titleInput    textinput.Model

	viewing    bool
	detail     *models.TaskView
	detailLoad bool

	confirmingDelete bool
	deleteTargetID   int64
	deleteTargetName string

	showHelpPopup bool
}

// NewBoardView creates the board for actor
func NewBoardView(engine *tasks.Engine, actor models.User, pollInterval time.Duration) *BoardView {
	title := textinput.New()
	title.CharLimit = 200
	title.Cursor.Style = lipgloss.NewStyle().Foreground(styles.Current.Cursor)

	return &BoardView{
		engine:       engine,
		actor:        actor,
		pollInterval: pollInterval,
		styles:       styles.NewStyles(),
		keys:         keys.DefaultKeyMap(),
		marked:       make(map[int64]bool),
		titleInput:   title,
	}
}

// Init loads the board and starts polling
func (v *BoardView) Init() tea.Cmd {
	return tea.Batch(v.loadBoard, v.tick())
}

func (v *BoardView) tick() tea.Cmd {
	return tea.Tick(v.pollInterval, func(t time.Time) tea.Msg {
		return pollMsg(t)
	})
}

func (v *BoardView) loadBoard() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	views, err := v.engine.ListTasks(ctx, db.TaskFilter{TopLevelOnly: true})
	if err != nil {
		return errMsg{err}
	}
	return boardLoadedMsg{views: views, at: time.Now()}
}

func (v *BoardView) loadDetail(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		view, err := v.engine.GetTask(ctx, id)
		if err != nil {
			return errMsg{err}
		}
		return detailLoadedMsg{view: view}
	}
}

// do runs a command against the engine off the update loop
func (v *BoardView) do(op func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return actionDoneMsg{err: op(ctx)}
	}
}

func (v *BoardView) selected() (boardRow, bool) {
	if len(v.rows) == 0 || v.cursor >= len(v.rows) {
		return boardRow{}, false
	}
	return v.rows[v.cursor], true
}

// Update handles messages
func (v *BoardView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case pollMsg:
		cmds := []tea.Cmd{v.loadBoard, v.tick()}
		if v.viewing && v.detail != nil {
			cmds = append(cmds, v.loadDetail(v.detail.ID))
		}
		return v, tea.Batch(cmds...)

	case boardLoadedMsg:
		v.rows = flatten(msg.views)
		v.polledAt = msg.at
		v.loaded = true
		if v.cursor >= len(v.rows) {
			v.cursor = max(0, len(v.rows)-1)
		}
		v.pruneMarks()
		return v, nil

	case detailLoadedMsg:
		v.detail = msg.view
		v.detailLoad = false
		return v, nil

	case actionDoneMsg:
		if msg.err != nil {
			v.err = msg.err.Error()
		} else {
			v.err = ""
		}
		cmds := []tea.Cmd{v.loadBoard}
		if v.viewing && v.detail != nil {
			cmds = append(cmds, v.loadDetail(v.detail.ID))
		}
		return v, tea.Batch(cmds...)

	case errMsg:
		v.err = msg.Error()
		v.loaded = true
		// A deleted task can disappear from under the detail view
		if v.viewing && tasks.KindOf(msg.error) == tasks.KindNotFound {
			v.viewing = false
			v.detail = nil
		}
		return v, nil

	case tea.KeyMsg:
		if v.showHelpPopup {
			v.showHelpPopup = false
			return v, nil
		}

		if v.confirmingDelete {
			return v.updateConfirmDelete(msg)
		}

		if v.creating {
			return v.updateCreating(msg)
		}

		if v.viewing {
			return v.updateViewing(msg)
		}

		return v.updateNormal(msg)
	}

	return v, nil
}

// pruneMarks drops marks for tasks that are gone or now grouped
func (v *BoardView) pruneMarks() {
	present := make(map[int64]bool, len(v.rows))
	for _, r := range v.rows {
		if !r.child {
			present[r.task.ID] = true
		}
	}
	for id := range v.marked {
		if !present[id] {
			delete(v.marked, id)
		}
	}
}

func (v *BoardView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Back):
		if len(v.marked) > 0 {
			v.marked = make(map[int64]bool)
			return v, nil
		}
		return v, func() tea.Msg { return BackToUsers{} }

	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.rows)-1 {
			v.cursor++
			v.ensureVisible()
		}
		return v, nil

	case key.Matches(msg, v.keys.Help):
		v.showHelpPopup = true
		return v, nil

	case key.Matches(msg, v.keys.Refresh):
		return v, v.loadBoard

	case key.Matches(msg, v.keys.New):
		v.startTitleEntry(false)
		return v, textinput.Blink

	case key.Matches(msg, v.keys.Group):
		if len(v.marked) < 2 {
			v.err = "mark at least two tasks with space to group them"
			return v, nil
		}
		v.startTitleEntry(true)
		return v, textinput.Blink
	}

	row, ok := v.selected()
	if !ok {
		return v, nil
	}
	id := row.task.ID

	switch {
	case key.Matches(msg, v.keys.Enter):
		v.viewing = true
		v.detail = nil
		v.detailLoad = true
		return v, v.loadDetail(id)

	case key.Matches(msg, v.keys.CycleStatus):
		status := nextStatus(row.task.Status)
		return v, v.do(func(ctx context.Context) error {
			_, err := v.engine.ChangeStatus(ctx, id, status, v.actor.ID, false)
			return err
		})

	case key.Matches(msg, v.keys.Complete):
		return v, v.do(func(ctx context.Context) error {
			_, err := v.engine.ChangeStatus(ctx, id, models.StatusCompleted, v.actor.ID, false)
			return err
		})

	case key.Matches(msg, v.keys.Approve):
		return v, v.do(func(ctx context.Context) error {
			_, err := v.engine.Approve(ctx, id, v.actor.ID)
			return err
		})

	case key.Matches(msg, v.keys.Mark):
		if row.child {
			v.err = "task already belongs to a super task"
			return v, nil
		}
		if v.marked[id] {
			delete(v.marked, id)
		} else {
			v.marked[id] = true
		}
		return v, nil

	case key.Matches(msg, v.keys.Ungroup):
		if !row.child {
			v.err = "select a task inside a super task to ungroup it"
			return v, nil
		}
		return v, v.do(func(ctx context.Context) error {
			return v.engine.RemoveMember(ctx, id)
		})

	case key.Matches(msg, v.keys.Delete):
		v.confirmingDelete = true
		v.deleteTargetID = id
		v.deleteTargetName = row.task.Title
		return v, nil
	}

	return v, nil
}

func (v *BoardView) updateViewing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit
	case key.Matches(msg, v.keys.Back), key.Matches(msg, v.keys.Enter):
		v.viewing = false
		v.detail = nil
		return v, nil
	}

	if v.detail == nil {
		return v, nil
	}
	id := v.detail.ID

	switch {
	case key.Matches(msg, v.keys.CycleStatus):
		status := nextStatus(v.detail.Status)
		return v, v.do(func(ctx context.Context) error {
			_, err := v.engine.ChangeStatus(ctx, id, status, v.actor.ID, false)
			return err
		})
	case key.Matches(msg, v.keys.Complete):
		return v, v.do(func(ctx context.Context) error {
			_, err := v.engine.ChangeStatus(ctx, id, models.StatusCompleted, v.actor.ID, false)
			return err
		})
	case key.Matches(msg, v.keys.Approve):
		return v, v.do(func(ctx context.Context) error {
			_, err := v.engine.Approve(ctx, id, v.actor.ID)
			return err
		})
	case key.Matches(msg, v.keys.Delete):
		v.confirmingDelete = true
		v.deleteTargetID = id
		v.deleteTargetName = v.detail.Title
		return v, nil
	}
	return v, nil
}

func (v *BoardView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := v.deleteTargetID
		v.confirmingDelete = false
		if v.viewing && v.detail != nil && v.detail.ID == id {
			v.viewing = false
			v.detail = nil
		}
		delete(v.marked, id)
		return v, v.do(func(ctx context.Context) error {
			return v.engine.DeleteTask(ctx, id)
		})
	case "n", "N", "esc":
		v.confirmingDelete = false
		return v, nil
	}
	return v, nil
}

func (v *BoardView) startTitleEntry(group bool) {
	v.creating = true
	v.creatingGroup = group
	v.err = ""
	v.titleInput.Reset()
	if group {
		v.titleInput.Placeholder = "Super task title"
	} else {
		v.titleInput.Placeholder = "Task title"
	}
	v.titleInput.Focus()
}

func (v *BoardView) updateCreating(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Back):
		v.creating = false
		v.titleInput.Blur()
		return v, nil

	case key.Matches(msg, v.keys.Enter), msg.String() == "ctrl+s":
		title := strings.TrimSpace(v.titleInput.Value())
		if title == "" {
			v.err = "title is required"
			return v, nil
		}
		v.creating = false
		v.titleInput.Blur()

		if v.creatingGroup {
			ids := v.markedIDs()
			v.marked = make(map[int64]bool)
			return v, v.do(func(ctx context.Context) error {
				_, err := v.engine.CreateGroup(ctx, title, v.actor.ID, ids)
				return err
			})
		}

		actorID := v.actor.ID
		return v, v.do(func(ctx context.Context) error {
			_, err := v.engine.CreateTask(ctx, tasks.CreateTaskInput{
				Title:     title,
				CreatedBy: actorID,
				Assignees: tasks.AssigneeSet{Primary: &actorID},
			})
			return err
		})
	}

	var cmd tea.Cmd
	v.titleInput, cmd = v.titleInput.Update(msg)
	return v, cmd
}

// markedIDs returns the marked task ids in board order
func (v *BoardView) markedIDs() []int64 {
	order := make(map[int64]int, len(v.rows))
	for i, r := range v.rows {
		order[r.task.ID] = i
	}
	ids := make([]int64, 0, len(v.marked))
	for id := range v.marked {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return order[ids[i]] < order[ids[j]] })
	return ids
}

func (v *BoardView) visibleRows() int {
	// Each row is a title line plus a meta line
	availableHeight := max(v.height-8, 2)
	return max(availableHeight/2, 1)
}

func (v *BoardView) ensureVisible() {
	visible := v.visibleRows()
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	} else if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

// View renders the view
func (v *BoardView) View() string {
	if v.showHelpPopup {
		return v.renderHelpPopup()
	}

	if v.confirmingDelete {
		return v.renderDeleteConfirm()
	}

	if v.creating {
		return v.renderTitleForm()
	}

	if v.viewing {
		return v.renderDetail()
	}

	var b strings.Builder
	b.WriteString(v.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(v.renderRows())
	b.WriteString("\n")
	b.WriteString(v.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return styles.CenterView(b.String(), v.width, v.height)
}

func (v *BoardView) renderHeader() string {
	s := v.styles

	who := s.TitleMuted.Render(fmt.Sprintf("as %s (%s)", v.actor.Name, v.actor.Role))
	if v.engine.IsAdmin(v.actor.Role) {
		who += " " + s.Approved.Render("admin")
	}

	return s.Title.Render("Team Board") + "  " + who
}

// renderStatusBar shows the last error if there is one, otherwise when the
// board was last polled and how many tasks are marked
func (v *BoardView) renderStatusBar() string {
	s := v.styles
	if v.err != "" {
		return s.StatusBar.Render(s.Error.UnsetPadding().Render(v.err))
	}

	var parts []string
	if !v.polledAt.IsZero() {
		parts = append(parts, "updated "+v.polledAt.Format("15:04:05"))
	}
	if len(v.marked) > 0 {
		parts = append(parts, s.TaskPriority.Render(fmt.Sprintf("%d marked", len(v.marked))))
	}
	return s.StatusBar.Render(strings.Join(parts, " · "))
}

func (v *BoardView) renderRows() string {
	s := v.styles

	if !v.loaded {
		return s.TitleMuted.Render("Loading...")
	}
	if len(v.rows) == 0 {
		return s.TitleMuted.Render("No tasks. Press 'n' to create one.")
	}

	var items []string
	endIdx := min(v.scrollY+v.visibleRows(), len(v.rows))
	for i := v.scrollY; i < endIdx; i++ {
		items = append(items, v.renderRow(v.rows[i], i == v.cursor))
	}
	return lipgloss.JoinVertical(lipgloss.Left, items...)
}

func (v *BoardView) renderRow(row boardRow, selected bool) string {
	s := v.styles
	width := max(styles.ContentWidth(v.width)-4, 20)
	t := row.task

	mark := "  "
	if v.marked[t.ID] {
		mark = "▸ "
	}

	title := t.Title
	if code := t.CodeString(); code != "" {
		title = s.TaskCode.Render(code) + " " + title
	}
	if t.IsSuperTask {
		title = "▣ " + title
	}

	meta := []string{s.Status(t.Status)}
	if t.AdminApproved {
		meta = append(meta, s.ApprovedBadge())
	}
	if !t.IsSuperTask && t.Category != "" {
		meta = append(meta, s.CategoryBadge(t.Category))
	}
	if row.progress != nil {
		meta = append(meta, fmt.Sprintf("%d/%d done", row.progress.Completed, row.progress.Total))
	} else {
		meta = append(meta, lipgloss.NewStyle().Foreground(styles.PriorityColor(t.Priority)).Render(string(t.Priority)))
	}
	if t.DueDate != nil {
		meta = append(meta, "due "+t.DueDate.String())
	}
	if len(row.assignees) > 0 {
		meta = append(meta, "@"+assigneeNames(row.assignees))
	}

	itemStyle := s.ListItem
	metaStyle := s.ListItem.Foreground(styles.Current.ForegroundDim)
	if row.child {
		itemStyle = s.TaskChild
		metaStyle = s.TaskChild
	}
	if selected {
		itemStyle = s.ListSelected.PaddingLeft(itemStyle.GetPaddingLeft())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		itemStyle.Width(width).Render(mark+title),
		metaStyle.Width(width).Render("  "+strings.Join(meta, " · ")),
	)
}

func assigneeNames(users []models.User) string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Name
	}
	return strings.Join(names, ", ")
}

func (v *BoardView) renderDetail() string {
	s := v.styles
	if v.detail == nil {
		msg := "Loading..."
		if !v.detailLoad && v.err != "" {
			msg = v.err
		}
		return styles.CenterView(lipgloss.NewStyle().Padding(1, 2).Render(s.TitleMuted.Render(msg)), v.width, v.height)
	}

	t := v.detail
	textWidth := clamp(styles.ContentWidth(v.width)-10, 20, 70)
	label := s.TitleMuted

	status := s.Status(t.Status)
	if t.AdminApproved {
		status += "  " + s.ApprovedBadge()
	}

	dates := "None"
	if t.StartDate != nil || t.DueDate != nil {
		start, due := "-", "-"
		if t.StartDate != nil {
			start = t.StartDate.String()
		}
		if t.DueDate != nil {
			due = t.DueDate.String()
		}
		dates = start + " → " + due
	}

	assignees := "Unassigned"
	if len(t.Assignees) > 0 {
		assignees = assigneeNames(t.Assignees)
	}

	title := t.Title
	if code := t.CodeString(); code != "" {
		title = code + "  " + title
	}

	rows := []string{
		s.Title.MarginBottom(1).Render(title),
		"",
		label.Render("Status"),
		status,
		"",
		label.Render("Priority / Category"),
		s.TaskPriority.Render(string(t.Priority)) + " / " + s.CategoryBadge(t.Category),
		"",
		label.Render("Dates"),
		dates,
		"",
		label.Render("Assignees"),
		assignees,
		"",
	}

	if t.IsSuperTask {
		rows = append(rows, label.Render("Members"))
		if len(t.Children) == 0 {
			rows = append(rows, s.TitleMuted.Render("No members"))
		}
		for _, c := range t.Children {
			rows = append(rows, s.Status(c.Status)+"  "+c.CodeString()+" "+c.Title)
		}
		if t.Progress != nil {
			rows = append(rows, "", s.TitleMuted.Render(fmt.Sprintf("%d of %d completed, %d in progress",
				t.Progress.Completed, t.Progress.Total, t.Progress.InProgress)))
		}
	} else {
		rows = append(rows, label.Render("Description"),
			lipgloss.NewStyle().Width(textWidth).Render(v.renderDescription(t.Description)))
	}

	if v.err != "" {
		rows = append(rows, "", s.Error.Render(v.err))
	}

	rows = append(rows, "", s.Help.Render(
		fmt.Sprintf("%s status • %s complete • %s approve • %s delete • %s back",
			s.HelpKey.Render("s"),
			s.HelpKey.Render("c"),
			s.HelpKey.Render("a"),
			s.HelpKey.Render("d"),
			s.HelpKey.Render("esc"),
		),
	))

	padded := lipgloss.NewStyle().Padding(1, 2).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
	return styles.CenterView(padded, v.width, v.height)
}

func (v *BoardView) renderDescription(d models.Description) string {
	switch d.Kind {
	case models.DescriptionText:
		return d.Text
	case models.DescriptionChecklist:
		lines := make([]string, len(d.Items))
		for i, item := range d.Items {
			box := "[ ]"
			if item.Checked {
				box = "[x]"
			}
			lines[i] = box + " " + item.Text
		}
		done, total := d.Done()
		return strings.Join(lines, "\n") + "\n" + v.styles.TitleMuted.Render(fmt.Sprintf("%d/%d checked", done, total))
	}
	return v.styles.TitleMuted.Render("No description")
}

func (v *BoardView) renderTitleForm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)
	inputWidth := clamp(contentWidth-6, 20, 50)

	heading := "New Task"
	if v.creatingGroup {
		heading = fmt.Sprintf("Group %d Tasks", len(v.marked))
	}

	rows := []string{
		s.Title.Render(heading),
		"",
		"Title:",
		s.InputFocused.Width(inputWidth).Render(v.titleInput.View()),
		"",
		s.TitleMuted.Render("↵: save • Esc: cancel"),
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

func (v *BoardView) renderHelp() string {
	contentWidth := styles.ContentWidth(v.width)
	if contentWidth > 0 && contentWidth < 50 {
		return v.styles.Help.Render(v.styles.HelpKey.Render("?") + " help")
	}
	return v.styles.Help.Render(
		fmt.Sprintf("%s view • %s new • %s status • %s done • %s approve • %s mark • %s group • %s ungroup • %s del • %s quit",
			v.styles.HelpKey.Render("↵"),
			v.styles.HelpKey.Render("n"),
			v.styles.HelpKey.Render("s"),
			v.styles.HelpKey.Render("c"),
			v.styles.HelpKey.Render("a"),
			v.styles.HelpKey.Render("space"),
			v.styles.HelpKey.Render("g"),
			v.styles.HelpKey.Render("u"),
			v.styles.HelpKey.Render("d"),
			v.styles.HelpKey.Render("q"),
		),
	)
}

func (v *BoardView) renderHelpPopup() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	item := func(k, pad, desc string) string {
		return s.HelpKey.Render(k) + pad + s.HelpDesc.Render(desc)
	}
	helpItems := []string{
		item("↵", "      ", "view task"),
		item("n", "      ", "new task"),
		item("s", "      ", "cycle status"),
		item("c", "      ", "mark completed"),
		item("a", "      ", "approve (admins)"),
		item("space", "  ", "mark for grouping"),
		item("g", "      ", "group marked tasks"),
		item("u", "      ", "remove from super task"),
		item("d", "      ", "delete task"),
		item("r", "      ", "refresh now"),
		item("esc", "    ", "switch user"),
		item("q", "      ", "quit"),
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

func (v *BoardView) renderDeleteConfirm() string {
	s := v.styles
	contentWidth := styles.ContentWidth(v.width)

	content := lipgloss.JoinVertical(lipgloss.Center,
		s.Title.Foreground(styles.Current.Error).Render("Delete Task?"),
		"",
		s.TitleMuted.Render(fmt.Sprintf("%q will be removed. Members of a super task are kept.", v.deleteTargetName)),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			s.ButtonPrimary.Render(" Y - Yes "),
			"  ",
			s.Button.Render(" N - No "),
		),
	)

	centered := lipgloss.Place(contentWidth, v.height,
		lipgloss.Center, lipgloss.Center,
		content,
	)
	return styles.CenterView(centered, v.width, v.height)
}
