package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/vantage/internal/actionplan"
	"github.com/riordanpawley/vantage/internal/api"
	"github.com/riordanpawley/vantage/internal/domain"
	"github.com/riordanpawley/vantage/internal/services/navigation"
	"github.com/riordanpawley/vantage/internal/types"
	"github.com/riordanpawley/vantage/internal/ui/board"
	"github.com/riordanpawley/vantage/internal/ui/compact"
	"github.com/riordanpawley/vantage/internal/ui/overlay"
	"golang.org/x/sync/errgroup"
)

// boardScreen is the action plan kanban
type boardScreen struct {
	board  actionplan.Board
	filter *domain.Filter
	sort   domain.Sort
	nav    *navigation.Service
	loaded bool

	// Keyboard move in progress. snapshot is the board before pick-up.
	held     string
	snapshot actionplan.Board
	saving   bool

	// Last task loaded for the detail panel
	detail domain.Task
}

type dashboardLoadedMsg struct {
	profile domain.Profile
	board   api.BoardResponse
	err     error
}

type boardLoadedMsg struct {
	board api.BoardResponse
	err   error
}

type taskSavedMsg struct {
	task    domain.Task
	created bool
	err     error
}

type taskDeletedMsg struct {
	id    string
	title string
	err   error
}

type taskLoadedMsg struct {
	id   string
	task domain.Task
	err  error
}

type noteAddedMsg struct {
	id   string
	note domain.Note
	err  error
}

type movePersistedMsg struct {
	snapshot actionplan.Board
	notice   actionplan.Notice
	err      error
}

func boardFrom(resp api.BoardResponse) actionplan.Board {
	var tasks []domain.Task
	for _, col := range domain.Columns {
		for _, t := range resp.Column(col) {
			t.Column = col
			tasks = append(tasks, t)
		}
	}
	return actionplan.New(tasks)
}

// columns lays out the board with the active filter and sort applied
func (m *Model) columns() []board.Column {
	b := m.board
	cols := board.ColumnsFrom(b.board)
	now := m.now()
	for i := range cols {
		cols[i].Tasks = b.sort.Apply(b.filter.Apply(cols[i].Tasks, now))
	}
	return cols
}

func (m *Model) enterBoard() tea.Cmd {
	m.board = &boardScreen{
		filter: domain.NewFilter(),
		nav:    navigation.NewService(),
	}
	m.loading("board", "Loading your action plan...")

	client := m.client
	return m.async(func(ctx context.Context, token string) tea.Msg {
		var (
			profile domain.Profile
			resp    api.BoardResponse
		)
		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			profile, err = client.GetProfile(ctx, token)
			return err
		})
		g.Go(func() error {
			var err error
			resp, err = client.GetBoard(ctx, token)
			return err
		})
		err := g.Wait()
		return dashboardLoadedMsg{profile: profile, board: resp, err: err}
	})
}

func (m *Model) reloadBoard() tea.Cmd {
	m.loading("board", "Refreshing...")
	client := m.client
	return m.async(func(ctx context.Context, token string) tea.Msg {
		resp, err := client.GetBoard(ctx, token)
		return boardLoadedMsg{board: resp, err: err}
	})
}

func (m *Model) boardKey(msg tea.KeyMsg) tea.Cmd {
	b := m.board
	if b.held != "" {
		return m.heldKey(msg)
	}

	cols := m.columns()
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		m.shutdown()
		return tea.Quit
	case key.Matches(msg, k.Up):
		b.nav.MoveUp(cols)
	case key.Matches(msg, k.Down):
		b.nav.MoveDown(cols)
	case key.Matches(msg, k.Left):
		b.nav.MoveLeft(cols)
	case key.Matches(msg, k.Right):
		b.nav.MoveRight(cols)
	case key.Matches(msg, k.HalfDown):
		b.nav.HalfPageDown(cols, m.halfPage())
	case key.Matches(msg, k.HalfUp):
		b.nav.HalfPageUp(cols, m.halfPage())
	case key.Matches(msg, k.Top):
		b.nav.GotoTop(cols)
	case key.Matches(msg, k.Bottom):
		b.nav.GotoBottom(cols)
	case msg.String() == "1", msg.String() == "2", msg.String() == "3":
		b.nav.GotoColumn(cols, int(msg.String()[0]-'1'))

	case key.Matches(msg, k.New):
		return m.overlayStack.Push(overlay.NewCreateTaskForm(b.nav.GetCurrentColumn(cols)))
	case key.Matches(msg, k.Edit), key.Matches(msg, k.Delete), key.Matches(msg, k.Details), key.Matches(msg, k.Pick):
		task := b.nav.GetCurrentTask(cols)
		if task == nil {
			return nil
		}
		return m.boardAction(*task, msg.String())
	case key.Matches(msg, k.Actions):
		if task := b.nav.GetCurrentTask(cols); task != nil {
			return m.overlayStack.Push(overlay.NewActionMenu(*task))
		}

	case key.Matches(msg, k.Filter):
		me := ""
		if m.profile != nil {
			me = m.profile.ID
		}
		return m.overlayStack.Push(overlay.NewFilterMenu(b.filter, me))
	case key.Matches(msg, k.Sort):
		return m.overlayStack.Push(overlay.NewSortMenu(&b.sort))
	case key.Matches(msg, k.Search):
		return m.overlayStack.Push(overlay.NewSearchOverlay(b.filter.SearchQuery))
	case key.Matches(msg, k.Refresh):
		return m.reloadBoard()
	case key.Matches(msg, k.Help):
		return m.overlayStack.Push(overlay.NewHelpOverlay(k.HelpCategories()))

	case key.Matches(msg, k.Assessments):
		return m.navigate(types.ScreenAssessments)
	case key.Matches(msg, k.Settings):
		return m.navigate(types.ScreenSettings)
	case key.Matches(msg, k.Logout):
		return m.confirmLogout()
	case msg.String() == "esc":
		if b.filter.IsActive() {
			b.filter.Clear()
			m.notify("", types.ToastInfo, "Filters cleared")
		}
	}
	return nil
}

func (m *Model) halfPage() int {
	return max(1, m.bodyHeight()/8)
}

// boardAction runs a card action picked from the keyboard, the action menu
// or the detail panel
func (m *Model) boardAction(task domain.Task, action string) tea.Cmd {
	b := m.board
	if b == nil {
		return nil
	}
	switch action {
	case "enter":
		return m.openDetail(task)
	case "e", "edit":
		return m.overlayStack.Push(overlay.NewEditTaskForm(task))
	case "d", "delete":
		return m.overlayStack.Push(overlay.NewConfirmDialog(
			"Delete action",
			fmt.Sprintf("Delete %q? This cannot be undone.", task.Title),
			overlay.ConfirmDeleteTask, task.ID))
	case "m":
		return m.pickUp(task)
	case "h", "l":
		if b.saving {
			m.notify("", types.ToastWarning, "Still saving the last move")
			return nil
		}
		col, _, ok := b.board.Find(task.ID)
		if !ok {
			return nil
		}
		i := col.Index() - 1
		if action == "l" {
			i = col.Index() + 1
		}
		if i < 0 || i >= len(domain.Columns) {
			return nil
		}
		before := b.board
		next, notice, err := before.SetColumn(task.ID, domain.Columns[i])
		if err != nil {
			m.logger.Warn("status change rejected", "task", task.ID, "error", err)
			return nil
		}
		b.board = next
		b.nav.JumpToTaskByID(m.columns(), task.ID)
		return m.persistMove(before, next, notice)
	}
	return nil
}

// pickUp starts a keyboard move of task
func (m *Model) pickUp(task domain.Task) tea.Cmd {
	b := m.board
	if b.filter.IsActive() || b.sort.IsActive() {
		m.notify("", types.ToastWarning, "Clear the filter and sort to reorder actions")
		return nil
	}
	if b.saving {
		m.notify("", types.ToastWarning, "Still saving the last move")
		return nil
	}
	b.held = task.ID
	b.snapshot = b.board
	return nil
}

func (m *Model) heldKey(msg tea.KeyMsg) tea.Cmd {
	b := m.board
	col, idx, ok := b.board.Find(b.held)
	if !ok {
		b.held = ""
		return nil
	}

	toCol, toIdx := col, idx
	switch {
	case msg.String() == "esc":
		b.board = b.snapshot
		b.held = ""
		b.nav.JumpToTaskByID(m.columns(), b.nav.GetCursor().TaskID)
		return nil
	case key.Matches(msg, m.keys.Drop):
		return m.drop()
	case key.Matches(msg, m.keys.Up):
		toIdx = idx - 1
	case key.Matches(msg, m.keys.Down):
		toIdx = idx + 1
	case key.Matches(msg, m.keys.Left):
		if col.Index() == 0 {
			return nil
		}
		toCol = domain.Columns[col.Index()-1]
	case key.Matches(msg, m.keys.Right):
		if col.Index() == len(domain.Columns)-1 {
			return nil
		}
		toCol = domain.Columns[col.Index()+1]
	default:
		return nil
	}

	if toCol == col && (toIdx < 0 || toIdx >= b.board.Len(col)) {
		return nil
	}
	next, _, err := b.board.MoveTask(b.held, col, idx, toCol, toIdx)
	if err != nil {
		m.logger.Warn("move rejected", "task", b.held, "error", err)
		return nil
	}
	b.board = next
	b.nav.JumpToTaskByID(m.columns(), b.held)
	return nil
}

// drop ends a keyboard move and persists the changed placements
func (m *Model) drop() tea.Cmd {
	b := m.board
	id := b.held
	b.held = ""

	before := b.snapshot
	fromCol, fromIdx, _ := before.Find(id)
	toCol, toIdx, _ := b.board.Find(id)
	_, notice, err := before.MoveTask(id, fromCol, fromIdx, toCol, toIdx)
	if err != nil {
		m.logger.Warn("drop rejected", "task", id, "error", err)
		b.board = before
		return nil
	}
	return m.persistMove(before, b.board, notice)
}

// persistMove saves the placements that differ between before and after.
// The board rolls back to before if the request fails.
func (m *Model) persistMove(before, after actionplan.Board, notice actionplan.Notice) tea.Cmd {
	placements := actionplan.Placements(before, after)
	if len(placements) == 0 {
		return nil
	}
	m.board.saving = true
	m.loading("move", "Saving...")

	client := m.client
	return m.async(func(ctx context.Context, token string) tea.Msg {
		_, err := client.BulkMoveActionItems(ctx, token, placements)
		return movePersistedMsg{snapshot: before, notice: notice, err: err}
	})
}

func (m *Model) openDetail(task domain.Task) tea.Cmd {
	m.board.detail = task
	open := m.overlayStack.Push(overlay.NewDetailPanel(task, true))

	client := m.client
	id := task.ID
	fetch := m.async(func(ctx context.Context, token string) tea.Msg {
		t, err := client.GetActionItem(ctx, token, id)
		return taskLoadedMsg{id: id, task: t, err: err}
	})
	return tea.Batch(open, fetch)
}

// detailPanel returns the open detail panel for task id
func (m *Model) detailPanel(id string) *overlay.DetailPanel {
	if p, ok := m.overlayStack.Current().(*overlay.DetailPanel); ok && p.TaskID() == id {
		return p
	}
	return nil
}

func (m *Model) deleteTask(id string) tea.Cmd {
	b := m.board
	if b == nil {
		return nil
	}
	title := id
	if col, idx, ok := b.board.Find(id); ok {
		t, _ := b.board.At(col, idx)
		title = t.Title
	}
	m.loading("delete", "Deleting...")

	client := m.client
	return m.async(func(ctx context.Context, token string) tea.Msg {
		err := client.DeleteActionItem(ctx, token, id)
		return taskDeletedMsg{id: id, title: title, err: err}
	})
}

// handleBoardOverlay handles messages emitted by board overlays
func (m *Model) handleBoardOverlay(msg tea.Msg) tea.Cmd {
	b := m.board
	if b == nil {
		return nil
	}
	client := m.client

	switch msg := msg.(type) {
	case overlay.SearchMsg:
		b.filter.SearchQuery = strings.TrimSpace(msg.Query)
		return nil

	case overlay.TaskCreatedMsg:
		m.loading("save", "Creating action...")
		task := msg.Task
		return m.async(func(ctx context.Context, token string) tea.Msg {
			t, err := client.CreateActionItem(ctx, token, task)
			return taskSavedMsg{task: t, created: true, err: err}
		})

	case overlay.TaskEditedMsg:
		m.loading("save", "Saving action...")
		id, patch := msg.ID, msg.Patch
		return m.async(func(ctx context.Context, token string) tea.Msg {
			t, err := client.UpdateActionItem(ctx, token, id, patch)
			return taskSavedMsg{task: t, err: err}
		})

	case overlay.NoteSubmittedMsg:
		m.loading("note", "Adding note...")
		id, body := msg.TaskID, msg.Body
		return m.async(func(ctx context.Context, token string) tea.Msg {
			n, err := client.AddActionItemNote(ctx, token, id, body)
			return noteAddedMsg{id: id, note: n, err: err}
		})
	}
	return nil
}

func (m *Model) handleBoardResult(msg tea.Msg) tea.Cmd {
	b := m.board
	if b == nil {
		return nil
	}

	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.err != nil {
			return m.fail("board", msg.err)
		}
		profile := msg.profile
		m.profile = &profile
		b.board = boardFrom(msg.board)
		b.loaded = true
		b.nav.GotoTop(m.columns())
		m.toasts = m.toasts.Resolve("board")
		m.logger.Info("board loaded", "tasks", b.board.Total())
		return nil

	case boardLoadedMsg:
		if msg.err != nil {
			return m.fail("board", msg.err)
		}
		b.held = ""
		b.board = boardFrom(msg.board)
		b.loaded = true
		m.notify("board", types.ToastSuccess, "Board refreshed")
		return nil

	case taskSavedMsg:
		if msg.err != nil {
			return m.fail("save", msg.err)
		}
		if msg.created {
			b.board = b.board.Add(msg.task)
			m.notify("save", types.ToastSuccess, fmt.Sprintf("Added %q", msg.task.Title))
		} else {
			b.board = b.board.Replace(msg.task)
			m.notify("save", types.ToastSuccess, "Action updated")
		}
		b.nav.JumpToTaskByID(m.columns(), msg.task.ID)
		return nil

	case taskDeletedMsg:
		if msg.err != nil && !errors.Is(msg.err, domain.ErrNotFound) {
			return m.fail("delete", msg.err)
		}
		b.board = b.board.Remove(msg.id)
		m.notify("delete", types.ToastSuccess, fmt.Sprintf("Deleted %q", msg.title))
		return nil

	case taskLoadedMsg:
		panel := m.detailPanel(msg.id)
		if msg.err != nil {
			if errors.Is(msg.err, domain.ErrNotFound) {
				if panel != nil {
					m.overlayStack.Pop()
				}
				b.board = b.board.Remove(msg.id)
				m.notify("detail", types.ToastWarning, "That action no longer exists")
				return nil
			}
			if panel != nil {
				panel.SetTask(b.detail)
			}
			return m.fail("detail", msg.err)
		}
		b.detail = msg.task
		b.board = b.board.Replace(msg.task)
		if panel != nil {
			panel.SetTask(msg.task)
		}
		return nil

	case noteAddedMsg:
		if msg.err != nil {
			return m.fail("note", msg.err)
		}
		if b.detail.ID == msg.id {
			b.detail.Notes = append(b.detail.Notes, msg.note)
			if panel := m.detailPanel(msg.id); panel != nil {
				panel.SetTask(b.detail)
			}
		}
		m.notify("note", types.ToastSuccess, "Note added")
		return nil

	case movePersistedMsg:
		b.saving = false
		if msg.err != nil {
			b.board = msg.snapshot
			return m.fail("move", msg.err)
		}
		if msg.notice.Empty() {
			m.toasts = m.toasts.Resolve("move")
		} else {
			m.notify("move", types.ToastSuccess, msg.notice.Message)
		}
		return nil
	}
	return nil
}

func (m *Model) viewBoard(height int) string {
	b := m.board
	s := m.styles
	if !b.loaded {
		return s.Muted.Render(m.spinner.View() + " Loading your action plan...")
	}

	cols := m.columns()
	header := m.boardSummary()
	cursor := b.nav.BoardCursor(cols)
	var body string
	if m.width < compact.MinBoardWidth {
		body = compact.Render(cols, cursor, b.held, s, m.width, max(0, height-2), m.now())
	} else {
		body = board.Render(cols, cursor, b.held, s, m.width, max(0, height-2), m.now())
	}
	return header + "\n\n" + body
}

func (m *Model) boardSummary() string {
	b := m.board
	s := m.styles
	parts := []string{fmt.Sprintf("%d actions", b.board.Total())}
	if b.filter.IsActive() {
		parts = append(parts, "filtered")
	}
	if q := b.filter.SearchQuery; q != "" {
		parts = append(parts, fmt.Sprintf("search %q", q))
	}
	if b.sort.IsActive() {
		order := "asc"
		if b.sort.Order == domain.SortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sorted by %s %s", b.sort.Field, order))
	}
	title := "Action plan"
	if m.profile != nil && m.profile.FullName() != "" {
		title += " · " + m.profile.FullName()
	}
	return s.Title.Render(title) + "  " + s.Muted.Render(strings.Join(parts, " • "))
}
