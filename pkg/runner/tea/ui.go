package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/list"
	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/journal/pkg/app"
	"tableflip.dev/journal/pkg/category"
	"tableflip.dev/journal/pkg/entry"
	"tableflip.dev/journal/pkg/query"
	"tableflip.dev/journal/pkg/runner/tea/internal/calendar"
	"tableflip.dev/journal/pkg/runner/tea/internal/panel"
	"tableflip.dev/journal/pkg/runner/tea/internal/theme"
	"tableflip.dev/journal/pkg/store"
)

type mode int

const (
	modeNormal mode = iota
	modeSearch
	modeCommand
	modeHelp
	modeDetail
)

const normalStatus = "NORMAL: h/l move panes, j/k move, enter open, / search, t trash, u restore, : commands, ? help"

// sourceItem is one row of the left list: a category or a global view.
type sourceItem struct {
	label    string
	category category.Category
	view     query.GlobalView
}

func (s sourceItem) Title() string       { return s.label }
func (s sourceItem) Description() string { return "" }
func (s sourceItem) FilterValue() string { return s.label }

func defaultSources() []list.Item {
	items := make([]list.Item, 0, 9)
	for _, c := range category.All() {
		label := strings.ToUpper(c.Label()[:1]) + c.Label()[1:]
		items = append(items, sourceItem{label: label, category: c})
	}
	items = append(items,
		sourceItem{label: "On this day", view: query.ViewOnThisDay},
		sourceItem{label: "Gallery", view: query.ViewGallery},
		sourceItem{label: "Atlas", view: query.ViewAtlas},
		sourceItem{label: "Tags", view: query.ViewTags},
		sourceItem{label: "Trash", view: query.ViewTrash},
	)
	return items
}

// entryItem is one row of the right list.
type entryItem struct {
	e   *entry.Entry
	loc *time.Location
}

func (it entryItem) Title() string {
	var b strings.Builder
	b.WriteString(it.e.DateLabel)
	b.WriteString("  ")
	b.WriteString(it.e.DisplayTitle())
	if it.e.Mood != "" {
		fmt.Fprintf(&b, " (%s)", it.e.Mood)
	}
	if it.e.IsPrivate {
		b.WriteString(" [private]")
	}
	if it.e.IsFavorite {
		b.WriteString(" ★")
	}
	return b.String()
}
func (it entryItem) Description() string { return "" }
func (it entryItem) FilterValue() string { return it.e.Title }

// Model contains UI state
type Model struct {
	svc    *app.Service
	ctx    context.Context
	caller query.Caller
	theme  theme.Theme
	mode   mode

	focus int // 0: sources, 1: entries

	srcList list.Model
	entList list.Model

	input  textinput.Model
	search string

	detail   panel.Model
	detailID string

	activity map[string]int
	status   string

	termWidth  int
	termHeight int

	focusDel list.DefaultDelegate
	blurDel  list.DefaultDelegate

	watchCh     <-chan store.Event
	watchCancel context.CancelFunc
}

// New creates a UI model backed by svc. Private entries are listed only
// for an admin caller.
func New(svc *app.Service, caller query.Caller) Model {
	dFocus := list.NewDefaultDelegate()
	dBlur := list.NewDefaultDelegate()
	// Unfocused list should not visually highlight the selected item
	dBlur.Styles.SelectedTitle = dBlur.Styles.NormalTitle
	dBlur.Styles.SelectedDesc = dBlur.Styles.NormalDesc
	dFocus.ShowDescription = false
	dBlur.ShowDescription = false
	dFocus.SetSpacing(0)
	dBlur.SetSpacing(0)

	l1 := list.New(defaultSources(), dBlur, 24, 20)
	l1.Title = "Journal"
	l1.SetShowHelp(false)
	l1.SetShowStatusBar(false)

	l2 := list.New([]list.Item{}, dFocus, 80, 20)
	l2.Title = "Entries"
	l2.SetShowHelp(false)
	l2.SetShowStatusBar(false)

	ti := textinput.New()
	ti.Placeholder = "Type here"
	ti.CharLimit = 256
	ti.Prompt = ""
	ti.Styles.Cursor.Color = lipgloss.Color("218")
	ti.Styles.Cursor.Shape = tea.CursorUnderline

	m := Model{
		svc:      svc,
		ctx:      context.Background(),
		caller:   caller,
		theme:    theme.Default(),
		mode:     modeNormal,
		focus:    1,
		srcList:  l1,
		entList:  l2,
		input:    ti,
		detail:   panel.New(),
		status:   normalStatus,
		focusDel: dFocus,
		blurDel:  dBlur,
	}
	m.updateFocusHeaders()
	return m
}

// Init loads initial data and starts watching the store.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadEntries(), startWatchCmd(m.ctx, m.svc))
}

func (m *Model) selectedSource() sourceItem {
	sel, ok := m.srcList.SelectedItem().(sourceItem)
	if !ok {
		return sourceItem{category: category.Daily}
	}
	return sel
}

// options is the query the entries pane shows.
func (m *Model) options() query.Options {
	src := m.selectedSource()
	o := query.Options{
		Active: src.category,
		View:   src.view,
		Caller: m.caller,
		Search: m.search,
	}
	if !src.category.Valid() {
		o.Active = category.Daily
	}
	if m.svc != nil {
		o.Now = m.svc.Journal().Now()
	}
	return o
}

func (m *Model) loadEntries() tea.Cmd {
	o := m.options()
	svc := m.svc
	caller := m.caller
	return func() tea.Msg {
		if svc == nil {
			return entriesLoadedMsg{}
		}
		loc := svc.Journal().Location()
		ents := svc.List(o)
		items := make([]list.Item, 0, len(ents))
		for _, e := range ents {
			items = append(items, entryItem{e: e, loc: loc})
		}
		report := svc.Report(caller, time.Time{}, o.Now)
		return entriesLoadedMsg{items: items, activity: report.Summary.Activity}
	}
}

// messages
type errMsg struct{ err error }
type entriesLoadedMsg struct {
	items    []list.Item
	activity map[string]int
}

type watchStartedMsg struct {
	ch     <-chan store.Event
	cancel context.CancelFunc
	err    error
}

type watchEventMsg struct {
	event store.Event
}

type watchStoppedMsg struct{}

func startWatchCmd(parent context.Context, svc *app.Service) tea.Cmd {
	if svc == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithCancel(parent)
		ch, err := svc.Watch(ctx)
		if err != nil {
			cancel()
			return watchStartedMsg{err: err}
		}
		return watchStartedMsg{ch: ch, cancel: cancel}
	}
}

func (m *Model) waitForWatch() tea.Cmd {
	if m.watchCh == nil {
		return nil
	}
	ch := m.watchCh
	return func() tea.Msg {
		if ev, ok := <-ch; ok {
			return watchEventMsg{event: ev}
		}
		return watchStoppedMsg{}
	}
}

func (m *Model) stopWatch() {
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchCh = nil
}

// reload re-reads the store after another process changed it.
func (m *Model) reload() tea.Cmd {
	if m.svc == nil {
		return nil
	}
	if err := m.svc.Reload(m.ctx); err != nil {
		return func() tea.Msg { return errMsg{err} }
	}
	return m.loadEntries()
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	skipListRouting := false

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.applySizes()
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case entriesLoadedMsg:
		m.entList.SetItems(msg.items)
		m.activity = msg.activity
		if m.mode == modeDetail {
			m.showDetail(m.detailID)
		}
	case watchStartedMsg:
		if msg.err != nil {
			m.status = "ERR: watch " + msg.err.Error()
			break
		}
		m.stopWatch()
		m.watchCh = msg.ch
		m.watchCancel = msg.cancel
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchEventMsg:
		if cmd := m.reload(); cmd != nil {
			cmds = append(cmds, cmd)
		}
		if cmd := m.waitForWatch(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case watchStoppedMsg:
		m.stopWatch()
		cmds = append(cmds, startWatchCmd(m.ctx, m.svc))
	case tea.KeyPressMsg:
		skipListRouting = m.handleKeyPress(msg, &cmds)
	}

	// route lists updates depending on focus
	if m.mode == modeNormal && !skipListRouting {
		if m.focus == 0 {
			prev := m.selectedSource()
			var cmd tea.Cmd
			m.srcList, cmd = m.srcList.Update(msg)
			cmds = append(cmds, cmd)
			if m.selectedSource() != prev {
				cmds = append(cmds, m.loadEntries())
			}
		} else {
			var cmd tea.Cmd
			m.entList, cmd = m.entList.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	return m, tea.Batch(cmds...)
}

// handleKeyPress reports whether the key was consumed.
func (m *Model) handleKeyPress(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch m.mode {
	case modeHelp:
		if key := msg.String(); key == "q" || key == "esc" || key == "?" {
			m.mode = modeNormal
		}
		return true
	case modeSearch:
		return m.handleSearchKey(msg, cmds)
	case modeCommand:
		return m.handleCommandKey(msg, cmds)
	case modeDetail:
		return m.handleDetailKey(msg, cmds)
	}
	return m.handleNormalKey(msg, cmds)
}

func (m *Model) handleNormalKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case ":":
		m.enterInputMode(modeCommand, "command", cmds)
		m.status = "COMMAND: type :q or :exit to quit"
	case "/":
		m.enterInputMode(modeSearch, "search", cmds)
		m.input.SetValue(m.search)
		m.input.CursorEnd()
		m.status = "SEARCH: enter to apply, esc to clear"

	// pane focus
	case "h", "left":
		m.focus = 0
		m.updateFocusHeaders()
	case "l", "right":
		m.focus = 1
		m.updateFocusHeaders()

	// movement
	case "j", "down":
		if m.focus == 0 {
			m.srcList.CursorDown()
			*cmds = append(*cmds, m.loadEntries())
		} else {
			m.entList.CursorDown()
		}
	case "k", "up":
		if m.focus == 0 {
			m.srcList.CursorUp()
			*cmds = append(*cmds, m.loadEntries())
		} else {
			m.entList.CursorUp()
		}
	case "g":
		if m.focus == 0 {
			m.srcList.Select(0)
			*cmds = append(*cmds, m.loadEntries())
		} else {
			m.entList.Select(0)
		}
	case "G":
		if m.focus == 0 {
			m.srcList.Select(len(m.srcList.Items()) - 1)
			*cmds = append(*cmds, m.loadEntries())
		} else {
			m.entList.Select(len(m.entList.Items()) - 1)
		}

	case "enter":
		if m.focus == 0 {
			m.focus = 1
			m.updateFocusHeaders()
			*cmds = append(*cmds, m.loadEntries())
			break
		}
		if e := m.currentEntry(); e != nil {
			m.showDetail(e.ID)
		}
	case "t":
		m.trashSelected(cmds)
	case "u":
		m.restoreSelected(cmds)
	case "?":
		m.mode = modeHelp
	case "r":
		*cmds = append(*cmds, m.loadEntries())
		m.status = "Refreshed"
	case "q":
		m.status = "Use :q or :exit to quit"
	default:
		return false
	}
	return true
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "enter":
		m.search = strings.TrimSpace(m.input.Value())
		m.leaveInputMode()
		if m.search == "" {
			m.status = "Search cleared"
		} else {
			m.status = fmt.Sprintf("Search: %s", m.search)
		}
		m.entList.Select(0)
		*cmds = append(*cmds, m.loadEntries())
	case "esc":
		m.search = ""
		m.leaveInputMode()
		m.status = "Search cleared"
		*cmds = append(*cmds, m.loadEntries())
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
	}
	return true
}

func (m *Model) handleCommandKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "enter":
		input := strings.TrimSpace(m.input.Value())
		m.leaveInputMode()
		switch input {
		case "q", "quit", "exit":
			m.stopWatch()
			*cmds = append(*cmds, tea.Quit)
		case "empty-trash":
			m.emptyTrash(cmds)
		case "":
			m.status = normalStatus
		default:
			m.status = fmt.Sprintf("Unknown command: %s", input)
		}
	case "esc":
		m.leaveInputMode()
		m.status = "Command cancelled"
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		*cmds = append(*cmds, cmd)
	}
	return true
}

func (m *Model) handleDetailKey(msg tea.KeyPressMsg, cmds *[]tea.Cmd) bool {
	switch msg.String() {
	case "esc", "q", "backspace":
		m.mode = modeNormal
		m.detailID = ""
		m.detail.Reset()
		m.status = normalStatus
	case "n", "right", "l":
		m.step(query.Next)
	case "p", "left", "h":
		m.step(query.Prev)
	case "t":
		m.trashSelected(cmds)
	case "u":
		m.restoreSelected(cmds)
	case "?":
		m.mode = modeHelp
	}
	return true
}

// step moves the detail pane to the neighbouring entry of the current list.
func (m *Model) step(d query.Direction) {
	if m.svc == nil || m.detailID == "" {
		return
	}
	next := m.svc.Neighbor(m.options(), m.detailID, d)
	if next == nil {
		if d == query.Next {
			m.status = "No newer entry"
		} else {
			m.status = "No older entry"
		}
		return
	}
	m.showDetail(next.ID)
	m.selectEntry(next.ID)
}

func (m *Model) selectEntry(id string) {
	for i, it := range m.entList.Items() {
		if ei, ok := it.(entryItem); ok && ei.e.ID == id {
			m.entList.Select(i)
			return
		}
	}
}

func (m *Model) showDetail(id string) {
	if m.svc == nil {
		return
	}
	e, err := m.svc.Get(id)
	if err != nil || (e.IsPrivate && !m.caller.IsAdmin) {
		m.mode = modeNormal
		m.detailID = ""
		m.detail.Reset()
		return
	}
	e = query.Redact(e, m.caller)
	j := m.svc.Journal()
	m.mode = modeDetail
	m.detailID = id
	m.detail.SetContent(e.DisplayTitle(), panel.EntryLines(e, j.Questions(), j.Location(), m.theme.Entry))
	m.status = "DETAIL: n newer, p older, t trash, esc back"
}

func (m *Model) currentEntry() *entry.Entry {
	if len(m.entList.Items()) == 0 {
		return nil
	}
	it, ok := m.entList.SelectedItem().(entryItem)
	if !ok {
		return nil
	}
	return it.e
}

func (m *Model) targetID() string {
	if m.mode == modeDetail {
		return m.detailID
	}
	if e := m.currentEntry(); e != nil {
		return e.ID
	}
	return ""
}

func (m *Model) trashSelected(cmds *[]tea.Cmd) {
	id := m.targetID()
	if id == "" || m.svc == nil {
		return
	}
	if _, err := m.svc.Trash(m.ctx, id); err != nil {
		*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
		return
	}
	m.status = "Moved to trash"
	m.closeDetail()
	*cmds = append(*cmds, m.loadEntries())
}

func (m *Model) restoreSelected(cmds *[]tea.Cmd) {
	id := m.targetID()
	if id == "" || m.svc == nil {
		return
	}
	if _, err := m.svc.Restore(m.ctx, id); err != nil {
		*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
		return
	}
	m.status = "Restored"
	m.closeDetail()
	*cmds = append(*cmds, m.loadEntries())
}

func (m *Model) emptyTrash(cmds *[]tea.Cmd) {
	if m.svc == nil {
		return
	}
	n, err := m.svc.EmptyTrash(m.ctx)
	if err != nil {
		*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
		return
	}
	m.status = fmt.Sprintf("Deleted %d trashed entries", n)
	*cmds = append(*cmds, m.loadEntries())
}

func (m *Model) closeDetail() {
	if m.mode == modeDetail {
		m.mode = modeNormal
	}
	m.detailID = ""
	m.detail.Reset()
}

// View renders two panes and optional input/help overlays
func (m Model) View() string {
	left := m.srcList.View()
	if m.svc != nil {
		cal := calendar.Render(m.svc.Journal().Now(), m.activity, calendar.Options{
			HeaderStyle: m.theme.Calendar.Header,
			EmptyStyle:  m.theme.Calendar.Empty,
			EntryStyle:  m.theme.Calendar.Entry,
			ShowHeader:  true,
		})
		left = lipgloss.JoinVertical(lipgloss.Left, left, "", cal)
	}

	right := m.entList.View()
	if m.mode == modeDetail {
		right, _ = m.detail.View()
	}
	gap := lipgloss.NewStyle().Padding(0, 1).Render

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, gap(" "), right)

	switch m.mode {
	case modeSearch:
		body += "\n\n/" + m.input.View()
	case modeCommand:
		body += "\n\n:" + m.input.View()
	case modeHelp:
		help := "Keys: h/l switch panes, j/k move, g/G top/bottom, enter open, n/p newer/older in detail, / search, t trash, u restore, r refresh, :empty-trash, :q quit"
		body += "\n\n" + lipgloss.NewStyle().Italic(true).Render(help)
	}

	modeStr := map[mode]string{modeNormal: "NORMAL", modeSearch: "SEARCH", modeCommand: "CMD", modeHelp: "HELP", modeDetail: "DETAIL"}[m.mode]
	status := m.theme.Footer.Mode.Render("["+modeStr+"]") + " " + m.theme.Footer.Status.Render(m.status)
	if m.search != "" {
		status += m.theme.Footer.Help.Render(fmt.Sprintf("  search: %q", m.search))
	}
	return body + "\n\n" + status
}

// applySizes recalculates list sizes based on current terminal size.
func (m *Model) applySizes() {
	if m.termWidth == 0 || m.termHeight == 0 {
		return
	}
	left := m.termWidth / 4
	if left < 22 {
		left = 22
	}
	if left > 32 {
		left = 32
	}
	// Space for gap and borders
	right := m.termWidth - left - 4
	if right < 20 {
		right = 20
	}
	// Leave room for the calendar and status lines
	height := m.termHeight - 4
	if height < 5 {
		height = 5
	}
	srcHeight := height - 10
	if srcHeight < 5 {
		srcHeight = 5
	}
	m.srcList.SetSize(left, srcHeight)
	m.entList.SetSize(right, height)
	m.detail.SetWidth(right - 4)
}

// updateFocusHeaders updates pane titles to reflect which pane is focused.
func (m *Model) updateFocusHeaders() {
	// Use fixed-width 2-char prefix to avoid layout shift when focus changes.
	const on = "» "
	const off = "  "
	if m.focus == 0 {
		m.srcList.Title = on + "Journal"
		m.entList.Title = off + "Entries"
		m.srcList.SetDelegate(m.focusDel)
		m.entList.SetDelegate(m.blurDel)
	} else {
		m.srcList.Title = off + "Journal"
		m.entList.Title = on + "Entries"
		m.srcList.SetDelegate(m.blurDel)
		m.entList.SetDelegate(m.focusDel)
	}
}

func (m *Model) enterInputMode(md mode, placeholder string, cmds *[]tea.Cmd) {
	m.mode = md
	m.input.Reset()
	m.input.Placeholder = placeholder
	m.input.CursorEnd()
	if cmd := m.input.Focus(); cmd != nil {
		*cmds = append(*cmds, cmd)
	}
	*cmds = append(*cmds, textinput.Blink)
}

func (m *Model) leaveInputMode() {
	m.mode = modeNormal
	m.input.Reset()
	m.input.Blur()
}
