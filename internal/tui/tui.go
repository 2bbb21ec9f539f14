// Package tui is the interactive list. It never edits todos itself: every
// key goes to a store method and the list is redrawn from the store's
// notifications.
package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/storage"
	"github.com/Makepad-fr/tada/internal/store"
)

// Options configures Run.
type Options struct {
	// WatchPath, when set, is a file-backed record to reload from whenever
	// another process changes it.
	WatchPath string
	Logger    *zap.Logger
}

// reloadMsg asks the update loop to re-read the persisted record.
type reloadMsg struct{}

// listItem adapts a Todo to bubbles/list.Item.
type listItem struct {
	ID   string
	Text string
	Done bool
}

func (i listItem) TitleText() string {
	box := boxUnchecked
	if i.Done {
		box = boxChecked
	}
	return fmt.Sprintf("%s %s", box, i.Text)
}

func (i listItem) Title() string       { return i.TitleText() }
func (i listItem) Description() string { return "" }
func (i listItem) FilterValue() string { return i.Text }

// itemDelegate renders single-line rows.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, _ := item.(listItem)
	box, text := mutedStyle.Render(boxUnchecked), it.Text
	if it.Done {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(it.Text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintln(w, prefix+box+" "+text)
}

type modelTUI struct {
	store       *store.Store
	latest      *[]model.Todo // written by the store observer
	unsubscribe func()
	list        list.Model

	ti      textinput.Model // shared by add & edit
	adding  bool
	editing bool
	editID  string
	inErr   string
}

func newModel(s *store.Store) modelTUI {
	l := list.New(nil, itemDelegate{}, 80, 20)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle
	l.Styles.HelpStyle = helpStyle
	l.Styles.PaginationStyle = helpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	binds := []key.Binding{
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear done")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return binds }
	l.AdditionalFullHelpKeys = func() []key.Binding { return binds }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	m := modelTUI{store: s, latest: new([]model.Todo), list: l, ti: ti}
	// Subscribe fires right away, so latest is populated before the first sync.
	m.unsubscribe = s.Subscribe(func(todos []model.Todo) { *m.latest = todos })
	m.sync()
	return m
}

// sync rebuilds the list from the last collection the store published.
func (m *modelTUI) sync() {
	todos := *m.latest
	items := make([]list.Item, 0, len(todos))
	for _, t := range todos {
		items = append(items, listItem{ID: t.ID, Text: t.Text, Done: t.Completed})
	}
	// With a filter applied, SetItems drops the matches and hands back the
	// command that recomputes them. Run it here so the view never goes empty.
	if cmd := m.list.SetItems(items); cmd != nil {
		m.list, _ = m.list.Update(cmd())
	}
	if n := len(m.list.VisibleItems()); n > 0 && m.list.Index() >= n {
		m.list.Select(n - 1)
	}

	dn, pn := model.Stats(todos)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d",
		titleStyle.Render("Todos"),
		successStyle.Render("✔"), dn,
		pendingStyle.Render("•"), pn,
		accentStyle.Render("Total"), len(todos),
	)
}

func (m modelTUI) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m modelTUI) Init() tea.Cmd { return nil }

func (m modelTUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(reloadMsg); ok {
		m.store.Load()
		m.sync()
		return m, nil
	}

	if m.adding || m.editing {
		return m.updateInput(msg)
	}

	// While typing a filter every key belongs to the list.
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "q", "esc":
			return m, tea.Quit
		case " ":
			if it, ok := m.selected(); ok {
				m.store.Toggle(it.ID)
				m.sync()
			}
			return m, nil
		case "d":
			if it, ok := m.selected(); ok {
				m.store.Delete(it.ID)
				m.sync()
			}
			return m, nil
		case "c":
			m.store.ClearCompleted()
			m.sync()
			return m, nil
		case "a":
			m.adding = true
			m.inErr = ""
			m.ti.SetValue("")
			m.ti.Placeholder = "New todo..."
			return m, m.ti.Focus()
		case "e":
			if it, ok := m.selected(); ok {
				m.editing = true
				m.editID = it.ID
				m.inErr = ""
				m.ti.SetValue(it.Text)
				m.ti.CursorEnd()
				m.ti.Placeholder = "Edit todo..."
				return m, m.ti.Focus()
			}
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m modelTUI) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "enter":
			text := strings.TrimSpace(m.ti.Value())
			if text == "" {
				m.inErr = "Text cannot be empty"
				return m, nil
			}
			if m.adding {
				m.store.Add(text)
				m.sync()
				m.list.Select(0)
			} else {
				m.store.Update(m.editID, text)
				m.sync()
			}
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *modelTUI) closeInput() {
	m.adding, m.editing = false, false
	m.editID, m.inErr = "", ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m modelTUI) View() string {
	w, h := widthHeight()
	listHeight := h - 4
	if m.adding || m.editing {
		listHeight = h - 6
	}
	m.list.SetSize(w-2, listHeight)

	content := m.list.View()
	if m.adding || m.editing {
		title := "Add todo"
		if m.editing {
			title = "Edit todo"
		}
		if m.inErr != "" {
			title += " - " + errorStyle.Render(m.inErr)
		}
		content += "\n" + frameStyle.Render(title+"\n"+m.ti.View())
	}
	return frameStyle.Render(content)
}

func widthHeight() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// Run starts the interactive list on s and blocks until the user quits.
func Run(s *store.Store, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}

	m := newModel(s)
	defer m.unsubscribe()
	p := tea.NewProgram(m, tea.WithAltScreen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	close(done)
	if opts.WatchPath != "" {
		w, err := storage.NewWatcher(opts.WatchPath, log)
		if err != nil {
			log.Warn("live reload disabled", zap.Error(err))
		} else {
			done = watch(ctx, w, p, log)
		}
	}

	_, err := p.Run()
	cancel()
	<-done
	return err
}

// watch forwards record changes to p until ctx is done. The returned channel
// is closed once the watcher has stopped.
func watch(ctx context.Context, w *storage.Watcher, p interface{ Send(tea.Msg) }, log *zap.Logger) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := w.Run(ctx, func() { p.Send(reloadMsg{}) }); err != nil {
			log.Warn("watcher stopped", zap.Error(err))
		}
	}()
	return done
}
