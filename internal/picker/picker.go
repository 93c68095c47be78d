// Package picker implements the numbered entry chooser shown when a search
// matches more than one journal entry.
package picker

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	devicons "github.com/epilande/go-devicons"
	"github.com/muesli/reflow/truncate"
)

// Cancelled is the selection reported when the user backs out of the picker.
const Cancelled = -1

// Item is one selectable journal entry: the filename plus an optional detail
// line (usually the entry title).
type Item struct {
	Name   string
	Detail string
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	numberStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// Model is the bubbletea model for the chooser.
type Model struct {
	title     string
	items     []Item
	cursor    int
	selection int
	quitting  bool
	showIcons bool
	width     int
	errMsg    string
	input     textinput.Model
}

// New builds a picker over the given items.
func New(title string, items []Item, showIcons bool) *Model {
	ti := textinput.New()
	ti.Placeholder = "number"
	ti.Prompt = " > "
	ti.CharLimit = 4
	ti.Validate = func(s string) error {
		if _, err := strconv.Atoi(s); err != nil {
			return fmt.Errorf("not a number")
		}
		return nil
	}
	ti.Focus()

	return &Model{
		title:     title,
		items:     items,
		selection: Cancelled,
		showIcons: showIcons,
		width:     80,
		input:     ti,
	}
}

// Selection returns the index of the chosen item, or Cancelled.
func (m *Model) Selection() int {
	return m.selection
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			m.selection = Cancelled
			m.quitting = true
			return m, tea.Quit
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			return m.choose()
		case tea.KeyRunes:
			if string(msg.Runes) == "q" && m.input.Value() == "" {
				m.selection = Cancelled
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// choose resolves Enter: a typed number picks by index, an empty input picks
// the cursor row.
func (m *Model) choose() (tea.Model, tea.Cmd) {
	value := m.input.Value()
	if value == "" {
		m.selection = m.cursor
		m.quitting = true
		return m, tea.Quit
	}

	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > len(m.items) {
		m.errMsg = fmt.Sprintf("entry number out of range (1-%d)", len(m.items))
		m.input.SetValue("")
		return m, nil
	}
	m.selection = n - 1
	m.quitting = true
	return m, tea.Quit
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	s := titleStyle.Render(m.title) + "\n\n"
	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		line := item.Name
		if m.showIcons {
			line = deviconFor(item.Name) + " " + line
		}
		if item.Detail != "" && item.Detail != item.Name {
			line += detailStyle.Render("  " + item.Detail)
		}
		line = truncate.StringWithTail(line, uint(max(m.width-8, 20)), "…")

		s += fmt.Sprintf("%s%s %s\n", cursor, numberStyle.Render(fmt.Sprintf("%3d)", i+1)), line)
	}

	s += "\n" + m.input.View() + "\n"
	if m.errMsg != "" {
		s += errorStyle.Render(m.errMsg) + "\n"
	}
	s += helpStyle.Render("enter: open • ↑/↓: move • q/esc: cancel") + "\n"
	return s
}

type iconFileInfo struct {
	name string
}

func (i iconFileInfo) Name() string       { return i.name }
func (i iconFileInfo) Size() int64        { return 0 }
func (i iconFileInfo) Mode() os.FileMode  { return 0 }
func (i iconFileInfo) ModTime() time.Time { return time.Time{} }
func (i iconFileInfo) IsDir() bool        { return false }
func (i iconFileInfo) Sys() any           { return nil }

func deviconFor(name string) string {
	style := devicons.IconForInfo(iconFileInfo{name: name})
	return style.Icon
}

// Choose runs the picker on the attached terminal and returns the selected
// index, or Cancelled when the user backs out.
func Choose(title string, items []Item, showIcons bool) (int, error) {
	if len(items) == 0 {
		return Cancelled, fmt.Errorf("nothing to choose from")
	}

	model := New(title, items, showIcons)
	p := tea.NewProgram(model)
	final, err := p.Run()
	if err != nil {
		return Cancelled, err
	}
	if m, ok := final.(*Model); ok {
		return m.Selection(), nil
	}
	return Cancelled, nil
}
