package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/wippyai/binstruct/schema"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	recordStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	kindStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateSelectRecord modelState = iota
	stateInputHex
	stateShowDecoded
)

type interactiveModel struct {
	err      error
	filename string
	layouts  map[string]*schema.Layout
	names    []string
	input    textinput.Model
	decoded  []decodedField
	selected int
	width    int
	state    modelState
}

type decodedField struct {
	name  string
	kind  string
	value string
}

type loadedMsg struct {
	err     error
	layouts map[string]*schema.Layout
	names   []string
}

type decodedMsg struct {
	err    error
	fields []decodedField
}

func newInteractiveModel(filename string) *interactiveModel {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	return &interactiveModel{
		filename: filename,
		state:    stateSelectRecord,
		width:    width,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadSchema
}

func (m *interactiveModel) loadSchema() tea.Msg {
	layouts, names, err := loadSchemas(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{layouts: layouts, names: names}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateInputHex {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectRecord && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectRecord && m.selected < len(m.names)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectRecord:
				m.prepareInput()
				m.state = stateInputHex
			case stateInputHex:
				return m, m.decode
			case stateShowDecoded:
				m.state = stateSelectRecord
				m.decoded = nil
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInputHex:
				m.state = stateSelectRecord
			case stateShowDecoded:
				m.state = stateSelectRecord
				m.decoded = nil
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.layouts = msg.layouts
		m.names = msg.names

	case decodedMsg:
		m.decoded = msg.fields
		m.err = msg.err
		m.state = stateShowDecoded
	}

	if m.state == stateInputHex {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) prepareInput() {
	l := m.layouts[m.names[m.selected]]
	ti := textinput.New()
	ti.Placeholder = fmt.Sprintf("%d bytes of hex", l.ByteSize())
	ti.Prompt = "hex: "
	ti.Width = min(m.width-10, 64)
	ti.Focus()
	m.input = ti
}

func (m *interactiveModel) decode() tea.Msg {
	l := m.layouts[m.names[m.selected]]

	data, err := decodeHex(m.input.Value())
	if err != nil {
		return decodedMsg{err: err}
	}
	if len(data) != l.ByteSize() {
		return decodedMsg{err: fmt.Errorf("input is %d bytes, record %s needs %d",
			len(data), l.Name(), l.ByteSize())}
	}

	values, err := l.LoadBytes(data)
	if err != nil {
		return decodedMsg{err: err}
	}

	var fields []decodedField
	for _, d := range l.Fields() {
		v, ok := values[d.Name()]
		if !ok {
			continue
		}
		fields = append(fields, decodedField{
			name:  d.Name(),
			kind:  d.Kind().String(),
			value: fmt.Sprintf("%v", v),
		})
	}
	return decodedMsg{fields: fields}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowDecoded {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.names) == 0 {
		return "Loading schema..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("binspect"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectRecord:
		b.WriteString("Select a record to decode:\n\n")
		for i, name := range m.names {
			line := m.formatRecord(m.layouts[name])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter decode • q quit"))

	case stateInputHex:
		l := m.layouts[m.names[m.selected]]
		b.WriteString(fmt.Sprintf("Decoding %s (%s)\n\n",
			recordStyle.Render(l.Name()), kindStyle.Render(l.StructString())))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter decode • esc back"))

	case stateShowDecoded:
		l := m.layouts[m.names[m.selected]]
		b.WriteString(fmt.Sprintf("Decoded %s:\n\n", recordStyle.Render(l.Name())))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			for _, f := range m.decoded {
				b.WriteString(fmt.Sprintf("  %-16s %s %s\n",
					f.name, kindStyle.Render(fmt.Sprintf("%-8s", f.kind)), valueStyle.Render(f.value)))
			}
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatRecord(l *schema.Layout) string {
	return recordStyle.Render(l.Name()) +
		fmt.Sprintf(" (%d fields, %d bytes) ", len(l.Fields()), l.ByteSize()) +
		kindStyle.Render(l.StructString())
}

func runInteractive(filename string) error {
	p := tea.NewProgram(newInteractiveModel(filename), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
