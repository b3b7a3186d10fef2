package config

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"kvload/internal/runner"
	"kvload/internal/tui/styles"
	"kvload/internal/workload"
)

var ErrCancelled = errors.New("edit cancelled")

const (
	fieldThreads = iota
	fieldDuration
	fieldWorkload
	fieldHost
	fieldPort
	numFields
)

type Field struct {
	Label string
	Input textinput.Model
}

// Model is a form over the headline run settings. Everything else in
// Base (key space, timeout, rate...) passes through unchanged.
type Model struct {
	Base   runner.Config
	Fields []Field
	Focus  int

	Err       string
	Submitted bool
	Cancelled bool
}

func newInput(placeholder, value string, width int) textinput.Model {
	t := textinput.New()
	t.Placeholder = placeholder
	t.SetValue(value)
	t.Width = width
	return t
}

func NewModel(cfg runner.Config) Model {
	m := Model{
		Base:   cfg,
		Fields: make([]Field, numFields),
	}
	m.Fields[fieldThreads] = Field{Label: "Threads", Input: newInput("4", strconv.Itoa(cfg.Threads), 10)}
	m.Fields[fieldDuration] = Field{Label: "Duration (30s, 2m, bare seconds)", Input: newInput("30s", cfg.Duration.String(), 10)}
	m.Fields[fieldWorkload] = Field{Label: "Workload (putall/getall/popular/mixed)", Input: newInput("mixed", cfg.Workload.String(), 10)}
	m.Fields[fieldHost] = Field{Label: "Host", Input: newInput("localhost", cfg.Host, 40)}
	m.Fields[fieldPort] = Field{Label: "Port", Input: newInput("8080", strconv.Itoa(cfg.Port), 10)}
	m.setFocus(0)
	return m
}

func (m *Model) setFocus(i int) {
	if i >= len(m.Fields) {
		i = 0
	} else if i < 0 {
		i = len(m.Fields) - 1
	}
	m.Focus = i

	for j := range m.Fields {
		if j == m.Focus {
			m.Fields[j].Input.Focus()
			m.Fields[j].Input.PromptStyle = styles.Active
			m.Fields[j].Input.TextStyle = styles.Active
		} else {
			m.Fields[j].Input.Blur()
			m.Fields[j].Input.PromptStyle = lipgloss.NewStyle()
			m.Fields[j].Input.TextStyle = lipgloss.NewStyle()
		}
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc", "ctrl+c":
			m.Cancelled = true
			return m, tea.Quit

		case "enter":
			if m.Focus < len(m.Fields)-1 {
				m.setFocus(m.Focus + 1)
				return m, nil
			}
			if _, err := m.Config(); err != nil {
				m.Err = err.Error()
				return m, nil
			}
			m.Err = ""
			m.Submitted = true
			return m, tea.Quit

		case "tab", "down":
			m.setFocus(m.Focus + 1)
			return m, nil

		case "shift+tab", "up":
			m.setFocus(m.Focus - 1)
			return m, nil
		}
	}

	cmds := make([]tea.Cmd, len(m.Fields))
	for i := range m.Fields {
		m.Fields[i].Input, cmds[i] = m.Fields[i].Input.Update(msg)
	}
	return m, tea.Batch(cmds...)
}

// Config applies the form to Base and validates the result.
func (m Model) Config() (runner.Config, error) {
	c := m.Base
	value := func(i int) string { return strings.TrimSpace(m.Fields[i].Input.Value()) }

	var err error
	if c.Threads, err = strconv.Atoi(value(fieldThreads)); err != nil {
		return c, fmt.Errorf("%w: threads %q is not an integer", runner.ErrInvalidConfig, value(fieldThreads))
	}
	if c.Duration, err = runner.ParseDuration(value(fieldDuration)); err != nil {
		return c, fmt.Errorf("%w: duration: %v", runner.ErrInvalidConfig, err)
	}
	if c.Workload, err = workload.ParseKind(value(fieldWorkload)); err != nil {
		return c, fmt.Errorf("%w: %w", runner.ErrInvalidConfig, err)
	}
	c.Host = value(fieldHost)
	if c.Port, err = strconv.Atoi(value(fieldPort)); err != nil {
		return c, fmt.Errorf("%w: port %q is not an integer", runner.ErrInvalidConfig, value(fieldPort))
	}
	return c, c.Validate()
}

func (m Model) View() string {
	if m.Submitted || m.Cancelled {
		return ""
	}

	s := strings.Builder{}
	s.WriteString(styles.Title.Render("Run Settings"))
	s.WriteString("\n\n")

	for i := range m.Fields {
		s.WriteString(styles.Subtle.Render(m.Fields[i].Label))
		s.WriteString("\n")
		s.WriteString(m.Fields[i].Input.View())
		s.WriteString("\n\n")
	}

	if m.Err != "" {
		s.WriteString(styles.Error.Render(m.Err))
		s.WriteString("\n")
	}
	s.WriteString(styles.Active.Render("[Enter] next / start   [Esc] cancel"))

	return styles.Box.Render(s.String())
}

// Edit shows the form prefilled from cfg and returns the submitted config.
func Edit(cfg runner.Config, in io.Reader, out io.Writer) (runner.Config, error) {
	p := tea.NewProgram(NewModel(cfg), tea.WithInput(in), tea.WithOutput(out))
	final, err := p.Run()
	if err != nil {
		return cfg, fmt.Errorf("settings form: %w", err)
	}
	m := final.(Model)
	if !m.Submitted {
		return cfg, ErrCancelled
	}
	return m.Config()
}
