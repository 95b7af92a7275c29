package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/texsvg/config"
	"github.com/wippyai/texsvg/errors"
	"github.com/wippyai/texsvg/runtime"
	"github.com/wippyai/texsvg/svgdoc"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	modeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// previewRunes caps how much markup the result view shows.
const previewRunes = 480

type interactiveModel struct {
	err      error
	cfg      *config.Config
	renderer *runtime.Renderer
	input    textinput.Model
	bundle   string
	lastTeX  string
	lastMode runtime.Mode
	result   string
	saved    string
	elapsed  time.Duration
	mode     runtime.Mode
	renders  int
	busy     bool
	state    modelState
}

type modelState int

const (
	stateLoading modelState = iota
	stateEdit
	stateShowResult
)

func newInteractiveModel(cfg *config.Config) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = `\frac{a}{b}`
	ti.Prompt = "tex: "
	ti.Width = 60
	ti.Focus()
	return &interactiveModel{
		cfg:   cfg,
		input: ti,
		state: stateLoading,
	}
}

type loadedMsg struct {
	err      error
	renderer *runtime.Renderer
	elapsed  time.Duration
}

type renderResultMsg struct {
	err     error
	tex     string
	mode    runtime.Mode
	result  string
	elapsed time.Duration
}

func (m *interactiveModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.loadRenderer)
}

func (m *interactiveModel) loadRenderer() tea.Msg {
	start := time.Now()
	r, err := m.cfg.NewRenderer()
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{renderer: r, elapsed: time.Since(start)}
}

// renderCmd captures its inputs so the command does not read the model
// from another goroutine.
func (m *interactiveModel) renderCmd(tex string, mode runtime.Mode) tea.Cmd {
	r := m.renderer
	return func() tea.Msg {
		start := time.Now()
		out, err := r.Render(tex, mode)
		return renderResultMsg{tex: tex, mode: mode, result: out, err: err, elapsed: time.Since(start)}
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, m.quit()

		case "esc":
			if m.state == stateShowResult {
				m.state = stateEdit
				return m, nil
			}
			return m, m.quit()

		case "tab":
			if m.mode == runtime.Display {
				m.mode = runtime.Inline
			} else {
				m.mode = runtime.Display
			}
			return m, nil

		case "ctrl+s":
			if m.state == stateShowResult && m.err == nil && m.result != "" {
				m.save()
			}
			return m, nil

		case "enter":
			switch m.state {
			case stateEdit:
				if m.busy || m.renderer == nil {
					return m, nil
				}
				m.busy = true
				m.saved = ""
				return m, m.renderCmd(m.input.Value(), m.mode)
			case stateShowResult:
				m.state = stateEdit
				return m, nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.renderer = msg.renderer
		m.bundle = fmt.Sprintf("%s (%s, %dms)",
			msg.renderer.Bundle().Name, msg.renderer.Bundle().ShortDigest(), msg.elapsed.Milliseconds())
		m.state = stateEdit
		return m, nil

	case renderResultMsg:
		m.busy = false
		m.renders++
		m.lastTeX = msg.tex
		m.lastMode = msg.mode
		m.result = msg.result
		m.err = msg.err
		m.elapsed = msg.elapsed
		m.state = stateShowResult
		return m, nil
	}

	if m.state == stateEdit {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *interactiveModel) quit() tea.Cmd {
	if m.renderer != nil && !m.busy {
		m.renderer.Close()
	}
	return tea.Quit
}

// save writes the last result as a standalone document in the working
// directory.
func (m *interactiveModel) save() {
	doc, err := svgdoc.Standalone(m.result)
	if err != nil {
		m.saved = "save failed: " + err.Error()
		return
	}
	name := fmt.Sprintf("texsvg_%03d.svg", m.renders)
	if err := os.WriteFile(name, []byte(doc), 0o644); err != nil {
		m.saved = "save failed: " + err.Error()
		return
	}
	m.saved = "saved " + name
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state == stateLoading {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress ctrl+c to quit.", m.err))
	}
	if m.state == stateLoading {
		return "Loading bundle..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("TeX to SVG"))
	b.WriteString(" ")
	b.WriteString(m.bundle)
	b.WriteString("\n\n")

	switch m.state {
	case stateEdit:
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString("mode: ")
		b.WriteString(modeStyle.Render(m.mode.String()))
		if m.busy {
			b.WriteString("  rendering...")
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter render • tab toggle mode • esc quit"))

	case stateShowResult:
		fmt.Fprintf(&b, "%s %s in %s\n\n",
			modeStyle.Render(m.lastMode.String()), m.lastTeX, m.elapsed.Round(time.Microsecond))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("%s: %v", errors.KindOf(m.err), m.err)))
		} else {
			b.WriteString(resultStyle.Render(preview(m.result)))
			fmt.Fprintf(&b, "\n\n%d bytes", len(m.result))
		}
		if m.saved != "" {
			b.WriteString("\n")
			b.WriteString(m.saved)
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter edit • ctrl+s save • esc back"))
	}

	return b.String()
}

func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewRunes {
		return s
	}
	return string(r[:previewRunes]) + "..."
}

func runInteractive(cfg *config.Config) error {
	p := tea.NewProgram(newInteractiveModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
