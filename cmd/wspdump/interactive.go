package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wsp-dissect/dissector"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type focus int

const (
	focusInput focus = iota
	focusTree
)

type interactiveModel struct {
	err      error
	d        *dissector.Dissector
	input    textinput.Model
	tree     viewport.Model
	info     string
	focus    focus
	ready    bool
	rendered string
}

func newInteractiveModel(d *dissector.Dissector, initial string) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "03 10 00 00 02 00 00 00 01 00 00 00 02 00 00 00"
	ti.Prompt = "hex: "
	ti.Width = 72
	ti.SetValue(initial)
	ti.Focus()

	m := &interactiveModel{d: d, input: ti}
	if initial != "" {
		m.decode()
	}
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return textinput.Blink
}

// decode dissects the current input and renders the tree.
func (m *interactiveModel) decode() {
	m.err = nil
	m.info = ""
	data, err := parseHex(m.input.Value())
	if err != nil {
		m.err = err
		m.rendered = ""
	} else {
		res := m.d.Dissect(data)
		m.info = fmt.Sprintf("%d bytes, %s", len(data), res.Info())
		p := &printer{color: true}
		var b strings.Builder
		for _, n := range res.Nodes {
			b.WriteString(renderTree(n, p))
		}
		m.rendered = b.String()
	}
	if m.ready {
		m.tree.SetContent(m.rendered)
		m.tree.GotoTop()
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "enter":
			m.decode()
			return m, nil

		case "tab":
			if m.focus == focusInput {
				m.focus = focusTree
				m.input.Blur()
			} else {
				m.focus = focusInput
				m.input.Focus()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		// title, input, info and help lines plus spacing
		height := max(msg.Height-7, 3)
		if !m.ready {
			m.tree = viewport.New(msg.Width, height)
			m.tree.SetContent(m.rendered)
			m.ready = true
		} else {
			m.tree.Width = msg.Width
			m.tree.Height = height
		}
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
	}

	var cmd tea.Cmd
	if m.focus == focusInput {
		m.input, cmd = m.input.Update(msg)
	} else if m.ready {
		m.tree, cmd = m.tree.Update(msg)
	}
	return m, cmd
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("MS-WSP Variant"))
	b.WriteString(" ")
	b.WriteString(m.d.Config().Framing.String())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	case m.info != "":
		b.WriteString(infoStyle.Render(m.info))
	}
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.tree.View())
	} else {
		b.WriteString(m.rendered)
	}
	b.WriteString("\n")
	if m.focus == focusInput {
		b.WriteString(helpStyle.Render("enter decode • tab scroll tree • esc quit"))
	} else {
		b.WriteString(helpStyle.Render("↑/↓ scroll • tab edit input • esc quit"))
	}
	return b.String()
}

func runInteractive(o options) error {
	cfg, err := o.config()
	if err != nil {
		return err
	}
	d, err := dissector.New(cfg)
	if err != nil {
		return err
	}
	initial := o.hex
	if initial == "" && o.file != "" {
		data, err := o.input()
		if err != nil {
			return err
		}
		initial = fmt.Sprintf("% X", data)
	}

	p := tea.NewProgram(newInteractiveModel(d, initial), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
