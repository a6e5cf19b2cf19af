package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/qrforge/qrforge/pkg/render"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// styleDescriptions explains each module shape in the picker.
var styleDescriptions = map[string]string{
	"square":  "plain filled squares (classic)",
	"gapped":  "squares with a visible gap",
	"circle":  "dots",
	"rounded": "rounded-corner squares",
	"vbars":   "merged vertical bars",
	"hbars":   "merged horizontal bars",
}

// PromptSelection holds the result of the interactive prompt.
type PromptSelection struct {
	Data  string
	Style string
}

// promptPhase tracks which input the model is collecting.
type promptPhase int

const (
	phaseData promptPhase = iota
	phaseStyle
)

// PromptModel is the bubbletea model for the interactive generate prompt:
// first a free-text payload entry, then a style picker.
type PromptModel struct {
	Phase    promptPhase
	Input    string
	Styles   []string
	Cursor   int
	Selected *PromptSelection
	Quit     bool
}

// NewPromptModel creates the prompt model with the cursor on initialStyle.
func NewPromptModel(initialStyle string) PromptModel {
	styles := render.Styles()
	cursor := 0
	for i, s := range styles {
		if s == initialStyle {
			cursor = i
			break
		}
	}
	return PromptModel{
		Styles: styles,
		Cursor: cursor,
	}
}

func (m PromptModel) Init() tea.Cmd {
	return nil
}

func (m PromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "ctrl+c", "esc":
		m.Quit = true
		return m, tea.Quit
	}

	if m.Phase == phaseData {
		return m.updateData(key)
	}
	return m.updateStyle(key)
}

func (m PromptModel) updateData(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEnter:
		if strings.TrimSpace(m.Input) != "" {
			m.Phase = phaseStyle
		}
	case tea.KeyBackspace:
		if len(m.Input) > 0 {
			runes := []rune(m.Input)
			m.Input = string(runes[:len(runes)-1])
		}
	case tea.KeySpace:
		m.Input += " "
	case tea.KeyRunes:
		m.Input += string(key.Runes)
	}
	return m, nil
}

func (m PromptModel) updateStyle(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Styles)-1 {
			m.Cursor++
		}
	case "enter":
		m.Selected = &PromptSelection{
			Data:  strings.TrimSpace(m.Input),
			Style: m.Styles[m.Cursor],
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m PromptModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Generate QR Code"))
	b.WriteString("\n")

	if m.Phase == phaseData {
		b.WriteString(listDimStyle.Render("type the URL or text, ⏎ continue, esc quit"))
		b.WriteString("\n\n")
		b.WriteString("  " + StyleValue.Render(m.Input) + listSelectedStyle.Render("▌"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(listDimStyle.Render("↑/↓ pick a style  ⏎ generate  esc quit"))
	b.WriteString("\n\n")
	b.WriteString("  " + listDimStyle.Render("payload: ") + StyleValue.Render(m.Input))
	b.WriteString("\n\n")

	for i, s := range m.Styles {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, s, listDimStyle.Render(styleDescriptions[s]))
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	return b.String()
}

// runInteractivePrompt runs the prompt and returns the selection.
// A cancelled prompt returns an error so the caller aborts cleanly.
func runInteractivePrompt(initialStyle string) (PromptSelection, error) {
	final, err := tea.NewProgram(NewPromptModel(initialStyle)).Run()
	if err != nil {
		return PromptSelection{}, fmt.Errorf("interactive prompt: %w", err)
	}

	m, ok := final.(PromptModel)
	if !ok || m.Selected == nil {
		return PromptSelection{}, fmt.Errorf("cancelled")
	}
	return *m.Selected, nil
}
