// Package installer is the interactive setup wizard behind `ridevoice init -i`.
package installer

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrInterrupted = errors.New("setup interrupted")

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	itemStyle  = lipgloss.NewStyle().PaddingLeft(2)
	selStyle   = lipgloss.NewStyle().PaddingLeft(2).Foreground(lipgloss.Color("5"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Step represents a single step in the wizard. Update returns nil once the
// step is answered.
type Step interface {
	Init() tea.Cmd
	Skip(state *InstallState) bool
	Update(msg tea.Msg, state *InstallState) (Step, tea.Cmd)
	View(state *InstallState) string
}

type model struct {
	steps       []Step
	currentStep int
	state       *InstallState
	quitting    bool
}

func newModel(steps []Step) model {
	m := model{
		steps: steps,
		state: NewInstallState(),
	}
	m.currentStep = m.nextStep(-1)
	return m
}

// nextStep returns the first step after i that applies to the answers so far.
func (m model) nextStep(i int) int {
	for i++; i < len(m.steps); i++ {
		if !m.steps[i].Skip(m.state) {
			return i
		}
	}
	return i
}

func (m model) done() bool {
	return m.currentStep >= len(m.steps)
}

func (m model) Init() tea.Cmd {
	if m.done() {
		return tea.Quit
	}
	return m.steps[m.currentStep].Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}
	if m.done() {
		return m, tea.Quit
	}

	next, cmd := m.steps[m.currentStep].Update(msg, m.state)
	if next != nil {
		m.steps[m.currentStep] = next
		return m, cmd
	}

	m.currentStep = m.nextStep(m.currentStep)
	if m.done() {
		return m, tea.Quit
	}
	return m, m.steps[m.currentStep].Init()
}

func (m model) View() string {
	if m.quitting {
		return "Setup cancelled.\n"
	}
	if m.done() {
		return "Configuration complete!\n"
	}
	return titleStyle.Render("Setting up RideVoice 🚕") + "\n\n" +
		m.steps[m.currentStep].View(m.state) +
		hintStyle.Render("\n(press ctrl+c to quit)") + "\n"
}

// RunWizard starts the TUI and returns the collected env vars.
func RunWizard() (*InstallState, error) {
	p := tea.NewProgram(newModel(Steps()), tea.WithAltScreen())
	m, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run wizard: %w", err)
	}

	final := m.(model)
	if final.quitting {
		return nil, ErrInterrupted
	}
	return final.state, nil
}
