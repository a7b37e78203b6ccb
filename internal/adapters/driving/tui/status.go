// Package tui provides the interactive status dashboard behind
// `status --watch`. It polls the orchestrator and redraws the
// per-service table until the user quits.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driving"
)

// pollInterval is how often the dashboard refreshes the service table.
const pollInterval = 2 * time.Second

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6C7086"))
	upStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	downStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// statusLoadedMsg carries one poll result.
type statusLoadedMsg struct {
	statuses []domain.ServiceStatus
	err      error
}

// tickMsg triggers the next poll.
type tickMsg time.Time

// StatusModel is the bubbletea model of the status dashboard.
type StatusModel struct {
	lifecycle driving.Lifecycle
	spinner   spinner.Model

	statuses []domain.ServiceStatus
	err      error
	loaded   bool
	polls    int
}

// NewStatusModel creates the dashboard model over the lifecycle
// service.
func NewStatusModel(lifecycle driving.Lifecycle) *StatusModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#06B6D4"))
	return &StatusModel{lifecycle: lifecycle, spinner: sp}
}

// Init starts the spinner and the first poll.
func (m *StatusModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.poll())
}

// Update handles key presses, poll results, and the refresh tick.
func (m *StatusModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.poll()
		}

	case statusLoadedMsg:
		m.loaded = true
		m.polls++
		m.statuses = msg.statuses
		m.err = msg.err
		return m, m.tick()

	case tickMsg:
		return m, m.poll()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the service table.
func (m *StatusModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("bunker stack"))
	b.WriteString("\n\n")

	if !m.loaded {
		b.WriteString(m.spinner.View())
		b.WriteString(" querying the orchestrator...\n")
		return b.String()
	}
	if m.err != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("status failed: %v", m.err)))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("r to retry, q to quit"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(headStyle.Render(fmt.Sprintf("%-10s %-12s %-10s %s", "SERVICE", "STATE", "HEALTH", "PORTS")))
	b.WriteString("\n")
	for _, s := range m.statuses {
		style := downStyle
		if s.Up() {
			style = upStyle
		}
		health := s.Health
		if health == "" {
			health = "-"
		}
		row := fmt.Sprintf("%-10s %-12s %-10s %s", s.Name, s.State, health, s.Ports)
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(mutedStyle.Render(fmt.Sprintf("refreshing every %s, q to quit", pollInterval)))
	b.WriteString("\n")
	return b.String()
}

// poll queries the orchestrator once.
func (m *StatusModel) poll() tea.Cmd {
	return func() tea.Msg {
		statuses, err := m.lifecycle.Status(context.Background())
		return statusLoadedMsg{statuses: statuses, err: err}
	}
}

func (m *StatusModel) tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
