package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bunker-stack/bunkerctl/internal/adapters/driving/tui"
	"github.com/bunker-stack/bunkerctl/internal/core/domain"
)

var flagStatusWatch bool

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show per-service container state",
	Long: `Reports the orchestrator's view of every stack service. With --watch
an interactive dashboard refreshes the state periodically.`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().BoolVarP(&flagStatusWatch, "watch", "w", false,
		"refresh continuously in an interactive dashboard")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}

	if flagStatusWatch {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			return errors.New("--watch needs a terminal")
		}
		model := tui.NewStatusModel(lifecycleService)
		_, err := tea.NewProgram(model).Run()
		return err
	}

	statuses, err := lifecycleService.Status(cmd.Context())
	if err != nil {
		return err
	}
	printStatuses(cmd, statuses)
	cmd.Println()
	cmd.Println(statusSummary(statuses))
	return nil
}

func printStatuses(cmd *cobra.Command, statuses []domain.ServiceStatus) {
	cmd.Printf("%-10s %-12s %-10s %s\n", "SERVICE", "STATE", "HEALTH", "PORTS")
	for _, s := range statuses {
		health := s.Health
		if health == "" {
			health = "-"
		}
		cmd.Printf("%-10s %-12s %-10s %s\n", s.Name, s.State, health, s.Ports)
	}
}

// statusSummary renders a one-line verdict for scripts.
func statusSummary(statuses []domain.ServiceStatus) string {
	up := 0
	for _, s := range statuses {
		if s.Up() {
			up++
		}
	}
	return fmt.Sprintf("%d/%d services up", up, len(statuses))
}
