package cli

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var flagStartWait time.Duration

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Render the gateway config and bring the stack up",
	Long: `Resolves the configuration (base env file, profile overlay, process
environment), renders the gateway config from its template, cleans up
stray engine processes and stale /dev/shm artifacts, then runs
compose up detached.`,
	RunE: runStart,
}

func init() {
	startCmd.Flags().DurationVar(&flagStartWait, "wait", 0,
		"after up, wait this long for the stack to become healthy")
	rootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, _ []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}

	ctx := cmd.Context()
	if err := lifecycleService.Start(ctx, flagProfile); err != nil {
		return err
	}
	cmd.Println("Stack started.")

	if flagStartWait <= 0 {
		return nil
	}

	checker, err := newHealthChecker()
	if err != nil {
		return err
	}
	cmd.Printf("Waiting up to %s for the stack to become healthy...\n", flagStartWait)
	health, err := checker.Wait(ctx, flagStartWait)
	printHealth(cmd, health)
	return err
}
