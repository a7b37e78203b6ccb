package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var flagStopVolumes bool

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Bring the stack down",
	RunE:  runStop,
}

var restartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Stop and start the stack",
	Long: `Brings the stack down and back up with a freshly rendered gateway
config. Volumes are kept.`,
	RunE: runRestart,
}

func init() {
	stopCmd.Flags().BoolVar(&flagStopVolumes, "volumes", false,
		"also remove named volumes (destroys the tracing database)")
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(restartCmd)
}

func runStop(cmd *cobra.Command, _ []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}
	if err := lifecycleService.Stop(cmd.Context(), flagStopVolumes); err != nil {
		return err
	}
	cmd.Println("Stack stopped.")
	return nil
}

func runRestart(cmd *cobra.Command, _ []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}
	if err := lifecycleService.Restart(cmd.Context(), flagProfile); err != nil {
		return err
	}
	cmd.Println("Stack restarted.")
	return nil
}
