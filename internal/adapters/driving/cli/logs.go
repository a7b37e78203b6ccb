package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var flagLogsFollow bool

var logsCmd = &cobra.Command{
	Use:   "logs [service]",
	Short: "Show service logs",
	Long: `Streams logs from the orchestrator. With a service argument only that
service's logs are shown; valid services are engine, gateway, tracing
and db.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogs,
}

func init() {
	logsCmd.Flags().BoolVarP(&flagLogsFollow, "follow", "f", false,
		"follow log output")
	rootCmd.AddCommand(logsCmd)
}

func runLogs(cmd *cobra.Command, args []string) error {
	if lifecycleService == nil {
		return errors.New("lifecycle service not configured")
	}
	service := ""
	if len(args) > 0 {
		service = args[0]
	}
	return lifecycleService.Logs(cmd.Context(), service, flagLogsFollow, cmd.OutOrStdout())
}
