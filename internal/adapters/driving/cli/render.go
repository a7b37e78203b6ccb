package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	flagRenderStdout bool
	flagRenderWatch  bool
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the gateway config from its template",
	Long: `Substitutes the resolved configuration into the gateway config
template. Placeholders use literal ${VAR} syntax; every placeholder
must resolve and the result must parse as YAML.

By default the result is written to the generated config path. Use
--stdout to print it instead, or --watch to keep re-rendering as the
template changes.`,
	RunE: runRender,
}

func init() {
	renderCmd.Flags().BoolVar(&flagRenderStdout, "stdout", false,
		"print the rendered config instead of writing it")
	renderCmd.Flags().BoolVar(&flagRenderWatch, "watch", false,
		"re-render on every template change until interrupted")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	if renderService == nil {
		return errors.New("render service not configured")
	}

	if flagRenderWatch {
		return watchRender(cmd)
	}

	rendered, outPath, err := renderService.Render(flagProfile, !flagRenderStdout)
	if err != nil {
		return err
	}
	if flagRenderStdout {
		cmd.Print(string(rendered))
		return nil
	}
	cmd.Printf("Rendered %s\n", outPath)
	return nil
}

// watchRender blocks re-rendering until SIGINT/SIGTERM.
func watchRender(cmd *cobra.Command) error {
	done := make(chan struct{})
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)
	go func() {
		<-sig
		close(done)
	}()

	cmd.Println("Watching template, Ctrl+C to stop.")
	onResult := func(err error) {
		if err != nil {
			cmd.PrintErrf("render failed: %v\n", err)
			return
		}
		cmd.Println("re-rendered")
	}
	return renderService.Watch(flagProfile, onResult, done)
}
