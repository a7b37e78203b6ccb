package cli

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bunker-stack/bunkerctl/internal/adapters/driven/gateway"
	"github.com/bunker-stack/bunkerctl/internal/adapters/driven/storage/sqlite"
	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driving"
	"github.com/bunker-stack/bunkerctl/internal/core/services"
	"github.com/bunker-stack/bunkerctl/internal/logger"
)

var (
	flagBenchIterations int
	flagBenchRepeat     int
	flagBenchMaxTokens  int
	flagBenchPrompt     string
	flagBenchLimit      int
)

// benchmarker is injectable for tests; nil means build from the
// resolved configuration.
var benchmarker driving.Benchmarker

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the running stack through the gateway",
}

var benchTTFTCmd = &cobra.Command{
	Use:   "ttft",
	Short: "Measure time to first token on a large prompt",
	Long: `Sends a streaming chat completion with a large synthetic prompt and
measures the time until the first streamed chunk arrives. This is the
prefill cost of a full-context request.`,
	RunE: runBenchTTFT,
}

var benchGenCmd = &cobra.Command{
	Use:   "gen",
	Short: "Measure generation throughput",
	Long: `Sends a non-streaming chat completion and reports completion tokens
per second from the usage the gateway returns.`,
	RunE: runBenchGen,
}

var benchHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent benchmark runs",
	RunE:  runBenchHistory,
}

func init() {
	benchCmd.PersistentFlags().IntVarP(&flagBenchIterations, "iterations", "n", 0,
		"number of timed requests (default 1)")
	benchTTFTCmd.Flags().IntVar(&flagBenchRepeat, "repeat", 0,
		"synthetic payload line repetitions (default 5500, ~250k tokens)")
	benchTTFTCmd.Flags().IntVar(&flagBenchMaxTokens, "max-tokens", 0,
		"generated token cap per request (default 10)")
	benchGenCmd.Flags().StringVar(&flagBenchPrompt, "prompt", "",
		"override the generation prompt")
	benchHistoryCmd.Flags().IntVar(&flagBenchLimit, "limit", 20,
		"number of runs to show")

	benchCmd.AddCommand(benchTTFTCmd)
	benchCmd.AddCommand(benchGenCmd)
	benchCmd.AddCommand(benchHistoryCmd)
	rootCmd.AddCommand(benchCmd)
}

func runBenchTTFT(cmd *cobra.Command, _ []string) error {
	bench, err := newBenchmarker()
	if err != nil {
		return err
	}

	results, err := bench.TTFT(cmd.Context(), domain.BenchOptions{
		Iterations:    flagBenchIterations,
		PayloadRepeat: flagBenchRepeat,
		MaxTokens:     flagBenchMaxTokens,
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		cmd.Printf("ttft %s (total %s)\n",
			r.TTFT.Round(time.Millisecond), r.Duration.Round(time.Millisecond))
	}
	return nil
}

func runBenchGen(cmd *cobra.Command, _ []string) error {
	bench, err := newBenchmarker()
	if err != nil {
		return err
	}

	results, err := bench.Generation(cmd.Context(), domain.BenchOptions{
		Iterations: flagBenchIterations,
		Prompt:     flagBenchPrompt,
	})
	if err != nil {
		return err
	}
	for _, r := range results {
		cmd.Printf("%d tokens in %s: %.2f tokens/s\n",
			r.CompletionTokens, r.Duration.Round(time.Millisecond), r.TokensPerSecond)
	}
	return nil
}

func runBenchHistory(cmd *cobra.Command, _ []string) error {
	bench, err := newBenchmarker()
	if err != nil {
		return err
	}

	results, err := bench.History(cmd.Context(), flagBenchLimit)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		cmd.Println("No recorded runs.")
		return nil
	}
	cmd.Printf("%-20s %-11s %-10s %-10s %s\n", "RAN AT", "KIND", "TTFT", "TOKENS", "TOK/S")
	for _, r := range results {
		ttft := "-"
		if r.TTFT > 0 {
			ttft = r.TTFT.Round(time.Millisecond).String()
		}
		tps := "-"
		if r.TokensPerSecond > 0 {
			tps = strconv.FormatFloat(r.TokensPerSecond, 'f', 2, 64)
		}
		cmd.Printf("%-20s %-11s %-10s %-10d %s\n",
			r.RanAt.Local().Format("2006-01-02 15:04:05"), r.Kind, ttft, r.CompletionTokens, tps)
	}
	return nil
}

// newBenchmarker builds a benchmark service over the gateway endpoint
// of the resolved configuration, unless one was injected.
func newBenchmarker() (driving.Benchmarker, error) {
	if benchmarker != nil {
		return benchmarker, nil
	}

	cfg, _, err := inspectorService.Effective(flagProfile)
	if err != nil {
		return nil, err
	}

	client := gateway.NewClient(gatewayBaseURL(cfg), cfg.Gateway.MasterKey)
	store, err := sqlite.NewStore("")
	if err != nil {
		// Benchmarks still run without history.
		logger.Warn("bench history unavailable: %v", err)
		return services.NewBenchService(client, nil, cfg.Model.ServedName), nil
	}
	return services.NewBenchService(client, store, cfg.Model.ServedName), nil
}
