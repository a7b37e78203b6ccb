package cli

import (
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/bunker-stack/bunkerctl/internal/adapters/driven/probe"
	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driving"
	"github.com/bunker-stack/bunkerctl/internal/core/services"
)

var flagCheckWait time.Duration

// healthChecker is injectable for tests; nil means build from the
// resolved configuration.
var healthChecker driving.HealthChecker

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe every service's health endpoint",
	Long: `Probes the engine, gateway, tracing UI and database concurrently and
reports the aggregate. Exits non-zero when any probe fails. With
--wait, probes are retried until the stack is healthy or the timeout
elapses; the engine can take minutes to load a large model.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().DurationVar(&flagCheckWait, "wait", 0,
		"retry until healthy, for at most this long")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	checker, err := newHealthChecker()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var health *domain.StackHealth
	if flagCheckWait > 0 {
		health, err = checker.Wait(ctx, flagCheckWait)
	} else {
		health, err = checker.Check(ctx)
		if err == nil && !health.Healthy() {
			err = domain.ErrStackUnhealthy
		}
	}
	printHealth(cmd, health)
	return err
}

// newHealthChecker builds a health checker over probers for the
// resolved configuration, unless a checker was injected.
func newHealthChecker() (driving.HealthChecker, error) {
	if healthChecker != nil {
		return healthChecker, nil
	}
	cfg, _, err := inspectorService.Effective(flagProfile)
	if err != nil {
		return nil, err
	}
	return services.NewHealthService(probe.ForStack(cfg)), nil
}

func printHealth(cmd *cobra.Command, health *domain.StackHealth) {
	if health == nil {
		return
	}
	for _, h := range health.Services {
		mark := "ok"
		detail := h.Latency.Round(time.Millisecond).String()
		if !h.Healthy() {
			mark = string(h.State)
			detail = h.Detail
		}
		cmd.Printf("%-10s %-12s %s\n", h.Service, mark, detail)
	}
	if health.Healthy() {
		cmd.Println("\nStack healthy.")
	} else {
		cmd.Println("\nStack unhealthy.")
	}
}

// gatewayBaseURL derives the local gateway endpoint from the resolved
// configuration.
func gatewayBaseURL(cfg domain.StackConfig) string {
	u := url.URL{
		Scheme: "http",
		Host:   "127.0.0.1:" + strconv.Itoa(cfg.Gateway.Port),
	}
	return u.String()
}
