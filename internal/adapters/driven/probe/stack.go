package probe

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/bunker-stack/bunkerctl/internal/core/domain"
	"github.com/bunker-stack/bunkerctl/internal/core/ports/driven"
)

// localhost is where the stack publishes its ports; the harness runs on
// the same host as the containers.
const localhost = "127.0.0.1"

// postgresDSN builds the connection URL through net/url so credentials
// containing reserved characters survive intact.
func postgresDSN(cfg domain.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   localhost + ":" + strconv.Itoa(cfg.Port),
		Path:   "/" + cfg.Name,
	}
	return u.String()
}

// ForStack builds the probe set for a resolved configuration, one
// prober per catalogue service.
func ForStack(cfg domain.StackConfig) []driven.Prober {
	return []driven.Prober{
		NewPostgresProber(postgresDSN(cfg.Database)),
		NewHTTPProber(domain.ServiceEngine,
			fmt.Sprintf("http://%s:%d/health", localhost, cfg.Engine.Port)),
		NewHTTPProber(domain.ServiceTracing,
			fmt.Sprintf("http://%s:%d/api/public/health", localhost, cfg.Tracing.Port)),
		NewHTTPProber(domain.ServiceGateway,
			fmt.Sprintf("http://%s:%d/health/liveliness", localhost, cfg.Gateway.Port),
			WithBearerToken(cfg.Gateway.MasterKey)),
	}
}
