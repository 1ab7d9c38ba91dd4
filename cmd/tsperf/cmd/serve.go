package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/tsperf-matrix/internal/report"
	"github.com/psantana5/tsperf-matrix/internal/shutdown"
	"github.com/psantana5/tsperf-matrix/pkg/api"
	"github.com/psantana5/tsperf-matrix/pkg/auth"
	"github.com/psantana5/tsperf-matrix/pkg/generate"
	"github.com/psantana5/tsperf-matrix/pkg/logging"
	"github.com/psantana5/tsperf-matrix/pkg/middleware"
	tlsutil "github.com/psantana5/tsperf-matrix/pkg/tls"
	"github.com/psantana5/tsperf-matrix/pkg/tracing"
)

// Version is reported to the tracing backend
var Version = "dev"

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve presets and matrices over HTTP",
	Long: `Run a read-only HTTP API over the active catalog, for tools that trigger
benchmark runs and need to know which presets exist.

Endpoints:
  GET /presets
  GET /presets/{name}
  GET /matrix/{name}?baseline=true
  GET /health
  GET /metrics

When API keys are configured (api_keys, api_key_hashes or TSPERF_API_KEY),
every endpoint except /health and /metrics requires one, sent as
"Authorization: Bearer <key>" or "X-API-Key: <key>".`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.Float64("rate-limit", 0, "requests per second per client (0 disables rate limiting)")
	flags.Int("rate-burst", 10, "request burst per client")
	flags.String("otlp-endpoint", "", "OTLP HTTP collector (host:port); enables tracing")
	flags.Float64("trace-sample-ratio", 1, "fraction of new traces to export")
	flags.String("tls-cert", "", "serve HTTPS with this certificate")
	flags.String("tls-key", "", "private key of --tls-cert")
	flags.String("tls-client-ca", "", "require client certificates signed by this CA")

	bindFlags(flags, map[string]string{
		"serve.addr":               "addr",
		"serve.rate_limit":         "rate-limit",
		"serve.rate_burst":         "rate-burst",
		"serve.otlp_endpoint":      "otlp-endpoint",
		"serve.trace_sample_ratio": "trace-sample-ratio",
		"serve.tls_cert":           "tls-cert",
		"serve.tls_key":            "tls-key",
		"serve.tls_client_ca":      "tls-client-ca",
	})
	viper.BindEnv("api_key", "TSPERF_API_KEY")
}

// serveOptions is the resolved configuration of the HTTP server
type serveOptions struct {
	Addr         string
	APIKeys      []string
	APIKeyHashes []string
	RateLimit    float64
	RateBurst    int
	TLSCert      string
	TLSKey       string
	TLSClientCA  string
}

func serveOptionsFromConfig() serveOptions {
	opts := serveOptions{
		Addr:         viper.GetString("serve.addr"),
		APIKeys:      viper.GetStringSlice("api_keys"),
		APIKeyHashes: viper.GetStringSlice("api_key_hashes"),
		RateLimit:    viper.GetFloat64("serve.rate_limit"),
		RateBurst:    viper.GetInt("serve.rate_burst"),
		TLSCert:      viper.GetString("serve.tls_cert"),
		TLSKey:       viper.GetString("serve.tls_key"),
		TLSClientCA:  viper.GetString("serve.tls_client_ca"),
	}
	if key := viper.GetString("api_key"); key != "" {
		opts.APIKeys = append(opts.APIKeys, key)
	}
	return opts
}

// Rate limit clients idle for limiterIdleTimeout are forgotten
const (
	limiterSweepInterval = time.Minute
	limiterIdleTimeout   = 10 * time.Minute
)

// newServerHandler assembles the router and its middleware chain. The
// returned limiter is nil when rate limiting is disabled.
func newServerHandler(opts serveOptions, g *generate.Generator, provider *tracing.Provider, logger *logging.Logger) (http.Handler, *middleware.Limiter, error) {
	router := mux.NewRouter()
	router.Use(tracing.HTTPMiddleware(provider))
	router.Use(middleware.RequestLogger(logger))

	var limiter *middleware.Limiter
	if opts.RateLimit > 0 {
		limiter = middleware.NewLimiter(opts.RateLimit, opts.RateBurst)
		router.Use(limiter.Middleware(middleware.ClientKey))
	}

	keys := auth.NewKeyring()
	for _, key := range opts.APIKeys {
		if err := keys.Add(key); err != nil {
			return nil, nil, err
		}
	}
	for _, hash := range opts.APIKeyHashes {
		if err := keys.AddHash(hash); err != nil {
			return nil, nil, err
		}
	}
	if keys.Len() > 0 {
		router.Use(middleware.APIKey(keys, logger))
	} else {
		logger.Warn("no API keys configured, serving without authentication")
	}

	api.NewMatrixHandler(g, report.NewMetrics(), logger).RegisterRoutes(router)
	return router, limiter, nil
}

// startLimiterCleanup sweeps idle clients from limiter in the background.
// The returned function stops the sweep and waits for it to exit.
func startLimiterCleanup(ctx context.Context, limiter *middleware.Limiter, interval, maxAge time.Duration) func(context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		limiter.RunCleanup(ctx, interval, maxAge)
	}()

	return func(stopCtx context.Context) error {
		cancel()
		select {
		case <-done:
			return nil
		case <-stopCtx.Done():
			return stopCtx.Err()
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := loadCatalog()
	if err != nil {
		return err
	}
	logger := newLogger()
	opts := serveOptionsFromConfig()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "tsperf-matrix",
		ServiceVersion: Version,
		Environment:    viper.GetString("environment"),
		OTLPEndpoint:   viper.GetString("serve.otlp_endpoint"),
		SampleRatio:    viper.GetFloat64("serve.trace_sample_ratio"),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}

	handler, limiter, err := newServerHandler(opts, generate.New(c), provider, logger)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:         opts.Addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if opts.TLSCert != "" {
		srv.TLSConfig, err = tlsutil.LoadServerConfig(opts.TLSCert, opts.TLSKey, opts.TLSClientCA)
		if err != nil {
			return err
		}
	}

	stopper := shutdown.New(10*time.Second, logger)
	stopper.Register("tracing", provider.Shutdown)
	stopper.Register("http", srv.Shutdown)
	if limiter != nil {
		stopper.Register("ratelimit", startLimiterCleanup(ctx, limiter, limiterSweepInterval, limiterIdleTimeout))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", map[string]interface{}{
			"addr":    opts.Addr,
			"presets": len(c.Names()),
			"tls":     srv.TLSConfig != nil,
			"tracing": provider.Exporting(),
		})
		if srv.TLSConfig != nil {
			errCh <- srv.ListenAndServeTLS("", "")
			return
		}
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		stopper.Shutdown()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	return stopper.Shutdown()
}
