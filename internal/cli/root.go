// Package cli is the rainwater command tree. Each command that shows a page
// of the site is annotated with that page's path, and the guard decides
// whether it runs before any content is produced.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/rainwater-harvest-service/internal/adapter/kafka"
	"github.com/couchcryptid/rainwater-harvest-service/internal/adapter/mapbox"
	"github.com/couchcryptid/rainwater-harvest-service/internal/config"
	"github.com/couchcryptid/rainwater-harvest-service/internal/domain"
	"github.com/couchcryptid/rainwater-harvest-service/internal/observability"
	"github.com/couchcryptid/rainwater-harvest-service/internal/session"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// pageAnnotation names the site path a command stands in for.
const pageAnnotation = "page"

// submitter publishes submissions to the estimate pipeline.
type submitter interface {
	Submit(ctx context.Context, records ...domain.SubmissionRecord) error
}

// app carries what the commands share. The session is opened once, in the
// root pre-run hook.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	clock     clockwork.Clock
	store     session.Store
	regions   *config.Regions
	geocoder  domain.Geocoder
	submitter submitter
	guard     *domain.Guard

	session *session.Session
}

// RedirectError stops a command whose page the visitor may not see.
type RedirectError struct {
	Page     string
	Decision domain.Decision
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("%s: redirected to %s", e.Page, e.Decision.Redirect)
}

func Execute() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	a, closeFn, err := newApp(cfg)
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = newRootCmd(a).ExecuteContext(ctx)
	stop()
	closeFn()

	if err != nil {
		fmt.Fprintln(os.Stderr, alertText(err))
		os.Exit(1)
	}
}

// newApp wires the production dependencies. The returned func releases the
// Kafka producer.
func newApp(cfg *config.Config) (*app, func(), error) {
	logger := observability.NewCLILogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)

	regions, err := config.LoadRegions(cfg.RegionsFile)
	if err != nil {
		return nil, nil, err
	}

	dir := cfg.SessionDir
	if dir == "" {
		if dir, err = session.DefaultDir(); err != nil {
			return nil, nil, err
		}
	}
	store := session.NewFileStore(dir, session.DefaultKey)
	logger.Debug("session store", "path", store.Path())

	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		metrics := observability.NewMetricsWith(prometheus.NewRegistry())
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
	}

	sub := kafka.NewSubmitter(cfg, logger)
	closeFn := func() {
		if err := sub.Close(); err != nil {
			logger.Error("kafka submitter close error", "error", err)
		}
	}

	return &app{
		cfg:       cfg,
		logger:    logger,
		clock:     clockwork.NewRealClock(),
		store:     store,
		regions:   regions,
		geocoder:  geocoder,
		submitter: sub,
		guard:     domain.NewGuard(nil),
	}, closeFn, nil
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rainwater",
		Short:         "Rainwater harvesting estimates for rooftops",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.openSession(cmd.Context()); err != nil {
				return err
			}
			return a.authorize(cmd)
		},
	}

	cmd.AddCommand(
		estimateCmd(a),
		submitCmd(a),
		signInCmd(a),
		signUpCmd(a),
		signOutCmd(a),
		whoamiCmd(a),
		dashboardCmd(a),
		locateCmd(a),
		mapCmd(a),
		regionsCmd(a),
	)
	return cmd
}

func (a *app) openSession(ctx context.Context) error {
	if a.session != nil {
		return nil
	}
	s, err := session.Open(ctx, a.store,
		session.WithClock(a.clock),
		session.WithDelay(a.cfg.AuthDelay),
		session.WithLogger(a.logger),
	)
	if err != nil {
		return err
	}
	a.session = s
	return nil
}

// authorize runs the guard for the command's page, if it has one.
func (a *app) authorize(cmd *cobra.Command) error {
	path := cmd.Annotations[pageAnnotation]
	if path == "" {
		return nil
	}
	d := a.guard.Authorize(path, a.session.Authenticated())
	if d.Allow {
		return nil
	}
	a.logger.Info("access redirected", "page", path, "redirect", d.Redirect)
	return &RedirectError{Page: path, Decision: d}
}

// alertText is the message shown for a failed command.
func alertText(err error) string {
	var (
		redirect *RedirectError
		geo      *domain.GeolocationError
	)
	switch {
	case errors.As(err, &redirect):
		return fmt.Sprintf("%s. Sign in with `rainwater signin` (%s).", redirect.Decision.Reason, redirect.Decision.Redirect)
	case errors.As(err, &geo):
		return domain.AdvisoryFor(geo) + "\nRun the command again to retry."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "Invalid credentials"
	case errors.Is(err, domain.ErrMissingFields):
		return "All fields are required"
	case errors.Is(err, context.Canceled):
		return "Cancelled"
	default:
		return "Error: " + err.Error()
	}
}

func page(path string) map[string]string {
	return map[string]string{pageAnnotation: path}
}
