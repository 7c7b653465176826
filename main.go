package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gopkg.in/alecthomas/kingpin.v2"

	"booktracker/config"
	"booktracker/internal/console"
	"booktracker/internal/dispatcher"
	"booktracker/internal/server"
	"booktracker/internal/session"
	"booktracker/internal/store"
	"booktracker/internal/workflow"
)

var (
	serveCmd = kingpin.Command("serve", "Run the HTTP service").Default()
	shellCmd = kingpin.Command("shell", "Track borrowed books from the terminal")
)

const (
	shutdownTimeout = 10 * time.Second
	sweepInterval   = time.Minute
	editMaxAge      = 30 * time.Minute
)

func main() {
	kingpin.UsageTemplate(kingpin.CompactUsageTemplate).Version("0.1")
	kingpin.CommandLine.Help = "Borrowed books tracker"
	cmd := kingpin.Parse()

	if err := run(cmd); err != nil {
		logrus.Fatalf("%s failed: %s", cmd, err)
	}
}

// run holds everything that needs cleanup so main can exit only after the
// deferred calls have run.
func run(cmd string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}
	logger := cfg.GetLogger()
	logger.WithFields(logrus.Fields{"app_env": cfg.AppEnv, "store": cfg.Store.Backend, "identity": cfg.Identity.Backend}).
		Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b, err := newBackends(ctx, cfg, logger)
	if err != nil {
		return errors.Wrap(err, "setting up backends")
	}
	defer b.Close()

	switch cmd {
	case serveCmd.FullCommand():
		return serve(ctx, cfg, b, logger)
	case shellCmd.FullCommand():
		return shell(ctx, cfg, b, logger)
	}
	return errors.Errorf("unknown command %q", cmd)
}

// startEvents wraps the store so mutations are published when a queue is
// configured. The returned func stops accepting events; workers drain and exit.
func startEvents(ctx context.Context, g *errgroup.Group, cfg *config.AppConfig, b *backends, logger *logrus.Logger) (store.DocumentStore, func()) {
	if b.SQS == nil {
		return b.Store, func() {}
	}
	d := dispatcher.New(cfg.Events.Buffer, logger)
	for i := 1; i <= cfg.Events.WorkerCount; i++ {
		id := i
		g.Go(func() error {
			return dispatcher.Worker(ctx, id, d.Events(), b.SQS, cfg.Events.QueueURL(), logger)
		})
	}
	return store.WithEvents(b.Store, d), d.Close
}

func serve(ctx context.Context, cfg *config.AppConfig, b *backends, logger *logrus.Logger) error {
	if cfg.IsProductionMode() {
		gin.SetMode(gin.ReleaseMode)
	}

	g, ctx := errgroup.WithContext(ctx)
	docs, stopEvents := startEvents(ctx, g, cfg, b, logger)
	defer stopEvents()

	sessions := session.NewRegistry(cfg.SessionTTL, func(email string) *workflow.Desk {
		return workflow.NewDesk(docs, workflow.LogReporter{Log: logger.WithField("email", email)})
	})
	api := server.New(docs, b.Gateway, sessions, logger, cfg.IsProductionMode())
	defer api.Close()
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.Router(),
	}

	g.Go(func() error {
		logger.WithField("addr", srv.Addr).Info("Starting HTTP server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "http server")
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		ticker := time.NewTicker(sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if n := sessions.Sweep(); n > 0 {
					logger.WithField("expired", n).Debug("Swept sessions")
				}
				if n := sessions.SweepEdits(editMaxAge); n > 0 {
					logger.WithField("dropped", n).Debug("Dropped abandoned edits")
				}
			}
		}
	})

	return g.Wait()
}

func shell(ctx context.Context, cfg *config.AppConfig, b *backends, logger *logrus.Logger) error {
	// keep the log off the terminal unless something goes wrong
	if !cfg.IsDebugMode() {
		logger.SetLevel(logrus.WarnLevel)
	}

	g, ctx := errgroup.WithContext(ctx)
	docs, stopEvents := startEvents(ctx, g, cfg, b, logger)

	c := console.NewStdio()
	sessions := session.NewRegistry(cfg.SessionTTL, func(string) *workflow.Desk {
		return workflow.NewDesk(docs, workflow.Reporters{c, workflow.LogReporter{Log: logger}})
	})
	g.Go(func() error {
		defer stopEvents()
		return console.NewShell(c, b.Gateway, sessions, logger).Run(ctx)
	})
	return g.Wait()
}
