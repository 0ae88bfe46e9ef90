// Package cli wires the session, the resource stores, the notification
// queue, and the edit coordinator into an interactive command loop.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/campusadmin/campusctl/internal/blob"
	"github.com/campusadmin/campusctl/internal/client"
	"github.com/campusadmin/campusctl/internal/config"
	"github.com/campusadmin/campusctl/internal/editor"
	"github.com/campusadmin/campusctl/internal/metrics"
	"github.com/campusadmin/campusctl/internal/model"
	"github.com/campusadmin/campusctl/internal/notify"
	"github.com/campusadmin/campusctl/internal/session"
	"github.com/campusadmin/campusctl/internal/store"
)

// App holds everything the command loop needs.
type App struct {
	cfg      *config.Config
	logger   *zap.Logger
	notifier *notify.Notifier
	session  *session.Manager
	colleges *store.Store[model.College]
	programs *store.Store[model.Program]
	students *store.StudentStore
	editor   *editor.Coordinator
	registry *prometheus.Registry

	in  *bufio.Scanner
	out io.Writer
}

// Option configures an App.
type Option func(*App)

// WithIO replaces stdin/stdout, used by tests.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(a *App) {
		a.in = newScanner(in)
		a.out = out
	}
}

// NewApp builds the application graph from configuration.
func NewApp(cfg *config.Config, logger *zap.Logger, opts ...Option) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	notifier := notify.New()
	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder(registry)

	// The client needs the session's token and the session needs the
	// client; bind the token source late.
	var mgr *session.Manager
	tokenSource := func() string {
		if mgr == nil {
			return ""
		}
		return mgr.Token()
	}

	apiClient, err := client.New(cfg.Backend,
		client.WithTokenSource(tokenSource),
		client.WithObserver(recorder),
	)
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}

	tokens, err := session.NewFileTokenStore(cfg.Auth.TokenFile)
	if err != nil {
		return nil, fmt.Errorf("creating token store: %w", err)
	}

	mgr, err = session.NewManager(apiClient, tokens, notifier,
		session.WithLogger(logger.Named("session")))
	if err != nil {
		return nil, fmt.Errorf("creating session manager: %w", err)
	}

	var blobs blob.Storage
	if cfg.Storage.AccessKey != "" {
		blobs, err = blob.NewS3Storage(&cfg.Storage, blob.WithLogger(logger.Named("blob")))
		if err != nil {
			return nil, fmt.Errorf("creating blob storage: %w", err)
		}
	}

	storeLogger := logger.Named("store")
	a := &App{
		cfg:      cfg,
		logger:   logger,
		notifier: notifier,
		session:  mgr,
		colleges: store.NewColleges(apiClient, store.WithLogger[model.College](storeLogger)),
		programs: store.NewPrograms(apiClient, store.WithLogger[model.Program](storeLogger)),
		students: store.NewStudents(apiClient, blobs, storeLogger),
		editor:   editor.New(),
		registry: registry,
		in:       newScanner(os.Stdin),
		out:      os.Stdout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// flushNotifications prints and dismisses every pending notification.
// Each command ends with exactly one visible line per emitted message.
func (a *App) flushNotifications() {
	for _, n := range a.notifier.Active() {
		tag := "ok"
		if n.Kind == notify.KindError {
			tag = "error"
		}
		fmt.Fprintf(a.out, "[%s] %s\n", tag, n.Message)
		a.notifier.Dismiss(n.ID)
	}
}
