package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/account"
	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/federated"
	"github.com/dmitrijs2005/notekeeper/internal/client/notes"
	"github.com/dmitrijs2005/notekeeper/internal/client/session"
	"github.com/dmitrijs2005/notekeeper/internal/client/ui"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// Backend is everything the shell needs from the server.
type Backend interface {
	client.AuthBackend
	client.DocumentStore
	federated.TokenIssuer
	RestoreSession(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	backend  Backend
	account  *account.Controller
	nav      *ui.StackNavigator
	notifier ui.Notifier
	reader   *bufio.Reader
	out      io.Writer
	store    io.Closer

	mu    sync.Mutex
	notes *notes.Controller
	mode  Mode
}

// NewApp connects to the configured backend. With a session file the
// refresh token is kept there between runs.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(os.Stderr, false, c.LogLevel)

	opts := []client.Option{
		client.WithRequestTimeout(c.RequestTimeout),
		client.WithLogger(logger.With("module", "client")),
	}

	var store *session.SQLiteStore
	if c.SessionFile != "" {
		s, err := session.OpenSQLiteStore(ctx, c.SessionFile)
		if err != nil {
			return nil, fmt.Errorf("error opening session store: %w", err)
		}
		store = s
		opts = append(opts, client.WithSessionStore(store))
	}

	backend, err := client.NewGRPCClient(c.ServerEndpointAddr, opts...)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, fmt.Errorf("error creating backend client: %w", err)
	}

	a := newApp(c, logger, backend, os.Stdin, os.Stdout)
	if store != nil {
		a.store = store
	}
	return a, nil
}

func newApp(c *config.Config, logger logging.Logger, backend Backend, in io.Reader, out io.Writer) *App {
	a := &App{
		config:   c,
		logger:   logger.With("module", "cli"),
		backend:  backend,
		nav:      ui.NewStackNavigator(ui.Login),
		notifier: ui.NewTerminalNotifier(out),
		reader:   bufio.NewReader(in),
		out:      out,
	}

	flow := federated.NewChooserFlow(backend, a.pickGoogleAccount)
	a.account = account.NewController(backend, flow, a.nav, a.notifier, logger)
	a.account.OnSignOut(a.dropNotes)

	return a
}

func (a *App) pickGoogleAccount(ctx context.Context) (string, error) {
	return GetSimpleText(a.reader, "Choose a Google account (email, empty line to cancel)", a.out)
}

// Run blocks in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	defer a.backend.Close()
	if a.store != nil {
		defer a.store.Close()
	}

	fmt.Fprintln(a.out, "Welcome to NoteKeeper (type 'help' for commands)")
	a.restoreSession(ctx)

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
	return nil
}

// restoreSession signs back in with a token saved by an earlier run and
// opens the note list when that works.
func (a *App) restoreSession(ctx context.Context) {
	if err := a.backend.RestoreSession(ctx); err != nil {
		a.logger.Warn(ctx, "session not restored", "error", err)
		return
	}
	id := a.backend.CurrentUser()
	if id == nil {
		return
	}

	fmt.Fprintf(a.out, "Signed in as %s\n", id.Email)
	if err := a.openNotes(ctx); err != nil {
		a.logger.Warn(ctx, "notes not loaded", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	return a.account.State() == account.SignedIn
}

// notesController returns the note controller of the current session,
// creating it on first use after sign-in. It is nil when signed out.
func (a *App) notesController() *notes.Controller {
	if !a.isLoggedIn() {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.notes == nil {
		a.notes = notes.NewController(a.backend, a.backend, a.notifier, a.logger)
	}
	return a.notes
}

func (a *App) dropNotes() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notes = nil
}

func (a *App) getStatus() string {
	s := ""
	if id := a.backend.CurrentUser(); id != nil {
		s = id.Email + " "
	}
	if m := a.getMode(); m != "" {
		s = s + string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) getMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.logger.Info(ctx, "connectivity changed", "mode", mode)
	}
}

// StartOnlineStatusWatcher pings the backend every interval and tracks
// whether it is reachable, until ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.backend.Ping(pingCtx)
	cancel()

	if err != nil {
		a.setMode(ctx, ModeOffline)
		return
	}
	a.setMode(ctx, ModeOnline)
}
