package cli

import (
	"bytes"
	"context"
	"net"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/account"
	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/config"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/session"
	"github.com/dmitrijs2005/notekeeper/internal/client/ui"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	sconfig "github.com/dmitrijs2005/notekeeper/internal/server/config"
	gs "github.com/dmitrijs2005/notekeeper/internal/server/grpc"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func init() {
	color.NoColor = true
}

// startEmulator serves an in-memory backend on a bufconn listener and
// returns a client connected to it.
func startEmulator(t *testing.T, opts ...client.Option) *client.GRPCClient {
	t.Helper()
	return dialEmulator(t, serveEmulator(t), opts...)
}

func serveEmulator(t *testing.T) grpc.DialOption {
	t.Helper()

	var scfg sconfig.Config
	scfg.LoadDefaults()

	repos := repomanager.NewInMemoryRepositoryManager()
	srv := gs.NewGRPCServer("bufnet", logging.Nop{}, services.NewAuthService(repos, &scfg), services.NewNoteService(repos))

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = srv.Serve(ctx, lis) }()

	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func dialEmulator(t *testing.T, dialer grpc.DialOption, opts ...client.Option) *client.GRPCClient {
	t.Helper()

	opts = append([]client.Option{client.WithRequestTimeout(5 * time.Second), client.WithDialOptions(dialer)}, opts...)
	c, err := client.NewGRPCClient("passthrough:///bufnet", opts...)
	require.NoError(t, err)
	return c
}

func testConfig() *config.Config {
	var c config.Config
	c.LoadDefaults()
	c.OnlineCheckInterval = time.Hour
	return &c
}

// runScript feeds lines to the shell and returns everything it printed.
func runScript(t *testing.T, backend Backend, lines ...string) (*App, string) {
	t.Helper()
	stubTerminal(t, false, nil)
	printed := capturePrint(t)

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	a := newApp(testConfig(), logging.Nop{}, backend, in, &out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, a.Run(ctx))

	return a, out.String() + strings.Join(*printed, "\n")
}

func TestApp_RegisterAddListToggleLogout(t *testing.T) {
	backend := startEmulator(t)

	a, out := runScript(t, backend,
		"register", "ann@example.com", "secret1", "secret1",
		"add", "Groceries", "milk", "eggs", "",
		"list",
		"toggle 1",
		"whoami",
		"logout",
		"exit",
	)

	assert.Contains(t, out, "Account created")
	assert.Contains(t, out, "No notes yet")
	assert.Contains(t, out, "Note saved")
	assert.Contains(t, out, "Groceries")
	assert.Contains(t, out, "milk ...", "collapsed preview")
	assert.Contains(t, out, "eggs", "expanded after toggle")
	assert.Contains(t, out, "ann@example.com (EMAIL,")
	assert.Contains(t, out, "Bye!")

	assert.Nil(t, a.notes, "logout drops the note controller")
	assert.Equal(t, account.SignedOut, a.account.State())
	assert.Equal(t, ui.Login, a.nav.Current())
}

func TestApp_ValidationAndWrongPassword(t *testing.T) {
	backend := startEmulator(t)
	_, err := backend.SignUp(context.Background(), "ann@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, backend.SignOut(context.Background()))

	a, out := runScript(t, backend,
		"register", "ann@example.com", "secret1", "secret2",
		"login", "not-an-email", "secret1",
		"login", "ann@example.com", "wrong!!",
		"list",
		"exit",
	)

	assert.Contains(t, out, "Passwords do not match")
	assert.Contains(t, out, "Invalid email address")
	assert.Contains(t, out, "Wrong email or password")
	assert.Contains(t, out, "Unknown command: list")
	assert.Equal(t, account.SignedOut, a.account.State())
}

func TestApp_GoogleSignInThenDeleteAccount(t *testing.T) {
	backend := startEmulator(t)

	a, out := runScript(t, backend,
		"google", "",
		"whoami",
		"google", "bob@gmail.com",
		"whoami",
		"add", "Todo", "call mom", "",
		"deleteaccount", "y",
		"exit",
	)

	assert.Contains(t, out, "Not signed in", "empty answer cancels the chooser")
	assert.Contains(t, out, "bob@gmail.com (GOOGLE,")
	assert.Contains(t, out, "Account deleted")
	assert.Equal(t, account.SignedOut, a.account.State())
	assert.Nil(t, a.notes)
}

func TestApp_DeleteAndPaging(t *testing.T) {
	backend := startEmulator(t)
	ctx := context.Background()

	id, err := backend.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	for _, title := range []string{"n1", "n2", "n3", "n4", "n5", "n6"} {
		_, err := backend.CreateNote(ctx, models.Note{OwnerID: id.UserID, Title: title, Content: "c", CreatedAt: time.Now()})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	a, out := runScript(t, backend,
		"list",
		"more",
		"delete 1",
		"delete 99",
		"exit",
	)

	assert.Contains(t, out, "1 more, type 'more'")
	assert.Contains(t, out, " 6. n6")
	assert.Contains(t, out, "Note deleted")
	assert.Contains(t, out, "Usage: delete <n>")

	notes := a.notesController().Notes()
	require.Len(t, notes, 5)
	assert.Equal(t, "n2", notes[0].Title)
}

func TestApp_OnlineWatcher(t *testing.T) {
	backend := startEmulator(t)
	a := newApp(testConfig(), logging.Nop{}, backend, strings.NewReader(""), &bytes.Buffer{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.StartOnlineStatusWatcher(ctx, time.Hour)
		close(done)
	}()

	require.Eventually(t, func() bool { return a.getMode() == ModeOnline }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "(online)", a.getStatus())

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestApp_RestoresSessionAfterRestart(t *testing.T) {
	ctx := context.Background()
	dialer := serveEmulator(t)

	store, err := session.OpenSQLiteStore(ctx, filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, out := runScript(t, dialEmulator(t, dialer, client.WithSessionStore(store)),
		"register", "ann@example.com", "secret1", "secret1",
		"add", "Groceries", "milk", "",
		"exit",
	)
	require.Contains(t, out, "Note saved")

	a, out := runScript(t, dialEmulator(t, dialer, client.WithSessionStore(store)), "exit")
	assert.Contains(t, out, "Signed in as ann@example.com")
	assert.Contains(t, out, " 1. Groceries")
	assert.True(t, a.isLoggedIn())
	assert.Equal(t, ui.NoteList, a.nav.Current())
}

func TestApp_AddRejectsBlankContent(t *testing.T) {
	backend := startEmulator(t)

	a, out := runScript(t, backend,
		"register", "ann@example.com", "secret1", "secret1",
		"add", "Groceries", "   ", "",
		"add", "   ", "milk", "",
		"exit",
	)

	assert.Equal(t, 2, strings.Count(out, "Title and content are required"))
	assert.NotContains(t, out, "Note saved")
	assert.Empty(t, a.notesController().Notes())
}
