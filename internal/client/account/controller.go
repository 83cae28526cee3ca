// Package account backs the login, sign-up and settings screens. It reads
// the signed-in identity from the auth backend, classifies how the user
// signed in and runs account deletion, including the reauthentication
// sub-flow the backend demands when the sign-in is no longer recent.
package account

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/client/federated"
	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/ui"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

type State int

const (
	SignedOut State = iota
	SignedIn
)

func (s State) String() string {
	if s == SignedIn {
		return "signed in"
	}
	return "signed out"
}

// Session is a snapshot of who is signed in and how.
type Session struct {
	State    State
	Identity *models.Identity
	Method   models.AuthMethod
}

// ClassifyAuthMethod returns the first recognised provider in the identity's
// provider order, AuthMethodNone for a nil identity or no recognised
// provider.
func ClassifyAuthMethod(id *models.Identity) models.AuthMethod {
	if id == nil {
		return models.AuthMethodNone
	}
	for _, p := range id.Providers {
		switch p.ProviderID {
		case common.ProviderPassword:
			return models.AuthMethodEmail
		case common.ProviderGoogle:
			return models.AuthMethodGoogle
		}
	}
	return models.AuthMethodNone
}

type Controller struct {
	auth     client.AuthBackend
	flow     federated.Flow
	nav      ui.Navigator
	notifier ui.Notifier
	logger   logging.Logger

	mu            sync.Mutex
	signingIn     bool
	dialogVisible bool
	onSignOut     []func()
}

func NewController(auth client.AuthBackend, flow federated.Flow, nav ui.Navigator, n ui.Notifier, l logging.Logger) *Controller {
	return &Controller{
		auth:     auth,
		flow:     flow,
		nav:      nav,
		notifier: n,
		logger:   l.With("module", "account"),
	}
}

// OnSignOut registers fn to run after every logout and account deletion.
func (c *Controller) OnSignOut(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onSignOut = append(c.onSignOut, fn)
}

func (c *Controller) Session() Session {
	id := c.auth.CurrentUser()
	if id == nil {
		return Session{State: SignedOut, Method: models.AuthMethodNone}
	}
	return Session{State: SignedIn, Identity: id, Method: ClassifyAuthMethod(id)}
}

func (c *Controller) State() State {
	return c.Session().State
}

// ReauthDialogVisible reports whether the email/password reauthentication
// dialog is open.
func (c *Controller) ReauthDialogVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dialogVisible
}

// LogIn signs in with email and password. Invalid input returns a
// *ValidationError without contacting the backend; any backend failure
// becomes ErrInvalidCredentials.
func (c *Controller) LogIn(ctx context.Context, email, password string) error {
	if verr := validate(email, password, nil); verr != nil {
		c.notifier.Error(verr.message())
		return verr
	}

	id, err := c.auth.SignInWithPassword(ctx, email, password)
	if err != nil {
		c.logger.Warn(ctx, "password sign-in failed", "error", err)
		c.notifier.Error("Wrong email or password")
		return ErrInvalidCredentials
	}

	c.signedIn(ctx, id, "Login successful")
	c.nav.Navigate(ui.Settings)
	return nil
}

// SignUp creates a password account. Each failing field is reported in the
// returned *ValidationError.
func (c *Controller) SignUp(ctx context.Context, email, password, confirm string) error {
	if verr := validate(email, password, &confirm); verr != nil {
		c.notifier.Error(verr.message())
		return verr
	}

	id, err := c.auth.SignUp(ctx, email, password)
	if err != nil {
		c.logger.Warn(ctx, "sign-up failed", "error", err)
		c.notifier.Error("Could not create the account")
		return ErrSignUpFailed
	}

	c.signedIn(ctx, id, "Account created")
	c.nav.Navigate(ui.NoteList)
	return nil
}

// SignInWithGoogle runs the federated flow and exchanges its credential for
// a session. A cancelled flow returns nil.
func (c *Controller) SignInWithGoogle(ctx context.Context) error {
	cred, err := c.launchFlow(ctx)
	if err != nil {
		return c.flowFailed(ctx, err)
	}

	id, err := c.auth.SignInWithCredential(ctx, cred)
	if err != nil {
		c.logger.Error(ctx, "credential exchange failed", "provider", cred.Provider, "error", err)
		c.notifier.Error("Google sign-in failed")
		return fmt.Errorf("error signing in with google: %w", err)
	}

	c.signedIn(ctx, id, "Login successful")
	c.nav.Navigate(ui.Settings)
	return nil
}

func (c *Controller) LogOut(ctx context.Context) error {
	if err := c.auth.SignOut(ctx); err != nil {
		c.logger.Error(ctx, "sign-out failed", "error", err)
		c.notifier.Error("Could not sign out")
		return fmt.Errorf("error signing out: %w", err)
	}

	c.logger.Info(ctx, "signed out")
	c.signedOut()
	return nil
}

// DeleteAccount deletes the signed-in account. When the backend requires a
// recent login, email users get the reauthentication dialog and
// ErrReauthenticationRequired; google users go through the federated flow
// and the deletion is retried at once.
func (c *Controller) DeleteAccount(ctx context.Context) error {
	id := c.auth.CurrentUser()
	method := ClassifyAuthMethod(id)
	if method == models.AuthMethodNone {
		c.logger.Error(ctx, "account deletion not attempted, no recognised provider")
		c.notifier.Error("Could not delete account")
		return ErrInconsistentState
	}

	err := c.auth.DeleteAccount(ctx)
	if err == nil {
		c.accountDeleted(ctx, id)
		return nil
	}
	if !errors.Is(err, client.ErrRequiresRecentLogin) {
		c.logger.Error(ctx, "account deletion failed", "error", err)
		c.notifier.Error("Could not delete account")
		return fmt.Errorf("error deleting account: %w", err)
	}

	c.logger.Info(ctx, "recent login required", "method", method)

	if method == models.AuthMethodEmail {
		c.setDialogVisible(true)
		return ErrReauthenticationRequired
	}

	cred, err := c.launchFlow(ctx)
	if err != nil {
		if ferr := c.flowFailed(ctx, err); ferr != nil {
			return ferr
		}
		return federated.ErrCancelled
	}
	return c.reauthenticateAndDelete(ctx, id, cred)
}

// ConfirmReauthentication completes the dialog opened by DeleteAccount:
// it reauthenticates with email and password and retries the deletion.
// Invalid input keeps the dialog open; any other outcome closes it.
func (c *Controller) ConfirmReauthentication(ctx context.Context, email, password string) error {
	if !c.ReauthDialogVisible() {
		return ErrReauthNotRequested
	}
	if verr := validate(email, password, nil); verr != nil {
		c.notifier.Error(verr.message())
		return verr
	}

	c.setDialogVisible(false)
	id := c.auth.CurrentUser()
	if id == nil {
		c.logger.Error(ctx, "reauthentication confirmed without a signed-in user")
		c.notifier.Error("Could not delete account")
		return ErrInconsistentState
	}
	cred := models.Credential{Provider: common.ProviderPassword, Email: email, Password: password}
	return c.reauthenticateAndDelete(ctx, id, cred)
}

func (c *Controller) CancelReauthentication() {
	c.setDialogVisible(false)
}

func (c *Controller) reauthenticateAndDelete(ctx context.Context, id *models.Identity, cred models.Credential) error {
	if err := c.auth.Reauthenticate(ctx, cred); err != nil {
		c.logger.Warn(ctx, "reauthentication failed", "provider", cred.Provider, "error", err)
		c.notifier.Error("Reauthentication failed")
		return fmt.Errorf("error reauthenticating: %w", err)
	}
	c.logger.Info(ctx, "reauthenticated", "provider", cred.Provider)

	if err := c.auth.DeleteAccount(ctx); err != nil {
		c.logger.Error(ctx, "account deletion failed after reauthentication", "error", err)
		c.notifier.Error("Could not delete account")
		return fmt.Errorf("error deleting account: %w", err)
	}

	c.accountDeleted(ctx, id)
	return nil
}

// launchFlow runs the federated flow, refusing a second concurrent launch.
func (c *Controller) launchFlow(ctx context.Context) (models.Credential, error) {
	c.mu.Lock()
	if c.signingIn {
		c.mu.Unlock()
		return models.Credential{}, ErrSignInInProgress
	}
	c.signingIn = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.signingIn = false
		c.mu.Unlock()
	}()

	return c.flow.Launch(ctx)
}

// flowFailed logs and reports a federated flow error. Cancellation is silent
// and yields nil.
func (c *Controller) flowFailed(ctx context.Context, err error) error {
	if errors.Is(err, federated.ErrCancelled) {
		c.logger.Debug(ctx, "federated sign-in cancelled")
		return nil
	}
	if errors.Is(err, ErrSignInInProgress) {
		return err
	}

	var pe *federated.ProviderError
	if errors.As(err, &pe) {
		c.logger.Error(ctx, "identity provider error", "provider", pe.Provider, "error", pe.Err)
	} else {
		c.logger.Error(ctx, "federated sign-in failed", "error", err)
	}
	c.notifier.Error("Google sign-in failed")
	return err
}

func (c *Controller) signedIn(ctx context.Context, id *models.Identity, msg string) {
	c.logger.Info(ctx, "signed in", "uid", id.UserID, "method", ClassifyAuthMethod(id))
	c.logger.Debug(ctx, "providers", "providers", id.Providers)
	c.notifier.Info(msg)
}

func (c *Controller) accountDeleted(ctx context.Context, id *models.Identity) {
	// notes owned by the account are left on the backend
	c.logger.Info(ctx, "account deleted", "uid", id.UserID)
	c.notifier.Info("Account deleted")
	c.signedOut()
}

func (c *Controller) signedOut() {
	c.mu.Lock()
	c.dialogVisible = false
	hooks := append([]func(){}, c.onSignOut...)
	c.mu.Unlock()

	c.nav.Back(ui.Login)
	for _, fn := range hooks {
		fn()
	}
}

func (c *Controller) setDialogVisible(v bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dialogVisible = v
}
