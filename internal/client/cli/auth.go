package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/account"
	"github.com/dmitrijs2005/notekeeper/internal/client/ui"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// Login prompts for email and password and signs in. On success the note
// list is loaded.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.account.LogIn(ctx, email, string(password)); err != nil {
		return err
	}
	return a.openNotes(ctx)
}

// Register prompts for email, password and its confirmation and creates the
// account.
func (a *App) Register(ctx context.Context) error {
	a.nav.Navigate(ui.Register)

	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	confirm, err := GetPassword(a.reader, "Confirm password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.account.SignUp(ctx, email, string(password), string(confirm)); err != nil {
		return err
	}
	return a.openNotes(ctx)
}

func (a *App) LoginWithGoogle(ctx context.Context) error {
	if err := a.account.SignInWithGoogle(ctx); err != nil {
		return err
	}
	if !a.isLoggedIn() {
		// chooser cancelled
		return nil
	}
	return a.openNotes(ctx)
}

func (a *App) Whoami(ctx context.Context) error {
	s := a.account.Session()
	if s.Identity == nil {
		printlnFn("Not signed in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s (%s, %s)", s.Identity.Email, s.Method, s.Identity.UserID))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	return a.account.LogOut(ctx)
}

// DeleteAccount asks for confirmation and deletes the account, collecting
// email and password again when the server wants a recent login.
func (a *App) DeleteAccount(ctx context.Context) error {
	if !Confirm(a.reader, "Delete the account? Notes are not deleted.", a.out) {
		return nil
	}

	err := a.account.DeleteAccount(ctx)
	if !errors.Is(err, account.ErrReauthenticationRequired) {
		return err
	}

	printlnFn("Please sign in again to confirm (empty email cancels)")
	email, err := GetSimpleText(a.reader, "Email", a.out)
	if err != nil || email == "" {
		a.account.CancelReauthentication()
		return err
	}
	password, err := GetPassword(a.reader, "Password", a.out)
	if err != nil {
		a.account.CancelReauthentication()
		return err
	}
	defer common.WipeByteArray(password)

	err = a.account.ConfirmReauthentication(ctx, email, string(password))
	if a.account.ReauthDialogVisible() {
		// invalid input keeps the dialog open; the shell gives up instead
		a.account.CancelReauthentication()
	}
	return err
}
