// Package federated runs the external Google sign-in interaction that yields
// a google.com credential for the auth backend.
package federated

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
)

// ErrCancelled means the user backed out of the account chooser.
var ErrCancelled = errors.New("sign-in cancelled")

// ProviderError is a failure reported by the identity provider itself.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s sign-in failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Flow is one launch of an external sign-in interaction. Launch blocks until
// the user picks an account, cancels, or the provider fails.
type Flow interface {
	Launch(ctx context.Context) (models.Credential, error)
}

// FlowFunc adapts a function to Flow.
type FlowFunc func(ctx context.Context) (models.Credential, error)

func (f FlowFunc) Launch(ctx context.Context) (models.Credential, error) {
	return f(ctx)
}

// TokenIssuer signs a google.com ID token for an account.
type TokenIssuer interface {
	IssueIdpToken(ctx context.Context, email string) (string, error)
}

// AccountPicker asks the user which account to sign in with. An empty answer
// or io.EOF cancels.
type AccountPicker func(ctx context.Context) (string, error)

// ChooserFlow plays the system account chooser: it asks for an account and
// obtains an ID token for it from the issuer.
type ChooserFlow struct {
	issuer TokenIssuer
	pick   AccountPicker
}

var _ Flow = (*ChooserFlow)(nil)

func NewChooserFlow(issuer TokenIssuer, pick AccountPicker) *ChooserFlow {
	return &ChooserFlow{issuer: issuer, pick: pick}
}

func (f *ChooserFlow) Launch(ctx context.Context) (models.Credential, error) {
	if ctx.Err() != nil {
		return models.Credential{}, ErrCancelled
	}

	email, err := f.pick(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
			return models.Credential{}, ErrCancelled
		}
		return models.Credential{}, &ProviderError{Provider: common.ProviderGoogle, Err: err}
	}
	email = strings.TrimSpace(email)
	if email == "" {
		return models.Credential{}, ErrCancelled
	}

	token, err := f.issuer.IssueIdpToken(ctx, email)
	if err != nil {
		return models.Credential{}, &ProviderError{Provider: common.ProviderGoogle, Err: err}
	}

	return models.Credential{Provider: common.ProviderGoogle, Email: email, IDToken: token}, nil
}
