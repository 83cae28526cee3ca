package federated

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIssuer struct {
	lastEmail string
	token     string
	err       error
}

func (f *fakeIssuer) IssueIdpToken(ctx context.Context, email string) (string, error) {
	f.lastEmail = email
	return f.token, f.err
}

func pickConst(email string, err error) AccountPicker {
	return func(context.Context) (string, error) { return email, err }
}

func TestChooserFlow_Success(t *testing.T) {
	issuer := &fakeIssuer{token: "id-token"}
	f := NewChooserFlow(issuer, pickConst("  bob@gmail.com\n", nil))

	cred, err := f.Launch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, common.ProviderGoogle, cred.Provider)
	assert.Equal(t, "bob@gmail.com", cred.Email)
	assert.Equal(t, "id-token", cred.IDToken)
	assert.Equal(t, "bob@gmail.com", issuer.lastEmail)
}

func TestChooserFlow_Cancelled(t *testing.T) {
	tests := []struct {
		name string
		pick AccountPicker
		ctx  func() context.Context
	}{
		{"empty answer", pickConst("   ", nil), context.Background},
		{"eof", pickConst("", io.EOF), context.Background},
		{"cancelled context", pickConst("bob@gmail.com", nil), func() context.Context {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := &fakeIssuer{}
			_, err := NewChooserFlow(issuer, tt.pick).Launch(tt.ctx())
			assert.ErrorIs(t, err, ErrCancelled)
			assert.Empty(t, issuer.lastEmail, "no token requested")
		})
	}
}

func TestChooserFlow_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	_, err := NewChooserFlow(&fakeIssuer{err: boom}, pickConst("bob@gmail.com", nil)).Launch(context.Background())

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, common.ProviderGoogle, pe.Provider)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "google.com sign-in failed")

	_, err = NewChooserFlow(&fakeIssuer{}, pickConst("", boom)).Launch(context.Background())
	require.ErrorAs(t, err, &pe)
}

func TestFlowFunc(t *testing.T) {
	var f Flow = FlowFunc(func(context.Context) (models.Credential, error) {
		return models.Credential{}, ErrCancelled
	})
	_, err := f.Launch(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
}
