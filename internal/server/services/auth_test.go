package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		IdpSecretKey:                 "idp",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		RecentLoginWindow:            5 * time.Minute,
	}
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newAuthService(t *testing.T) (*AuthService, *clock) {
	t.Helper()
	c := &clock{t: time.Now()}
	s := NewAuthService(repomanager.NewInMemoryRepositoryManager(), testConfig())
	s.now = c.now
	return s, c
}

func authTimeOf(t *testing.T, s *AuthService, access string) time.Time {
	t.Helper()
	claims, err := s.VerifyAccessToken(access)
	require.NoError(t, err)
	return time.Unix(claims.AuthTime, 0)
}

func TestSignUp_CreatesPasswordAccount(t *testing.T) {
	s, _ := newAuthService(t)

	sess, err := s.SignUp(context.Background(), " Ann@Example.com ", "secret1")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)
	assert.Equal(t, "ann@example.com", sess.User.Email)
	assert.Equal(t, []models.Provider{{ProviderID: common.ProviderPassword, Email: "ann@example.com"}}, sess.User.Providers)

	claims, err := s.VerifyAccessToken(sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, claims.UserID)
}

func TestSignUp_Rejects(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.SignUp(ctx, "", "secret1")
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)

	_, err = s.SignUp(ctx, "ann@example.com", "12345")
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)

	_, err = s.SignUp(ctx, "ann@example.com", "ééé")
	assert.ErrorIs(t, err, common.ErrorInvalidArgument, "six bytes but three characters")

	_, err = s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	_, err = s.SignUp(ctx, "ANN@example.com", "secret2")
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestSignInWithPassword(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	sess, err := s.SignInWithPassword(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", sess.User.Email)

	_, err = s.SignInWithPassword(ctx, "ann@example.com", "wrong!!")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.SignInWithPassword(ctx, "ghost@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestSignInWithIdp_CreatesThenLinks(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	tok, err := s.IssueIdpToken("bob@gmail.com")
	require.NoError(t, err)

	sess, err := s.SignInWithIdp(ctx, common.ProviderGoogle, tok)
	require.NoError(t, err)
	assert.Equal(t, []models.Provider{{ProviderID: common.ProviderGoogle, Email: "bob@gmail.com"}}, sess.User.Providers)

	again, err := s.SignInWithIdp(ctx, common.ProviderGoogle, tok)
	require.NoError(t, err)
	assert.Equal(t, sess.User.ID, again.User.ID, "second sign-in reuses the account")

	_, err = s.SignUp(ctx, "carol@example.com", "secret1")
	require.NoError(t, err)
	tok, err = s.IssueIdpToken("carol@example.com")
	require.NoError(t, err)
	linked, err := s.SignInWithIdp(ctx, common.ProviderGoogle, tok)
	require.NoError(t, err)
	require.Len(t, linked.User.Providers, 2)
	assert.Equal(t, common.ProviderPassword, linked.User.Providers[0].ProviderID)
	assert.Equal(t, common.ProviderGoogle, linked.User.Providers[1].ProviderID)
}

func TestSignInWithIdp_Rejects(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	_, err := s.SignInWithIdp(ctx, "facebook.com", "x")
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)

	_, err = s.SignInWithIdp(ctx, common.ProviderGoogle, "garbage")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	forged, err := auth.GenerateIdpToken("eve@gmail.com", []byte("other-key"), time.Minute)
	require.NoError(t, err)
	_, err = s.SignInWithIdp(ctx, common.ProviderGoogle, forged)
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestRefreshToken_RotatesAndKeepsAuthTime(t *testing.T) {
	s, c := newAuthService(t)
	ctx := context.Background()

	sess, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	signedInAt := authTimeOf(t, s, sess.AccessToken)

	c.t = c.t.Add(10 * time.Minute)
	next, err := s.RefreshToken(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.RefreshToken, next.RefreshToken)
	assert.Equal(t, signedInAt, authTimeOf(t, s, next.AccessToken))

	_, err = s.RefreshToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "refresh tokens are single use")
}

func TestRefreshToken_Expired(t *testing.T) {
	s, c := newAuthService(t)
	ctx := context.Background()

	sess, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)

	c.t = c.t.Add(3 * time.Hour)
	_, err = s.RefreshToken(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, common.ErrRefreshTokenExpired)
}

func TestDeleteAccount_RequiresRecentLogin(t *testing.T) {
	s, c := newAuthService(t)
	ctx := context.Background()

	sess, err := s.SignUp(ctx, "ann@example.com", "secret1")
	require.NoError(t, err)
	signedInAt := authTimeOf(t, s, sess.AccessToken)

	c.t = c.t.Add(6 * time.Minute)
	err = s.DeleteAccount(ctx, sess.User.ID, signedInAt)
	assert.ErrorIs(t, err, common.ErrRequiresRecentLogin)

	_, err = s.Reauthenticate(ctx, sess.User.ID, Credential{ProviderID: common.ProviderPassword, Email: "ann@example.com", Password: "nope!!"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	fresh, err := s.Reauthenticate(ctx, sess.User.ID, Credential{ProviderID: common.ProviderPassword, Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, s.DeleteAccount(ctx, sess.User.ID, authTimeOf(t, s, fresh.AccessToken)))

	_, err = s.SignInWithPassword(ctx, "ann@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
	_, err = s.RefreshToken(ctx, fresh.RefreshToken)
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "refresh tokens are revoked with the account")
}

func TestReauthenticate_Google(t *testing.T) {
	s, _ := newAuthService(t)
	ctx := context.Background()

	tok, err := s.IssueIdpToken("bob@gmail.com")
	require.NoError(t, err)
	sess, err := s.SignInWithIdp(ctx, common.ProviderGoogle, tok)
	require.NoError(t, err)

	_, err = s.Reauthenticate(ctx, sess.User.ID, Credential{ProviderID: common.ProviderGoogle, IDToken: tok})
	require.NoError(t, err)

	other, err := s.IssueIdpToken("mallory@gmail.com")
	require.NoError(t, err)
	_, err = s.Reauthenticate(ctx, sess.User.ID, Credential{ProviderID: common.ProviderGoogle, IDToken: other})
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	_, err = s.Reauthenticate(ctx, sess.User.ID, Credential{ProviderID: common.ProviderPassword, Email: "bob@gmail.com", Password: "whatever"})
	assert.ErrorIs(t, err, common.ErrorUnauthorized, "no password provider on a google-only account")

	_, err = s.Reauthenticate(ctx, sess.User.ID, Credential{ProviderID: "phone"})
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)
}

func TestIssueIdpToken_EmptyEmail(t *testing.T) {
	s, _ := newAuthService(t)
	_, err := s.IssueIdpToken("  ")
	assert.ErrorIs(t, err, common.ErrorInvalidArgument)
}

// ---- failing storage ----

type failingUsers struct {
	users.Repository
	err error
}

func (f failingUsers) GetByEmail(context.Context, string) (*models.User, error) { return nil, f.err }

type failingManager struct {
	*repomanager.InMemoryRepositoryManager
	users users.Repository
}

func (m failingManager) Users() users.Repository { return m.users }

func TestSignInWithPassword_StorageFailureIsInternal(t *testing.T) {
	m := failingManager{
		InMemoryRepositoryManager: repomanager.NewInMemoryRepositoryManager(),
		users:                     failingUsers{err: errors.New("db down")},
	}
	s := NewAuthService(m, testConfig())

	_, err := s.SignInWithPassword(context.Background(), "ann@example.com", "secret1")
	assert.ErrorIs(t, err, common.ErrorInternal)
}
