package grpc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	pb "github.com/dmitrijs2005/notekeeper/internal/proto"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ---- fakes ----

type fakeAuth struct {
	session *services.Session
	err     error

	user *models.User

	gotCred     services.Credential
	gotAuthTime time.Time
	deleteErr   error

	idpToken string

	verify func(string) (*auth.Claims, error)
}

func (f *fakeAuth) SignUp(context.Context, string, string) (*services.Session, error) {
	return f.session, f.err
}
func (f *fakeAuth) SignInWithPassword(context.Context, string, string) (*services.Session, error) {
	return f.session, f.err
}
func (f *fakeAuth) SignInWithIdp(context.Context, string, string) (*services.Session, error) {
	return f.session, f.err
}
func (f *fakeAuth) RefreshToken(context.Context, string) (*services.Session, error) {
	return f.session, f.err
}
func (f *fakeAuth) Account(context.Context, string) (*models.User, error) {
	return f.user, f.err
}
func (f *fakeAuth) Reauthenticate(_ context.Context, _ string, cred services.Credential) (*services.Session, error) {
	f.gotCred = cred
	return f.session, f.err
}
func (f *fakeAuth) DeleteAccount(_ context.Context, _ string, authTime time.Time) error {
	f.gotAuthTime = authTime
	return f.deleteErr
}
func (f *fakeAuth) IssueIdpToken(string) (string, error) {
	return f.idpToken, f.err
}
func (f *fakeAuth) VerifyAccessToken(tok string) (*auth.Claims, error) {
	if f.verify == nil {
		return nil, common.ErrInvalidToken
	}
	return f.verify(tok)
}

type fakeNotes struct {
	created   models.Note
	createErr error
	list      []models.Note
	listErr   error
	deleteErr error
	gotCaller string
}

func (f *fakeNotes) Create(_ context.Context, callerID string, note models.Note) (*models.Note, error) {
	f.gotCaller = callerID
	f.created = note
	if f.createErr != nil {
		return nil, f.createErr
	}
	note.ID = "n1"
	return &note, nil
}
func (f *fakeNotes) List(_ context.Context, callerID, _ string) ([]models.Note, error) {
	f.gotCaller = callerID
	return f.list, f.listErr
}
func (f *fakeNotes) Delete(_ context.Context, callerID, _ string) error {
	f.gotCaller = callerID
	return f.deleteErr
}

func callerCtx(userID string, authTime time.Time) context.Context {
	ctx := context.WithValue(context.Background(), userIDKey, userID)
	return context.WithValue(ctx, authTimeKey, authTime)
}

// ---- tests ----

func TestPing(t *testing.T) {
	s := newTestServer(&fakeAuth{}, &fakeNotes{})
	resp, err := s.Ping(context.Background(), &pb.PingRequest{})
	require.NoError(t, err)
	assert.Equal(t, "OK", resp.Status)
}

func TestSignUp_ReturnsSessionWithProviders(t *testing.T) {
	a := &fakeAuth{session: &services.Session{
		AccessToken:  "a",
		RefreshToken: "r",
		User: &models.User{ID: "u1", Email: "ann@example.com", Providers: []models.Provider{
			{ProviderID: common.ProviderPassword, Email: "ann@example.com"},
		}},
	}}
	s := newTestServer(a, &fakeNotes{})

	resp, err := s.SignUp(context.Background(), &pb.SignUpRequest{Email: "ann@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, &pb.Session{
		AccessToken:  "a",
		RefreshToken: "r",
		Account: pb.Account{UserID: "u1", Email: "ann@example.com", Providers: []pb.ProviderInfo{
			{ProviderID: common.ProviderPassword, Email: "ann@example.com"},
		}},
	}, resp)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code codes.Code
	}{
		{common.ErrorInvalidArgument, codes.InvalidArgument},
		{common.ErrorAlreadyExists, codes.AlreadyExists},
		{common.ErrorUnauthorized, codes.Unauthenticated},
		{common.ErrRefreshTokenExpired, codes.Unauthenticated},
		{common.ErrRequiresRecentLogin, codes.FailedPrecondition},
		{common.ErrorPermissionDenied, codes.PermissionDenied},
		{common.ErrorNotFound, codes.NotFound},
		{errors.New("db exploded"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			s := newTestServer(&fakeAuth{err: tt.err}, &fakeNotes{})
			_, err := s.SignInWithPassword(context.Background(), &pb.SignInWithPasswordRequest{})
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}

func TestDeleteAccount_PassesAuthTime(t *testing.T) {
	authTime := time.Unix(1_700_000_000, 0)
	a := &fakeAuth{}
	s := newTestServer(a, &fakeNotes{})

	_, err := s.DeleteAccount(callerCtx("u1", authTime), &pb.DeleteAccountRequest{})
	require.NoError(t, err)
	assert.Equal(t, authTime, a.gotAuthTime)

	a.deleteErr = common.ErrRequiresRecentLogin
	_, err = s.DeleteAccount(callerCtx("u1", authTime), &pb.DeleteAccountRequest{})
	st, _ := status.FromError(err)
	assert.Equal(t, codes.FailedPrecondition, st.Code())
	assert.Equal(t, "requires recent login", st.Message())
}

func TestReauthenticate_ForwardsCredential(t *testing.T) {
	a := &fakeAuth{session: &services.Session{User: &models.User{ID: "u1"}}}
	s := newTestServer(a, &fakeNotes{})

	_, err := s.Reauthenticate(callerCtx("u1", time.Now()), &pb.ReauthenticateRequest{
		Credential: pb.Credential{ProviderID: common.ProviderPassword, Email: "ann@example.com", Password: "secret1"},
	})
	require.NoError(t, err)
	assert.Equal(t, services.Credential{ProviderID: common.ProviderPassword, Email: "ann@example.com", Password: "secret1"}, a.gotCred)
}

func TestGetAccount(t *testing.T) {
	a := &fakeAuth{user: &models.User{ID: "u1", Email: "bob@gmail.com", Providers: []models.Provider{{ProviderID: common.ProviderGoogle, Email: "bob@gmail.com"}}}}
	s := newTestServer(a, &fakeNotes{})

	acc, err := s.GetAccount(callerCtx("u1", time.Now()), &pb.GetAccountRequest{})
	require.NoError(t, err)
	assert.Equal(t, "u1", acc.UserID)
	assert.Equal(t, []pb.ProviderInfo{{ProviderID: common.ProviderGoogle, Email: "bob@gmail.com"}}, acc.Providers)

	_, err = s.GetAccount(context.Background(), &pb.GetAccountRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestNotes_Handlers(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	n := &fakeNotes{list: []models.Note{{ID: "n1", OwnerID: "u1", Title: "T", Content: "C", CreatedAt: created}}}
	s := newTestServer(&fakeAuth{}, n)
	ctx := callerCtx("u1", time.Now())

	resp, err := s.CreateNote(ctx, &pb.CreateNoteRequest{Note: pb.Note{OwnerID: "u1", Title: "T", Content: "C", CreatedAt: created}})
	require.NoError(t, err)
	assert.Equal(t, "n1", resp.ID)
	assert.Equal(t, "u1", n.gotCaller)
	assert.Equal(t, models.Note{OwnerID: "u1", Title: "T", Content: "C", CreatedAt: created}, n.created)

	list, err := s.ListNotes(ctx, &pb.ListNotesRequest{OwnerID: "u1"})
	require.NoError(t, err)
	assert.Equal(t, []pb.Note{{ID: "n1", OwnerID: "u1", Title: "T", Content: "C", CreatedAt: created}}, list.Notes)

	n.deleteErr = common.ErrorPermissionDenied
	_, err = s.DeleteNote(ctx, &pb.DeleteNoteRequest{ID: "n9"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	n.listErr = common.ErrorPermissionDenied
	_, err = s.ListNotes(ctx, &pb.ListNotesRequest{OwnerID: "u2"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestIssueIdpToken(t *testing.T) {
	s := newTestServer(&fakeAuth{idpToken: "id-token"}, &fakeNotes{})
	resp, err := s.IssueIdpToken(context.Background(), &pb.IssueIdpTokenRequest{Email: "bob@gmail.com"})
	require.NoError(t, err)
	assert.Equal(t, "id-token", resp.IDToken)
}
