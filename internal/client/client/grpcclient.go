package client

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/client/models"
	"github.com/dmitrijs2005/notekeeper/internal/client/session"
	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	pb "github.com/dmitrijs2005/notekeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCClient talks to the NoteKeeper backend. It holds the session tokens and
// the signed-in identity in memory and is safe for concurrent use. With a
// session store the refresh token also outlives the process.
type GRPCClient struct {
	endpointURL    string
	requestTimeout time.Duration
	dialOptions    []grpc.DialOption
	store          session.Store
	logger         logging.Logger

	conn   *grpc.ClientConn
	client pb.BackendClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	identity     *models.Identity
}

var (
	_ DocumentStore = (*GRPCClient)(nil)
	_ AuthBackend   = (*GRPCClient)(nil)
)

// Option customises a GRPCClient.
type Option func(*GRPCClient)

// WithRequestTimeout bounds every call. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *GRPCClient) { c.requestTimeout = d }
}

// WithDialOptions adds grpc dial options, e.g. a custom dialer in tests.
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(c *GRPCClient) { c.dialOptions = append(c.dialOptions, opts...) }
}

// WithSessionStore persists the refresh token after every sign-in and
// refresh, and forgets it on sign-out.
func WithSessionStore(store session.Store) Option {
	return func(c *GRPCClient) { c.store = store }
}

func WithLogger(l logging.Logger) Option {
	return func(c *GRPCClient) { c.logger = l }
}

func NewGRPCClient(endpointURL string, opts ...Option) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, logger: logging.Nop{}}
	for _, o := range opts {
		o(c)
	}
	if err := c.initGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) initGRPCClient() error {
	opts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, s.dialOptions...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewBackendClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

// accessTokenInterceptor attaches the access token and, when the server
// reports it expired, refreshes the session once and retries the call.
func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	accessToken, refreshToken := s.tokens()
	if accessToken != "" {
		ctx = withAccessToken(ctx, accessToken)
	}

	err := invoker(ctx, method, req, reply, cc, opts...)
	if err == nil || method == pb.MethodRefreshToken {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}
	if refreshToken == "" {
		return err
	}

	resp, err := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refreshToken})
	if err != nil {
		return err
	}
	s.setSession(ctx, resp)

	// tokens refreshed, retry with the new access token
	return invoker(withAccessToken(ctx, resp.AccessToken), method, req, reply, cc, opts...)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setSession(ctx context.Context, sess *pb.Session) *models.Identity {
	identity := toIdentity(sess.Account)

	s.mu.Lock()
	s.accessToken = sess.AccessToken
	s.refreshToken = sess.RefreshToken
	s.identity = identity
	s.mu.Unlock()

	s.persist(ctx, sess.RefreshToken)
	return cloneIdentity(identity)
}

func (s *GRPCClient) clearSession(ctx context.Context) {
	s.mu.Lock()
	s.accessToken = ""
	s.refreshToken = ""
	s.identity = nil
	s.mu.Unlock()

	s.persist(ctx, "")
}

// persist logs store failures; the in-memory session stays valid.
func (s *GRPCClient) persist(ctx context.Context, refreshToken string) {
	if s.store == nil {
		return
	}
	if err := s.store.Save(context.WithoutCancel(ctx), refreshToken); err != nil && s.logger != nil {
		s.logger.Warn(ctx, "session not persisted", "error", err)
	}
}

// RestoreSession signs back in with the refresh token saved by a previous
// run. It returns nil without a call when nothing is saved. A rejected token
// is forgotten.
func (s *GRPCClient) RestoreSession(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	token, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("error loading session: %w", err)
	}
	if token == "" {
		return nil
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: token})
	if err != nil {
		err = s.mapError(err)
		if errors.Is(err, ErrUnauthorized) {
			s.persist(ctx, "")
		}
		return err
	}
	s.setSession(ctx, resp)
	return nil
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

// CurrentUser returns a copy of the signed-in identity, nil when signed out.
func (s *GRPCClient) CurrentUser() *models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneIdentity(s.identity)
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &pb.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) SignUp(ctx context.Context, email, password string) (*models.Identity, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.SignUp(ctx, &pb.SignUpRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.setSession(ctx, resp), nil
}

func (s *GRPCClient) SignInWithPassword(ctx context.Context, email, password string) (*models.Identity, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.SignInWithPassword(ctx, &pb.SignInWithPasswordRequest{Email: email, Password: password})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.setSession(ctx, resp), nil
}

func (s *GRPCClient) SignInWithCredential(ctx context.Context, cred models.Credential) (*models.Identity, error) {
	if cred.Provider == common.ProviderPassword {
		return s.SignInWithPassword(ctx, cred.Email, cred.Password)
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.SignInWithIdp(ctx, &pb.SignInWithIdpRequest{ProviderID: cred.Provider, IDToken: cred.IDToken})
	if err != nil {
		return nil, s.mapError(err)
	}
	return s.setSession(ctx, resp), nil
}

// SignOut forgets the local session. The server keeps no session state that
// needs revoking beyond token expiry.
func (s *GRPCClient) SignOut(ctx context.Context) error {
	s.clearSession(ctx)
	return nil
}

func (s *GRPCClient) Reauthenticate(ctx context.Context, cred models.Credential) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Reauthenticate(ctx, &pb.ReauthenticateRequest{Credential: pb.Credential{
		ProviderID: cred.Provider,
		Email:      cred.Email,
		Password:   cred.Password,
		IDToken:    cred.IDToken,
	}})
	if err != nil {
		return s.mapError(err)
	}
	s.setSession(ctx, resp)
	return nil
}

func (s *GRPCClient) DeleteAccount(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.DeleteAccount(ctx, &pb.DeleteAccountRequest{}); err != nil {
		return s.mapError(err)
	}
	s.clearSession(ctx)
	return nil
}

// IssueIdpToken asks the backend's emulated account chooser for a google.com
// ID token.
func (s *GRPCClient) IssueIdpToken(ctx context.Context, email string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.IssueIdpToken(ctx, &pb.IssueIdpTokenRequest{Email: email})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.IDToken, nil
}

func (s *GRPCClient) CreateNote(ctx context.Context, note models.Note) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.CreateNote(ctx, &pb.CreateNoteRequest{Note: pb.Note{
		OwnerID:   note.OwnerID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
	}})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.ID, nil
}

func (s *GRPCClient) ListNotesByOwner(ctx context.Context, ownerID string) ([]models.Note, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ListNotes(ctx, &pb.ListNotesRequest{OwnerID: ownerID})
	if err != nil {
		return nil, s.mapError(err)
	}

	notes := make([]models.Note, 0, len(resp.Notes))
	for _, n := range resp.Notes {
		notes = append(notes, models.Note{
			ID:        n.ID,
			Title:     n.Title,
			Content:   n.Content,
			OwnerID:   n.OwnerID,
			CreatedAt: n.CreatedAt,
		})
	}
	return notes, nil
}

func (s *GRPCClient) DeleteNote(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.DeleteNote(ctx, &pb.DeleteNoteRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated:
		return ErrUnauthorized
	case codes.PermissionDenied:
		return ErrPermissionDenied
	case codes.FailedPrecondition:
		if st.Message() == common.ErrRequiresRecentLogin.Error() {
			return ErrRequiresRecentLogin
		}
		return fmt.Errorf("rpc error: %w", err)
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return ErrAlreadyExists
	case codes.InvalidArgument:
		return ErrInvalidArgument
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func toIdentity(a pb.Account) *models.Identity {
	id := &models.Identity{UserID: a.UserID, Email: a.Email, Providers: make([]models.ProviderInfo, 0, len(a.Providers))}
	for _, p := range a.Providers {
		id.Providers = append(id.Providers, models.ProviderInfo{ProviderID: p.ProviderID, Email: p.Email})
	}
	return id
}

func cloneIdentity(id *models.Identity) *models.Identity {
	if id == nil {
		return nil
	}
	c := *id
	c.Providers = slices.Clone(id.Providers)
	return &c
}
