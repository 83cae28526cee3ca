// Package grpc exposes the emulator's services over the NoteKeeper wire
// contract.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	pb "github.com/dmitrijs2005/notekeeper/internal/proto"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"google.golang.org/grpc"
)

// AuthService is the account side of the emulator.
type AuthService interface {
	SignUp(ctx context.Context, email, password string) (*services.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*services.Session, error)
	SignInWithIdp(ctx context.Context, providerID, idToken string) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.Session, error)
	Account(ctx context.Context, userID string) (*models.User, error)
	Reauthenticate(ctx context.Context, userID string, cred services.Credential) (*services.Session, error)
	DeleteAccount(ctx context.Context, userID string, authTime time.Time) error
	IssueIdpToken(email string) (string, error)
	VerifyAccessToken(token string) (*auth.Claims, error)
}

// NoteService is the document store side of the emulator.
type NoteService interface {
	Create(ctx context.Context, callerID string, note models.Note) (*models.Note, error)
	List(ctx context.Context, callerID, ownerID string) ([]models.Note, error)
	Delete(ctx context.Context, callerID, id string) error
}

type GRPCServer struct {
	address string
	auth    AuthService
	notes   NoteService
	logger  logging.Logger
}

var _ pb.BackendServer = (*GRPCServer)(nil)

func NewGRPCServer(address string, l logging.Logger, as AuthService, ns NoteService) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		notes:   ns,
	}
}

// NewServer builds a grpc.Server with the logging and access-token
// interceptors and the Backend service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	pb.RegisterBackendServer(srv, s)
	return srv
}

// Run serves on the configured address until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled, then stops
// gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(context.Background(), "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
