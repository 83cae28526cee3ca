package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	pb "github.com/dmitrijs2005/notekeeper/internal/proto"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Ping(ctx context.Context, req *pb.PingRequest) (*pb.PingResponse, error) {
	return &pb.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) SignUp(ctx context.Context, req *pb.SignUpRequest) (*pb.Session, error) {
	session, err := s.auth.SignUp(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "Registered", "user_id", session.User.ID)
	return toSession(session), nil
}

func (s *GRPCServer) SignInWithPassword(ctx context.Context, req *pb.SignInWithPasswordRequest) (*pb.Session, error) {
	session, err := s.auth.SignInWithPassword(ctx, req.Email, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toSession(session), nil
}

func (s *GRPCServer) SignInWithIdp(ctx context.Context, req *pb.SignInWithIdpRequest) (*pb.Session, error) {
	session, err := s.auth.SignInWithIdp(ctx, req.ProviderID, req.IDToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toSession(session), nil
}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.Session, error) {
	session, err := s.auth.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toSession(session), nil
}

func (s *GRPCServer) GetAccount(ctx context.Context, req *pb.GetAccountRequest) (*pb.Account, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.auth.Account(ctx, userID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	account := toAccount(user)
	return &account, nil
}

func (s *GRPCServer) Reauthenticate(ctx context.Context, req *pb.ReauthenticateRequest) (*pb.Session, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	session, err := s.auth.Reauthenticate(ctx, userID, services.Credential{
		ProviderID: req.Credential.ProviderID,
		Email:      req.Credential.Email,
		Password:   req.Credential.Password,
		IDToken:    req.Credential.IDToken,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return toSession(session), nil
}

func (s *GRPCServer) DeleteAccount(ctx context.Context, req *pb.DeleteAccountRequest) (*pb.DeleteAccountResponse, error) {
	userID, authTime, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.auth.DeleteAccount(ctx, userID, authTime); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	s.logger.Info(ctx, "Account deleted", "user_id", userID)
	return &pb.DeleteAccountResponse{}, nil
}

func (s *GRPCServer) CreateNote(ctx context.Context, req *pb.CreateNoteRequest) (*pb.CreateNoteResponse, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	note, err := s.notes.Create(ctx, userID, models.Note{
		OwnerID:   req.Note.OwnerID,
		Title:     req.Note.Title,
		Content:   req.Note.Content,
		CreatedAt: req.Note.CreatedAt,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.CreateNoteResponse{ID: note.ID}, nil
}

func (s *GRPCServer) ListNotes(ctx context.Context, req *pb.ListNotesRequest) (*pb.ListNotesResponse, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.notes.List(ctx, userID, req.OwnerID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	resp := &pb.ListNotesResponse{Notes: make([]pb.Note, 0, len(notes))}
	for _, n := range notes {
		resp.Notes = append(resp.Notes, pb.Note{
			ID:        n.ID,
			OwnerID:   n.OwnerID,
			Title:     n.Title,
			Content:   n.Content,
			CreatedAt: n.CreatedAt,
		})
	}
	return resp, nil
}

func (s *GRPCServer) DeleteNote(ctx context.Context, req *pb.DeleteNoteRequest) (*pb.DeleteNoteResponse, error) {
	userID, _, err := callerFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.notes.Delete(ctx, userID, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.DeleteNoteResponse{}, nil
}

func (s *GRPCServer) IssueIdpToken(ctx context.Context, req *pb.IssueIdpTokenRequest) (*pb.IssueIdpTokenResponse, error) {
	token, err := s.auth.IssueIdpToken(req.Email)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &pb.IssueIdpTokenResponse{IDToken: token}, nil
}

// toStatus maps service errors onto gRPC status codes. Unexpected errors are
// logged and reported as Internal without detail.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, common.ErrorInvalidArgument):
		return status.Error(codes.InvalidArgument, "invalid argument")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return status.Error(codes.Unauthenticated, "refresh token expired")
	case errors.Is(err, common.ErrRequiresRecentLogin):
		return status.Error(codes.FailedPrecondition, common.ErrRequiresRecentLogin.Error())
	case errors.Is(err, common.ErrorPermissionDenied):
		return status.Error(codes.PermissionDenied, "permission denied")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		s.logger.Error(ctx, "internal error", "error", err)
		return status.Error(codes.Internal, "internal error")
	}
}

func toAccount(u *models.User) pb.Account {
	a := pb.Account{UserID: u.ID, Email: u.Email, Providers: make([]pb.ProviderInfo, 0, len(u.Providers))}
	for _, p := range u.Providers {
		a.Providers = append(a.Providers, pb.ProviderInfo{ProviderID: p.ProviderID, Email: p.Email})
	}
	return a
}

func toSession(s *services.Session) *pb.Session {
	return &pb.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		Account:      toAccount(s.User),
	}
}
