package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	pb "github.com/dmitrijs2005/notekeeper/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	userIDKey   ctxKey = "userID"
	authTimeKey ctxKey = "authTime"
)

// publicMethods are served without an access token.
var publicMethods = map[string]bool{
	pb.MethodPing:               true,
	pb.MethodSignUp:             true,
	pb.MethodSignInWithPassword: true,
	pb.MethodSignInWithIdp:      true,
	pb.MethodRefreshToken:       true,
	pb.MethodIssueIdpToken:      true,
}

// accessTokenInterceptor verifies the access token of protected methods and
// stores the caller id and auth time in the context.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	claims, err := s.auth.VerifyAccessToken(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, "token expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}

	ctx = context.WithValue(ctx, userIDKey, claims.UserID)
	ctx = context.WithValue(ctx, authTimeKey, time.Unix(claims.AuthTime, 0))

	return handler(ctx, req)
}

// loggingInterceptor logs every call with its outcome and duration.
func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	duration := time.Since(start)

	if err != nil {
		st, _ := status.FromError(err)
		s.logger.Warn(ctx, "request failed", "method", info.FullMethod, "code", st.Code().String(), "message", st.Message(), "duration", duration)
	} else {
		s.logger.Debug(ctx, "request completed", "method", info.FullMethod, "duration", duration)
	}

	return resp, err
}

func callerFromContext(ctx context.Context) (string, time.Time, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", time.Time{}, status.Error(codes.Unauthenticated, "missing caller")
	}
	authTime, _ := ctx.Value(authTimeKey).(time.Time)
	return userID, authTime, nil
}
