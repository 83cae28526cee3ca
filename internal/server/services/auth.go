// Package services contains the emulator's business logic: account sessions
// (AuthService) and owner-scoped notes (NoteService).
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/cryptox"
	"github.com/dmitrijs2005/notekeeper/internal/server/auth"
	"github.com/dmitrijs2005/notekeeper/internal/server/config"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
)

const idpTokenValidity = 5 * time.Minute

// Session is the result of every successful sign-in, refresh or
// reauthentication.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Credential is what a user presents to Reauthenticate.
type Credential struct {
	ProviderID string
	Email      string
	Password   string
	IDToken    string
}

// AuthService signs users up and in, rotates refresh tokens and deletes
// accounts. Access tokens carry the time of the last credential check, which
// DeleteAccount compares against the recent-login window.
type AuthService struct {
	repos                        repomanager.RepositoryManager
	jwtSecret                    []byte
	idpSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	recentLoginWindow            time.Duration
	now                          func() time.Time
}

func NewAuthService(repos repomanager.RepositoryManager, cfg *config.Config) *AuthService {
	return &AuthService{
		repos:                        repos,
		jwtSecret:                    []byte(cfg.SecretKey),
		idpSecret:                    []byte(cfg.IdpSecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		recentLoginWindow:            cfg.RecentLoginWindow,
		now:                          time.Now,
	}
}

// SignUp creates a password account and signs it in.
func (s *AuthService) SignUp(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || utf8.RuneCountInString(password) < common.MinPasswordLength {
		return nil, common.ErrorInvalidArgument
	}

	salt, verifier := cryptox.HashPassword([]byte(password))

	var session *Session
	err := s.repos.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		user, err := r.Users().Create(ctx, &models.User{
			Email:     email,
			Salt:      salt,
			Verifier:  verifier,
			Providers: []models.Provider{{ProviderID: common.ProviderPassword, Email: email}},
		})
		if err != nil {
			return err
		}
		session, err = s.issueSession(ctx, r, user, s.now())
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return session, nil
}

// SignInWithPassword checks email and password. Unknown emails and wrong
// passwords both yield common.ErrorUnauthorized.
func (s *AuthService) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repos.Users().GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if !user.HasProvider(common.ProviderPassword) || !cryptox.CheckPassword([]byte(password), user.Salt, user.Verifier) {
		return nil, common.ErrorUnauthorized
	}

	return s.issueSession(ctx, s.repos, user, s.now())
}

// SignInWithIdp exchanges an emulated google.com ID token for a session,
// creating the account or linking the provider on first use.
func (s *AuthService) SignInWithIdp(ctx context.Context, providerID, idToken string) (*Session, error) {
	if providerID != common.ProviderGoogle {
		return nil, common.ErrorInvalidArgument
	}
	email, err := auth.ParseIdpToken(idToken, s.idpSecret)
	if err != nil {
		return nil, common.ErrorUnauthorized
	}
	email = normalizeEmail(email)

	var session *Session
	err = s.repos.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		user, err := r.Users().GetByEmail(ctx, email)
		switch {
		case errors.Is(err, common.ErrorNotFound):
			user, err = r.Users().Create(ctx, &models.User{
				Email:     email,
				Providers: []models.Provider{{ProviderID: common.ProviderGoogle, Email: email}},
			})
			if err != nil {
				return err
			}
		case err != nil:
			return err
		case !user.HasProvider(common.ProviderGoogle):
			p := models.Provider{ProviderID: common.ProviderGoogle, Email: email}
			if err := r.Users().AddProvider(ctx, user.ID, p); err != nil {
				return err
			}
			user.Providers = append(user.Providers, p)
		}
		session, err = s.issueSession(ctx, r, user, s.now())
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("error signing in with idp: %w", err)
	}

	return session, nil
}

// RefreshToken rotates a refresh token. The new access token keeps the
// original AuthTime so a refresh never counts as a recent login.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*Session, error) {
	token, err := s.repos.RefreshTokens().Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}
	if token.ExpiresAt.Before(s.now()) {
		return nil, common.ErrRefreshTokenExpired
	}

	var session *Session
	err = s.repos.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if err := r.RefreshTokens().Delete(ctx, refreshToken); err != nil {
			return fmt.Errorf("error deleting refresh token: %w", err)
		}
		user, err := r.Users().GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		session, err = s.issueSession(ctx, r, user, token.AuthTime)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	return session, nil
}

// Account returns the signed-in user's record.
func (s *AuthService) Account(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users().GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("error loading account: %w", err)
	}
	return user, nil
}

// Reauthenticate checks a fresh credential for userID and returns a session
// whose AuthTime is now.
func (s *AuthService) Reauthenticate(ctx context.Context, userID string, cred Credential) (*Session, error) {
	user, err := s.Account(ctx, userID)
	if err != nil {
		return nil, err
	}

	switch cred.ProviderID {
	case common.ProviderPassword:
		if !user.HasProvider(common.ProviderPassword) ||
			normalizeEmail(cred.Email) != user.Email ||
			!cryptox.CheckPassword([]byte(cred.Password), user.Salt, user.Verifier) {
			return nil, common.ErrorUnauthorized
		}
	case common.ProviderGoogle:
		email, err := auth.ParseIdpToken(cred.IDToken, s.idpSecret)
		if err != nil || !user.HasProvider(common.ProviderGoogle) || normalizeEmail(email) != user.Email {
			return nil, common.ErrorUnauthorized
		}
	default:
		return nil, common.ErrorInvalidArgument
	}

	return s.issueSession(ctx, s.repos, user, s.now())
}

// DeleteAccount removes userID, its providers and refresh tokens. Notes are
// left in place. authTime older than the recent-login window yields
// common.ErrRequiresRecentLogin.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string, authTime time.Time) error {
	if s.now().Sub(authTime) > s.recentLoginWindow {
		return common.ErrRequiresRecentLogin
	}

	err := s.repos.InTx(ctx, func(ctx context.Context, r repomanager.Repositories) error {
		if err := r.RefreshTokens().DeleteByUser(ctx, userID); err != nil {
			return err
		}
		return r.Users().Delete(ctx, userID)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("error deleting account: %w", err)
	}

	return nil
}

// IssueIdpToken plays the google.com account chooser: it signs an ID token
// asserting email.
func (s *AuthService) IssueIdpToken(email string) (string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return "", common.ErrorInvalidArgument
	}
	return auth.GenerateIdpToken(email, s.idpSecret, idpTokenValidity)
}

// VerifyAccessToken returns the claims of a valid access token.
func (s *AuthService) VerifyAccessToken(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

func (s *AuthService) issueSession(ctx context.Context, r repomanager.Repositories, user *models.User, authTime time.Time) (*Session, error) {
	access, err := auth.GenerateToken(user.ID, authTime, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	err = r.RefreshTokens().Create(ctx, &models.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		AuthTime:  authTime,
		ExpiresAt: s.now().Add(s.refreshTokenValidityDuration),
	})
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
