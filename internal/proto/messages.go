// Package proto defines the wire contract between the NoteKeeper client and
// its backend, as described by backend.proto: plain Go messages, their
// protobuf descriptors and the gRPC service.
package proto

import "time"

// ProviderInfo is one sign-in method linked to an account.
type ProviderInfo struct {
	ProviderID string
	Email      string
}

// Account describes the signed-in identity.
type Account struct {
	UserID    string
	Email     string
	Providers []ProviderInfo
}

// Session is returned by every call that establishes or refreshes credentials.
type Session struct {
	AccessToken  string
	RefreshToken string
	Account      Account
}

// Credential is presented to Reauthenticate. Password credentials carry
// Email/Password, federated ones carry IDToken.
type Credential struct {
	ProviderID string
	Email      string
	Password   string
	IDToken    string
}

type Note struct {
	ID        string
	OwnerID   string
	Title     string
	Content   string
	CreatedAt time.Time
}

type PingRequest struct{}

type PingResponse struct {
	Status string
}

type SignUpRequest struct {
	Email    string
	Password string
}

type SignInWithPasswordRequest struct {
	Email    string
	Password string
}

type SignInWithIdpRequest struct {
	ProviderID string
	IDToken    string
}

type RefreshTokenRequest struct {
	RefreshToken string
}

type GetAccountRequest struct{}

type ReauthenticateRequest struct {
	Credential Credential
}

type DeleteAccountRequest struct{}

type DeleteAccountResponse struct{}

type CreateNoteRequest struct {
	Note Note
}

type CreateNoteResponse struct {
	ID string
}

type ListNotesRequest struct {
	OwnerID string
}

type ListNotesResponse struct {
	Notes []Note
}

type DeleteNoteRequest struct {
	ID string
}

type DeleteNoteResponse struct{}

// IssueIdpTokenRequest asks the emulator's account chooser for a signed
// google.com ID token for Email.
type IssueIdpTokenRequest struct {
	Email string
}

type IssueIdpTokenResponse struct {
	IDToken string
}
