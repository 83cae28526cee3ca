package models

// ProviderInfo is one sign-in method linked to an identity, e.g.
// "password" or "google.com".
type ProviderInfo struct {
	ProviderID string
	Email      string
}

// Identity is the signed-in user as reported by the auth service. Providers
// keep the order the service reports them in.
type Identity struct {
	UserID    string
	Email     string
	Providers []ProviderInfo
}

// AuthMethod is how the current user signed in, derived from the provider
// list.
type AuthMethod string

const (
	AuthMethodEmail  AuthMethod = "EMAIL"
	AuthMethodGoogle AuthMethod = "GOOGLE"
	AuthMethodNone   AuthMethod = "NONE"
)

func (m AuthMethod) String() string {
	return string(m)
}

// Credential is presented to the auth service to sign in or reauthenticate.
// Password credentials set Email and Password, google.com credentials set
// IDToken.
type Credential struct {
	Provider string
	Email    string
	Password string
	IDToken  string
}
