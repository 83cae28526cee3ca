// Package models holds the emulator's persistent records.
package models

import "time"

// User is an account. Salt and Verifier are nil for accounts that only ever
// signed in through a federated provider.
type User struct {
	ID        string
	Email     string
	Salt      []byte
	Verifier  []byte
	Providers []Provider
	CreatedAt time.Time
}

// Provider links a sign-in method to a user. Providers are kept in the order
// they were linked.
type Provider struct {
	ProviderID string
	Email      string
}

// HasProvider reports whether providerID is linked to u.
func (u *User) HasProvider(providerID string) bool {
	for _, p := range u.Providers {
		if p.ProviderID == providerID {
			return true
		}
	}
	return false
}
