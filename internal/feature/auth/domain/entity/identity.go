// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// DefaultSecurityScore is assigned to every identity at registration.
const DefaultSecurityScore = 80

// Identity represents a registered user in the system.
// It contains authentication credentials and profile attributes.
type Identity struct {
	// ID is the opaque unique identifier assigned at creation.
	ID string

	// Email is the login key. It is unique and compared case-sensitively.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Plaintext passwords are never stored.
	PasswordHash string

	Name string
	Bio  string

	// LastLogin is updated on every successful authentication.
	LastLogin time.Time

	// SecurityScore is a read-only display metric.
	SecurityScore int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the public-safe projection of an Identity.
// It intentionally has no password hash field.
type Profile struct {
	ID            string
	Name          string
	Email         string
	Bio           string
	LastLogin     time.Time
	SecurityScore int
}

// Profile returns the public-safe projection of the identity.
func (i *Identity) Profile() Profile {
	return Profile{
		ID:            i.ID,
		Name:          i.Name,
		Email:         i.Email,
		Bio:           i.Bio,
		LastLogin:     i.LastLogin,
		SecurityScore: i.SecurityScore,
	}
}

// IdentityPatch describes a partial update of an identity.
// Nil fields are left unchanged.
type IdentityPatch struct {
	Name      *string
	Bio       *string
	LastLogin *time.Time
}

// IsEmpty reports whether the patch changes nothing.
func (p IdentityPatch) IsEmpty() bool {
	return p.Name == nil && p.Bio == nil && p.LastLogin == nil
}

// Apply copies the supplied fields of the patch onto the identity.
func (p IdentityPatch) Apply(i *Identity) {
	if p.Name != nil {
		i.Name = *p.Name
	}
	if p.Bio != nil {
		i.Bio = *p.Bio
	}
	if p.LastLogin != nil {
		i.LastLogin = *p.LastLogin
	}
}
