package entities

import (
	"time"

	pkgerrors "notemap-backend/pkg/errors"
)

// Provider identifies an external mirror target
type Provider string

const (
	ProviderDrive  Provider = "drive"
	ProviderGitHub Provider = "github"
)

// Valid reports whether the provider is one we mirror to
func (p Provider) Valid() bool {
	return p == ProviderDrive || p == ProviderGitHub
}

// DriveCredential is a stored OAuth credential for Google Drive. AccessToken
// expires and is refreshed via the stored refresh token.
type DriveCredential struct {
	AccessToken  string
	RefreshToken string
	Expiry       time.Time
}

// Expired reports whether the access token needs a refresh exchange
func (c DriveCredential) Expired(now time.Time) bool {
	return !c.Expiry.After(now)
}

// GitHubCredential is an opaque long-lived token; validity is only checked
// lazily by the first API call that uses it.
type GitHubCredential struct {
	Token string
}

// Preferences controls per-user sync behavior. AutoCommit only takes effect
// once GitHubOwner and GitHubRepo name a target repository.
type Preferences struct {
	AutoSync     bool
	AutoCommit   bool
	DefaultColor string
	GitHubOwner  string
	GitHubRepo   string
}

// DefaultPreferences returns the preferences assigned to new users
func DefaultPreferences() Preferences {
	return Preferences{
		AutoSync:     true,
		AutoCommit:   false,
		DefaultColor: DefaultNoteColor,
	}
}

// User owns notes and connections plus the embedded credentials used to
// mirror them. Users are created out-of-band; there is no public
// registration endpoint.
type User struct {
	id          string
	email       string
	name        string
	drive       *DriveCredential
	github      *GitHubCredential
	preferences Preferences
	createdAt   time.Time
}

// NewUser creates a user with default preferences
func NewUser(id, email, name string) (*User, error) {
	if id == "" {
		return nil, pkgerrors.NewValidationError("user id cannot be empty")
	}
	if email == "" {
		return nil, pkgerrors.NewValidationError("email cannot be empty")
	}

	return &User{
		id:          id,
		email:       email,
		name:        name,
		preferences: DefaultPreferences(),
		createdAt:   time.Now().UTC(),
	}, nil
}

// ReconstructUser rebuilds a user from repository data
func ReconstructUser(
	id, email, name string,
	drive *DriveCredential,
	github *GitHubCredential,
	preferences Preferences,
	createdAt time.Time,
) *User {
	return &User{
		id:          id,
		email:       email,
		name:        name,
		drive:       drive,
		github:      github,
		preferences: preferences,
		createdAt:   createdAt,
	}
}

// ConnectDrive attaches or replaces the Drive credential
func (u *User) ConnectDrive(cred DriveCredential) {
	u.drive = &cred
}

// ConnectGitHub attaches or replaces the GitHub credential
func (u *User) ConnectGitHub(cred GitHubCredential) {
	u.github = &cred
}

// Disconnect removes the stored credential for a provider
func (u *User) Disconnect(provider Provider) {
	switch provider {
	case ProviderDrive:
		u.drive = nil
	case ProviderGitHub:
		u.github = nil
	}
}

// Connected reports whether a credential is stored for the provider
func (u *User) Connected(provider Provider) bool {
	switch provider {
	case ProviderDrive:
		return u.drive != nil
	case ProviderGitHub:
		return u.github != nil
	default:
		return false
	}
}

// SetPreferences replaces the user's preferences
func (u *User) SetPreferences(p Preferences) {
	u.preferences = p
}

// ID returns the user's unique identifier
func (u *User) ID() string { return u.id }

// Email returns the user's email
func (u *User) Email() string { return u.email }

// Name returns the user's display name
func (u *User) Name() string { return u.name }

// Drive returns the stored Drive credential, nil if not connected
func (u *User) Drive() *DriveCredential { return u.drive }

// GitHub returns the stored GitHub credential, nil if not connected
func (u *User) GitHub() *GitHubCredential { return u.github }

// Preferences returns the user's sync preferences
func (u *User) Preferences() Preferences { return u.preferences }

// CreatedAt returns when the user was created
func (u *User) CreatedAt() time.Time { return u.createdAt }
