package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// HearAbout is the closed set of "how did you hear about us" answers.
type HearAbout string

const (
	HearAboutStylist     HearAbout = "Stylist"
	HearAboutClient      HearAbout = "Client"
	HearAboutMedia       HearAbout = "Media"
	HearAboutDistributor HearAbout = "Distributor"
	HearAboutAd          HearAbout = "Ad"
	HearAboutSocial      HearAbout = "Social"
	HearAboutOther       HearAbout = "Other"
)

func (h HearAbout) Valid() bool {
	switch h {
	case HearAboutStylist, HearAboutClient, HearAboutMedia, HearAboutDistributor,
		HearAboutAd, HearAboutSocial, HearAboutOther:
		return true
	}
	return false
}

var emailPattern = regexp.MustCompile(`^.+@.+\..+$`)

// ValidEmail applies the basic address pattern used for registration.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// CredentialHasher is the part of the password hasher the save hook needs.
type CredentialHasher interface {
	Hash(plaintext string) (string, error)
}

// Account is a registered user.
type Account struct {
	ID            string
	FirstName     string
	LastName      string
	PreferredName string
	Username      string
	Email         string
	PasswordHash  string
	HearAbout     HearAbout
	JoinSociety   bool
	Profile       Profile
	CreatedAt     time.Time
	UpdatedAt     time.Time

	pendingPassword string
}

// MaxPasswordBytes is the longest credential bcrypt accepts.
const MaxPasswordBytes = 72

// AccountDraft is registration data that has not been validated yet.
type AccountDraft struct {
	AccountType   AccountType
	FirstName     string
	LastName      string
	PreferredName string
	Username      string
	Email         string
	Password      string
	HearAbout     HearAbout
	JoinSociety   bool
	Conditional   ConditionalFields
}

// NewAccount validates d and builds an unsaved Account. Conditional fields
// that do not apply to the account type are discarded. The password is kept
// as a pending credential until BeforeSave hashes it.
func NewAccount(d AccountDraft) (*Account, error) {
	profile, err := SelectProfile(d.AccountType, d.Conditional)
	if err != nil {
		return nil, err
	}

	a := &Account{
		FirstName:     strings.TrimSpace(d.FirstName),
		LastName:      strings.TrimSpace(d.LastName),
		PreferredName: strings.TrimSpace(d.PreferredName),
		Username:      strings.TrimSpace(d.Username),
		Email:         strings.TrimSpace(d.Email),
		HearAbout:     d.HearAbout,
		JoinSociety:   d.JoinSociety,
		Profile:       profile,
	}
	a.SetPassword(d.Password)

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// AccountType returns the type tag of the account's profile.
func (a *Account) AccountType() AccountType {
	if a.Profile == nil {
		return ""
	}
	return a.Profile.AccountType()
}

// Validate checks every field invariant, including the profile's
// type-required fields.
func (a *Account) Validate() error {
	ve := &ValidationError{}

	requireField(ve, "firstName", a.FirstName)
	requireField(ve, "lastName", a.LastName)
	requireField(ve, "username", a.Username)
	switch {
	case a.Email == "":
		ve.Add("email", "is required")
	case !ValidEmail(a.Email):
		ve.Add("email", "must be a valid email address")
	}
	switch {
	case a.pendingPassword == "" && a.PasswordHash == "":
		ve.Add("password", "is required")
	case len(a.pendingPassword) > MaxPasswordBytes:
		ve.Add("password", fmt.Sprintf("must be at most %d bytes", MaxPasswordBytes))
	}
	if !a.HearAbout.Valid() {
		ve.Add("hearAbout", "must be one of: Stylist Client Media Distributor Ad Social Other")
	}

	if a.Profile == nil {
		ve.Add("accountType", "is required")
	} else {
		a.Profile.validate(ve)
	}

	if !ve.Empty() {
		return ve
	}
	return nil
}

// SetPassword stages a new plaintext credential. It is replaced by a hash
// in BeforeSave and never leaves the process in plaintext.
func (a *Account) SetPassword(plaintext string) {
	a.pendingPassword = plaintext
}

// HasPendingPassword reports whether a staged plaintext still awaits hashing.
func (a *Account) HasPendingPassword() bool {
	return a.pendingPassword != ""
}

// BeforeSave is the save hook. It hashes a staged credential and maintains
// the timestamps.
func (a *Account) BeforeSave(h CredentialHasher, now time.Time) error {
	if a.pendingPassword != "" {
		hash, err := h.Hash(a.pendingPassword)
		if err != nil {
			if errors.Is(err, ErrHashing) {
				return err
			}
			return fmt.Errorf("%w: %v", ErrHashing, err)
		}
		a.PasswordHash = hash
		a.pendingPassword = ""
	}

	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now
	return nil
}

// Public returns the public-safe projection of the account.
func (a *Account) Public() PublicAccount {
	f := ConditionalFields{}
	if a.Profile != nil {
		f = a.Profile.Fields()
	}
	return PublicAccount{
		Username:      a.Username,
		Email:         a.Email,
		FirstName:     a.FirstName,
		LastName:      a.LastName,
		PreferredName: a.PreferredName,
		AccountType:   a.AccountType(),
		ZipCode:       f.ZipCode,
		LicensedState: f.LicensedState,
	}
}

// PublicAccount is what zip searches expose about a professional.
type PublicAccount struct {
	Username      string      `json:"username"`
	Email         string      `json:"email"`
	FirstName     string      `json:"firstName"`
	LastName      string      `json:"lastName"`
	PreferredName string      `json:"preferredName,omitempty"`
	AccountType   AccountType `json:"accountType"`
	ZipCode       string      `json:"zipCode,omitempty"`
	LicensedState string      `json:"licensedState,omitempty"`
}
