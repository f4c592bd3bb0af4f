package domain

import (
	"regexp"
	"strings"
)

// AccountType is the closed set of account kinds. It decides which
// conditional fields an account carries.
type AccountType string

const (
	AccountTypeRegularCustomer AccountType = "regularCustomer"
	AccountTypeLicensedStylist AccountType = "licensedStylist"
	AccountTypeSalonOwner      AccountType = "salonOwner"
)

// AccountTypes lists every valid AccountType.
var AccountTypes = []AccountType{
	AccountTypeRegularCustomer,
	AccountTypeLicensedStylist,
	AccountTypeSalonOwner,
}

func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeRegularCustomer, AccountTypeLicensedStylist, AccountTypeSalonOwner:
		return true
	}
	return false
}

// Professional reports whether accounts of this type are listed in zip searches.
func (t AccountType) Professional() bool {
	return t == AccountTypeLicensedStylist || t == AccountTypeSalonOwner
}

var zipCodePattern = regexp.MustCompile(`^\d{5}(-\d{4})?$`)

// ValidZipCode accepts 12345 and 12345-6789.
func ValidZipCode(zip string) bool {
	return zipCodePattern.MatchString(zip)
}

// ConditionalFields is the flat, untyped bag of type-dependent attributes as
// they arrive from a client or leave the store.
type ConditionalFields struct {
	LicenseNumber  string
	BusinessNumber string
	ReferralName   string
	LicensedState  string
	ZipCode        string
}

// Profile is the account-type variant. Each implementation carries only the
// fields that apply to its type; the set of implementations is closed.
type Profile interface {
	AccountType() AccountType
	Fields() ConditionalFields
	validate(ve *ValidationError)
}

// CustomerProfile belongs to regular customers.
type CustomerProfile struct {
	ReferralName string
}

func (CustomerProfile) AccountType() AccountType { return AccountTypeRegularCustomer }

func (p CustomerProfile) Fields() ConditionalFields {
	return ConditionalFields{ReferralName: p.ReferralName}
}

func (p CustomerProfile) validate(ve *ValidationError) {
	requireField(ve, "referralName", p.ReferralName)
}

// StylistProfile belongs to licensed stylists.
type StylistProfile struct {
	LicenseNumber string
	LicensedState string
	ZipCode       string
}

func (StylistProfile) AccountType() AccountType { return AccountTypeLicensedStylist }

func (p StylistProfile) Fields() ConditionalFields {
	return ConditionalFields{
		LicenseNumber: p.LicenseNumber,
		LicensedState: p.LicensedState,
		ZipCode:       p.ZipCode,
	}
}

func (p StylistProfile) validate(ve *ValidationError) {
	requireField(ve, "licenseNumber", p.LicenseNumber)
	requireField(ve, "licensedState", p.LicensedState)
	validateZip(ve, p.ZipCode)
}

// SalonOwnerProfile belongs to salon owners.
type SalonOwnerProfile struct {
	BusinessNumber string
	LicensedState  string
	ZipCode        string
}

func (SalonOwnerProfile) AccountType() AccountType { return AccountTypeSalonOwner }

func (p SalonOwnerProfile) Fields() ConditionalFields {
	return ConditionalFields{
		BusinessNumber: p.BusinessNumber,
		LicensedState:  p.LicensedState,
		ZipCode:        p.ZipCode,
	}
}

func (p SalonOwnerProfile) validate(ve *ValidationError) {
	requireField(ve, "businessNumber", p.BusinessNumber)
	requireField(ve, "licensedState", p.LicensedState)
	validateZip(ve, p.ZipCode)
}

// SelectProfile builds the variant for t from f, dropping every field that
// does not apply to t. It does not check presence; see NewProfile.
func SelectProfile(t AccountType, f ConditionalFields) (Profile, error) {
	switch t {
	case AccountTypeRegularCustomer:
		return CustomerProfile{ReferralName: strings.TrimSpace(f.ReferralName)}, nil
	case AccountTypeLicensedStylist:
		return StylistProfile{
			LicenseNumber: strings.TrimSpace(f.LicenseNumber),
			LicensedState: strings.TrimSpace(f.LicensedState),
			ZipCode:       strings.TrimSpace(f.ZipCode),
		}, nil
	case AccountTypeSalonOwner:
		return SalonOwnerProfile{
			BusinessNumber: strings.TrimSpace(f.BusinessNumber),
			LicensedState:  strings.TrimSpace(f.LicensedState),
			ZipCode:        strings.TrimSpace(f.ZipCode),
		}, nil
	}
	return nil, NewValidationError("accountType", "must be one of: regularCustomer licensedStylist salonOwner")
}

// NewProfile selects the variant for t and verifies its required fields.
func NewProfile(t AccountType, f ConditionalFields) (Profile, error) {
	p, err := SelectProfile(t, f)
	if err != nil {
		return nil, err
	}
	ve := &ValidationError{}
	p.validate(ve)
	if !ve.Empty() {
		return nil, ve
	}
	return p, nil
}

func requireField(ve *ValidationError, name, value string) {
	if value == "" {
		ve.Add(name, "is required")
	}
}

func validateZip(ve *ValidationError, zip string) {
	switch {
	case zip == "":
		ve.Add("zipCode", "is required")
	case !ValidZipCode(zip):
		ve.Add("zipCode", "must look like 12345 or 12345-6789")
	}
}
