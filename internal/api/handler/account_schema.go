package handler

import "time"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// --- Request types ---

type registerRequest struct {
	AccountType   string `json:"accountType"   validate:"required"`
	FirstName     string `json:"firstName"     validate:"required"`
	LastName      string `json:"lastName"      validate:"required"`
	PreferredName string `json:"preferredName"`
	Username      string `json:"username"      validate:"required"`
	Email         string `json:"email"         validate:"required"`
	Password      string `json:"password"      validate:"required"`
	HearAbout     string `json:"hearAbout"     validate:"required"`
	JoinSociety   bool   `json:"joinSociety"`

	// Conditional on accountType; fields that do not apply are discarded.
	LicenseNumber  string `json:"licenseNumber"`
	BusinessNumber string `json:"businessNumber"`
	ReferralName   string `json:"referralName"`
	LicensedState  string `json:"licensedState"`
	ZipCode        string `json:"zipCode"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type searchRequest struct {
	ZipCode string `query:"zipCode" validate:"required"`
}

// --- Response types ---

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// userResponse is an account without its credential.
type userResponse struct {
	ID             string    `json:"id"`
	AccountType    string    `json:"accountType"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	PreferredName  string    `json:"preferredName,omitempty"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	LicenseNumber  string    `json:"licenseNumber,omitempty"`
	BusinessNumber string    `json:"businessNumber,omitempty"`
	ReferralName   string    `json:"referralName,omitempty"`
	LicensedState  string    `json:"licensedState,omitempty"`
	ZipCode        string    `json:"zipCode,omitempty"`
	HearAbout      string    `json:"hearAbout"`
	JoinSociety    bool      `json:"joinSociety"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type getUserResponse struct {
	User userResponse `json:"user"`
}

type listUsersResponse struct {
	Users []userResponse `json:"users"`
}

type publicUserResponse struct {
	Username      string `json:"username"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	PreferredName string `json:"preferredName,omitempty"`
	AccountType   string `json:"accountType"`
	ZipCode       string `json:"zipCode,omitempty"`
	LicensedState string `json:"licensedState,omitempty"`
}

type searchUsersResponse struct {
	Users []publicUserResponse `json:"users"`
}

type purgeResult struct {
	DeletedCount int64 `json:"deletedCount"`
}

type purgeResponse struct {
	Message string      `json:"message"`
	Result  purgeResult `json:"result"`
}
