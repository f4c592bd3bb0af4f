package handler

import (
	"github.com/custommatt/account-api/internal/core/domain"
	"github.com/custommatt/account-api/internal/core/ports"
)

// --- Request → Service input ---

func toRegisterInput(req registerRequest) ports.RegisterInput {
	return ports.RegisterInput{
		AccountType:    req.AccountType,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		PreferredName:  req.PreferredName,
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		HearAbout:      req.HearAbout,
		JoinSociety:    req.JoinSociety,
		LicenseNumber:  req.LicenseNumber,
		BusinessNumber: req.BusinessNumber,
		ReferralName:   req.ReferralName,
		LicensedState:  req.LicensedState,
		ZipCode:        req.ZipCode,
	}
}

func toLoginInput(req loginRequest) ports.LoginInput {
	return ports.LoginInput{Email: req.Email, Password: req.Password}
}

// --- Domain → HTTP response ---

func toUserResponse(a *domain.Account) userResponse {
	var f domain.ConditionalFields
	if a.Profile != nil {
		f = a.Profile.Fields()
	}
	return userResponse{
		ID:             a.ID,
		AccountType:    string(a.AccountType()),
		FirstName:      a.FirstName,
		LastName:       a.LastName,
		PreferredName:  a.PreferredName,
		Username:       a.Username,
		Email:          a.Email,
		LicenseNumber:  f.LicenseNumber,
		BusinessNumber: f.BusinessNumber,
		ReferralName:   f.ReferralName,
		LicensedState:  f.LicensedState,
		ZipCode:        f.ZipCode,
		HearAbout:      string(a.HearAbout),
		JoinSociety:    a.JoinSociety,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}
}

func toUserResponses(accounts []*domain.Account) []userResponse {
	out := make([]userResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toUserResponse(a))
	}
	return out
}

func toPublicUserResponses(accounts []domain.PublicAccount) []publicUserResponse {
	out := make([]publicUserResponse, 0, len(accounts))
	for _, p := range accounts {
		out = append(out, publicUserResponse{
			Username:      p.Username,
			Email:         p.Email,
			FirstName:     p.FirstName,
			LastName:      p.LastName,
			PreferredName: p.PreferredName,
			AccountType:   string(p.AccountType),
			ZipCode:       p.ZipCode,
			LicensedState: p.LicensedState,
		})
	}
	return out
}
