package service

import (
	"context"
	"strings"

	"finbook/internal/domain"
	"finbook/internal/port"
)

// ProfileInput is the DTO for configuring the company profile.
type ProfileInput struct {
	Name          string
	Address       string
	GSTIN         string
	HomeStateCode *int
	Country       string
	BankName      string
	AccountNumber string
	IFSCCode      string
}

// ProfileService defines the company profile contract. Until a profile
// with a home state is saved, tax classification runs in its degraded
// interstate-fallback mode.
type ProfileService interface {
	Get(ctx context.Context) (*domain.CompanyProfile, error)
	Save(ctx context.Context, input *ProfileInput) (*domain.CompanyProfile, error)
}

type profileService struct {
	profileRepo port.CompanyProfileRepository
}

// NewProfileService creates a new ProfileService implementation.
func NewProfileService(profileRepo port.CompanyProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

func (s *profileService) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	return s.profileRepo.Get(ctx)
}

func (s *profileService) Save(ctx context.Context, input *ProfileInput) (*domain.CompanyProfile, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, domain.NewValidationError("name", "company name is required")
	}
	if input.HomeStateCode != nil && (*input.HomeStateCode < 1 || *input.HomeStateCode > 99) {
		return nil, domain.NewValidationError("home_state_code", "state code must be between 1 and 99")
	}

	profile := &domain.CompanyProfile{
		Name:          strings.TrimSpace(input.Name),
		Address:       input.Address,
		GSTIN:         strings.ToUpper(strings.TrimSpace(input.GSTIN)),
		HomeStateCode: input.HomeStateCode,
		Country:       strings.TrimSpace(input.Country),
		BankName:      input.BankName,
		AccountNumber: input.AccountNumber,
		IFSCCode:      strings.ToUpper(strings.TrimSpace(input.IFSCCode)),
	}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}
