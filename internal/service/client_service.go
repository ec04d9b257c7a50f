package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"finbook/internal/domain"
	"finbook/internal/port"
)

// ClientInput is the DTO for creating or updating a client.
type ClientInput struct {
	Name      string
	Email     string
	Phone     string
	Address   string
	GSTIN     string
	StateCode *int
	Country   string
}

// ClientService defines the client management contract.
type ClientService interface {
	Create(ctx context.Context, input *ClientInput) (*domain.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, offset, limit int) ([]domain.Client, int, error)
	Update(ctx context.Context, id uuid.UUID, input *ClientInput) (*domain.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type clientService struct {
	clientRepo port.ClientRepository
}

// NewClientService creates a new ClientService implementation.
func NewClientService(clientRepo port.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func validateClientInput(input *ClientInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return domain.NewValidationError("name", "name is required")
	}
	if input.StateCode != nil && (*input.StateCode < 1 || *input.StateCode > 99) {
		return domain.NewValidationError("state_code", "state code must be between 1 and 99")
	}
	return nil
}

func (s *clientService) Create(ctx context.Context, input *ClientInput) (*domain.Client, error) {
	if err := validateClientInput(input); err != nil {
		return nil, err
	}

	client := &domain.Client{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Phone:     input.Phone,
		Address:   input.Address,
		GSTIN:     strings.ToUpper(strings.TrimSpace(input.GSTIN)),
		StateCode: input.StateCode,
		Country:   strings.TrimSpace(input.Country),
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) List(ctx context.Context, offset, limit int) ([]domain.Client, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.clientRepo.List(ctx, offset, limit)
}

func (s *clientService) Update(ctx context.Context, id uuid.UUID, input *ClientInput) (*domain.Client, error) {
	if err := validateClientInput(input); err != nil {
		return nil, err
	}

	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	client.Name = strings.TrimSpace(input.Name)
	client.Email = strings.TrimSpace(input.Email)
	client.Phone = input.Phone
	client.Address = input.Address
	client.GSTIN = strings.ToUpper(strings.TrimSpace(input.GSTIN))
	client.StateCode = input.StateCode
	client.Country = strings.TrimSpace(input.Country)

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.clientRepo.Delete(ctx, id)
}
