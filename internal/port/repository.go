package port

import (
	"context"

	"github.com/google/uuid"

	"finbook/internal/domain"
)

// TxRunner executes a function inside a single database transaction.
// Repository calls made with the ctx passed to fn join that transaction, so
// a sequence allocation and its document insert commit or abort together.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// SequenceRepository owns the per-scope monotonic counters behind document
// numbering.
type SequenceRepository interface {
	// Next atomically increments the counter for scopeKey (creating it at
	// zero on first use) and returns the new value. Concurrent calls for
	// the same scope never observe the same value. Must be called inside
	// the transaction that inserts the numbered document, so a failed
	// insert rolls the increment back.
	Next(ctx context.Context, scopeKey string) (int64, error)
}

// ClientRepository defines the contract for client persistence.
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Client, error)
	List(ctx context.Context, offset, limit int) ([]domain.Client, int, error)
	Update(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CompanyProfileRepository persists the single company profile row.
type CompanyProfileRepository interface {
	Get(ctx context.Context) (*domain.CompanyProfile, error)
	Upsert(ctx context.Context, profile *domain.CompanyProfile) error
}

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
