package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"finbook/internal/domain"
	"finbook/internal/port"
)

// The profile is a single row with a fixed id.
const companyProfileID = 1

type companyProfileRepo struct {
	db *sqlx.DB
}

// NewCompanyProfileRepo creates a PostgreSQL-backed CompanyProfileRepository.
func NewCompanyProfileRepo(db *sqlx.DB) port.CompanyProfileRepository {
	return &companyProfileRepo{db: db}
}

func (r *companyProfileRepo) Get(ctx context.Context) (*domain.CompanyProfile, error) {
	var profile domain.CompanyProfile
	err := sqlx.GetContext(ctx, queryer(ctx, r.db), &profile,
		"SELECT * FROM company_profile WHERE id = $1", companyProfileID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotConfigured
		}
		return nil, fmt.Errorf("companyProfileRepo.Get: %w", err)
	}
	return &profile, nil
}

func (r *companyProfileRepo) Upsert(ctx context.Context, profile *domain.CompanyProfile) error {
	profile.ID = companyProfileID
	profile.UpdatedAt = time.Now().UTC()

	query := `INSERT INTO company_profile (
		id, name, address, gstin, home_state_code, country,
		bank_name, account_number, ifsc_code, updated_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name, address = EXCLUDED.address, gstin = EXCLUDED.gstin,
		home_state_code = EXCLUDED.home_state_code, country = EXCLUDED.country,
		bank_name = EXCLUDED.bank_name, account_number = EXCLUDED.account_number,
		ifsc_code = EXCLUDED.ifsc_code, updated_at = EXCLUDED.updated_at`

	_, err := queryer(ctx, r.db).ExecContext(ctx, query,
		profile.ID, profile.Name, profile.Address, profile.GSTIN,
		profile.HomeStateCode, profile.Country,
		profile.BankName, profile.AccountNumber, profile.IFSCCode, profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("companyProfileRepo.Upsert: %w", err)
	}
	return nil
}
