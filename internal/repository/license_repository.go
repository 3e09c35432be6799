package repository

import (
	"context"
	"fmt"

	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/akshayds23/Whizrobo/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LicenseRepository struct {
	*base.Repository
}

func NewLicenseRepository(pool *pgxpool.Pool) *LicenseRepository {
	return &LicenseRepository{Repository: base.NewRepository(pool)}
}

const licenseColumns = `id, org_id, robot_id, license_key, valid_from, valid_until, is_active, created_at`

func scanLicense(row pgx.Row) (*model.License, error) {
	var license model.License
	err := row.Scan(
		&license.ID,
		&license.OrgID,
		&license.RobotID,
		&license.LicenseKey,
		&license.ValidFrom,
		&license.ValidUntil,
		&license.IsActive,
		&license.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &license, nil
}

// Create inserts a license and fills ID and CreatedAt
func (r *LicenseRepository) Create(ctx context.Context, license *model.License) error {
	query := `
		INSERT INTO licenses (org_id, robot_id, license_key, valid_from, valid_until, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(
		ctx, query,
		license.OrgID,
		license.RobotID,
		license.LicenseKey,
		license.ValidFrom,
		license.ValidUntil,
		license.IsActive,
	).Scan(&license.ID, &license.CreatedAt)

	if err != nil {
		return fmt.Errorf("create license: %w", err)
	}

	return nil
}

// GetByID returns nil, nil when the license does not exist
func (r *LicenseRepository) GetByID(ctx context.Context, id int64) (*model.License, error) {
	query := `SELECT ` + licenseColumns + ` FROM licenses WHERE id = $1`

	license, err := scanLicense(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get license: %w", err)
	}

	return license, nil
}

// GetMostRecentForRobot returns the license with the greatest valid_until, revoked or not
func (r *LicenseRepository) GetMostRecentForRobot(ctx context.Context, robotID int64) (*model.License, error) {
	query := `
		SELECT ` + licenseColumns + `
		FROM licenses
		WHERE robot_id = $1
		ORDER BY valid_until DESC, id DESC
		LIMIT 1
	`

	license, err := scanLicense(r.QueryRow(ctx, query, robotID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get most recent license: %w", err)
	}

	return license, nil
}

// GetMostRecentActiveForRobot is GetMostRecentForRobot restricted to non-revoked licenses
func (r *LicenseRepository) GetMostRecentActiveForRobot(ctx context.Context, robotID int64) (*model.License, error) {
	query := `
		SELECT ` + licenseColumns + `
		FROM licenses
		WHERE robot_id = $1 AND is_active = TRUE
		ORDER BY valid_until DESC, id DESC
		LIMIT 1
	`

	license, err := scanLicense(r.QueryRow(ctx, query, robotID))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get most recent active license: %w", err)
	}

	return license, nil
}

// ListActive returns every non-revoked license
func (r *LicenseRepository) ListActive(ctx context.Context) ([]*model.License, error) {
	query := `
		SELECT ` + licenseColumns + `
		FROM licenses
		WHERE is_active = TRUE
		ORDER BY id ASC
	`

	rows, err := r.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list active licenses: %w", err)
	}
	defer rows.Close()

	var licenses []*model.License
	for rows.Next() {
		license, err := scanLicense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan license: %w", err)
		}
		licenses = append(licenses, license)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate licenses: %w", err)
	}

	return licenses, nil
}

// Deactivate revokes a license; reports false when it does not exist
func (r *LicenseRepository) Deactivate(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE licenses SET is_active = FALSE WHERE id = $1`

	affected, err := r.ExecAffected(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("deactivate license: %w", err)
	}

	return affected > 0, nil
}
