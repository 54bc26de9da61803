package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"dentalab/internal/domain"
	"dentalab/internal/errors"
)

type MySQLServiceRepository struct {
	db *sql.DB
}

func NewMySQLServiceRepository(db *sql.DB) *MySQLServiceRepository {
	return &MySQLServiceRepository{db: db}
}

func (r *MySQLServiceRepository) FindByID(ctx context.Context, tx *sql.Tx, id uint) (*domain.Service, error) {
	query := `
		SELECT id, name, basePrice, materialCost, totalValue, createdAt, updatedAt
		FROM Services
		WHERE id = ?`

	var s domain.Service
	err := queryer(r.db, tx).QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.BasePrice, &s.MaterialCost, &s.TotalValue, &s.CreatedAt, &s.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError(errors.ResourceService, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying service by id: %w", err)
	}

	return &s, nil
}

func (r *MySQLServiceRepository) FindAllIDs(ctx context.Context) ([]uint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM Services ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying service ids: %w", err)
	}
	defer rows.Close()

	var ids []uint
	for rows.Next() {
		var id uint
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning service id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating service ids: %w", err)
	}

	return ids, nil
}

func (r *MySQLServiceRepository) UpdateCosts(ctx context.Context, id uint, materialCost, totalValue decimal.Decimal) error {
	query := `UPDATE Services SET materialCost = ?, totalValue = ? WHERE id = ?`

	if _, err := r.db.ExecContext(ctx, query, materialCost, totalValue, id); err != nil {
		return fmt.Errorf("updating service costs: %w", err)
	}

	return nil
}
