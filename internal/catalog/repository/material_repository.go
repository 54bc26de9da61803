package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"dentalab/internal/domain"
	"dentalab/internal/errors"
)

type MySQLMaterialRepository struct {
	db *sql.DB
}

func NewMySQLMaterialRepository(db *sql.DB) *MySQLMaterialRepository {
	return &MySQLMaterialRepository{db: db}
}

const selectMaterial = `
	SELECT id, name, unit, quantity, unitCost, createdAt, updatedAt
	FROM Materials
	WHERE id = ?`

func (r *MySQLMaterialRepository) FindByID(ctx context.Context, id uint) (*domain.Material, error) {
	return scanMaterial(r.db.QueryRowContext(ctx, selectMaterial, id), id)
}

// FindByIDs returns the materials among ids that exist, ordered by id.
func (r *MySQLMaterialRepository) FindByIDs(ctx context.Context, ids []uint) ([]domain.Material, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := fmt.Sprintf(`
		SELECT id, name, unit, quantity, unitCost, createdAt, updatedAt
		FROM Materials
		WHERE id IN (%s)
		ORDER BY id`,
		strings.Join(placeholders, ", "),
	)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying materials: %w", err)
	}
	defer rows.Close()

	var materials []domain.Material
	for rows.Next() {
		var m domain.Material
		if err := rows.Scan(&m.ID, &m.Name, &m.Unit, &m.Quantity, &m.UnitCost, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning material row: %w", err)
		}
		materials = append(materials, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating material rows: %w", err)
	}

	return materials, nil
}

// FindByIDForUpdate reads the material and holds its row lock until tx ends.
func (r *MySQLMaterialRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Material, error) {
	return scanMaterial(tx.QueryRowContext(ctx, selectMaterial+" FOR UPDATE", id), id)
}

func (r *MySQLMaterialRepository) UpdateQuantity(ctx context.Context, tx *sql.Tx, id uint, quantity decimal.Decimal) error {
	query := `UPDATE Materials SET quantity = ? WHERE id = ?`

	result, err := tx.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return fmt.Errorf("updating material quantity: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	// MySQL reports 0 affected rows when the value is unchanged, so only a
	// missing row is an error here.
	if rowsAffected == 0 {
		if _, err := r.FindByIDForUpdate(ctx, tx, id); err != nil {
			return err
		}
	}

	return nil
}

func scanMaterial(row *sql.Row, id uint) (*domain.Material, error) {
	var m domain.Material
	err := row.Scan(&m.ID, &m.Name, &m.Unit, &m.Quantity, &m.UnitCost, &m.CreatedAt, &m.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError(errors.ResourceMaterial, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying material by id: %w", err)
	}

	return &m, nil
}
