package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dentalab/internal/domain"
)

type MySQLBOMRepository struct {
	db *sql.DB
}

func NewMySQLBOMRepository(db *sql.DB) *MySQLBOMRepository {
	return &MySQLBOMRepository{db: db}
}

// FindByService returns the BOM entries of a service ordered by material id.
// tx may be nil for reads outside a transaction.
func (r *MySQLBOMRepository) FindByService(ctx context.Context, tx *sql.Tx, serviceID uint) ([]domain.BOMEntry, error) {
	query := `
		SELECT id, serviceId, materialId, quantity
		FROM ServiceMaterials
		WHERE serviceId = ?
		ORDER BY materialId`

	rows, err := queryer(r.db, tx).QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("querying bom entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.BOMEntry
	for rows.Next() {
		var e domain.BOMEntry
		if err := rows.Scan(&e.ID, &e.ServiceID, &e.MaterialID, &e.Quantity); err != nil {
			return nil, fmt.Errorf("scanning bom row: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bom rows: %w", err)
	}

	return entries, nil
}

// FindCostLinesByService joins the BOM of a service with material unit costs.
func (r *MySQLBOMRepository) FindCostLinesByService(ctx context.Context, serviceID uint) ([]domain.BOMCostLine, error) {
	query := `
		SELECT sm.id, sm.serviceId, sm.materialId, sm.quantity, m.unitCost
		FROM ServiceMaterials sm
		JOIN Materials m ON m.id = sm.materialId
		WHERE sm.serviceId = ?
		ORDER BY sm.materialId`

	rows, err := r.db.QueryContext(ctx, query, serviceID)
	if err != nil {
		return nil, fmt.Errorf("querying bom cost lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.BOMCostLine
	for rows.Next() {
		var l domain.BOMCostLine
		if err := rows.Scan(&l.Entry.ID, &l.Entry.ServiceID, &l.Entry.MaterialID, &l.Entry.Quantity, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scanning bom cost row: %w", err)
		}
		lines = append(lines, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bom cost rows: %w", err)
	}

	return lines, nil
}

type rowQueryer interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func queryer(db *sql.DB, tx *sql.Tx) rowQueryer {
	if tx != nil {
		return tx
	}
	return db
}
