package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"dentalab/internal/domain"
)

type MySQLOrderLineRepository struct {
	db *sql.DB
}

func NewMySQLOrderLineRepository(db *sql.DB) *MySQLOrderLineRepository {
	return &MySQLOrderLineRepository{db: db}
}

// FindByOrder returns the persisted lines of an order, locking them for the
// rest of tx.
func (r *MySQLOrderLineRepository) FindByOrder(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.OrderLine, error) {
	query := `
		SELECT id, orderId, serviceId, quantity
		FROM OrderLines
		WHERE orderId = ?
		ORDER BY id
		FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order lines: %w", err)
	}
	return scanLines(rows)
}

// FindAll scans every persisted line, including orphaned ones.
func (r *MySQLOrderLineRepository) FindAll(ctx context.Context, tx *sql.Tx) ([]domain.OrderLine, error) {
	query := `
		SELECT ol.id, o.id, s.id, ol.quantity
		FROM OrderLines ol
		LEFT JOIN Orders o ON o.id = ol.orderId
		LEFT JOIN Services s ON s.id = ol.serviceId
		ORDER BY ol.id`

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying all order lines: %w", err)
	}
	return scanLines(rows)
}

func (r *MySQLOrderLineRepository) InsertBatch(ctx context.Context, tx *sql.Tx, orderID uint, lines []domain.LineItem) error {
	if len(lines) == 0 {
		return nil
	}

	placeholders := make([]string, len(lines))
	args := make([]interface{}, 0, len(lines)*3)
	for i, line := range lines {
		placeholders[i] = "(?, ?, ?)"
		args = append(args, orderID, line.ServiceID, line.Quantity)
	}

	query := fmt.Sprintf(
		`INSERT INTO OrderLines (orderId, serviceId, quantity) VALUES %s`,
		strings.Join(placeholders, ", "),
	)

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting order lines: %w", err)
	}

	return nil
}

func (r *MySQLOrderLineRepository) UpdateQuantity(ctx context.Context, tx *sql.Tx, lineID uint, quantity int) error {
	if _, err := tx.ExecContext(ctx, `UPDATE OrderLines SET quantity = ? WHERE id = ?`, quantity, lineID); err != nil {
		return fmt.Errorf("updating order line quantity: %w", err)
	}
	return nil
}

func (r *MySQLOrderLineRepository) DeleteByOrder(ctx context.Context, tx *sql.Tx, orderID uint) (int64, error) {
	result, err := tx.ExecContext(ctx, `DELETE FROM OrderLines WHERE orderId = ?`, orderID)
	if err != nil {
		return 0, fmt.Errorf("deleting order lines: %w", err)
	}

	return result.RowsAffected()
}

func (r *MySQLOrderLineRepository) Delete(ctx context.Context, tx *sql.Tx, lineID uint) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM OrderLines WHERE id = ?`, lineID); err != nil {
		return fmt.Errorf("deleting order line: %w", err)
	}
	return nil
}

func scanLines(rows *sql.Rows) ([]domain.OrderLine, error) {
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var (
			line      domain.OrderLine
			orderID   sql.NullInt64
			serviceID sql.NullInt64
			quantity  sql.NullInt64
		)
		if err := rows.Scan(&line.ID, &orderID, &serviceID, &quantity); err != nil {
			return nil, fmt.Errorf("scanning order line row: %w", err)
		}
		if orderID.Valid {
			v := uint(orderID.Int64)
			line.OrderID = &v
		}
		if serviceID.Valid {
			v := uint(serviceID.Int64)
			line.ServiceID = &v
		}
		if quantity.Valid {
			v := int(quantity.Int64)
			line.Quantity = &v
		}
		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order line rows: %w", err)
	}

	return lines, nil
}
