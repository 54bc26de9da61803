package repository

import (
	"context"
	"database/sql"
	"fmt"

	"dentalab/internal/domain"
	"dentalab/internal/errors"
)

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const selectOrder = `
	SELECT id, deliveryDate, status, priority, createdAt, updatedAt
	FROM Orders
	WHERE id = ?`

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	return scanOrder(r.db.QueryRowContext(ctx, selectOrder, id), id)
}

func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	return scanOrder(tx.QueryRowContext(ctx, selectOrder+" FOR UPDATE", id), id)
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	query := `INSERT INTO Orders (deliveryDate, status, priority) VALUES (?, ?, ?)`

	result, err := tx.ExecContext(ctx, query, order.DeliveryDate, order.Status, order.Priority)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}

	lastInsertID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}

	return uint(lastInsertID), nil
}

func (r *MySQLOrderRepository) Update(ctx context.Context, tx *sql.Tx, order domain.Order) error {
	query := `UPDATE Orders SET deliveryDate = ?, status = ?, priority = ? WHERE id = ?`

	if _, err := tx.ExecContext(ctx, query, order.DeliveryDate, order.Status, order.Priority, order.ID); err != nil {
		return fmt.Errorf("updating order: %w", err)
	}

	return nil
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, tx *sql.Tx, id uint) error {
	result, err := tx.ExecContext(ctx, `DELETE FROM Orders WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return errors.NewResourceNotFoundError(errors.ResourceOrder, id)
	}

	return nil
}

func scanOrder(row *sql.Row, id uint) (*domain.Order, error) {
	var order domain.Order
	err := row.Scan(
		&order.ID, &order.DeliveryDate, &order.Status, &order.Priority,
		&order.CreatedAt, &order.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, errors.NewResourceNotFoundError(errors.ResourceOrder, id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	return &order, nil
}
