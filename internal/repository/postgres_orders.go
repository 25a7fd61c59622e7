package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/models"
)

// Ensure PostgresOrderRepository implements OrderRepository
var _ OrderRepository = (*PostgresOrderRepository)(nil)

// PostgresOrderRepository implements OrderRepository using PostgreSQL.
// Order items are stored in a separate order_items table and loaded with the
// order together with the referenced product rows.
type PostgresOrderRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresOrderRepository creates a new PostgreSQL order repository.
func NewPostgresOrderRepository(db *sql.DB, logger *slog.Logger) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db, logger: logger}
}

// GetByID retrieves an order with its items, item products and customer.
func (r *PostgresOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `
		SELECT o.id, o.customer_id, o.delivery_date, o.delivery_window, o.status,
		       o.price_list, o.total, o.created_at, o.updated_at,
		       ` + customerColumnsAliased("c") + `
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1
	`

	order, err := scanOrderWithCustomer(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to fetch order", "order_id", id, "error", err)
		return nil, err
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// List retrieves orders matching the filter. Pending orders sort by delivery
// date ascending (the delivery round works top-down); everything else sorts
// by creation time descending.
func (r *PostgresOrderRepository) List(ctx context.Context, filter *models.OrderListFilter) ([]*models.Order, int, error) {
	where := ` WHERE 1=1`
	args := make([]interface{}, 0, 4)

	if filter.CustomerID != "" {
		args = append(args, filter.CustomerID)
		where += ` AND o.customer_id = $` + strconv.Itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += ` AND o.status = $` + strconv.Itoa(len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders o` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	orderBy := ` ORDER BY o.created_at DESC`
	if filter.Status != nil && *filter.Status == models.OrderStatusPending {
		orderBy = ` ORDER BY o.delivery_date ASC NULLS LAST`
	}

	args = append(args, filter.Limit)
	limitClause := ` LIMIT $` + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	limitClause += ` OFFSET $` + strconv.Itoa(len(args))

	query := `
		SELECT o.id, o.customer_id, o.delivery_date, o.delivery_window, o.status,
		       o.price_list, o.total, o.created_at, o.updated_at,
		       ` + customerColumnsAliased("c") + `
		FROM orders o
		JOIN customers c ON c.id = o.customer_id
	` + where + orderBy + limitClause

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to list orders", "error", err)
		return nil, 0, err
	}
	defer rows.Close()

	orders := make([]*models.Order, 0)
	for rows.Next() {
		order, err := scanOrderWithCustomer(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, 0, err
		}
		order.Items = items
	}

	return orders, total, nil
}

// Create inserts the order header and its items. The two inserts share a
// transaction so a half-written order never becomes visible; the stock
// decrements that follow at the service layer do not share it.
func (r *PostgresOrderRepository) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (
			id, customer_id, delivery_date, delivery_window, status,
			price_list, total, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = tx.ExecContext(ctx, query,
		order.ID, order.CustomerID, nullTime(order.DeliveryDate),
		nullString(order.DeliveryWindow), order.Status, order.List,
		order.Total, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create order", "customer_id", order.CustomerID, "error", err)
		return err
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, product_id, quantity, unit_price)
		VALUES ($1, $2, $3, $4, $5)
	`
	for _, item := range order.Items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID, order.ID, item.ProductID, item.Quantity, item.UnitPrice,
		); err != nil {
			r.logger.Error("failed to create order item", "order_id", order.ID, "error", err)
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	r.logger.Info("order created", "order_id", order.ID,
		"customer_id", order.CustomerID, "total", order.Total)
	return nil
}

// UpdateStatus transitions an order to the given status.
func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus) error {
	query := `
		UPDATE orders
		SET status = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, time.Now())
	if err != nil {
		r.logger.Error("failed to update order status", "order_id", id, "error", err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	r.logger.Info("order status updated", "order_id", id, "status", status)
	return nil
}

func (r *PostgresOrderRepository) loadItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	query := `
		SELECT i.id, i.product_id, i.quantity, i.unit_price,
		       p.id, p.name, p.description, p.retail_price, p.wholesale_price,
		       p.stock, p.category, p.code, p.created_at
		FROM order_items i
		JOIN products p ON p.id = i.product_id
		WHERE i.order_id = $1
		ORDER BY i.id
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]models.OrderItem, 0)
	for rows.Next() {
		var item models.OrderItem
		var p models.Product
		var description, category sql.NullString
		var code sql.NullInt64

		err := rows.Scan(
			&item.ID, &item.ProductID, &item.Quantity, &item.UnitPrice,
			&p.ID, &p.Name, &description, &p.RetailPrice, &p.WholesalePrice,
			&p.Stock, &category, &code, &p.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		p.Description = description.String
		p.Category = category.String
		p.Code = code.Int64
		item.Product = &p
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanOrderWithCustomer(row rowScanner) (*models.Order, error) {
	var order models.Order
	var c models.Customer
	var deliveryDate sql.NullTime
	var deliveryWindow sql.NullString
	var email, phone, address, betweenStreets, kind, alias sql.NullString
	var nationalID sql.NullInt64

	err := row.Scan(
		&order.ID, &order.CustomerID, &deliveryDate, &deliveryWindow,
		&order.Status, &order.List, &order.Total, &order.CreatedAt, &order.UpdatedAt,
		&c.ID, &c.Name, &email, &phone, &address, &betweenStreets, &kind,
		&c.List, &c.Debt, &nationalID, &alias, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if deliveryDate.Valid {
		order.DeliveryDate = &deliveryDate.Time
	}
	order.DeliveryWindow = deliveryWindow.String

	c.Email = email.String
	c.Phone = phone.String
	c.Address = address.String
	c.BetweenStreets = betweenStreets.String
	c.Kind = kind.String
	c.Alias = alias.String
	c.NationalID = nationalID.Int64
	order.Customer = &c

	return &order, nil
}

func customerColumnsAliased(alias string) string {
	return alias + `.id, ` + alias + `.name, ` + alias + `.email, ` + alias + `.phone, ` +
		alias + `.address, ` + alias + `.between_streets, ` + alias + `.kind, ` +
		alias + `.price_list, ` + alias + `.debt, ` + alias + `.national_id, ` +
		alias + `.alias, ` + alias + `.created_at`
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
