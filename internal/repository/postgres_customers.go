package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/models"
)

// Ensure PostgresCustomerRepository implements CustomerRepository
var _ CustomerRepository = (*PostgresCustomerRepository)(nil)

// PostgresCustomerRepository implements CustomerRepository using PostgreSQL.
type PostgresCustomerRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCustomerRepository creates a new PostgreSQL customer repository.
func NewPostgresCustomerRepository(db *sql.DB, logger *slog.Logger) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db, logger: logger}
}

const customerColumns = `
	id, name, email, phone, address, between_streets, kind, price_list,
	debt, national_id, alias, created_at
`

// GetByID retrieves a customer by its unique identifier.
func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to fetch customer", "customer_id", id, "error", err)
		return nil, err
	}
	return c, nil
}

// List retrieves all customers ordered by name.
func (r *PostgresCustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("failed to list customers", "error", err)
		return nil, err
	}
	defer rows.Close()

	customers := make([]*models.Customer, 0)
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Create inserts a new customer.
func (r *PostgresCustomerRepository) Create(ctx context.Context, req *models.UpsertCustomerRequest) (*models.Customer, error) {
	c := customerFromRequest(req)
	c.ID = uuid.New().String()
	c.CreatedAt = time.Now()

	query := `
		INSERT INTO customers (
			id, name, email, phone, address, between_streets, kind, price_list,
			debt, national_id, alias, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.ExecContext(ctx, query,
		c.ID, c.Name, nullString(c.Email), nullString(c.Phone),
		nullString(c.Address), nullString(c.BetweenStreets), nullString(c.Kind),
		c.List, c.Debt, nullInt64(c.NationalID), nullString(c.Alias), c.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create customer", "name", req.Name, "error", err)
		return nil, err
	}

	r.logger.Info("customer created", "customer_id", c.ID, "name", c.Name)
	return c, nil
}

// Update overwrites a customer's editable fields.
func (r *PostgresCustomerRepository) Update(ctx context.Context, id string, req *models.UpsertCustomerRequest) (*models.Customer, error) {
	query := `
		UPDATE customers
		SET name = $2, email = $3, phone = $4, address = $5, between_streets = $6,
		    kind = $7, price_list = $8, debt = $9, national_id = $10, alias = $11
		WHERE id = $1
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRowContext(ctx, query,
		id, req.Name, nullString(req.Email), nullString(req.Phone),
		nullString(req.Address), nullString(req.BetweenStreets), nullString(req.Kind),
		req.List, req.Debt, nullInt64(req.NationalID), nullString(req.Alias),
	).Scan(&returnedID)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to update customer", "customer_id", id, "error", err)
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete removes a customer.
func (r *PostgresCustomerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete customer", "customer_id", id, "error", err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	r.logger.Info("customer deleted", "customer_id", id)
	return nil
}

// SetDebt overwrites the customer's stored debt with the newly computed
// balance. Debt is a point-in-time value, not an accumulation.
func (r *PostgresCustomerRepository) SetDebt(ctx context.Context, id string, debt float64) error {
	result, err := r.db.ExecContext(ctx, `UPDATE customers SET debt = $2 WHERE id = $1`, id, debt)
	if err != nil {
		r.logger.Error("failed to set customer debt", "customer_id", id, "error", err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	r.logger.Info("customer debt updated", "customer_id", id, "debt", debt)
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (*models.Customer, error) {
	var c models.Customer
	var email, phone, address, betweenStreets, kind, alias sql.NullString
	var nationalID sql.NullInt64

	err := row.Scan(
		&c.ID, &c.Name, &email, &phone, &address, &betweenStreets, &kind,
		&c.List, &c.Debt, &nationalID, &alias, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	c.Email = email.String
	c.Phone = phone.String
	c.Address = address.String
	c.BetweenStreets = betweenStreets.String
	c.Kind = kind.String
	c.Alias = alias.String
	c.NationalID = nationalID.Int64
	return &c, nil
}

func customerFromRequest(req *models.UpsertCustomerRequest) *models.Customer {
	list := req.List
	if list == "" {
		list = models.PriceListRetail
	}
	return &models.Customer{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		BetweenStreets: req.BetweenStreets,
		Kind:           req.Kind,
		List:           list,
		Debt:           req.Debt,
		NationalID:     req.NationalID,
		Alias:          req.Alias,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: v != 0}
}
