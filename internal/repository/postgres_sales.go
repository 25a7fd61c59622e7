package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/lib/pq"

	"github.com/reparto-app/reparto-sales-service/internal/errs"
	"github.com/reparto-app/reparto-sales-service/internal/models"
	"github.com/reparto-app/reparto-sales-service/internal/settlement"
)

// Ensure PostgresSaleRepository implements SaleRepository
var _ SaleRepository = (*PostgresSaleRepository)(nil)

// PostgresSaleRepository implements SaleRepository using PostgreSQL.
type PostgresSaleRepository struct {
	db        *sql.DB
	logger    *slog.Logger
	tolerance float64
}

// NewPostgresSaleRepository creates a new PostgreSQL sale repository. The
// tolerance is used only for the report-side settled flag.
func NewPostgresSaleRepository(db *sql.DB, logger *slog.Logger, tolerance float64) *PostgresSaleRepository {
	return &PostgresSaleRepository{db: db, logger: logger, tolerance: tolerance}
}

// Create inserts a sale record. Cash and transfer amounts are stored raw,
// exactly as entered by the operator.
func (r *PostgresSaleRepository) Create(ctx context.Context, sale *models.Sale) error {
	query := `
		INSERT INTO sales (id, customer_id, sold_at, cash_amount, transfer_amount, total)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(ctx, query,
		sale.ID, sale.CustomerID, sale.SoldAt,
		sale.CashAmount, sale.TransferAmount, sale.Total,
	)
	if err != nil {
		r.logger.Error("failed to create sale", "customer_id", sale.CustomerID, "error", err)
		return err
	}

	r.logger.Info("sale recorded", "sale_id", sale.ID,
		"customer_id", sale.CustomerID, "total", sale.Total)
	return nil
}

// ListBetween retrieves sales inside the period, newest first, joined with
// customer display data. The outstanding figure uses the display-rounding
// normalization, not the settlement one.
func (r *PostgresSaleRepository) ListBetween(ctx context.Context, filter *models.SalesFilter) ([]*models.SaleRow, error) {
	query := `
		SELECT s.id, s.customer_id, s.sold_at, s.cash_amount, s.transfer_amount,
		       s.total, c.name, c.kind, c.price_list
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		WHERE s.sold_at >= $1 AND s.sold_at <= $2
		ORDER BY s.sold_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, filter.From, filter.To)
	if err != nil {
		r.logger.Error("failed to list sales", "error", err)
		return nil, err
	}
	defer rows.Close()

	sales := make([]*models.SaleRow, 0)
	for rows.Next() {
		var row models.SaleRow
		var kind sql.NullString

		err := rows.Scan(
			&row.ID, &row.CustomerID, &row.SoldAt, &row.CashAmount,
			&row.TransferAmount, &row.Total, &row.CustomerName, &kind, &row.CustomerList,
		)
		if err != nil {
			return nil, err
		}

		row.CustomerKind = kind.String
		row.Outstanding = settlement.OutstandingAfterSale(row.Total, row.CashAmount, row.TransferAmount)
		row.Settled = row.Outstanding < r.tolerance
		sales = append(sales, &row)
	}
	return sales, rows.Err()
}

// Ensure PostgresOperatorRepository implements OperatorRepository
var _ OperatorRepository = (*PostgresOperatorRepository)(nil)

// PostgresOperatorRepository reads operator accounts for authentication.
type PostgresOperatorRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresOperatorRepository creates a new PostgreSQL operator repository.
func NewPostgresOperatorRepository(db *sql.DB, logger *slog.Logger) *PostgresOperatorRepository {
	return &PostgresOperatorRepository{db: db, logger: logger}
}

// uniqueViolation is the Postgres error code for a unique constraint failure.
const uniqueViolation = "23505"

// Create inserts a new operator account. A duplicate email maps to
// ErrAlreadyExists.
func (r *PostgresOperatorRepository) Create(ctx context.Context, operator *models.Operator, passwordHash string) error {
	query := `
		INSERT INTO operators (id, name, email, role, active, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(ctx, query,
		operator.ID, operator.Name, operator.Email, operator.Role,
		operator.Active, passwordHash, operator.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return errs.ErrAlreadyExists
		}
		r.logger.Error("failed to create operator", "email", operator.Email, "error", err)
		return err
	}
	return nil
}

// GetByEmail retrieves an active operator and its password hash.
func (r *PostgresOperatorRepository) GetByEmail(ctx context.Context, email string) (*models.Operator, string, error) {
	query := `
		SELECT id, name, email, role, active, password_hash, created_at
		FROM operators
		WHERE email = $1 AND active
	`

	var op models.Operator
	var hash string
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&op.ID, &op.Name, &op.Email, &op.Role, &op.Active, &hash, &op.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, "", errs.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to fetch operator", "email", email, "error", err)
		return nil, "", err
	}
	return &op, hash, nil
}

// GetByID retrieves an active operator by ID.
func (r *PostgresOperatorRepository) GetByID(ctx context.Context, id string) (*models.Operator, error) {
	query := `
		SELECT id, name, email, role, active, created_at
		FROM operators
		WHERE id = $1 AND active
	`

	var op models.Operator
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&op.ID, &op.Name, &op.Email, &op.Role, &op.Active, &op.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to fetch operator", "operator_id", id, "error", err)
		return nil, err
	}
	return &op, nil
}
