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

// Ensure PostgresProductRepository implements ProductRepository
var _ ProductRepository = (*PostgresProductRepository)(nil)

// PostgresProductRepository implements ProductRepository using PostgreSQL.
type PostgresProductRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresProductRepository creates a new PostgreSQL product repository.
func NewPostgresProductRepository(db *sql.DB, logger *slog.Logger) *PostgresProductRepository {
	return &PostgresProductRepository{db: db, logger: logger}
}

const productColumns = `
	id, name, description, retail_price, wholesale_price, stock, category,
	code, created_at
`

// GetByID retrieves a product by its unique identifier.
func (r *PostgresProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to fetch product", "product_id", id, "error", err)
		return nil, err
	}
	return p, nil
}

// List retrieves products ordered by name. The filter's search term matches
// name or category case-insensitively; an exact category filter may be
// applied on top.
func (r *PostgresProductRepository) List(ctx context.Context, filter *models.ProductFilter) ([]*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := make([]interface{}, 0, 2)

	where := ""
	if filter != nil && filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = ` WHERE (name ILIKE $1 OR category ILIKE $1)`
	}
	if filter != nil && filter.Category != "" {
		args = append(args, filter.Category)
		if where == "" {
			where = ` WHERE category = $1`
		} else {
			where += ` AND category = $2`
		}
	}

	rows, err := r.db.QueryContext(ctx, query+where+` ORDER BY name`, args...)
	if err != nil {
		r.logger.Error("failed to list products", "error", err)
		return nil, err
	}
	defer rows.Close()

	products := make([]*models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Create inserts a new product.
func (r *PostgresProductRepository) Create(ctx context.Context, req *models.UpsertProductRequest) (*models.Product, error) {
	p := &models.Product{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Description:    req.Description,
		RetailPrice:    req.RetailPrice,
		WholesalePrice: req.WholesalePrice,
		Stock:          req.Stock,
		Category:       req.Category,
		Code:           req.Code,
		CreatedAt:      time.Now(),
	}

	query := `
		INSERT INTO products (
			id, name, description, retail_price, wholesale_price, stock,
			category, code, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		p.ID, p.Name, nullString(p.Description), p.RetailPrice, p.WholesalePrice,
		p.Stock, nullString(p.Category), nullInt64(p.Code), p.CreatedAt,
	)
	if err != nil {
		r.logger.Error("failed to create product", "name", req.Name, "error", err)
		return nil, err
	}

	r.logger.Info("product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

// Update overwrites a product's editable fields.
func (r *PostgresProductRepository) Update(ctx context.Context, id string, req *models.UpsertProductRequest) (*models.Product, error) {
	query := `
		UPDATE products
		SET name = $2, description = $3, retail_price = $4, wholesale_price = $5,
		    stock = $6, category = $7, code = $8
		WHERE id = $1
		RETURNING id
	`

	var returnedID string
	err := r.db.QueryRowContext(ctx, query,
		id, req.Name, nullString(req.Description), req.RetailPrice,
		req.WholesalePrice, req.Stock, nullString(req.Category), nullInt64(req.Code),
	).Scan(&returnedID)
	if err == sql.ErrNoRows {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to update product", "product_id", id, "error", err)
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Delete removes a product.
func (r *PostgresProductRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete product", "product_id", id, "error", err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	r.logger.Info("product deleted", "product_id", id)
	return nil
}

// AdjustStock adds delta to the product's stock count. Negative results are
// allowed: promoting a quote does not check availability.
func (r *PostgresProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE products SET stock = stock + $2 WHERE id = $1`, id, delta)
	if err != nil {
		r.logger.Error("failed to adjust stock", "product_id", id, "delta", delta, "error", err)
		return err
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return errs.ErrNotFound
	}

	r.logger.Debug("stock adjusted", "product_id", id, "delta", delta)
	return nil
}

func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var description, category sql.NullString
	var code sql.NullInt64

	err := row.Scan(
		&p.ID, &p.Name, &description, &p.RetailPrice, &p.WholesalePrice,
		&p.Stock, &category, &code, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.Description = description.String
	p.Category = category.String
	p.Code = code.Int64
	return &p, nil
}
