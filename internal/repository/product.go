package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moldcart/catalog-api/internal/model"
)

const productColumns = `id, name, description, price, currency, image_url, stock,
	category_id, sub_category_id, discount, name_ro, description_ro, created_at, updated_at`

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	CreateBatch(ctx context.Context, products []model.Product) error
	GetByID(ctx context.Context, id int64) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id int64) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	query := `INSERT INTO products
		(name, description, price, currency, image_url, stock, category_id,
		 sub_category_id, discount, name_ro, description_ro, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.Name, product.Description, product.Price, product.Currency,
		product.ImageURL, product.Stock, product.CategoryID, product.SubCategoryID,
		product.Discount, product.NameRo, product.DescriptionRo,
	).Scan(&product.ID, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// CreateBatch inserts all products in one transaction: either every row lands
// or none does.
func (r *pgProductRepo) CreateBatch(ctx context.Context, products []model.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO products
		(name, description, price, currency, image_url, stock, category_id,
		 sub_category_id, discount, name_ro, description_ro, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())`
	for i := range products {
		p := &products[i]
		_, err := tx.Exec(ctx, query,
			p.Name, p.Description, p.Price, p.Currency, p.ImageURL, p.Stock,
			p.CategoryID, p.SubCategoryID, p.Discount, p.NameRo, p.DescriptionRo,
		)
		if err != nil {
			return fmt.Errorf("insert product %q: %w", p.Name, err)
		}
	}
	return tx.Commit(ctx)
}

func (r *pgProductRepo) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	p := &model.Product{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Price, &p.Currency, &p.ImageURL,
		&p.Stock, &p.CategoryID, &p.SubCategoryID, &p.Discount, &p.NameRo,
		&p.DescriptionRo, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}

	if err := r.loadRelations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgProductRepo) loadRelations(ctx context.Context, p *model.Product) error {
	cat := &model.Category{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM categories WHERE id = $1`, p.CategoryID,
	).Scan(&cat.ID, &cat.Name)
	if err == nil {
		p.Category = cat
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get product category: %w", err)
	}

	if p.SubCategoryID != nil {
		sub := &model.SubCategory{}
		err := r.pool.QueryRow(ctx,
			`SELECT id, name, category_id FROM subcategories WHERE id = $1`, *p.SubCategoryID,
		).Scan(&sub.ID, &sub.Name, &sub.CategoryID)
		if err == nil {
			p.SubCategory = sub
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("get product subcategory: %w", err)
		}
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, product_id, user_id, rating, comment, created_at
		 FROM reviews WHERE product_id = $1 ORDER BY created_at DESC`, p.ID,
	)
	if err != nil {
		return fmt.Errorf("get product reviews: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rev model.Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.Rating,
			&rev.Comment, &rev.CreatedAt); err != nil {
			return fmt.Errorf("scan review: %w", err)
		}
		p.Reviews = append(p.Reviews, rev)
	}
	return rows.Err()
}

func (r *pgProductRepo) GetByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func (r *pgProductRepo) List(ctx context.Context) ([]model.Product, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

func scanProducts(rows pgx.Rows) ([]model.Product, error) {
	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Price, &p.Currency, &p.ImageURL,
			&p.Stock, &p.CategoryID, &p.SubCategoryID, &p.Discount, &p.NameRo,
			&p.DescriptionRo, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	query := `UPDATE products SET
		name=$2, description=$3, price=$4, currency=$5, image_url=$6, stock=$7,
		category_id=$8, sub_category_id=$9, discount=$10, name_ro=$11,
		description_ro=$12, updated_at=NOW()
		WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.Currency, product.ImageURL, product.Stock, product.CategoryID,
		product.SubCategoryID, product.Discount, product.NameRo, product.DescriptionRo,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return pgx.ErrNoRows
		}
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
