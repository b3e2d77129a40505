package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/moldcart/catalog-api/internal/model"
)

// UncategorizedID is the sentinel category products fall back to when their
// category is deleted. The row is seeded by the schema and never deleted.
const UncategorizedID int64 = 0

type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	List(ctx context.Context) ([]model.Category, error)
	GetByName(ctx context.Context, name string) (*model.Category, error)
	Rename(ctx context.Context, id int64, newName string) error
	DeleteWithReassign(ctx context.Context, id int64) error

	CreateSub(ctx context.Context, sub *model.SubCategory) error
	ListSub(ctx context.Context, categoryID int64) ([]model.SubCategory, error)
	UpdateSub(ctx context.Context, categoryID, subID int64, name string) error
	DeleteSub(ctx context.Context, categoryID, subID int64) error
}

type pgCategoryRepo struct{ pool *pgxpool.Pool }

func NewCategoryRepository(pool *pgxpool.Pool) CategoryRepository {
	return &pgCategoryRepo{pool: pool}
}

func (r *pgCategoryRepo) Create(ctx context.Context, category *model.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (name) VALUES ($1) RETURNING id`, category.Name,
	).Scan(&category.ID)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *pgCategoryRepo) List(ctx context.Context) ([]model.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *pgCategoryRepo) GetByName(ctx context.Context, name string) (*model.Category, error) {
	c := &model.Category{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name FROM categories WHERE name = $1`, name,
	).Scan(&c.ID, &c.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get category by name: %w", err)
	}
	return c, nil
}

func (r *pgCategoryRepo) Rename(ctx context.Context, id int64, newName string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE categories SET name = $2 WHERE id = $1`, id, newName,
	)
	if err != nil {
		return fmt.Errorf("rename category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteWithReassign moves every product referencing the category onto the
// sentinel row, then deletes the category. Deleting the category cascades to
// its subcategories, so product references to those must be cleared first or
// the cascade trips the sub_category_id foreign key. All steps run in one
// transaction so a failure cannot leave products pointing at a deleted
// category.
func (r *pgCategoryRepo) DeleteWithReassign(ctx context.Context, id int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE products SET sub_category_id = NULL, updated_at = NOW()
		 WHERE sub_category_id IN (SELECT id FROM subcategories WHERE category_id = $1)`,
		id,
	); err != nil {
		return fmt.Errorf("clear subcategory references: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE products SET category_id = $2, updated_at = NOW() WHERE category_id = $1`,
		id, UncategorizedID,
	); err != nil {
		return fmt.Errorf("reassign products: %w", err)
	}

	ct, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func (r *pgCategoryRepo) CreateSub(ctx context.Context, sub *model.SubCategory) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subcategories (name, category_id) VALUES ($1, $2) RETURNING id`,
		sub.Name, sub.CategoryID,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("create subcategory: %w", err)
	}
	return nil
}

func (r *pgCategoryRepo) ListSub(ctx context.Context, categoryID int64) ([]model.SubCategory, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, category_id FROM subcategories WHERE category_id = $1 ORDER BY id`,
		categoryID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subcategories: %w", err)
	}
	defer rows.Close()

	var subs []model.SubCategory
	for rows.Next() {
		var s model.SubCategory
		if err := rows.Scan(&s.ID, &s.Name, &s.CategoryID); err != nil {
			return nil, fmt.Errorf("scan subcategory: %w", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}

func (r *pgCategoryRepo) UpdateSub(ctx context.Context, categoryID, subID int64, name string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE subcategories SET name = $3 WHERE id = $2 AND category_id = $1`,
		categoryID, subID, name,
	)
	if err != nil {
		return fmt.Errorf("update subcategory: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteSub clears product references to the subcategory before removing it,
// in one transaction, so the sub_category_id foreign key cannot block the
// delete.
func (r *pgCategoryRepo) DeleteSub(ctx context.Context, categoryID, subID int64) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE products SET sub_category_id = NULL, updated_at = NOW() WHERE sub_category_id = $1`,
		subID,
	); err != nil {
		return fmt.Errorf("clear subcategory references: %w", err)
	}

	ct, err := tx.Exec(ctx,
		`DELETE FROM subcategories WHERE id = $2 AND category_id = $1`,
		categoryID, subID,
	)
	if err != nil {
		return fmt.Errorf("delete subcategory: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
