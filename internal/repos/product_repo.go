package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"stockroom/internal/domain"
)

const timeLayout = time.RFC3339Nano

var productCols = []string{"id", "name", "quantity", "price", "updated_at"}

// productRow is the table shape; updated_at is kept as TEXT.
type productRow struct {
	ID        int64  `db:"id"`
	Name      string `db:"name"`
	Quantity  int    `db:"quantity"`
	Price     int64  `db:"price"`
	UpdatedAt string `db:"updated_at"`
}

func (r productRow) toDomain() (domain.Product, error) {
	ts, err := time.Parse(timeLayout, r.UpdatedAt)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d: bad updated_at %q: %w", r.ID, r.UpdatedAt, err)
	}
	return domain.Product{
		ID:        r.ID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		Price:     r.Price,
		UpdatedAt: ts,
	}, nil
}

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

func selectProducts() sq.SelectBuilder {
	return sq.Select(productCols...).From("products")
}

// Upsert inserts p, or when a row with the same name exists, overwrites its
// quantity, price and updated_at. p.ID is ignored. A zero UpdatedAt means now.
func (r *ProductRepo) Upsert(ctx context.Context, p domain.Product) (domain.UpsertResult, error) {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return domain.UpsertResult{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var existing int64
	q, args, err := sq.Select("id").From("products").Where(sq.Eq{"name": p.Name}).ToSql()
	if err != nil {
		return domain.UpsertResult{}, err
	}
	err = tx.GetContext(ctx, &existing, q, args...)
	created := errors.Is(err, sql.ErrNoRows)
	if err != nil && !created {
		return domain.UpsertResult{}, fmt.Errorf("lookup %q: %w", p.Name, err)
	}

	q, args, err = sq.Insert("products").
		Columns("name", "quantity", "price", "updated_at").
		Values(p.Name, p.Quantity, p.Price, p.UpdatedAt.Format(timeLayout)).
		Suffix(`ON CONFLICT(name) DO UPDATE SET
  quantity = excluded.quantity,
  price = excluded.price,
  updated_at = excluded.updated_at
RETURNING id`).
		ToSql()
	if err != nil {
		return domain.UpsertResult{}, err
	}
	var id int64
	if err := tx.GetContext(ctx, &id, q, args...); err != nil {
		return domain.UpsertResult{}, fmt.Errorf("upsert %q: %w", p.Name, err)
	}
	if err := tx.Commit(); err != nil {
		return domain.UpsertResult{}, err
	}
	return domain.UpsertResult{ID: id, Created: created}, nil
}

// Get returns domain.ErrNotFound when no row has the id.
func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	return r.getOne(ctx, sq.Eq{"id": id})
}

func (r *ProductRepo) GetByName(ctx context.Context, name string) (domain.Product, error) {
	return r.getOne(ctx, sq.Eq{"name": name})
}

func (r *ProductRepo) getOne(ctx context.Context, where sq.Eq) (domain.Product, error) {
	q, args, err := selectProducts().Where(where).ToSql()
	if err != nil {
		return domain.Product{}, err
	}
	var row productRow
	if err := r.db.GetContext(ctx, &row, q, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Product{}, domain.ErrNotFound
		}
		return domain.Product{}, err
	}
	return row.toDomain()
}

// Scan calls fn for each product in id order, stopping at the first error.
// The store has a single connection, so fn must not call back into the repo.
func (r *ProductRepo) Scan(ctx context.Context, fn func(domain.Product) error) error {
	q, args, err := selectProducts().OrderBy("id").ToSql()
	if err != nil {
		return err
	}
	rows, err := r.db.QueryxContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var row productRow
		if err := rows.StructScan(&row); err != nil {
			return err
		}
		p, err := row.toDomain()
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *ProductRepo) All(ctx context.Context) ([]domain.Product, error) {
	var out []domain.Product
	err := r.Scan(ctx, func(p domain.Product) error {
		out = append(out, p)
		return nil
	})
	return out, err
}

func (r *ProductRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM products`)
	return n, err
}
