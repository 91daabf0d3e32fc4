package repos

import (
	"context"

	"qrcatalog/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/jmoiron/sqlx"
)

const productsTable = "products"

// ProductSequence names the id_sequences counter product ids are drawn from.
const ProductSequence = "products"

// InsertProductSQL is run by the creation coordinator inside its own transaction,
// with an id reserved beforehand through Conn.ReserveID.
const InsertProductSQL = `
  INSERT INTO products (product_id, pname, price, sizes, images, size_type, size_value)
  VALUES (?, ?, ?, ?, ?, ?, ?)
  RETURNING product_id`

// InsertProductArgs pairs a reserved id with the fields, in InsertProductSQL order.
func InsertProductArgs(id int64, f domain.ProductFields) []any {
	return append([]any{id}, f.Args()...)
}

type ProductRepo struct {
	db *sqlx.DB
	qb goqu.DialectWrapper
}

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db, qb: dialect(db)} }

func productColumns() []any {
	return []any{
		"product_id", "pname", "price", "sizes", "images", "size_type", "size_value",
		goqu.COALESCE(goqu.C("created_at"), "").As("created_at"),
		goqu.COALESCE(goqu.C("updated_at"), "").As("updated_at"),
	}
}

func (r *ProductRepo) List(ctx context.Context) ([]domain.Product, error) {
	q, args, err := r.qb.From(productsTable).
		Select(productColumns()...).
		Order(goqu.C("product_id").Asc()).
		Prepared(true).
		ToSQL()
	if err != nil {
		return nil, err
	}
	out := []domain.Product{}
	err = r.db.SelectContext(ctx, &out, q, args...)
	return out, err
}

// Get returns sql.ErrNoRows when the product does not exist.
func (r *ProductRepo) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	q, args, err := r.qb.From(productsTable).
		Select(productColumns()...).
		Where(goqu.C("product_id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return p, err
	}
	err = r.db.GetContext(ctx, &p, q, args...)
	return p, err
}

func (r *ProductRepo) Exists(ctx context.Context, id int64) (bool, error) {
	q, args, err := r.qb.From(productsTable).
		Select(goqu.COUNT("*")).
		Where(goqu.C("product_id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, err
	}
	var n int
	if err := r.db.GetContext(ctx, &n, q, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

// Update overwrites every writable column; nil fields become NULL.
// It reports whether a row matched.
func (r *ProductRepo) Update(ctx context.Context, id int64, f domain.ProductFields) (bool, error) {
	a := f.Args()
	q, args, err := r.qb.Update(productsTable).
		Set(goqu.Record{
			"pname":      a[0],
			"price":      a[1],
			"sizes":      a[2],
			"images":     a[3],
			"size_type":  a[4],
			"size_value": a[5],
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(goqu.C("product_id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *ProductRepo) Delete(ctx context.Context, id int64) (bool, error) {
	q, args, err := r.qb.Delete(productsTable).
		Where(goqu.C("product_id").Eq(id)).
		Prepared(true).
		ToSQL()
	if err != nil {
		return false, err
	}
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
