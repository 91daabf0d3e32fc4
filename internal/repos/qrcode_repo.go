package repos

import (
	"context"

	"qrcatalog/internal/domain"

	"github.com/jmoiron/sqlx"
)

type QRCodeRepo struct{ db *sqlx.DB }

func NewQRCodeRepo(db *sqlx.DB) *QRCodeRepo { return &QRCodeRepo{db: db} }

func (r *QRCodeRepo) List(ctx context.Context) ([]domain.QRCode, error) {
	out := []domain.QRCode{}
	err := r.db.SelectContext(ctx, &out, `
	  SELECT qr_id, product_id, COALESCE(created_at,'') AS created_at
	  FROM qrcodes
	  ORDER BY qr_id`)
	return out, err
}

func (r *QRCodeRepo) Get(ctx context.Context, id int64) (domain.QRCode, error) {
	var q domain.QRCode
	err := r.db.GetContext(ctx, &q, r.db.Rebind(`
	  SELECT qr_id, product_id, COALESCE(created_at,'') AS created_at
	  FROM qrcodes
	  WHERE qr_id = ?`), id)
	return q, err
}

func (r *QRCodeRepo) Create(ctx context.Context, productID int64) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
	  INSERT INTO qrcodes (product_id) VALUES (?)
	  RETURNING qr_id`), productID).Scan(&id)
	return id, err
}

func (r *QRCodeRepo) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM qrcodes WHERE qr_id = ?`), id)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
