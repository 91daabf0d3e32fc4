package repos

import (
	"context"
	"time"

	"qrcatalog/internal/domain"

	"github.com/jmoiron/sqlx"
)

type AdminRepo struct{ db *sqlx.DB }

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

const adminColumns = `admin_id, username, password, fname, lname, mname, suffix, age, address, images,
	COALESCE(created_at,'') AS created_at`

func (r *AdminRepo) Create(ctx context.Context, username, hash string, p domain.AdminProfile) (int64, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx, r.db.Rebind(`
	  INSERT INTO admins (username, password, fname, lname, mname, suffix, age, address, images)
	  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	  RETURNING admin_id`),
		append([]any{username, hash}, p.Args()...)...,
	).Scan(&id)
	return id, err
}

func (r *AdminRepo) ByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.db.GetContext(ctx, &a, r.db.Rebind(`SELECT `+adminColumns+` FROM admins WHERE username = ?`), username); err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdateProfile reports whether the admin existed.
func (r *AdminRepo) UpdateProfile(ctx context.Context, id int64, p domain.AdminProfile) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  UPDATE admins
	  SET fname = ?, lname = ?, mname = ?, suffix = ?, age = ?, address = ?, images = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE admin_id = ?`),
		append(p.Args(), id)...)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *AdminRepo) BindSession(ctx context.Context, token string, adminID int64, expires time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
	  INSERT INTO admin_sessions (token, admin_id, expires_at) VALUES (?, ?, ?)`),
		token, adminID, expires.UTC().Format(time.RFC3339))
	return err
}

// SessionAdmin resolves an unexpired session token to its admin.
func (r *AdminRepo) SessionAdmin(ctx context.Context, token string, now time.Time) (*domain.Admin, error) {
	var a domain.Admin
	err := r.db.GetContext(ctx, &a, r.db.Rebind(`
	  SELECT a.admin_id, a.username, a.password, a.fname, a.lname, a.mname, a.suffix, a.age, a.address, a.images,
	         COALESCE(a.created_at,'') AS created_at
	  FROM admin_sessions s
	  JOIN admins a ON a.admin_id = s.admin_id
	  WHERE s.token = ? AND s.expires_at > ?`), token, now.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM admin_sessions WHERE expires_at <= ?`),
		now.UTC().Format(time.RFC3339))
	return err
}
