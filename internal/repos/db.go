package repos

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// OpenDB connects, pings and ensures the schema for the given driver.
func OpenDB(driver, dsn string) (*sqlx.DB, error) {
	if driver == DriverSQLite {
		dsn = withSQLitePragmas(dsn)
	}
	db, err := sqlx.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// One writer at a time; also keeps :memory: databases on a single connection.
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// withSQLitePragmas turns on foreign keys for every connection the pool opens.
func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "foreign_keys") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)"
}

// dialect maps a database/sql driver name onto the goqu dialect that speaks it.
func dialect(db *sqlx.DB) goqu.DialectWrapper {
	if db.DriverName() == DriverPostgres {
		return goqu.Dialect("postgres")
	}
	return goqu.Dialect("sqlite3")
}

func ensureSchema(db *sqlx.DB) error {
	var schema string
	switch db.DriverName() {
	case DriverSQLite:
		schema = sqliteSchema
	case DriverPostgres:
		schema = postgresSchema
	default:
		return fmt.Errorf("repos: no schema for driver %q", db.DriverName())
	}
	_, err := db.Exec(schema)
	return err
}

const sqliteSchema = `
PRAGMA foreign_keys = ON;

-- Admins
CREATE TABLE IF NOT EXISTS admins(
  admin_id INTEGER PRIMARY KEY AUTOINCREMENT,
  username TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  fname TEXT,
  lname TEXT,
  mname TEXT,
  suffix TEXT,
  age INTEGER,
  address TEXT,
  images TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS admin_sessions(
  token TEXT PRIMARY KEY,
  admin_id INTEGER NOT NULL REFERENCES admins(admin_id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  expires_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_admin_sessions_admin ON admin_sessions(admin_id);

-- Products
CREATE TABLE IF NOT EXISTS products(
  product_id INTEGER PRIMARY KEY AUTOINCREMENT,
  pname TEXT NOT NULL,
  price NUMERIC NOT NULL CHECK (price >= 0),
  sizes TEXT,
  images TEXT,
  size_type TEXT,
  size_value TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_pname ON products(LOWER(pname));

-- QR code records
CREATE TABLE IF NOT EXISTS qrcodes(
  qr_id INTEGER PRIMARY KEY AUTOINCREMENT,
  product_id INTEGER NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_qrcodes_product ON qrcodes(product_id);

-- Id counters; never rolled back with the work that consumed them
CREATE TABLE IF NOT EXISTS id_sequences(
  name TEXT PRIMARY KEY,
  value INTEGER NOT NULL
);
INSERT INTO id_sequences (name, value)
  SELECT 'products', COALESCE(MAX(product_id), 0) FROM products WHERE true
  ON CONFLICT (name) DO NOTHING;
`

const postgresSchema = `
CREATE TABLE IF NOT EXISTS admins(
  admin_id BIGSERIAL PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  password TEXT NOT NULL,
  fname TEXT,
  lname TEXT,
  mname TEXT,
  suffix TEXT,
  age INTEGER,
  address TEXT,
  images TEXT,
  created_at TEXT DEFAULT to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS'),
  updated_at TEXT
);

CREATE TABLE IF NOT EXISTS admin_sessions(
  token TEXT PRIMARY KEY,
  admin_id BIGINT NOT NULL REFERENCES admins(admin_id) ON DELETE CASCADE,
  created_at TEXT DEFAULT to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS'),
  expires_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_admin_sessions_admin ON admin_sessions(admin_id);

CREATE TABLE IF NOT EXISTS products(
  product_id BIGSERIAL PRIMARY KEY,
  pname TEXT NOT NULL,
  price DOUBLE PRECISION NOT NULL CHECK (price >= 0),
  sizes TEXT,
  images TEXT,
  size_type TEXT,
  size_value TEXT,
  created_at TEXT DEFAULT to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS'),
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_pname ON products(LOWER(pname));

CREATE TABLE IF NOT EXISTS qrcodes(
  qr_id BIGSERIAL PRIMARY KEY,
  product_id BIGINT NOT NULL REFERENCES products(product_id) ON DELETE CASCADE,
  created_at TEXT DEFAULT to_char(now() AT TIME ZONE 'UTC', 'YYYY-MM-DD HH24:MI:SS')
);
CREATE INDEX IF NOT EXISTS idx_qrcodes_product ON qrcodes(product_id);

-- Id counters; never rolled back with the work that consumed them
CREATE TABLE IF NOT EXISTS id_sequences(
  name TEXT PRIMARY KEY,
  value BIGINT NOT NULL
);
INSERT INTO id_sequences (name, value)
  SELECT 'products', COALESCE(MAX(product_id), 0) FROM products WHERE true
  ON CONFLICT (name) DO NOTHING;
`
