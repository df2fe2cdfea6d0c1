package repos

import (
	"log"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	// Demo catalog + users when the DB is empty (idempotent; safe on every start)
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Catalog taxonomy (read-only from the storefront's perspective)
CREATE TABLE IF NOT EXISTS categories(
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL DEFAULT '',
  name TEXT NOT NULL,
  normalized_lower_case TEXT NOT NULL,
  kurti_type TEXT NOT NULL DEFAULT '',
  is_deleted INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_categories_code ON categories(LOWER(code));

-- Kurtis: sizes_json is the heterogeneous size descriptor list,
-- images_json a list of {url, isHidden} objects.
CREATE TABLE IF NOT EXISTS kurtis(
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL,
  category TEXT NOT NULL,
  party TEXT NOT NULL DEFAULT '',
  selling_price TEXT NOT NULL DEFAULT '',
  actual_price TEXT NOT NULL DEFAULT '',
  customer_price NUMERIC,
  images_json TEXT NOT NULL DEFAULT '[]',
  sizes_json TEXT NOT NULL DEFAULT '[]',
  count_of_piece INTEGER NOT NULL DEFAULT 0,
  is_deleted INTEGER NOT NULL DEFAULT 0,
  last_updated_time TEXT DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_kurtis_category ON kurtis(LOWER(category));
CREATE INDEX IF NOT EXISTS idx_kurtis_updated  ON kurtis(last_updated_time);

-- Non-kurti catalog (sarees, suits, ...): a flat taxonomy triple
CREATE TABLE IF NOT EXISTS other_products(
  id TEXT PRIMARY KEY,
  category_name TEXT NOT NULL,
  product_type TEXT NOT NULL,
  sub_type TEXT NOT NULL DEFAULT '',
  images_json TEXT NOT NULL DEFAULT '[]',
  is_deleted INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_other_products_created ON other_products(created_at);

-- Promotional offers; categories_json is the raw category id list
CREATE TABLE IF NOT EXISTS offers(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  qty INTEGER NOT NULL DEFAULT 0,
  categories_json TEXT NOT NULL DEFAULT '[]',
  image TEXT,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_offers_created ON offers(created_at);

-- Users & sessions
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  phone TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL DEFAULT '',
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('CUSTOMER','ADMIN')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sessions(
  id TEXT PRIMARY KEY,               -- same value as the 'sid' cookie
  user_id TEXT NULL REFERENCES users(id) ON DELETE SET NULL,
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  last_seen  TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_user ON sessions(user_id);

-- Carts: at most one PENDING cart per user
CREATE TABLE IF NOT EXISTS carts(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  status TEXT NOT NULL DEFAULT 'PENDING' CHECK (status IN ('PENDING','ORDERED')),
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_carts_user_pending
  ON carts(user_id) WHERE status='PENDING';

-- One line per (cart, kurti); sizes_json is the ordered [{size,quantity}] list
CREATE TABLE IF NOT EXISTS cart_products(
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
  kurti_id TEXT NOT NULL REFERENCES kurtis(id) ON DELETE RESTRICT,
  sizes_json TEXT NOT NULL DEFAULT '[]',
  created_at TEXT DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT,
  UNIQUE(cart_id, kurti_id)
);
CREATE INDEX IF NOT EXISTS idx_cart_products_cart ON cart_products(cart_id);
`
	_, err := db.Exec(schema)
	return err
}

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM categories`); err != nil {
		return err
	}
	if n == 0 {
		log.Println("[seed] inserting demo categories/kurtis/products")

		tx := db.MustBegin()
		tx.MustExec(`INSERT INTO categories(id,code,name,normalized_lower_case,kurti_type) VALUES
		  ('cat-anarkali','ANK','Anarkali','anarkali','aLine'),
		  ('cat-straight','STR','Straight Kurti','straight kurti','straight'),
		  ('cat-frock','FRK','Frock Style','frock style','frockStyle'),
		  ('cat-festive','','Festive Collection','festive collection','')`)

		tx.MustExec(`INSERT INTO kurtis(id,code,category,party,customer_price,images_json,sizes_json,count_of_piece) VALUES
		  ('krt-ank-101','ANK101','ANK','Shree Fab',549,
		   '[{"url":"kurtis/ank101/front.jpg"},{"url":"kurtis/ank101/back.jpg","isHidden":true}]',
		   '[{"size":"M","quantity":4},{"size":"L","quantity":2},{"size":"XL","quantity":3}]',9),
		  ('krt-str-201','STR201','STR','Aarvi',449,
		   '[{"url":"kurtis/str201/front.jpg"}]',
		   '["S","M","L"]',12),
		  ('krt-frk-301','FRK301','FRK','Kiana',699,
		   '[{"url":"kurtis/frk301/front.jpg"}]',
		   '[{"name":"XXL","count":5},{"name":"3XL","count":1}]',6)`)

		tx.MustExec(`INSERT INTO offers(id,name,qty,categories_json,image) VALUES
		  ('off-festive-05','Festive 5 Piece Combo',5,'["cat-anarkali","cat-festive"]','offers/festive-combo.jpg'),
		  ('off-launch-03','New Launch Bundle',3,'["cat-straight"]',NULL)`)

		tx.MustExec(`INSERT INTO other_products(id,category_name,product_type,sub_type,images_json) VALUES
		  ('oth-sar-01','Saree','Silk','Banarasi','[{"url":"sarees/banarasi-01.jpg"}]'),
		  ('oth-sar-02','Saree','Silk','','[{"url":"sarees/plain-02.jpg"}]'),
		  ('oth-sui-01','Suit','Cotton','','[{"url":"suits/cotton-01.jpg"}]')`)

		if err := tx.Commit(); err != nil {
			return err
		}
	}
	return seedUsers(db)
}

// seedUsers ensures a demo customer and an admin exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Phone, Name, Role, Hash string
	}
	mk := func(id, phone, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), 12)
		return u{ID: id, Phone: phone, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-demo", "+919876543210", "Demo Buyer", "CUSTOMER", "kurti123"),
		mk("u-admin", "+919876500000", "Admin", "ADMIN", "kurti123"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,phone,name,password_hash,role)
			VALUES(?,?,?,?,?)
			ON CONFLICT(phone) DO NOTHING
		`, x.ID, x.Phone, x.Name, x.Hash, x.Role); err != nil {
			return err
		}
	}
	return tx.Commit()
}
