package repos

import (
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"kurtikart/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type CartRow struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Status    string `db:"status"`
	CreatedAt string `db:"created_at"`
}

type LineRow struct {
	ID        string `db:"id"`
	CartID    string `db:"cart_id"`
	KurtiID   string `db:"kurti_id"`
	SizesJSON string `db:"sizes_json"`
	CreatedAt string `db:"created_at"`
}

// Sizes decodes the line's ordered (size, quantity) list.
func (l LineRow) Sizes() []domain.SizeQty {
	var out []domain.SizeQty
	if err := json.Unmarshal([]byte(l.SizesJSON), &out); err != nil {
		return nil
	}
	return out
}

func marshalSizes(s []domain.SizeQty) string {
	b, _ := json.Marshal(s)
	return string(b)
}

// FindPending returns the user's one pending cart, or sql.ErrNoRows.
func (r *CartRepo) FindPending(userID string) (CartRow, error) {
	var c CartRow
	err := r.db.Get(&c, `
	  SELECT id, user_id, status, COALESCE(created_at,'') AS created_at
	  FROM carts WHERE user_id = ? AND status = 'PENDING'
	`, userID)
	return c, err
}

// EnsurePending finds or lazily creates the pending cart. Two racing first
// adds collide on the partial unique index; the loser re-reads the winner's
// row.
func (r *CartRepo) EnsurePending(userID string) (string, error) {
	c, err := r.FindPending(userID)
	if err == nil {
		return c.ID, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}
	id := uuid.NewString()
	if _, err := r.db.Exec(`
	  INSERT INTO carts(id, user_id, status) VALUES(?, ?, 'PENDING')
	`, id, userID); err != nil {
		if c, rerr := r.FindPending(userID); rerr == nil {
			return c.ID, nil
		}
		return "", err
	}
	return id, nil
}

// Lines returns the cart's lines in creation order.
func (r *CartRepo) Lines(cartID string) ([]LineRow, error) {
	out := []LineRow{}
	err := r.db.Select(&out, `
	  SELECT id, cart_id, kurti_id, sizes_json, COALESCE(created_at,'') AS created_at
	  FROM cart_products
	  WHERE cart_id = ?
	  ORDER BY created_at, id
	`, cartID)
	return out, err
}

// LineOwned fetches a line only when it sits in the caller's pending cart;
// anything else is sql.ErrNoRows, indistinguishable from absent.
func (r *CartRepo) LineOwned(lineID, userID string) (LineRow, error) {
	var l LineRow
	err := r.db.Get(&l, `
	  SELECT cp.id, cp.cart_id, cp.kurti_id, cp.sizes_json, COALESCE(cp.created_at,'') AS created_at
	  FROM cart_products cp
	  JOIN carts c ON c.id = cp.cart_id
	  WHERE cp.id = ? AND c.user_id = ? AND c.status = 'PENDING'
	`, lineID, userID)
	return l, err
}

// AddSize merges (size, qty) into the cart's line for the kurti, creating
// the line on first add. The read-modify-write of the size list runs in one
// transaction, and the combined quantity is re-checked against available so
// repeated adds cannot outrun stock.
func (r *CartRepo) AddSize(cartID, kurtiID, size string, qty, available int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var l LineRow
	err = tx.Get(&l, `
	  SELECT id, cart_id, kurti_id, sizes_json, COALESCE(created_at,'') AS created_at
	  FROM cart_products WHERE cart_id = ? AND kurti_id = ?
	`, cartID, kurtiID)
	switch err {
	case nil:
		entries := l.Sizes()
		merged := false
		for i := range entries {
			if strings.EqualFold(entries[i].Size, size) {
				combined := entries[i].Quantity + qty
				if combined > available {
					return &domain.InsufficientStockError{Size: size, Available: available - entries[i].Quantity}
				}
				entries[i].Quantity = combined
				merged = true
				break
			}
		}
		if !merged {
			entries = append(entries, domain.SizeQty{Size: size, Quantity: qty})
		}
		if _, err := tx.Exec(`
		  UPDATE cart_products SET sizes_json = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
		`, marshalSizes(entries), l.ID); err != nil {
			return err
		}
	case sql.ErrNoRows:
		if _, err := tx.Exec(`
		  INSERT INTO cart_products(id, cart_id, kurti_id, sizes_json)
		  VALUES(?, ?, ?, ?)
		`, uuid.NewString(), cartID, kurtiID,
			marshalSizes([]domain.SizeQty{{Size: size, Quantity: qty}})); err != nil {
			return err
		}
	default:
		return err
	}

	if _, err := tx.Exec(`UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, cartID); err != nil {
		return err
	}
	return tx.Commit()
}

// SetSize replaces the quantity entry for a size already on the line. A size
// the line does not carry is ErrSizeNotInLine; updates never add sizes.
func (r *CartRepo) SetSize(lineID, size string, qty int) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var l LineRow
	if err := tx.Get(&l, `
	  SELECT id, cart_id, kurti_id, sizes_json, COALESCE(created_at,'') AS created_at
	  FROM cart_products WHERE id = ?
	`, lineID); err != nil {
		return err
	}

	entries := l.Sizes()
	found := false
	for i := range entries {
		if strings.EqualFold(entries[i].Size, size) {
			entries[i] = domain.SizeQty{Size: size, Quantity: qty}
			found = true
			break
		}
	}
	if !found {
		return domain.ErrSizeNotInLine
	}

	if _, err := tx.Exec(`
	  UPDATE cart_products SET sizes_json = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?
	`, marshalSizes(entries), lineID); err != nil {
		return err
	}
	return tx.Commit()
}

// DeleteLineOwned removes the whole line (all sizes together) when it
// belongs to the caller's pending cart.
func (r *CartRepo) DeleteLineOwned(lineID, userID string) error {
	res, err := r.db.Exec(`
	  DELETE FROM cart_products
	  WHERE id = ? AND cart_id IN (
	    SELECT id FROM carts WHERE user_id = ? AND status = 'PENDING'
	  )
	`, lineID, userID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
