package repos

import (
	"github.com/jmoiron/sqlx"

	"kurtikart/internal/domain"
)

type OtherProductRepo struct{ db *sqlx.DB }

func NewOtherProductRepo(db *sqlx.DB) *OtherProductRepo { return &OtherProductRepo{db: db} }

const otherProductCols = `
  id, category_name, product_type, sub_type, images_json,
  COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

// otherProductWhere builds the shared WHERE clause for List and Count. A blank
// subType deliberately matches only rows without one (top-level products);
// blank category/productType apply no filter.
func otherProductWhere(category, productType, subType string) (string, []any) {
	where := `is_deleted = 0`
	args := []any{}
	if category != "" {
		where += ` AND category_name = ?`
		args = append(args, category)
	}
	if productType != "" {
		where += ` AND product_type = ?`
		args = append(args, productType)
		if subType != "" {
			where += ` AND sub_type = ?`
			args = append(args, subType)
		} else {
			where += ` AND sub_type = ''`
		}
	}
	return where, args
}

// List returns one page, newest-first with id as tiebreak so page boundaries
// stay stable when rows share a timestamp.
func (r *OtherProductRepo) List(category, productType, subType string, skip, take int) ([]domain.OtherProduct, error) {
	where, args := otherProductWhere(category, productType, subType)
	q := `SELECT ` + otherProductCols + `
	  FROM other_products
	  WHERE ` + where + `
	  ORDER BY created_at DESC, id DESC
	  LIMIT ? OFFSET ?`
	args = append(args, take, skip)

	out := []domain.OtherProduct{}
	err := r.db.Select(&out, q, args...)
	return out, err
}

func (r *OtherProductRepo) Count(category, productType, subType string) (int, error) {
	where, args := otherProductWhere(category, productType, subType)
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM other_products WHERE `+where, args...)
	return n, err
}

// GetByID bypasses the taxonomy filters; deleted rows behave as absent.
func (r *OtherProductRepo) GetByID(id string) (domain.OtherProduct, error) {
	var p domain.OtherProduct
	err := r.db.Get(&p, `SELECT `+otherProductCols+` FROM other_products WHERE id = ? AND is_deleted = 0`, id)
	return p, err
}
