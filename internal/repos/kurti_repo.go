package repos

import (
	"github.com/jmoiron/sqlx"

	"kurtikart/internal/domain"
)

type KurtiRepo struct{ db *sqlx.DB }

func NewKurtiRepo(db *sqlx.DB) *KurtiRepo { return &KurtiRepo{db: db} }

const kurtiCols = `
  id, code, category, party, selling_price, actual_price,
  COALESCE(customer_price,0) AS customer_price,
  images_json, sizes_json, count_of_piece,
  COALESCE(last_updated_time,'') AS last_updated_time`

// List returns live kurtis newest-first. codes narrows to the given category
// codes (empty slice = all); since, when set, keeps rows updated at or after
// that timestamp (same lexical format CURRENT_TIMESTAMP writes).
func (r *KurtiRepo) List(codes []string, since string) ([]domain.Kurti, error) {
	where := `is_deleted = 0`
	args := []any{}
	if len(codes) > 0 {
		in, inArgs, err := sqlx.In(`category IN (?)`, codes)
		if err != nil {
			return nil, err
		}
		where += ` AND ` + in
		args = append(args, inArgs...)
	}
	if since != "" {
		where += ` AND last_updated_time >= ?`
		args = append(args, since)
	}

	q := `SELECT ` + kurtiCols + `
	  FROM kurtis
	  WHERE ` + where + `
	  ORDER BY last_updated_time DESC, id DESC`

	out := []domain.Kurti{}
	err := r.db.Select(&out, q, args...)
	return out, err
}

// Get fetches one live kurti by id. Deleted rows behave as absent.
func (r *KurtiRepo) Get(id string) (domain.Kurti, error) {
	var k domain.Kurti
	err := r.db.Get(&k, `SELECT `+kurtiCols+` FROM kurtis WHERE id = ? AND is_deleted = 0`, id)
	return k, err
}
