package repos

import (
	"github.com/jmoiron/sqlx"

	"kurtikart/internal/domain"
)

type OfferRepo struct{ db *sqlx.DB }

func NewOfferRepo(db *sqlx.DB) *OfferRepo { return &OfferRepo{db: db} }

const offerCols = `
  id, name, qty, categories_json, COALESCE(image,'') AS image,
  COALESCE(created_at,'') AS created_at, COALESCE(updated_at,'') AS updated_at`

// List returns offers newest-first with id as tiebreak.
func (r *OfferRepo) List() ([]domain.Offer, error) {
	out := []domain.Offer{}
	err := r.db.Select(&out, `SELECT `+offerCols+` FROM offers ORDER BY created_at DESC, id DESC`)
	return out, err
}

func (r *OfferRepo) Get(id string) (domain.Offer, error) {
	var o domain.Offer
	err := r.db.Get(&o, `SELECT `+offerCols+` FROM offers WHERE id = ?`, id)
	return o, err
}
