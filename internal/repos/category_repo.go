package repos

import (
	"github.com/jmoiron/sqlx"

	"kurtikart/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List() ([]domain.Category, error) {
	out := []domain.Category{}
	err := r.db.Select(&out, `
	  SELECT id, code, name, normalized_lower_case, kurti_type
	  FROM categories
	  WHERE is_deleted = 0
	  ORDER BY name
	`)
	return out, err
}

// KurtiTypes returns the distinct non-blank kurti-type tags.
func (r *CategoryRepo) KurtiTypes() ([]string, error) {
	out := []string{}
	err := r.db.Select(&out, `
	  SELECT DISTINCT kurti_type
	  FROM categories
	  WHERE is_deleted = 0 AND kurti_type != ''
	`)
	return out, err
}
