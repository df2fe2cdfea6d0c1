package repos

import (
	"github.com/jmoiron/sqlx"

	"kurtikart/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

func (r *UserRepo) ByPhone(phone string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT id,phone,name,password_hash,role FROM users WHERE phone=?`, phone)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u *domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id,phone,name,password_hash,role) VALUES(?,?,?,?,?)
	`, u.ID, u.Phone, u.Name, u.Hash, u.Role)
	return err
}

func (r *UserRepo) BindSession(sid, userID string) error {
	_, err := r.DB.Exec(`INSERT INTO sessions(id,user_id,last_seen)
	  VALUES(?,?,CURRENT_TIMESTAMP)
	  ON CONFLICT(id) DO UPDATE SET user_id=excluded.user_id,last_seen=CURRENT_TIMESTAMP`, sid, userID)
	return err
}

func (r *UserRepo) SessionUser(sid string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT u.id,u.phone,u.name,u.password_hash,u.role
	  FROM sessions s
	  JOIN users u ON u.id=s.user_id
	  WHERE s.id=?`, sid)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) UnbindSession(sid string) error {
	_, err := r.DB.Exec(`UPDATE sessions SET user_id=NULL,last_seen=CURRENT_TIMESTAMP WHERE id=?`, sid)
	return err
}
