package services

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"kurtikart/internal/domain"
	"kurtikart/internal/repos"
)

var (
	ErrBadCreds   = errors.New("invalid phone number or password")
	ErrPhoneTaken = errors.New("phone number already registered")
)

type AuthService struct {
	Users *repos.UserRepo
}

// Register creates a CUSTOMER account and binds the caller's session to it.
func (s *AuthService) Register(sid, phone, password, name string) (*domain.User, error) {
	if _, err := s.Users.ByPhone(phone); err == nil {
		return nil, ErrPhoneTaken
	} else if err != sql.ErrNoRows {
		return nil, err
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		ID:    uuid.NewString(),
		Phone: phone,
		Name:  name,
		Hash:  string(h),
		Role:  "CUSTOMER",
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Login keeps one failure message for unknown phone and wrong password.
func (s *AuthService) Login(sid, phone, password string) (*domain.User, error) {
	u, err := s.Users.ByPhone(phone)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
