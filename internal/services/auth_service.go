package services

import (
	"errors"
	"strings"

	"rms/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

var ErrBadCreds = errors.New("invalid username or password")

// AuthService checks the single configured till operator. It gates nothing;
// the page uses it only to decide whether to show the till.
type AuthService struct {
	user string
	hash []byte
}

func NewAuthService(user, password string) (*AuthService, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &AuthService{user: strings.TrimSpace(user), hash: h}, nil
}

func (s *AuthService) Login(username, password string) (*domain.Operator, error) {
	if !strings.EqualFold(strings.TrimSpace(username), s.user) {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword(s.hash, []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	return &domain.Operator{Username: s.user}, nil
}
