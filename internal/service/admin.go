package service

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/octobees/foodbot/internal/auth"
)

// ErrInvalidCredentials is returned for any failed login attempt.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AdminService validates the single configured operator account and
// issues access tokens for the admin surface. There is no user table;
// the account lives in the environment as an email plus bcrypt hash.
type AdminService struct {
	email        string
	passwordHash string
	jwt          *auth.JWTManager
}

// NewAdminService constructs the service. Empty email or hash disables logins.
func NewAdminService(email, passwordHash string, jwtManager *auth.JWTManager) *AdminService {
	return &AdminService{
		email:        strings.ToLower(strings.TrimSpace(email)),
		passwordHash: passwordHash,
		jwt:          jwtManager,
	}
}

// Login checks the credentials and returns a signed admin token.
func (s *AdminService) Login(email, password string) (string, error) {
	if s.email == "" || s.passwordHash == "" {
		return "", ErrInvalidCredentials
	}
	if strings.ToLower(strings.TrimSpace(email)) != s.email {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := s.jwt.Issue(s.email, "admin")
	if err != nil {
		return "", err
	}
	return token, nil
}
