package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"auth-server/internal/captcha"
	"auth-server/internal/domain"
	"auth-server/internal/password"
	"auth-server/internal/repository"
	"auth-server/internal/token"
)

var (
	// ErrCaptchaRejected indicates the bot gate did not accept the proof token.
	ErrCaptchaRejected = errors.New("captcha verification failed")
	// ErrEmailNotRegistered indicates a login attempt for an unknown email.
	ErrEmailNotRegistered = errors.New("invalid email or not registered")
	// ErrInvalidPassword indicates a login attempt with a wrong password.
	ErrInvalidPassword = errors.New("invalid password")
)

// RegisterInput carries the registration request fields.
type RegisterInput struct {
	Email        string
	Username     string
	Password     string
	CaptchaToken string
}

// LoginInput carries the login request fields.
type LoginInput struct {
	Email        string
	Password     string
	CaptchaToken string
}

// AuthResult is the outcome of a successful registration or login: the
// issued session token and the account it asserts, verifier stripped.
type AuthResult struct {
	Account *domain.Account
	Token   string
}

// AuthService orchestrates the registration and authentication flows.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
}

type authService struct {
	accounts repository.AccountRepository
	hasher   *password.Hasher
	gate     captcha.Verifier
	tokens   *token.Codec
}

func NewAuthService(accounts repository.AccountRepository, hasher *password.Hasher, gate captcha.Verifier, tokens *token.Codec) AuthService {
	return &authService{
		accounts: accounts,
		hasher:   hasher,
		gate:     gate,
		tokens:   tokens,
	}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)

	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if len(in.Username) < 3 {
		return nil, errors.New("username must be at least 3 characters")
	}
	if len(in.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	if strings.TrimSpace(in.CaptchaToken) == "" {
		return nil, errors.New("recaptcha token is required")
	}

	if !s.gate.Verify(ctx, in.CaptchaToken) {
		return nil, ErrCaptchaRejected
	}

	// Fast-fail hints only; the UNIQUE constraints behind Create remain
	// the authority if a concurrent registration wins the race.
	if _, err := s.accounts.GetByEmail(ctx, in.Email); err == nil {
		return nil, repository.ErrEmailExists
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if _, err := s.accounts.GetByUsername(ctx, in.Username); err == nil {
		return nil, repository.ErrUsernameTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	account := &domain.Account{
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: hash,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	signed, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Account: sanitizeAccount(account), Token: signed}, nil
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	in.Email = strings.TrimSpace(in.Email)

	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if len(in.Password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}
	if strings.TrimSpace(in.CaptchaToken) == "" {
		return nil, errors.New("recaptcha token is required")
	}

	if !s.gate.Verify(ctx, in.CaptchaToken) {
		return nil, ErrCaptchaRejected
	}

	account, err := s.accounts.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEmailNotRegistered
		}
		return nil, err
	}

	if !s.hasher.Verify(in.Password, account.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	signed, err := s.tokens.Issue(account.ID)
	if err != nil {
		return nil, err
	}

	return &AuthResult{Account: sanitizeAccount(account), Token: signed}, nil
}

func validateEmail(email string) error {
	if email == "" {
		return errors.New("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.New("invalid email format")
	}
	return nil
}

func sanitizeAccount(account *domain.Account) *domain.Account {
	if account == nil {
		return nil
	}
	return &domain.Account{
		ID:        account.ID,
		Email:     account.Email,
		Username:  account.Username,
		CreatedAt: account.CreatedAt,
	}
}
