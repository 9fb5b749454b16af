package http

import (
	"context"
	"fmt"
	"time"

	"auth-server/internal/domain"
	"auth-server/internal/repository"
)

type fakeAccountRepo struct {
	accounts map[string]*domain.Account
	nextID   int
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[string]*domain.Account)}
}

func (r *fakeAccountRepo) Init(ctx context.Context) error { return nil }

func (r *fakeAccountRepo) Create(ctx context.Context, account *domain.Account) error {
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return repository.ErrEmailExists
		}
		if existing.Username == account.Username {
			return repository.ErrUsernameTaken
		}
	}
	if account.ID == "" {
		r.nextID++
		account.ID = fmt.Sprintf("account-%d", r.nextID)
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}

func (r *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Email == email {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) GetByUsername(ctx context.Context, username string) (*domain.Account, error) {
	for _, account := range r.accounts {
		if account.Username == username {
			copied := *account
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *fakeAccountRepo) remove(id string) {
	delete(r.accounts, id)
}

type stubGate struct {
	accept bool
}

func (g stubGate) Verify(ctx context.Context, proofToken string) bool {
	return g.accept
}
