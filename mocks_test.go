package accounts_test

import (
	"context"
	"errors"
	"strings"
	"sync"

	accounts "github.com/goliatone/go-accounts"
	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// testConfig implements accounts.Config
type testConfig struct {
	secret        string
	issuer        string
	audience      []string
	expiration    int
	sender        string
	activationURL string
	resetURL      string
}

func newTestConfig() testConfig {
	return testConfig{
		secret:        "test-signing-secret",
		issuer:        "accounts.test",
		audience:      []string{"accounts.test.clients"},
		sender:        "no-reply@accounts.test",
		activationURL: "https://accounts.test/activate",
		resetURL:      "https://accounts.test/password-reset",
	}
}

func (c testConfig) GetTokenSecret() string      { return c.secret }
func (c testConfig) GetTokenIssuer() string      { return c.issuer }
func (c testConfig) GetTokenAudience() []string  { return c.audience }
func (c testConfig) GetTokenExpiration() int     { return c.expiration }
func (c testConfig) GetSenderAddress() string    { return c.sender }
func (c testConfig) GetActivationURL() string    { return c.activationURL }
func (c testConfig) GetPasswordResetURL() string { return c.resetURL }

// MockAccounts implements accounts.Accounts
type MockAccounts struct {
	mock.Mock
}

func (m *MockAccounts) GetAccount(ctx context.Context, id string) (*accounts.Account, error) {
	args := m.Called(ctx, id)
	var acc *accounts.Account
	if v := args.Get(0); v != nil {
		acc = v.(*accounts.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccounts) GetUniqueAccountByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	args := m.Called(ctx, email)
	var acc *accounts.Account
	if v := args.Get(0); v != nil {
		acc = v.(*accounts.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccounts) Add(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, account)
	var acc *accounts.Account
	if v := args.Get(0); v != nil {
		acc = v.(*accounts.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccounts) Update(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, account)
	var acc *accounts.Account
	if v := args.Get(0); v != nil {
		acc = v.(*accounts.Account)
	}
	return acc, args.Error(1)
}

func (m *MockAccounts) Delete(ctx context.Context, account *accounts.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockMailClient implements accounts.MailClient
type MockMailClient struct {
	mock.Mock
}

func (m *MockMailClient) Send(ctx context.Context, msg accounts.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

// memAccounts is an in-memory Accounts fake for flow level tests.
// Accounts whose status is deleted behave as absent, mirroring the bun
// implementation's status filter.
type memAccounts struct {
	mu   sync.Mutex
	byID map[string]*accounts.Account

	failLookup error
	failAdd    error
	failUpdate error
	failDelete error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{byID: map[string]*accounts.Account{}}
}

func notFound() error {
	return repository.NewRecordNotFound()
}

func (m *memAccounts) GetAccount(_ context.Context, id string) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failLookup != nil {
		return nil, m.failLookup
	}

	acc, ok := m.byID[id]
	if !ok || acc.Status == accounts.AccountStatusDeleted {
		return nil, notFound()
	}

	clone := *acc
	return &clone, nil
}

func (m *memAccounts) GetUniqueAccountByEmail(_ context.Context, email string) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failLookup != nil {
		return nil, m.failLookup
	}

	for _, acc := range m.byID {
		if acc.Email == email && acc.Status != accounts.AccountStatusDeleted {
			clone := *acc
			return &clone, nil
		}
	}

	return nil, notFound()
}

func (m *memAccounts) Add(_ context.Context, account *accounts.Account) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failAdd != nil {
		return nil, m.failAdd
	}

	// mirror the bun repository's creation defaults
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	account.EnsureStatus()
	if account.Profile != nil {
		account.Profile.AccountID = account.ID
	}

	clone := *account
	m.byID[account.ID.String()] = &clone
	return account, nil
}

func (m *memAccounts) Update(_ context.Context, account *accounts.Account) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failUpdate != nil {
		return nil, m.failUpdate
	}

	if _, ok := m.byID[account.ID.String()]; !ok {
		return nil, notFound()
	}

	clone := *account
	m.byID[account.ID.String()] = &clone
	return account, nil
}

func (m *memAccounts) Delete(_ context.Context, account *accounts.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failDelete != nil {
		return m.failDelete
	}

	delete(m.byID, account.ID.String())
	return nil
}

// captureMailClient records delivered messages and can fail the first N
// send attempts.
type captureMailClient struct {
	mu       sync.Mutex
	failures int
	calls    int
	sent     []accounts.Message
}

func (c *captureMailClient) Send(_ context.Context, msg accounts.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	if c.calls <= c.failures {
		return errors.New("smtp: connection refused")
	}

	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureMailClient) lastMessage() (accounts.Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.sent) == 0 {
		return accounts.Message{}, false
	}
	return c.sent[len(c.sent)-1], true
}

// extractToken pulls the token query parameter out of a mailed link
func extractToken(body string) string {
	idx := strings.Index(body, "?token=")
	if idx < 0 {
		return ""
	}

	token := body[idx+len("?token="):]
	if end := strings.IndexAny(token, " \n\t"); end >= 0 {
		token = token[:end]
	}
	return token
}
