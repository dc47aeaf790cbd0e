package accounts

import (
	"context"
	"database/sql"
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Accounts is the persistence contract the service consumes. Lookups
// signal absence through a record-not-found error rather than a nil,
// checkable via IsAccountNotFound; any other error is a backend failure.
type Accounts interface {
	GetAccount(ctx context.Context, id string) (*Account, error)
	GetUniqueAccountByEmail(ctx context.Context, email string) (*Account, error)
	Add(ctx context.Context, account *Account) (*Account, error)
	Update(ctx context.Context, account *Account) (*Account, error)
	// Delete physically removes the account and its profile. It exists for
	// the signup compensating rollback; ordinary removal is a status
	// transition to deleted.
	Delete(ctx context.Context, account *Account) error
}

// IsAccountNotFound reports whether err marks an absent account
func IsAccountNotFound(err error) bool {
	if err == nil {
		return false
	}
	return repository.IsRecordNotFound(err) ||
		errors.Is(err, sql.ErrNoRows) ||
		goerrors.Is(err, ErrAccountNotFound) ||
		goerrors.IsNotFound(err)
}
