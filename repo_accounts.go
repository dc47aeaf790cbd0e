package accounts

import (
	"context"
	"database/sql"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type accountsRepo struct {
	repository.Repository[*Account]
	db *bun.DB
}

var _ Accounts = (*accountsRepo)(nil)

// NewAccountsRepository returns the bun backed Accounts implementation.
// Email uniqueness is ultimately enforced by the unique constraint on the
// email column; the service level check is best effort.
func NewAccountsRepository(db *bun.DB) Accounts {
	repo := repository.NewRepository[*Account](db, repository.ModelHandlers[*Account]{
		NewRecord: func() *Account { return &Account{} },
		GetID: func(a *Account) uuid.UUID {
			if a == nil {
				return uuid.Nil
			}
			return a.ID
		},
		SetID: func(a *Account, id uuid.UUID) {
			if a != nil {
				a.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &accountsRepo{
		Repository: repo,
		db:         db,
	}
}

func (r *accountsRepo) GetAccount(ctx context.Context, id string) (*Account, error) {
	return r.getOne(ctx, "id", strings.TrimSpace(id))
}

func (r *accountsRepo) GetUniqueAccountByEmail(ctx context.Context, email string) (*Account, error) {
	return r.getOne(ctx, "email", strings.TrimSpace(email))
}

func (r *accountsRepo) getOne(ctx context.Context, column, value string) (*Account, error) {
	record := &Account{}
	err := r.db.NewSelect().
		Model(record).
		Relation("Profile").
		Where("?TableAlias."+column+" = ?", value).
		Where("?TableAlias.status != ?", AccountStatusDeleted).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) || err == sql.ErrNoRows {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					column: value,
				})
		}
		return nil, err
	}

	return record, nil
}

// Add persists the account together with its owned profile in one
// transaction so both share a lifetime from the start.
func (r *accountsRepo) Add(ctx context.Context, record *Account) (*Account, error) {
	prepareAccountDefaults(record)

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		created, err := r.Repository.CreateTx(ctx, tx, record)
		if err != nil {
			return err
		}
		*record = *created

		if record.Profile != nil {
			record.Profile.AccountID = record.ID
			if _, err := tx.NewInsert().Model(record.Profile).Exec(ctx); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return record, nil
}

func (r *accountsRepo) Update(ctx context.Context, record *Account) (*Account, error) {
	return r.Repository.UpdateTx(ctx, r.db, record, repository.UpdateByID(record.ID.String()))
}

// Delete removes the row for real, bypassing the soft delete. Used only to
// roll back a half-created signup.
func (r *accountsRepo) Delete(ctx context.Context, record *Account) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*UserProfile)(nil)).
			Where("account_id = ?", record.ID).
			ForceDelete().
			Exec(ctx); err != nil {
			return err
		}

		_, err := tx.NewDelete().
			Model(record).
			WherePK().
			ForceDelete().
			Exec(ctx)
		return err
	})
}

func prepareAccountDefaults(record *Account) {
	if record == nil {
		return
	}

	if record.Type == "" {
		record.Type = AccountTypeMember
	}

	record.EnsureStatus()

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	if record.Profile != nil {
		if record.Profile.ID == uuid.Nil {
			record.Profile.ID = uuid.New()
		}
		record.Profile.AccountID = record.ID
	}
}
