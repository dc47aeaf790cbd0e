package accounts

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountStatus is the account's lifecycle status
type AccountStatus = string

const (
	// AccountStatusInactivated is the initial status, email not yet proven
	AccountStatusInactivated AccountStatus = "inactivated"
	// AccountStatusActivated means the activation link was consumed
	AccountStatusActivated AccountStatus = "activated"
	// AccountStatusDeleted is terminal
	AccountStatusDeleted AccountStatus = "deleted"
)

// AccountType is the account's role/category
type AccountType = string

const (
	// AccountTypeMember is a regular end user account
	AccountTypeMember AccountType = "member"
	// AccountTypeAdmin is an administrative account
	AccountTypeAdmin AccountType = "admin"
	// AccountTypeService is a machine account
	AccountTypeService AccountType = "service"
)

// IsValidAccountType checks the type against the predefined set
func IsValidAccountType(t AccountType) bool {
	switch t {
	case AccountTypeMember, AccountTypeAdmin, AccountTypeService:
		return true
	default:
		return false
	}
}

// Account is the account model. PasswordHash always holds a hashed
// credential, never plaintext.
type Account struct {
	bun.BaseModel `bun:"table:accounts,alias:acc"`
	ID            uuid.UUID      `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Type          AccountType    `bun:"account_type,notnull" json:"account_type,omitempty"`
	Name          string         `bun:"name,notnull" json:"name,omitempty"`
	Username      string         `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string         `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string         `bun:"password_hash" json:"-"`
	Status        AccountStatus  `bun:"status,notnull" json:"status,omitempty"`
	Profile       *UserProfile   `bun:"rel:has-one,join:id=account_id" json:"profile,omitempty"`
	Metadata      map[string]any `bun:"metadata" json:"metadata,omitempty"`
	ActivatedAt   *time.Time     `bun:"activated_at,nullzero" json:"activated_at,omitempty"`
	CreatedAt     *time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time     `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus defaults a blank status to inactivated
func (a *Account) EnsureStatus() {
	if a.Status == "" {
		a.Status = AccountStatusInactivated
	}
}

// AddMetadata will append information to a metadata attribute
func (a *Account) AddMetadata(key string, val any) *Account {
	if a.Metadata == nil {
		a.Metadata = make(map[string]any)
	}
	a.Metadata[key] = val
	return a
}

// UserProfile is created together with its account and shares its lifetime
type UserProfile struct {
	bun.BaseModel `bun:"table:user_profiles,alias:prf"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	AccountID     uuid.UUID  `bun:"account_id,notnull,type:uuid" json:"account_id,omitempty"`
	DisplayName   string     `bun:"display_name" json:"display_name,omitempty"`
	AvatarURL     string     `bun:"avatar_url" json:"avatar_url,omitempty"`
	Bio           string     `bun:"bio" json:"bio,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}
