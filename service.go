package accounts

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/goliatone/hashid/pkg/hashid"
)

// MaxMailAttempts bounds the activation and reset delivery loop. The loop
// stops on the first accepted send; there is no backoff.
const MaxMailAttempts = 3

// AccountService drives the signup/activation/sign-in lifecycle. Every
// public operation returns exactly one Result; no error escapes to the
// caller.
type AccountService struct {
	repo         Accounts
	mail         MailClient
	tokens       TokenService
	hasher       Hasher
	machine      AccountStateMachine
	cfg          Config
	logger       Logger
	messages     Messages
	mailAttempts int
	useHashid    bool
}

// NewAccountService returns a new AccountService. The token secret is
// checked here: a missing secret is a startup failure, never a per-call
// surprise.
func NewAccountService(cfg Config, repo Accounts, mail MailClient) (*AccountService, error) {
	tokens, err := NewTokenService(cfg)
	if err != nil {
		return nil, err
	}

	return &AccountService{
		repo:         repo,
		mail:         mail,
		tokens:       tokens,
		hasher:       BcryptHasher{},
		machine:      NewAccountStateMachine(),
		cfg:          cfg,
		logger:       defLogger{},
		messages:     DefaultMessages(),
		mailAttempts: MaxMailAttempts,
	}, nil
}

func (s *AccountService) WithLogger(logger Logger) *AccountService {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithHasher swaps the credential hasher, e.g. LegacyHasher for stores
// that still hold two-stage digests.
func (s *AccountService) WithHasher(hasher Hasher) *AccountService {
	if hasher != nil {
		s.hasher = hasher
	}
	return s
}

// WithTokenService sets a custom token service, e.g. one with a test clock.
func (s *AccountService) WithTokenService(tokens TokenService) *AccountService {
	if tokens != nil {
		s.tokens = tokens
	}
	return s
}

// WithStateMachine overrides the lifecycle state machine.
func (s *AccountService) WithStateMachine(machine AccountStateMachine) *AccountService {
	if machine != nil {
		s.machine = machine
	}
	return s
}

// WithMessages overrides entries in the result message table. Codes absent
// from the override keep their default text.
func (s *AccountService) WithMessages(messages Messages) *AccountService {
	if messages != nil {
		merged := DefaultMessages()
		for code, msg := range messages {
			merged[code] = msg
		}
		s.messages = merged
	}
	return s
}

// WithDeterministicIDs derives account ids from the signup email so
// repeated imports of the same dataset converge on the same ids.
func (s *AccountService) WithDeterministicIDs() *AccountService {
	s.useHashid = true
	return s
}

// SignUp creates an inactivated account with its profile, then emails an
// activation link. If all delivery attempts fail the persisted account is
// rolled back before the failure is reported.
func (s *AccountService) SignUp(ctx context.Context, email, username, password string, accountType AccountType) *Result {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	errs := validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.Email),
		"username": validation.Validate(username, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}
	if err := errs.Filter(); err != nil {
		return s.fail(ResultIncompleteArgument, err.Error())
	}

	if accountType == "" {
		accountType = AccountTypeMember
	} else if !IsValidAccountType(accountType) {
		return s.fail(ResultIncompleteArgument, "unknown account type: "+accountType)
	}

	existing, err := s.repo.GetUniqueAccountByEmail(ctx, email)
	if err != nil && !IsAccountNotFound(err) {
		// a failed uniqueness probe cannot rule out a duplicate
		s.logger.Error("SignUp email lookup failed", "email", email, "error", err)
		return s.fail(ResultEmailConflict, err.Error())
	}
	if err == nil && existing != nil {
		return s.fail(ResultEmailConflict, "")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return s.fail(ResultSignUpFailure, err.Error())
	}

	account := &Account{
		Type:         accountType,
		Name:         username,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Profile: &UserProfile{
			DisplayName: username,
		},
	}
	account.EnsureStatus()

	if s.useHashid {
		if id, err := hashid.NewUUID(email); err == nil {
			account.ID = id
		}
	}

	created, err := s.repo.Add(ctx, account)
	if err != nil {
		s.logger.Error("SignUp persist failed", "email", email, "error", err)
		return s.fail(ResultSignUpFailure, err.Error())
	}

	token, err := s.tokens.Issue(created.ID.String(), ScopeActivation)
	if err != nil {
		s.rollback(ctx, created)
		return s.fail(ResultEmailError, err.Error())
	}

	if err := s.deliver(ctx, NewActivationMessage(s.cfg, created, token)); err != nil {
		s.rollback(ctx, created)
		return s.fail(ResultEmailError, err.Error())
	}

	return s.ok(ResultSuccess, created)
}

// SignIn verifies credentials by email. An inactivated account with the
// right password yields Success=true with code INACTIVATED_ACCOUNT so the
// caller can offer to resend the activation email.
func (s *AccountService) SignIn(ctx context.Context, email, password string) *Result {
	email = strings.TrimSpace(email)

	errs := validation.Errors{
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}
	if err := errs.Filter(); err != nil {
		return s.fail(ResultIncompleteArgument, err.Error())
	}

	account, err := s.repo.GetUniqueAccountByEmail(ctx, email)
	if err != nil {
		if IsAccountNotFound(err) {
			return s.fail(ResultAccountNotExist, "")
		}
		s.logger.Error("SignIn lookup failed", "email", email, "error", err)
		return s.fail(ResultBackendException, err.Error())
	}

	if err := s.hasher.Compare(password, account.PasswordHash); err != nil {
		return s.fail(ResultPasswordError, "")
	}

	if account.Status == AccountStatusInactivated {
		return s.ok(ResultInactivatedAccount, account)
	}

	return s.ok(ResultSuccess, account)
}

// ActivateAccount consumes an activation token and moves the account to
// activated. Re-activating an already activated account succeeds without
// side effects.
func (s *AccountService) ActivateAccount(ctx context.Context, token string) *Result {
	if strings.TrimSpace(token) == "" {
		return s.fail(ResultIncompleteArgument, "token is required")
	}

	accountID, err := s.tokens.Validate(token, ScopeActivation)
	if err != nil {
		if IsTokenInvalidError(err) {
			return s.fail(ResultInvalidToken, err.Error())
		}
		return s.fail(ResultBackendException, err.Error())
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		if IsAccountNotFound(err) {
			return s.fail(ResultAccountNotExist, "")
		}
		return s.fail(ResultActivateFailure, err.Error())
	}

	if _, err := s.machine.Transition(systemActor, account, AccountStatusActivated,
		WithTransitionReason("activation token consumed")); err != nil {
		return s.fail(ResultActivateFailure, err.Error())
	}

	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		s.logger.Error("ActivateAccount persist failed", "account", accountID, "error", err)
		return s.fail(ResultActivateFailure, err.Error())
	}

	return s.ok(ResultSuccess, updated)
}

// InvalidateAccount transitions an account to the terminal deleted status.
func (s *AccountService) InvalidateAccount(ctx context.Context, accountID string) *Result {
	accountID = strings.TrimSpace(accountID)

	if err := validation.Validate(accountID, validation.Required, is.UUID); err != nil {
		return s.fail(ResultIncompleteArgument, "account id: "+err.Error())
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		if IsAccountNotFound(err) {
			return s.fail(ResultAccountNotExist, "")
		}
		return s.fail(ResultBackendException, err.Error())
	}

	if _, err := s.machine.Transition(systemActor, account, AccountStatusDeleted,
		WithTransitionReason("account invalidated")); err != nil {
		return s.fail(ResultBackendException, err.Error())
	}

	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		s.logger.Error("InvalidateAccount persist failed", "account", accountID, "error", err)
		return s.fail(ResultBackendException, err.Error())
	}

	return s.ok(ResultSuccess, updated)
}

// RecoverPassword emails a reset link to the account behind the address.
// Whether the address exists is not disclosed: unknown emails report
// success without sending anything.
func (s *AccountService) RecoverPassword(ctx context.Context, email string) *Result {
	email = strings.TrimSpace(email)

	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return s.fail(ResultIncompleteArgument, "email: "+err.Error())
	}

	account, err := s.repo.GetUniqueAccountByEmail(ctx, email)
	if err != nil {
		if IsAccountNotFound(err) {
			s.logger.Debug("RecoverPassword for unknown email", "email", email)
			return s.ok(ResultSuccess, nil)
		}
		return s.fail(ResultBackendException, err.Error())
	}

	token, err := s.tokens.Issue(account.ID.String(), ScopePasswordReset)
	if err != nil {
		return s.fail(ResultBackendException, err.Error())
	}

	if err := s.deliver(ctx, NewPasswordResetMessage(s.cfg, account, token)); err != nil {
		return s.fail(ResultEmailError, err.Error())
	}

	return s.ok(ResultSuccess, nil)
}

// ResetPassword consumes a reset token and stores a new credential hash.
// Activation tokens are rejected here by scope.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) *Result {
	errs := validation.Errors{
		"token":    validation.Validate(strings.TrimSpace(token), validation.Required),
		"password": validation.Validate(newPassword, validation.Required),
	}
	if err := errs.Filter(); err != nil {
		return s.fail(ResultIncompleteArgument, err.Error())
	}

	accountID, err := s.tokens.Validate(token, ScopePasswordReset)
	if err != nil {
		if IsTokenInvalidError(err) {
			return s.fail(ResultInvalidToken, err.Error())
		}
		return s.fail(ResultBackendException, err.Error())
	}

	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		if IsAccountNotFound(err) {
			return s.fail(ResultAccountNotExist, "")
		}
		return s.fail(ResultBackendException, err.Error())
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return s.fail(ResultBackendException, err.Error())
	}

	account.PasswordHash = hash
	updated, err := s.repo.Update(ctx, account)
	if err != nil {
		s.logger.Error("ResetPassword persist failed", "account", accountID, "error", err)
		return s.fail(ResultBackendException, err.Error())
	}

	return s.ok(ResultSuccess, updated)
}

// ResendActivation issues a fresh activation token for an inactivated
// account and emails it. Earlier tokens stay valid until they expire.
func (s *AccountService) ResendActivation(ctx context.Context, email string) *Result {
	email = strings.TrimSpace(email)

	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return s.fail(ResultIncompleteArgument, "email: "+err.Error())
	}

	account, err := s.repo.GetUniqueAccountByEmail(ctx, email)
	if err != nil {
		if IsAccountNotFound(err) {
			return s.fail(ResultAccountNotExist, "")
		}
		return s.fail(ResultBackendException, err.Error())
	}

	if account.Status == AccountStatusActivated {
		return s.ok(ResultSuccess, account)
	}

	token, err := s.tokens.Issue(account.ID.String(), ScopeActivation)
	if err != nil {
		return s.fail(ResultEmailError, err.Error())
	}

	if err := s.deliver(ctx, NewActivationMessage(s.cfg, account, token)); err != nil {
		return s.fail(ResultEmailError, err.Error())
	}

	return s.ok(ResultSuccess, account)
}

var systemActor = ActorRef{Type: "system"}

// deliver attempts the send up to mailAttempts times, stopping early on
// the first accepted message.
func (s *AccountService) deliver(ctx context.Context, msg Message) error {
	var lastErr error
	for attempt := 1; attempt <= s.mailAttempts; attempt++ {
		if err := s.mail.Send(ctx, msg); err != nil {
			lastErr = err
			s.logger.Warn("mail delivery attempt failed", "attempt", attempt, "to", msg.To, "error", err)
			continue
		}
		return nil
	}
	return lastErr
}

// rollback is the compensating action for a signup whose activation email
// never went out: the half-created account is removed so the email can be
// used again.
func (s *AccountService) rollback(ctx context.Context, account *Account) {
	if err := s.repo.Delete(ctx, account); err != nil {
		s.logger.Error("compensating delete failed", "account", account.ID.String(), "error", err)
	}
}

func (s *AccountService) ok(code ResultCode, account *Account) *Result {
	return &Result{
		Success: true,
		Code:    code,
		Message: s.messages.Resolve(code),
		Account: account,
	}
}

func (s *AccountService) fail(code ResultCode, detail string) *Result {
	msg := s.messages.Resolve(code)
	if detail != "" {
		msg = msg + ": " + detail
	}
	return &Result{
		Success: false,
		Code:    code,
		Message: msg,
	}
}
