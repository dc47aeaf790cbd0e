// Package accounts implements the account identity workflow: credential
// hashing, signed activation and password reset tokens, and the
// signup/activation/sign-in lifecycle with compensating cleanup when a
// freshly persisted account cannot receive its activation email.
//
// Account lifecycle:
//   - Accounts carry an AccountStatus field persisted via Bun. Statuses move
//     along inactivated -> activated -> deleted; the deleted state is
//     terminal. AccountStateMachine centralizes the transition graph and
//     timestamp handling, AccountService drives it and persists the result.
//
// Results:
//   - Every public AccountService operation returns a Result envelope with a
//     closed ResultCode. Collaborator failures are mapped to codes at the
//     call site; no error crosses the service boundary.
//
// Tokens:
//   - TokenService issues HMAC signed tokens bound to an account id with a
//     scope claim that keeps activation tokens out of the password reset
//     flow (and vice versa). Secret, issuer, and audience are loaded once at
//     construction; a missing secret fails fast instead of at call time.
package accounts
