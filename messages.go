package accounts

// Messages maps result codes to human readable text. Services resolve
// messages through this table so deployments can localize or rebrand
// copy without touching the codes callers branch on.
type Messages map[ResultCode]string

// DefaultMessages returns the built-in message table
func DefaultMessages() Messages {
	return Messages{
		ResultSuccess:            "operation completed",
		ResultIncompleteArgument: "one or more required fields are blank or malformed",
		ResultEmailConflict:      "an account with this email already exists",
		ResultEmailError:         "could not deliver the activation email",
		ResultSignUpFailure:      "could not create the account",
		ResultAccountNotExist:    "no account matches the given identifier",
		ResultPasswordError:      "the password does not match",
		ResultInactivatedAccount: "the account has not been activated yet",
		ResultInvalidToken:       "the token is invalid or expired",
		ResultActivateFailure:    "could not activate the account",
		ResultBackendException:   "the operation failed unexpectedly",
	}
}

// Resolve returns the message for a code, falling back to the default
// table for codes the override map leaves out.
func (m Messages) Resolve(code ResultCode) string {
	if m != nil {
		if msg, ok := m[code]; ok {
			return msg
		}
	}
	return DefaultMessages()[code]
}
