package accounts

// ResultCode is a member of the closed outcome enumeration every public
// AccountService operation reports. Codes are the stable contract; the
// message text that travels with them is presentation detail.
type ResultCode string

const (
	ResultSuccess            ResultCode = "SUCCESS"
	ResultIncompleteArgument ResultCode = "INCOMPLETE_ARGUMENT"
	ResultEmailConflict      ResultCode = "EMAIL_CONFLICT"
	ResultEmailError         ResultCode = "EMAIL_ERROR"
	ResultSignUpFailure      ResultCode = "SIGNUP_FAILURE"
	ResultAccountNotExist    ResultCode = "ACCOUNT_NOT_EXIST"
	ResultPasswordError      ResultCode = "PASSWORD_ERROR"
	ResultInactivatedAccount ResultCode = "INACTIVATED_ACCOUNT"
	ResultInvalidToken       ResultCode = "INVALID_TOKEN"
	ResultActivateFailure    ResultCode = "ACTIVATE_FAILURE"
	ResultBackendException   ResultCode = "BACKEND_EXCEPTION"
)

// AllResultCodes returns the closed enumeration, success first
func AllResultCodes() []ResultCode {
	return []ResultCode{
		ResultSuccess,
		ResultIncompleteArgument,
		ResultEmailConflict,
		ResultEmailError,
		ResultSignUpFailure,
		ResultAccountNotExist,
		ResultPasswordError,
		ResultInactivatedAccount,
		ResultInvalidToken,
		ResultActivateFailure,
		ResultBackendException,
	}
}

// Result is the outcome envelope for every public operation. Soft outcomes
// such as INACTIVATED_ACCOUNT carry Success=true together with a non
// success code so callers can still reach the account while learning its
// real state.
type Result struct {
	Success bool       `json:"success"`
	Code    ResultCode `json:"code"`
	Message string     `json:"message,omitempty"`
	Account *Account   `json:"account,omitempty"`
}

// IsCode checks the result against a specific code
func (r *Result) IsCode(code ResultCode) bool {
	return r != nil && r.Code == code
}
