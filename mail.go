package accounts

import (
	"fmt"
	"net/url"
)

// Message is the outbound mail payload handed to a MailClient
type Message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ActivationLink builds the link a recipient follows to activate their
// account: {configured activation endpoint}?token={token}
func ActivationLink(endpoint, token string) string {
	return tokenLink(endpoint, token)
}

// PasswordResetLink builds the link a recipient follows to reset their password
func PasswordResetLink(endpoint, token string) string {
	return tokenLink(endpoint, token)
}

func tokenLink(endpoint, token string) string {
	return fmt.Sprintf("%s?token=%s", endpoint, url.QueryEscape(token))
}

// NewActivationMessage builds the activation email for an account
func NewActivationMessage(cfg Config, account *Account, token string) Message {
	link := ActivationLink(cfg.GetActivationURL(), token)
	hours := cfg.GetTokenExpiration()
	if hours <= 0 {
		hours = int(DefaultTokenValidity.Hours())
	}
	return Message{
		From:    cfg.GetSenderAddress(),
		To:      account.Email,
		Subject: "Activate your account",
		Body: fmt.Sprintf(
			"Hello %s,\n\nPlease confirm your email address by following this link:\n\n%s\n\nThe link expires in %d hours.\n",
			account.Name,
			link,
			hours,
		),
	}
}

// NewPasswordResetMessage builds the password reset email for an account
func NewPasswordResetMessage(cfg Config, account *Account, token string) Message {
	link := PasswordResetLink(cfg.GetPasswordResetURL(), token)
	return Message{
		From:    cfg.GetSenderAddress(),
		To:      account.Email,
		Subject: "Reset your password",
		Body: fmt.Sprintf(
			"Hello %s,\n\nA password reset was requested for your account. Follow this link to choose a new password:\n\n%s\n\nIf you did not request this you can ignore this message.\n",
			account.Name,
			link,
		),
	}
}
