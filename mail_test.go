package accounts_test

import (
	"strings"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/assert"
)

func TestActivationLinkEscapesToken(t *testing.T) {
	link := accounts.ActivationLink("https://accounts.test/activate", "a+b c")
	assert.Equal(t, "https://accounts.test/activate?token=a%2Bb+c", link)
}

func TestNewActivationMessage(t *testing.T) {
	cfg := newTestConfig()
	account := &accounts.Account{Name: "alice", Email: "a@x.com"}

	msg := accounts.NewActivationMessage(cfg, account, "tok-123")

	assert.Equal(t, cfg.sender, msg.From)
	assert.Equal(t, "a@x.com", msg.To)
	assert.Contains(t, msg.Body, "alice")
	assert.Contains(t, msg.Body, cfg.activationURL+"?token=tok-123")
	assert.Contains(t, msg.Body, "12 hours", "default validity quoted when config sets none")
}

func TestNewPasswordResetMessage(t *testing.T) {
	cfg := newTestConfig()
	account := &accounts.Account{Name: "alice", Email: "a@x.com"}

	msg := accounts.NewPasswordResetMessage(cfg, account, "tok-123")

	assert.Equal(t, "a@x.com", msg.To)
	assert.Contains(t, msg.Body, cfg.resetURL+"?token=tok-123")
	assert.False(t, strings.Contains(msg.Body, cfg.activationURL))
}
