package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderVerificationTemplate(t *testing.T) {
	body, err := renderTemplate(verificationEmailTemplate, struct{ Code string }{Code: "123456"})
	require.NoError(t, err)

	assert.Contains(t, body, "123456")
	assert.Contains(t, body, "expire in 24 hours")
}

func TestRenderPasswordResetTemplate(t *testing.T) {
	link := "http://localhost:3000/reset-password/a1b2c3"
	body, err := renderTemplate(passwordResetEmailTemplate, struct{ ResetLink string }{ResetLink: link})
	require.NoError(t, err)

	assert.Contains(t, body, link)
	assert.Contains(t, body, "expire in 1 hour")
}
