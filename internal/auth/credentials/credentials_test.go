package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestVerify_Plaintext(t *testing.T) {
	c := Checker{Identifier: "alice", Password: "secret"}

	assert.NoError(t, c.Verify("alice", "secret"))
	assert.ErrorIs(t, c.Verify("alice", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, c.Verify("bob", "secret"), ErrInvalidCredentials)
}

func TestVerify_BcryptHashTakesPrecedence(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	c := Checker{Identifier: "root", Password: "ignored", Hash: string(hash)}

	assert.NoError(t, c.Verify("root", "secret"))
	assert.ErrorIs(t, c.Verify("root", "ignored"), ErrInvalidCredentials)
}

func TestVerify_UnsetIdentifierAlwaysFails(t *testing.T) {
	c := Checker{}
	assert.ErrorIs(t, c.Verify("", ""), ErrInvalidCredentials)
}
