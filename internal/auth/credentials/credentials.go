// Package credentials verifies the statically configured login
// credentials for the two principal kinds.
package credentials

import (
	"crypto/subtle"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Checker compares a presented identifier/password pair against the
// configured expectation. When Hash is set it must be a bcrypt hash and
// takes precedence over the plaintext Password.
type Checker struct {
	Identifier string
	Password   string
	Hash       string
}

// Verify returns ErrInvalidCredentials unless both the identifier and
// the password match. Comparisons do not leak timing information and do
// not reveal which of the two fields was wrong.
func (c Checker) Verify(identifier, password string) error {
	if c.Identifier == "" {
		// Unset credentials mean the surface is disabled.
		return ErrInvalidCredentials
	}

	idOK := subtle.ConstantTimeCompare([]byte(identifier), []byte(c.Identifier)) == 1

	var passOK bool
	if c.Hash != "" {
		passOK = bcrypt.CompareHashAndPassword([]byte(c.Hash), []byte(password)) == nil
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
	}

	if !idOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}
