// Package token signs and verifies the compact session tokens carried
// by the sr_user and sr_admin cookies.
//
// Wire format: base64url(payload JSON) + "." + base64url(HMAC-SHA256 tag),
// both halves unpadded. The tag covers the raw encoded payload bytes and
// is checked before the payload is parsed.
package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

const (
	TypeUser  = "user"
	TypeAdmin = "admin"
)

// Verification failure reasons.
const (
	ReasonNoToken              = "no-token"
	ReasonBadFormat            = "bad-format"
	ReasonBadSignatureEncoding = "bad-signature-encoding"
	ReasonBadSignature         = "bad-signature"
	ReasonBadPayload           = "bad-payload"
	ReasonExpired              = "expired"
)

// ErrNoSecret is returned when the signing secret is not configured.
var ErrNoSecret = errors.New("token: signing secret is missing")

// Strict decoding rejects non-canonical trailing bits, so a token that
// differs from the signed one in any character never verifies.
var b64 = base64.RawURLEncoding.Strict()

// Payload is the signed session claim set. Exactly one of User or ID is
// set depending on Typ. The codec does not validate shape; callers check
// Typ against the cookie channel.
type Payload struct {
	Typ  string `json:"typ"`
	User string `json:"user,omitempty"`
	ID   string `json:"id,omitempty"`
	Iat  int64  `json:"iat"`
	Exp  int64  `json:"exp,omitempty"`
}

// Verification is the outcome of Verify. On expiry the decoded payload
// is still populated so callers can log who presented the stale token.
type Verification struct {
	Valid   bool
	Payload *Payload
	Reason  string
}

type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a codec for the given signing secret.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Codec{secret: []byte(secret), now: time.Now}, nil
}

// WithClock overrides the codec clock. Test hook.
func (c *Codec) WithClock(now func() time.Time) *Codec {
	c.now = now
	return c
}

func (c *Codec) tag(encodedPayload string) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(encodedPayload))
	return mac.Sum(nil)
}

// Sign serializes the payload and returns a signed token.
func (c *Codec) Sign(p Payload) (string, error) {
	payloadJSON, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	encodedPayload := b64.EncodeToString(payloadJSON)
	encodedTag := b64.EncodeToString(c.tag(encodedPayload))
	return encodedPayload + "." + encodedTag, nil
}

// Verify checks the token signature and expiry. The signature is verified
// against the raw encoded payload before any parsing happens.
func (c *Codec) Verify(tok string) Verification {
	if tok == "" {
		return Verification{Reason: ReasonNoToken}
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 2 {
		return Verification{Reason: ReasonBadFormat}
	}
	encodedPayload, encodedTag := parts[0], parts[1]

	tag, err := b64.DecodeString(encodedTag)
	if err != nil {
		return Verification{Reason: ReasonBadSignatureEncoding}
	}

	if !hmac.Equal(tag, c.tag(encodedPayload)) {
		return Verification{Reason: ReasonBadSignature}
	}

	payloadJSON, err := b64.DecodeString(encodedPayload)
	if err != nil {
		return Verification{Reason: ReasonBadPayload}
	}

	var p Payload
	if err := json.Unmarshal(payloadJSON, &p); err != nil {
		return Verification{Reason: ReasonBadPayload}
	}

	if p.Exp != 0 && c.now().Unix() > p.Exp {
		return Verification{Payload: &p, Reason: ReasonExpired}
	}

	return Verification{Valid: true, Payload: &p}
}
