package utils

import (
	"crypto/rand"
	"encoding/base64"
)

// inviteTokenBytes is the entropy of an invite token. 32 random bytes make
// brute-force guessing infeasible.
const inviteTokenBytes = 32

// GenerateInviteToken returns a URL-safe random token for invite links.
func GenerateInviteToken() (string, error) {
	buf := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
