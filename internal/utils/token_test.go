package utils

import (
	"strings"
	"testing"
)

func TestGenerateInviteToken(t *testing.T) {
	token, err := GenerateInviteToken()
	if err != nil {
		t.Fatalf("GenerateInviteToken() error = %v", err)
	}

	if token == "" {
		t.Error("GenerateInviteToken() returned empty token")
	}

	// 32 bytes of entropy in unpadded base64 is 43 characters
	if len(token) != 43 {
		t.Errorf("token length = %d, expected 43", len(token))
	}
}

func TestGenerateInviteToken_URLSafe(t *testing.T) {
	token, err := GenerateInviteToken()
	if err != nil {
		t.Fatalf("GenerateInviteToken() error = %v", err)
	}

	for _, ch := range []string{"+", "/", "=", " "} {
		if strings.Contains(token, ch) {
			t.Errorf("token contains non-URL-safe character %q: %s", ch, token)
		}
	}
}

func TestGenerateInviteToken_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateInviteToken()
		if err != nil {
			t.Fatalf("GenerateInviteToken() error = %v", err)
		}
		if seen[token] {
			t.Fatalf("duplicate token generated: %s", token)
		}
		seen[token] = true
	}
}
