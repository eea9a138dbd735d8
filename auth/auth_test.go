// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
)

func isHex(s string) bool {
	_, err := hex.DecodeString(s)
	return err == nil
}

func isBase62(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')) {
			return false
		}
	}
	return s != ""
}

func TestGenerateID(t *testing.T) {
	for _, byteLen := range []int{8, 16, 24} {
		id, err := GenerateID(byteLen)
		if err != nil {
			t.Fatalf("GenerateID(%d) error = %v", byteLen, err)
		}
		if len(id) != byteLen*2 || !isHex(id) {
			t.Errorf("GenerateID(%d) = %q, want %d hex chars", byteLen, id, byteLen*2)
		}
	}

	a, _ := GenerateID(16)
	b, _ := GenerateID(16)
	if a == b {
		t.Error("GenerateID() produced the same ID twice")
	}
}

func TestSign(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("salt"))
	mac.Write([]byte("election-1"))
	want := mac.Sum(nil)

	got := sign("election-1", "salt")
	if !bytes.Equal(got, want) {
		t.Errorf("sign() = %x, want %x", got, want)
	}
	if len(got) != sha256.Size {
		t.Errorf("sign() length = %d, want %d", len(got), sha256.Size)
	}

	tests := []struct {
		name      string
		msg, salt string
	}{
		{"different message", "election-2", "salt"},
		{"different salt", "election-1", "pepper"},
		{"empty salt", "election-1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if bytes.Equal(sign(tt.msg, tt.salt), want) {
				t.Errorf("sign(%q, %q) collided with the reference signature", tt.msg, tt.salt)
			}
		})
	}
}

func TestRandomToken(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantLen int // unpadded base64 of n bytes
	}{
		{"one block", 3, 4},
		{"padding trimmed", 16, 22},
		{"voter token size", 24, 32},
		{"csrf token size", 32, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := randomToken(tt.n)
			if err != nil {
				t.Fatalf("randomToken(%d) error = %v", tt.n, err)
			}
			if len(token) != tt.wantLen {
				t.Errorf("randomToken(%d) length = %d, want %d", tt.n, len(token), tt.wantLen)
			}
			raw, err := base64.RawURLEncoding.DecodeString(token)
			if err != nil {
				t.Fatalf("randomToken(%d) = %q is not unpadded URL base64: %v", tt.n, token, err)
			}
			if len(raw) != tt.n {
				t.Errorf("randomToken(%d) decodes to %d bytes", tt.n, len(raw))
			}
		})
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, _ := randomToken(16)
		if seen[token] {
			t.Fatalf("randomToken() repeated %q", token)
		}
		seen[token] = true
	}
}

func TestAdminKey(t *testing.T) {
	const salt = "admin-salt"
	key := GenerateAdminKey("election-1", salt)

	want := base64.RawURLEncoding.EncodeToString(sign("election-1", salt))
	if key != want {
		t.Errorf("GenerateAdminKey() = %q, want %q", key, want)
	}
	if GenerateAdminKey("election-1", salt) != key {
		t.Error("GenerateAdminKey() is not deterministic")
	}
	if strings.Contains(key, "=") {
		t.Error("GenerateAdminKey() kept base64 padding")
	}

	tests := []struct {
		name       string
		electionID string
		adminKey   string
		salt       string
		wantErr    bool
	}{
		{"valid key", "election-1", key, salt, false},
		{"key for another election", "election-2", key, salt, true},
		{"rotated salt", "election-1", key, "new-salt", true},
		{"truncated key", "election-1", key[:len(key)-1], salt, true},
		{"empty key", "election-1", "", salt, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateAdminKey(tt.electionID, tt.adminKey, tt.salt)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAdminKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidAdminKey) {
				t.Errorf("ValidateAdminKey() error = %v, want %v", err, ErrInvalidAdminKey)
			}
		})
	}
}

func TestVoterAndCSRFTokens(t *testing.T) {
	voter, err := GenerateVoterToken()
	if err != nil {
		t.Fatalf("GenerateVoterToken() error = %v", err)
	}
	csrf, err := GenerateCSRFToken()
	if err != nil {
		t.Fatalf("GenerateCSRFToken() error = %v", err)
	}

	if len(voter) != 32 {
		t.Errorf("voter token length = %d, want 32", len(voter))
	}
	if len(csrf) != 43 {
		t.Errorf("csrf token length = %d, want 43", len(csrf))
	}

	other, _ := GenerateCSRFToken()

	tests := []struct {
		name     string
		expected string
		got      string
		wantErr  bool
	}{
		{"matching", csrf, csrf, false},
		{"token from another session", csrf, other, true},
		{"missing header", csrf, "", true},
		{"session without token", "", "", true},
		{"prefix only", csrf, csrf[:10], true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCSRFToken(tt.expected, tt.got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateCSRFToken() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrInvalidCSRF) {
				t.Errorf("ValidateCSRFToken() error = %v, want %v", err, ErrInvalidCSRF)
			}
		})
	}
}

func TestShareSlug(t *testing.T) {
	slug := GenerateShareSlug("election-1", "slug-salt")

	if !isBase62(slug) || len(slug) > 11 {
		t.Errorf("GenerateShareSlug() = %q, want at most 11 base62 chars", slug)
	}
	if GenerateShareSlug("election-1", "slug-salt") != slug {
		t.Error("GenerateShareSlug() is not deterministic")
	}
	if slug != base62Encode(sign("election-1", "slug-salt")[:8]) {
		t.Error("GenerateShareSlug() should encode the first 8 signature bytes")
	}
	if GenerateShareSlug("election-2", "slug-salt") == slug {
		t.Error("different elections share a slug")
	}
	if GenerateShareSlug("election-1", "other-salt") == slug {
		t.Error("different salts share a slug")
	}
}

func TestBase62Encode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		want  string
	}{
		{"zero", []byte{0, 0, 0, 0}, "0"},
		{"one", []byte{0, 0, 0, 1}, "1"},
		{"last digit", []byte{61}, "Z"},
		{"first carry", []byte{62}, "10"},
		{"max uint64", []byte{255, 255, 255, 255, 255, 255, 255, 255}, "lYGhA16ahyf"},
		{"extra bytes ignored", []byte{0, 0, 0, 0, 0, 0, 0, 1, 9, 9}, "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base62Encode(tt.input); got != tt.want {
				t.Errorf("base62Encode(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestHashIP(t *testing.T) {
	hash := HashIP("192.168.1.1", "ip-salt")

	if len(hash) != 16 || !isHex(hash) {
		t.Errorf("HashIP() = %q, want 16 hex chars", hash)
	}
	if hash != hex.EncodeToString(sign("192.168.1.1", "ip-salt")[:8]) {
		t.Error("HashIP() should encode the first 8 signature bytes")
	}
	if HashIP("192.168.1.2", "ip-salt") == hash {
		t.Error("different IPs share a hash")
	}
	if HashIP("192.168.1.1", "other-salt") == hash {
		t.Error("different salts share a hash")
	}
	if HashIP("2001:db8::1", "ip-salt") == hash {
		t.Error("IPv6 address collided with IPv4 hash")
	}
}

func BenchmarkGenerateAdminKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateAdminKey("election-123", "admin-salt")
	}
}

func BenchmarkGenerateShareSlug(b *testing.B) {
	for i := 0; i < b.N; i++ {
		GenerateShareSlug("election-123", "slug-salt")
	}
}
