// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidAdminKey = errors.New("invalid admin key")
	ErrInvalidCSRF     = errors.New("invalid anti-forgery token")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// sign returns the HMAC-SHA256 of msg keyed by salt
func sign(msg, salt string) []byte {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(msg))
	return h.Sum(nil)
}

// GenerateAdminKey creates the HMAC-based admin key for an election.
// Deterministic, so it never needs to be stored.
func GenerateAdminKey(electionID, salt string) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sign(electionID, salt)), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the election
func ValidateAdminKey(electionID, adminKey, salt string) error {
	expected := GenerateAdminKey(electionID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// randomToken returns n random bytes as URL-safe base64 without padding
func randomToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateVoterToken creates the secret that identifies a voter in one election
func GenerateVoterToken() (string, error) {
	token, err := randomToken(24)
	if err != nil {
		return "", fmt.Errorf("failed to generate voter token: %w", err)
	}
	return token, nil
}

// GenerateCSRFToken creates a per-session anti-forgery token
func GenerateCSRFToken() (string, error) {
	token, err := randomToken(32)
	if err != nil {
		return "", fmt.Errorf("failed to generate csrf token: %w", err)
	}
	return token, nil
}

// ValidateCSRFToken compares a submitted token with the session's token
func ValidateCSRFToken(expected, got string) error {
	if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(got)) != 1 {
		return ErrInvalidCSRF
	}
	return nil
}

// GenerateShareSlug creates a short, deterministic URL slug for an election
func GenerateShareSlug(electionID, salt string) string {
	return base62Encode(sign(electionID, salt)[:8])
}

// base62Encode converts up to 8 bytes to base62 (0-9, a-z, A-Z)
func base62Encode(data []byte) string {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	var num uint64
	for i := 0; i < len(data) && i < 8; i++ {
		num = num<<8 | uint64(data[i])
	}

	if num == 0 {
		return "0"
	}

	result := make([]byte, 0, 11) // max length for uint64
	for num > 0 {
		result = append(result, base62Chars[num%62])
		num /= 62
	}

	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}

	return string(result)
}

// HashIP creates a one-way hash of an IP address for privacy
func HashIP(ip, salt string) string {
	// First 8 bytes are enough for deduplication
	return hex.EncodeToString(sign(ip, salt)[:8])
}
