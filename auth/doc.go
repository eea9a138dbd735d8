// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(electionID, salt)
	err := auth.ValidateAdminKey(electionID, adminKey, salt)

The key is URL-safe base64 without padding and is never stored.

# Voter and Session Tokens

	token, err := auth.GenerateVoterToken() // 192 bits
	csrf, err := auth.GenerateCSRFToken()   // 256 bits

The CSRF token is handed to the ballot page template when the session is
created and checked by ValidateCSRFToken on logout.

# Share Slugs

	slug := auth.GenerateShareSlug(electionID, salt)

Base62 (alphanumeric only), deterministic from the election ID and salt.

# IP Hashing

	hash := auth.HashIP(ipAddress, salt)

Returns the first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
