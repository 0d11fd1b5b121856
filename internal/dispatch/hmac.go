package dispatch

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// VerifySignature checks a GitHub X-Hub-Signature-256 header against the raw
// request body.
//
// An empty secret means open mode: verification is skipped and the function
// returns true regardless of the header. This is an operational fallback for
// environments where the secret is not provisioned; the caller is responsible
// for logging it as a warning rather than accepting it silently.
//
// Verification must run over the exact bytes received, before any JSON
// decoding: re-serialising the payload changes whitespace and key order and
// breaks the MAC.
func VerifySignature(body []byte, signature, secret string) bool {
	if secret == "" {
		return true
	}

	const prefix = "sha256="
	if !strings.HasPrefix(signature, prefix) {
		return false
	}

	provided, err := hex.DecodeString(strings.TrimPrefix(signature, prefix))
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := mac.Sum(nil)

	// Constant-time comparison to prevent timing attacks. A length mismatch
	// is a mismatch.
	return subtle.ConstantTimeCompare(expected, provided) == 1
}

// SignBody computes the GitHub-format signature ("sha256=" + hex HMAC) for a
// body. Used by tests to build valid requests.
func SignBody(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
