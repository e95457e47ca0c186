package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// Signing secrets bundled with the emulated app build. These rotate together
// with the app version constants in the instagram package.
const (
	SigKey     = "a86109795736d73c9a94172cd9b736917d7d94ca61c9101164894b3f0d43bef4"
	SigVersion = "4"
)

// SignedBody produces the signed wire encoding of a JSON payload:
//
//	signed_body=<hex hmac>.<urlencoded payload>&ig_sig_key_version=<version>
//
// The same payload and key always produce the same output.
func SignedBody(jsonPayload string) string {
	return "signed_body=" + Signature(jsonPayload) + "." + url.QueryEscape(jsonPayload) +
		"&ig_sig_key_version=" + SigVersion
}

// Signature computes the lowercase hex HMAC-SHA256 of the payload under the
// bundled signing key.
func Signature(jsonPayload string) string {
	mac := hmac.New(sha256.New, []byte(SigKey))
	mac.Write([]byte(jsonPayload))

	return hex.EncodeToString(mac.Sum(nil))
}
