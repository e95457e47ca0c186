// Package crypto implements the request-signing primitives of the SDK:
// deterministic device identity derivation, HMAC signed request bodies, and
// the hybrid RSA+AES-GCM password envelope.
//
// Everything in this package is pure and referentially transparent (apart
// from the random key material inside the password envelope); identical
// inputs always produce identical outputs, which the server relies on to
// correlate requests to a device.
package crypto
