// Package store persists serialized session state across runs.
//
// Two backends are provided: KeyringStore uses the system keychain via
// zalando/go-keyring, and EncryptedFileStore writes an AES-GCM encrypted
// file with a PBKDF2-derived key. Manager chains both, preferring the
// keychain and falling back to the encrypted file.
package store
