package crypto

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"igkit/pkg/errors"
)

const (
	gcmTagSize = 16
	gcmIVSize  = 12
	aesKeySize = 32

	publicKeyPrefix = "-----BEGIN PUBLIC KEY-----"
	publicKeySuffix = "-----END PUBLIC KEY-----"

	passwordEncryptionVersion = 4
)

// EncryptPassword builds the hybrid RSA+AES-GCM password envelope consumed
// by the login endpoint. The server-issued public key arrives as a
// base64-wrapped PEM; the timestamp string is bound into the AEAD as
// additional authenticated data. Binary layout:
//
//	[version=1][keyID][IV 12B][LE uint16 RSA blob len][RSA blob][GCM tag 16B][ciphertext]
//
// Any failure in a crypto primitive aborts the login attempt; there is no
// plaintext fallback.
func EncryptPassword(publicKey string, publicKeyID int, unixTime string, password string) (string, *errors.Error) {
	rsaKey, err := parsePublicKey(publicKey)
	if err != nil {
		return "", errors.Crypto("malformed password encryption key", err)
	}

	aesKey := make([]byte, aesKeySize)
	if _, err := rand.Read(aesKey); err != nil {
		return "", errors.Crypto("failed to generate session key", err)
	}

	iv := make([]byte, gcmIVSize)
	if _, err := rand.Read(iv); err != nil {
		return "", errors.Crypto("failed to generate IV", err)
	}

	rsaEncrypted, err := rsa.EncryptPKCS1v15(rand.Reader, rsaKey, aesKey)
	if err != nil {
		return "", errors.Crypto("failed to encrypt session key", err)
	}

	block, err := aes.NewCipher(aesKey)
	if err != nil {
		return "", errors.Crypto("failed to initialize cipher", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", errors.Crypto("failed to initialize cipher", err)
	}

	sealed := gcm.Seal(nil, iv, []byte(password), []byte(unixTime))
	ciphertext := sealed[:len(sealed)-gcmTagSize]
	tag := sealed[len(sealed)-gcmTagSize:]

	sizeBuffer := make([]byte, 2)
	binary.LittleEndian.PutUint16(sizeBuffer, uint16(len(rsaEncrypted)))

	var envelope bytes.Buffer
	envelope.WriteByte(1)
	envelope.WriteByte(byte(publicKeyID))
	envelope.Write(iv)
	envelope.Write(sizeBuffer)
	envelope.Write(rsaEncrypted)
	envelope.Write(tag)
	envelope.Write(ciphertext)

	return base64.StdEncoding.EncodeToString(envelope.Bytes()), nil
}

// EncryptedPasswordField formats the full enc_password login field for the
// given moment in time.
func EncryptedPasswordField(publicKey string, publicKeyID int, password string, now time.Time) (string, *errors.Error) {
	unixTime := fmt.Sprintf("%d", now.Unix())

	envelope, err := EncryptPassword(publicKey, publicKeyID, unixTime, password)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("#PWD_INSTAGRAM:%d:%s:%s", passwordEncryptionVersion, unixTime, envelope), nil
}

// ExtractPublicKeyContents strips the PEM armor from a base64-wrapped public
// key and returns the inner base64 DER body.
func ExtractPublicKeyContents(publicKey string) (string, error) {
	decoded, err := base64.StdEncoding.DecodeString(publicKey)
	if err != nil {
		return "", fmt.Errorf("public key is not valid base64: %w", err)
	}

	pemText := strings.ReplaceAll(string(decoded), "\n", "")
	if !strings.HasPrefix(pemText, publicKeyPrefix) || !strings.HasSuffix(pemText, publicKeySuffix) {
		return "", fmt.Errorf("decoded key must be padded with standard PEM key lines")
	}

	pemText = strings.TrimPrefix(pemText, publicKeyPrefix)
	pemText = strings.TrimSuffix(pemText, publicKeySuffix)

	return pemText, nil
}

func parsePublicKey(publicKey string) (*rsa.PublicKey, error) {
	contents, err := ExtractPublicKeyContents(publicKey)
	if err != nil {
		return nil, err
	}

	der, err := base64.StdEncoding.DecodeString(contents)
	if err != nil {
		return nil, fmt.Errorf("public key body is not valid base64: %w", err)
	}

	parsed, err := x509.ParsePKIXPublicKey(der)
	if err != nil {
		return nil, fmt.Errorf("failed to parse public key: %w", err)
	}

	rsaKey, ok := parsed.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("public key is not an RSA key")
	}

	return rsaKey, nil
}
