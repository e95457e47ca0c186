package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/binary"
	"encoding/pem"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestKeyPair generates an RSA key and wraps the public half the way the
// server delivers it: PEM armor, then base64 over the whole PEM text.
func newTestKeyPair(t *testing.T) (*rsa.PrivateKey, string) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	der, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)

	pemText := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return key, base64.StdEncoding.EncodeToString(pemText)
}

// openEnvelope decrypts the password envelope using the test private key and
// returns the recovered plaintext.
func openEnvelope(t *testing.T, key *rsa.PrivateKey, envelope, unixTime string) ([]byte, error) {
	t.Helper()

	raw, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(raw), 2+gcmIVSize+2+gcmTagSize)
	iv := raw[2 : 2+gcmIVSize]
	rsaLen := int(binary.LittleEndian.Uint16(raw[2+gcmIVSize : 2+gcmIVSize+2]))
	rest := raw[2+gcmIVSize+2:]

	require.GreaterOrEqual(t, len(rest), rsaLen+gcmTagSize)
	rsaBlob := rest[:rsaLen]
	tag := rest[rsaLen : rsaLen+gcmTagSize]
	ciphertext := rest[rsaLen+gcmTagSize:]

	aesKey, err := rsa.DecryptPKCS1v15(nil, key, rsaBlob)
	require.NoError(t, err)
	require.Len(t, aesKey, aesKeySize)

	block, err := aes.NewCipher(aesKey)
	require.NoError(t, err)
	gcm, err := cipher.NewGCM(block)
	require.NoError(t, err)

	sealed := append(append([]byte{}, ciphertext...), tag...)
	return gcm.Open(nil, iv, sealed, []byte(unixTime))
}

func TestEncryptPasswordRoundTrip(t *testing.T) {
	key, publicKey := newTestKeyPair(t)

	envelope, encErr := EncryptPassword(publicKey, 209, "1635555555", "hunter2!")
	require.Nil(t, encErr)

	plaintext, err := openEnvelope(t, key, envelope, "1635555555")
	require.NoError(t, err)
	assert.Equal(t, "hunter2!", string(plaintext))
}

func TestEncryptPasswordEnvelopeLayout(t *testing.T) {
	_, publicKey := newTestKeyPair(t)

	envelope, encErr := EncryptPassword(publicKey, 209, "1635555555", "hunter2!")
	require.Nil(t, encErr)

	raw, err := base64.StdEncoding.DecodeString(envelope)
	require.NoError(t, err)

	assert.Equal(t, byte(1), raw[0], "envelope version")
	assert.Equal(t, byte(209), raw[1], "public key ID")

	rsaLen := binary.LittleEndian.Uint16(raw[2+gcmIVSize : 2+gcmIVSize+2])
	assert.Equal(t, uint16(256), rsaLen, "2048-bit RSA blob length")

	// version + keyID + IV + length + RSA blob + tag + ciphertext("hunter2!")
	assert.Len(t, raw, 2+gcmIVSize+2+256+gcmTagSize+len("hunter2!"))
}

func TestEncryptPasswordBindsTimestamp(t *testing.T) {
	key, publicKey := newTestKeyPair(t)

	envelope, encErr := EncryptPassword(publicKey, 209, "1635555555", "hunter2!")
	require.Nil(t, encErr)

	// A different timestamp must fail AEAD verification
	_, err := openEnvelope(t, key, envelope, "1635555556")
	assert.Error(t, err)
}

func TestEncryptPasswordMalformedKey(t *testing.T) {
	t.Run("not base64", func(t *testing.T) {
		_, err := EncryptPassword("%%%", 209, "0", "pw")
		require.NotNil(t, err)
		assert.Equal(t, "malformed password encryption key", err.Message)
	})

	t.Run("missing PEM armor", func(t *testing.T) {
		bare := base64.StdEncoding.EncodeToString([]byte("no armor here"))
		_, err := EncryptPassword(bare, 209, "0", "pw")
		require.NotNil(t, err)
	})
}

func TestEncryptedPasswordField(t *testing.T) {
	key, publicKey := newTestKeyPair(t)
	now := time.Unix(1635555555, 0)

	field, encErr := EncryptedPasswordField(publicKey, 209, "hunter2!", now)
	require.Nil(t, encErr)

	parts := strings.SplitN(field, ":", 4)
	require.Len(t, parts, 4)
	assert.Equal(t, "#PWD_INSTAGRAM", parts[0])
	assert.Equal(t, "4", parts[1])
	assert.Equal(t, "1635555555", parts[2])

	plaintext, err := openEnvelope(t, key, parts[3], parts[2])
	require.NoError(t, err)
	assert.Equal(t, "hunter2!", string(plaintext))
}

func TestExtractPublicKeyContents(t *testing.T) {
	_, publicKey := newTestKeyPair(t)

	contents, err := ExtractPublicKeyContents(publicKey)
	require.NoError(t, err)

	assert.NotContains(t, contents, "BEGIN")
	_, err = base64.StdEncoding.DecodeString(contents)
	assert.NoError(t, err)
}
