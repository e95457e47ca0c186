package crypto

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PigeonSessionWindow is the rotation window for the pigeon session ID.
const PigeonSessionWindow = 20 * time.Minute

// NameUUID derives a deterministic UUID from the seed: MD5 over the raw seed
// bytes with the version and variant bits set for a name-based (v3) UUID.
// There is deliberately no namespace prefix; the server correlates these
// identifiers to a device, so the derivation must stay bit-for-bit stable.
func NameUUID(seed string) string {
	sum := md5.Sum([]byte(seed))

	var u uuid.UUID
	copy(u[:], sum[:])
	u[6] = (u[6] & 0x0f) | 0x30 // version 3
	u[8] = (u[8] & 0x3f) | 0x80 // RFC 4122 variant

	return u.String()
}

// DeviceUUID derives the stable device UUID for an instance seed.
func DeviceUUID(instanceID string) string {
	return NameUUID(instanceID)
}

// AdID derives the stable advertising ID for an instance seed.
func AdID(instanceID string) string {
	return NameUUID(instanceID + "_adid")
}

// PhoneID derives the stable phone ID for an instance seed.
func PhoneID(instanceID string) string {
	return NameUUID(instanceID + "_phone")
}

// AndroidID derives the stable android device ID for an instance seed.
func AndroidID(instanceID string) string {
	seed := md5Hex(instanceID)
	volatileSeed := "12345"

	return "android-" + md5Hex(seed+volatileSeed)[:16]
}

// Jazoest computes the checksum token over the phone ID: "2" followed by the
// decimal sum of its ASCII byte values.
func Jazoest(phoneID string) string {
	sum := 0
	for _, b := range []byte(phoneID) {
		sum += int(b)
	}

	return fmt.Sprintf("2%d", sum)
}

// PigeonSessionID derives the session ID used for analytics correlation. It
// is stable within a PigeonSessionWindow time bucket and rotates when the
// bucket changes.
func PigeonSessionID(deviceUUID string, now time.Time) string {
	return TemporaryUUID("pigeonSessionId", deviceUUID, PigeonSessionWindow, now)
}

// TemporaryUUID derives a deterministic UUID that changes once per window.
func TemporaryUUID(name, deviceUUID string, window time.Duration, now time.Time) string {
	bucket := now.UnixMilli() / window.Milliseconds()

	return NameUUID(fmt.Sprintf("%s%s%d", name, deviceUUID, bucket))
}

func md5Hex(source string) string {
	sum := md5.Sum([]byte(source))
	return hex.EncodeToString(sum[:])
}
