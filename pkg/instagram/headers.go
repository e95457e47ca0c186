package instagram

import (
	"fmt"
	"strings"
	"time"

	"igkit/pkg/config"
	"igkit/pkg/crypto"
	"igkit/pkg/session"
)

// Static identifiers of the emulated app build. These rotate together with
// the signing key in the crypto package whenever the emulated version
// changes.
const (
	appVersion     = "121.0.0.29.119"
	appVersionCode = "185203708"
	appID          = "567067343352427"
	bloksVersionID = "1b030ce63a06c25f3e4de6aaaf6802fe1e76401bc5ab6e5fb85ed6c2d333e0c7"
	capabilities   = "3brTvwE="
)

// BuildHeaders assembles the header set for a request from the session
// snapshot and static device metadata. Entries with a blank value are
// omitted entirely; the server distinguishes absent from empty for several
// of these fields.
func BuildHeaders(snap session.Snapshot, device config.DeviceConfig, now time.Time) map[string]string {
	headers := map[string]string{
		"X-IG-App-Locale":             device.Locale,
		"X-IG-Device-Locale":          device.Locale,
		"X-Pigeon-Session-Id":         crypto.PigeonSessionID(snap.DeviceUUID, now),
		"X-Pigeon-Rawclienttime":      fmt.Sprintf("%.3f", float64(now.UnixMilli())/1000.0),
		"X-IG-Connection-Speed":       "-1kbps",
		"X-IG-Bandwidth-Speed-KBPS":   "-1.000",
		"X-IG-Bandwidth-TotalBytes-B": "0",
		"X-IG-Bandwidth-TotalTime-MS": "0",
		"X-Bloks-Version-Id":          bloksVersionID,
		"X-MID":                       snap.MidToken,
		"X-IG-WWW-Claim":              snap.ClaimToken,
		"X-Bloks-Is-Layout-RTL":       "false",
		"X-IG-Device-ID":              snap.DeviceUUID,
		"X-IG-Android-ID":             snap.AndroidID,
		"X-IG-Connection-Type":        "WIFI",
		"X-IG-Capabilities":           capabilities,
		"X-IG-App-ID":                 appID,
		"User-Agent":                  BuildUserAgent(device),
		"Accept-Language":             strings.ReplaceAll(device.Locale, "_", "-"),
		"Accept-Encoding":             "gzip, deflate",
		"X-FB-HTTP-Engine":            "Liger",
		"Connection":                  "close",
		"Cookie":                      snap.CookieHeader,
		"Authorization":               snap.AuthorizationToken,
	}

	for name, value := range headers {
		if value == "" {
			delete(headers, name)
		}
	}

	return headers
}

// BuildUserAgent renders the User-Agent from the device profile. The format
// is a fixed template; any deviation causes the server to reject
// authentication.
func BuildUserAgent(device config.DeviceConfig) string {
	brand := device.Brand
	if brand != "" {
		brand = "/" + brand
	}

	return fmt.Sprintf("Instagram %s Android (%d/%s; %s; %s; %s%s; %s; %s; %s; %s; %s)",
		appVersion,
		device.AndroidVersion,
		device.AndroidRelease,
		device.DPI,
		device.Resolution,
		device.Manufacturer,
		brand,
		device.Model,
		device.Device,
		device.Hardware,
		device.Locale,
		appVersionCode,
	)
}
