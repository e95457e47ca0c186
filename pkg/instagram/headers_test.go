package instagram

import (
	"testing"
	"time"

	"igkit/pkg/config"
	"igkit/pkg/session"

	"github.com/stretchr/testify/assert"
)

func TestBuildUserAgent(t *testing.T) {
	device := config.DefaultConfig().Device

	assert.Equal(t,
		"Instagram 121.0.0.29.119 Android (24/7.0; 640dpi; 1440x2560; samsung; SM-G930F; herolte; samsungexynos8890; en_US; 185203708)",
		BuildUserAgent(device))

	t.Run("brand joins the manufacturer", func(t *testing.T) {
		device.Brand = "google"
		device.Manufacturer = "Google"

		ua := BuildUserAgent(device)
		assert.Contains(t, ua, "; Google/google;")
	})
}

func TestBuildHeaders(t *testing.T) {
	device := config.DefaultConfig().Device
	sess := session.New("flkrFMziAva")
	now := time.UnixMilli(1_200_000_000)

	headers := BuildHeaders(sess.Snapshot(), device, now)

	assert.Equal(t, "en_US", headers["X-IG-App-Locale"])
	assert.Equal(t, "en-US", headers["Accept-Language"])
	assert.Equal(t, "567067343352427", headers["X-IG-App-ID"])
	assert.Equal(t, bloksVersionID, headers["X-Bloks-Version-Id"])
	assert.Equal(t, "10872cce-904e-3543-acd6-2ce750f496dd", headers["X-IG-Device-ID"])
	assert.Equal(t, "android-79ce56c6d1006ab0", headers["X-IG-Android-ID"])
	assert.Equal(t, "77a33feb-f334-3d22-ab62-3abf883d1f98", headers["X-Pigeon-Session-Id"])
	assert.Equal(t, "1200000.000", headers["X-Pigeon-Rawclienttime"])
	assert.Equal(t, "0", headers["X-IG-WWW-Claim"], "fresh session carries the default claim")
	assert.Equal(t, "Liger", headers["X-FB-HTTP-Engine"])
}

func TestBuildHeadersOmitsBlankValues(t *testing.T) {
	device := config.DefaultConfig().Device
	sess := session.New("seed")

	headers := BuildHeaders(sess.Snapshot(), device, time.Now())

	// The server distinguishes absent from empty; blank entries must not be
	// sent at all.
	for _, name := range []string{"X-MID", "Cookie", "Authorization"} {
		_, present := headers[name]
		assert.False(t, present, "%s should be omitted while blank", name)
	}
}

func TestBuildHeadersCarriesSessionState(t *testing.T) {
	device := config.DefaultConfig().Device
	sess, err := session.Restore("seed", `{
		"midToken": "mid-1",
		"claimToken": "claim-1",
		"authorizationToken": "Bearer IGT:2:abc",
		"cookies": ["csrftoken=tok", "sessionid=sid"]
	}`)
	assert.NoError(t, err)

	headers := BuildHeaders(sess.Snapshot(), device, time.Now())

	assert.Equal(t, "mid-1", headers["X-MID"])
	assert.Equal(t, "claim-1", headers["X-IG-WWW-Claim"])
	assert.Equal(t, "Bearer IGT:2:abc", headers["Authorization"])
	assert.Equal(t, "csrftoken=tok; sessionid=sid", headers["Cookie"])
}
