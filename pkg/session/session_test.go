package session

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionDefaults(t *testing.T) {
	s := New("flkrFMziAva")
	snap := s.Snapshot()

	assert.Equal(t, "flkrFMziAva", snap.InstanceID)
	assert.Equal(t, DefaultClaimToken, snap.ClaimToken)
	assert.Equal(t, DefaultPublicKey, snap.PublicKey)
	assert.Equal(t, DefaultPublicKeyID, snap.PublicKeyID)
	assert.Empty(t, snap.PrimaryKey)
	assert.Empty(t, snap.CSRFToken)
}

func TestSnapshotDerivedIdentifiers(t *testing.T) {
	s := New("flkrFMziAva")
	snap := s.Snapshot()

	assert.Equal(t, "10872cce-904e-3543-acd6-2ce750f496dd", snap.DeviceUUID)
	assert.Equal(t, "android-79ce56c6d1006ab0", snap.AndroidID)
	assert.Equal(t, "cbbeee9d-a99e-37fa-87aa-04d69cacd7ce", snap.AdID)
	assert.Equal(t, "b8b3a085-02d1-3624-814f-c7c7dc6d9a06", snap.PhoneID)
	assert.Equal(t, "22367", snap.Jazoest)
}

func TestRankToken(t *testing.T) {
	s := New("flkrFMziAva")
	s.SetPrimaryKey("1234567")

	assert.Equal(t, "1234567_10872cce-904e-3543-acd6-2ce750f496dd", s.Snapshot().RankToken())
}

func TestSerializeRestoreRoundTrip(t *testing.T) {
	s := New("seed")
	s.SetPrimaryKey("42")
	s.Absorb(
		http.Header{
			"Ig-Set-X-Mid":       []string{"mid-token"},
			"X-Ig-Set-Www-Claim": []string{"claim-token"},
			"Ig-Set-Authorization": []string{
				"Bearer IGT:2:payload",
			},
		},
		[]*http.Cookie{
			{Name: "csrftoken", Value: "csrf-value"},
			{Name: "sessionid", Value: "session-value"},
		},
	)

	data, err := s.Serialize()
	require.NoError(t, err)

	restored, err := Restore("seed", data)
	require.NoError(t, err)

	snap := restored.Snapshot()
	assert.Equal(t, "42", snap.PrimaryKey)
	assert.Equal(t, "csrf-value", snap.CSRFToken)
	assert.Equal(t, "mid-token", snap.MidToken)
	assert.Equal(t, "claim-token", snap.ClaimToken)
	assert.Equal(t, "Bearer IGT:2:payload", snap.AuthorizationToken)
	assert.Contains(t, snap.CookieHeader, "sessionid=session-value")
	assert.Contains(t, snap.CookieHeader, "csrftoken=csrf-value")
}

func TestRestoreBlankData(t *testing.T) {
	s, err := Restore("seed", "")
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, DefaultClaimToken, snap.ClaimToken)
	assert.Equal(t, DefaultPublicKeyID, snap.PublicKeyID)
}

func TestRestoreInvalidData(t *testing.T) {
	_, err := Restore("seed", "{not json")
	assert.Error(t, err)
}

func TestRestorePartialData(t *testing.T) {
	// Missing fields fall back to defaults individually
	s, err := Restore("seed", `{"csrfToken":"abc"}`)
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, "abc", snap.CSRFToken)
	assert.Equal(t, DefaultClaimToken, snap.ClaimToken)
}

func TestAbsorbTokenRotation(t *testing.T) {
	s := New("seed")

	s.Absorb(http.Header{
		"Ig-Set-X-Mid":                      []string{"first-mid"},
		"Ig-Set-Password-Encryption-Key-Id": []string{"210"},
		"Ig-Set-Password-Encryption-Pub-Key": []string{
			"rotated-key",
		},
	}, nil)

	snap := s.Snapshot()
	assert.Equal(t, "first-mid", snap.MidToken)
	assert.Equal(t, 210, snap.PublicKeyID)
	assert.Equal(t, "rotated-key", snap.PublicKey)
}

func TestAbsorbBlankNeverOverwrites(t *testing.T) {
	s := New("seed")
	s.Absorb(http.Header{
		"Ig-Set-X-Mid":       []string{"kept-mid"},
		"X-Ig-Set-Www-Claim": []string{"kept-claim"},
	}, nil)

	// A later response without the headers must not clear the tokens
	snap := s.Absorb(http.Header{}, nil)

	assert.Equal(t, "kept-mid", snap.MidToken)
	assert.Equal(t, "kept-claim", snap.ClaimToken)
}

func TestAbsorbAuthorizationPlaceholder(t *testing.T) {
	s := New("seed")
	s.Absorb(http.Header{
		"Ig-Set-Authorization": []string{"Bearer IGT:2:real-token"},
	}, nil)

	// The bare placeholder the server sends on logout-adjacent responses
	// must never replace a real bearer token
	snap := s.Absorb(http.Header{
		"Ig-Set-Authorization": []string{"Bearer IGT:2:"},
	}, nil)

	assert.Equal(t, "Bearer IGT:2:real-token", snap.AuthorizationToken)
}

func TestAbsorbInvalidPublicKeyID(t *testing.T) {
	s := New("seed")

	snap := s.Absorb(http.Header{
		"Ig-Set-Password-Encryption-Key-Id": []string{"not-a-number"},
	}, nil)

	assert.Equal(t, DefaultPublicKeyID, snap.PublicKeyID)
}

func TestAbsorbCSRFFromCookie(t *testing.T) {
	s := New("seed")

	snap := s.Absorb(http.Header{}, []*http.Cookie{
		{Name: "csrftoken", Value: "from-cookie"},
	})

	assert.Equal(t, "from-cookie", snap.CSRFToken)
}

func TestPrimaryKeyFallsBackToCookie(t *testing.T) {
	s := New("seed")
	s.Absorb(http.Header{}, []*http.Cookie{
		{Name: "ds_user_id", Value: "987654"},
	})

	assert.Equal(t, "987654", s.Snapshot().PrimaryKey)

	// An explicit primary key wins over the cookie
	s.SetPrimaryKey("111")
	assert.Equal(t, "111", s.Snapshot().PrimaryKey)
}
