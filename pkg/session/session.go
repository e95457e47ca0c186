package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"

	"igkit/pkg/crypto"
)

// Defaults issued to a fresh session before the server has supplied its own
// values. The public key is the bundled fallback used when bootstrap has not
// yet rotated in a server-issued key.
const (
	DefaultClaimToken  = "0"
	DefaultPublicKeyID = 209
	DefaultPublicKey   = "LS0tLS1CRUdJTiBQVUJMSUMgS0VZLS0tLS0KTUlJQklqQU5CZ2txaGtpRzl3MEJBUUVGQUFPQ0FROEFNSUlCQ2dLQ0FRRUFvSkw5RGQzdWliYmRlOWJVYXlDOQpIMXVJb0RsL3BxeEd3Yjd3dGx6cjRSODhwbGI0SUs1aEdUQ2VTN0xUTXBUNk5oWVFGT2VhajhtcitjVlp1Y1FuCmxQUVNiZTJpM3lIbU9DV2h6L0s0WStzRU1lYmJvZUpuZHpPODFPVVhkUjNZWVN3STJTSFdYTTB0VnhRQjlmZjYKZW0xU3QrSkF6MnhhMDBBMTFod1BraUpIOTdGbU54eWlqL2wrcEdEbXJCQUVLbFNMUzQvdGhGNUNmMEpIVFFwbwpDUkU3VjJDaEtTRlQzNVIvY01TdHR2ekdoQ2dtY1Z5M092aTR5d0VCSkpoTGVrQmV1cG5OWTUvL08rOUxobEhwCmVIcVN1cG9MazZSbDhtTGJkK3ptWTRoWVRzeExDRnpQcDJNSGI1NXZ5eWMxRTdJK1RjcVNXMjFQemlyNWFQcWwKYlFJREFRQUIKLS0tLS1FTkQgUFVCTElDIEtFWS0tLS0tCg=="
)

// Response header names the server uses to rotate session tokens.
const (
	headerSetMid         = "ig-set-x-mid"
	headerSetClaim       = "x-ig-set-www-claim"
	headerSetAuth        = "ig-set-authorization"
	headerSetPubKeyID    = "ig-set-password-encryption-key-id"
	headerSetPubKey      = "ig-set-password-encryption-pub-key"
	authPlaceholderValue = "Bearer IGT:2:" // known server placeholder, never persisted
)

// Session is the mutable record of all tokens, cookies and identifiers
// needed to construct valid requests. There is exactly one Session per SDK
// instance; a single lock serializes the interceptor's read-modify-write
// against concurrent readers so a stale token never overwrites a fresher
// one.
type Session struct {
	mu sync.Mutex

	instanceID         string
	primaryKey         string
	csrfToken          string
	midToken           string
	claimToken         string
	authorizationToken string
	publicKey          string
	publicKeyID        int
	cookies            *CookieJar
}

// Snapshot is an immutable view of the session at a point in time, including
// the identifiers derived from the instance seed.
type Snapshot struct {
	InstanceID         string
	PrimaryKey         string
	CSRFToken          string
	MidToken           string
	ClaimToken         string
	AuthorizationToken string
	PublicKey          string
	PublicKeyID        int

	DeviceUUID string
	AndroidID  string
	AdID       string
	PhoneID    string
	Jazoest    string

	CookieHeader string
	Cookies      []string
}

// RankToken is the pagination correlation key for ranked endpoints.
func (s Snapshot) RankToken() string {
	return s.PrimaryKey + "_" + s.DeviceUUID
}

// serializedSession is the persisted wire format for cold-start restore.
type serializedSession struct {
	PrimaryKey         string   `json:"primaryKey"`
	CSRFToken          string   `json:"csrfToken"`
	MidToken           string   `json:"midToken"`
	ClaimToken         string   `json:"claimToken"`
	AuthorizationToken string   `json:"authorizationToken"`
	Cookies            []string `json:"cookies"`
}

// New creates a session with defaults for the given instance seed. The seed
// must be stable across process restarts to keep the derived identifiers
// constant.
func New(instanceID string) *Session {
	return &Session{
		instanceID:  instanceID,
		claimToken:  DefaultClaimToken,
		publicKey:   DefaultPublicKey,
		publicKeyID: DefaultPublicKeyID,
		cookies:     NewCookieJar(),
	}
}

// Restore rehydrates a session from its serialized form. A blank data string
// is treated as "no prior session"; each missing or blank field falls back
// to the default value individually.
func Restore(instanceID, data string) (*Session, error) {
	s := New(instanceID)
	if data == "" {
		return s, nil
	}

	var stored serializedSession
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		return nil, fmt.Errorf("failed to parse serialized session: %w", err)
	}

	if stored.PrimaryKey != "" {
		s.primaryKey = stored.PrimaryKey
	}
	if stored.CSRFToken != "" {
		s.csrfToken = stored.CSRFToken
	}
	if stored.MidToken != "" {
		s.midToken = stored.MidToken
	}
	if stored.ClaimToken != "" {
		s.claimToken = stored.ClaimToken
	}
	if stored.AuthorizationToken != "" {
		s.authorizationToken = stored.AuthorizationToken
	}
	DeserializeCookies(stored.Cookies, s.cookies)

	return s, nil
}

// Serialize writes the session to its persisted JSON form
func (s *Session) Serialize() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(serializedSession{
		PrimaryKey:         s.primaryKey,
		CSRFToken:          s.csrfToken,
		MidToken:           s.midToken,
		ClaimToken:         s.claimToken,
		AuthorizationToken: s.authorizationToken,
		Cookies:            s.cookies.Serialize(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to serialize session: %w", err)
	}

	return string(data), nil
}

// Snapshot returns an immutable copy of the session state plus the derived
// identifiers.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	primaryKey := s.primaryKey
	if primaryKey == "" {
		primaryKey = s.cookies.Get("ds_user_id")
	}

	phoneID := crypto.PhoneID(s.instanceID)

	return Snapshot{
		InstanceID:         s.instanceID,
		PrimaryKey:         primaryKey,
		CSRFToken:          s.csrfToken,
		MidToken:           s.midToken,
		ClaimToken:         s.claimToken,
		AuthorizationToken: s.authorizationToken,
		PublicKey:          s.publicKey,
		PublicKeyID:        s.publicKeyID,
		DeviceUUID:         crypto.DeviceUUID(s.instanceID),
		AndroidID:          crypto.AndroidID(s.instanceID),
		AdID:               crypto.AdID(s.instanceID),
		PhoneID:            phoneID,
		Jazoest:            crypto.Jazoest(phoneID),
		CookieHeader:       s.cookies.Header(),
		Cookies:            s.cookies.Serialize(),
	}
}

// Absorb folds a server response into the session: cookies are merged by
// name, and each rotating token is overwritten only when the corresponding
// header is present and non-blank. Returns the snapshot after the update.
func (s *Session) Absorb(header http.Header, cookies []*http.Cookie) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cookies.Merge(cookies)
	if v := s.cookies.Get("csrftoken"); v != "" {
		s.csrfToken = v
	}

	if v := header.Get(headerSetMid); v != "" {
		s.midToken = v
	}
	if v := header.Get(headerSetClaim); v != "" {
		s.claimToken = v
	}
	if v := header.Get(headerSetAuth); v != "" && v != authPlaceholderValue {
		s.authorizationToken = v
	}
	if v := header.Get(headerSetPubKeyID); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			s.publicKeyID = id
		}
	}
	if v := header.Get(headerSetPubKey); v != "" {
		s.publicKey = v
	}

	return s.snapshotLocked()
}

// SetPrimaryKey records the authenticated user's numeric ID. Set only on a
// successful login or challenge completion.
func (s *Session) SetPrimaryKey(primaryKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.primaryKey = primaryKey
}
