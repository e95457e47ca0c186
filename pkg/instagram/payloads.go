package instagram

import (
	"encoding/json"

	"igkit/pkg/crypto"
	"igkit/pkg/session"
)

// Request payloads are fully-specified immutable structs; signing is a pure
// final step over their canonical JSON encoding.

type loginPayload struct {
	PhoneID           string `json:"phone_id"`
	CSRFToken         string `json:"_csrftoken"`
	Username          string `json:"username"`
	AdID              string `json:"adid"`
	GUID              string `json:"guid"`
	DeviceID          string `json:"device_id"`
	GoogleTokens      string `json:"google_tokens"`
	EncPassword       string `json:"enc_password"`
	Jazoest           string `json:"jazoest"`
	LoginAttemptCount int    `json:"login_attempt_count"`
}

type twoFactorPayload struct {
	VerificationCode    string `json:"verification_code"`
	TwoFactorIdentifier string `json:"two_factor_identifier"`
	CSRFToken           string `json:"_csrftoken"`
	Username            string `json:"username"`
	DeviceID            string `json:"device_id"`
	Password            string `json:"password"`
}

type launcherSyncPayload struct {
	CSRFToken             string `json:"csrftoken"`
	ID                    string `json:"id"`
	ServerConfigRetrieval string `json:"server_config_retrieval"`
}

type prefillCandidatesPayload struct {
	AndroidDeviceID string `json:"android_device_id"`
	Usages          string `json:"usages"`
	DeviceID        string `json:"device_id"`
}

type contactPointPrefillPayload struct {
	PhoneID   string `json:"phone_id"`
	CSRFToken string `json:"_csrftoken"`
	Usage     string `json:"usage"`
}

type challengeSelectPayload struct {
	GUID      string `json:"guid"`
	DeviceID  string `json:"device_id"`
	CSRFToken string `json:"_csrftoken"`
	Choice    int    `json:"choice"`
}

type challengeSubmitPayload struct {
	GUID         string `json:"guid"`
	DeviceID     string `json:"device_id"`
	CSRFToken    string `json:"_csrftoken"`
	SecurityCode string `json:"security_code"`
}

// authenticatedPayload is the base of signed payloads issued after login
type authenticatedPayload struct {
	UUID      string `json:"_uuid"`
	UID       string `json:"_uid"`
	CSRFToken string `json:"_csrftoken"`
	UserID    string `json:"user_id,omitempty"`
}

func newAuthenticatedPayload(snap session.Snapshot) authenticatedPayload {
	return authenticatedPayload{
		UUID:      snap.DeviceUUID,
		UID:       snap.PrimaryKey,
		CSRFToken: snap.CSRFToken,
	}
}

// signPayload encodes a payload struct to JSON and wraps it in the signed
// body wire format.
func signPayload(payload interface{}) (string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	return crypto.SignedBody(string(data)), nil
}

// Response shapes for the authentication flows

type loggedInUser struct {
	PK       json.Number `json:"pk"`
	Username string      `json:"username"`
}

type loginResponse struct {
	Status       string        `json:"status"`
	Message      string        `json:"message"`
	LoggedInUser *loggedInUser `json:"logged_in_user"`

	TwoFactorRequired bool `json:"two_factor_required"`
	TwoFactorInfo     *struct {
		TwoFactorIdentifier string `json:"two_factor_identifier"`
		Username            string `json:"username"`
	} `json:"two_factor_info"`

	Challenge *struct {
		URL     string `json:"url"`
		APIPath string `json:"api_path"`
	} `json:"challenge"`

	InvalidCredentials bool `json:"invalid_credentials"`
}

type challengeStateResponse struct {
	Status   string          `json:"status"`
	Message  string          `json:"message"`
	StepName string          `json:"step_name"`
	StepData json.RawMessage `json:"step_data"`
}

type challengeSubmitResponse struct {
	Status       string        `json:"status"`
	Message      string        `json:"message"`
	StepName     string        `json:"step_name"`
	LoggedInUser *loggedInUser `json:"logged_in_user"`
}
