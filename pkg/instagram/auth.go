package instagram

import (
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"igkit/pkg/crypto"
	"igkit/pkg/errors"
	"igkit/pkg/logger"
)

// Verification methods accepted by SelectChallengeMethod
const (
	AuthMethodPhone = "phone"
	AuthMethodEmail = "email"
)

const errInvalidCredentials = "Invalid username or password."

// Authentication drives the login state machine: bootstrap, login,
// two-factor, the challenge sub-flow, and logout. All signed payloads are
// built from the current session snapshot; session state is updated by the
// transport interceptor identically on every path.
type Authentication struct {
	client *Client
	logger logger.Logger
}

func newAuthentication(client *Client) *Authentication {
	return &Authentication{client: client, logger: client.logger}
}

// Bootstrap acquires a CSRF token for an unauthenticated session: a GET
// that seeds the cookie jar followed by a signed launcher sync against the
// bootstrap host. Returns the token extracted from the session afterwards.
func (a *Authentication) Bootstrap() (string, *errors.Error) {
	snap := a.client.session.Snapshot()

	params := url.Values{}
	params.Set("challenge_type", "signup")
	params.Set("guid", snap.DeviceUUID)

	if _, err := a.client.Get(pathCSRFToken, params); err != nil {
		return "", err
	}

	snap = a.client.session.Snapshot()
	body, err := signPayload(launcherSyncPayload{
		CSRFToken:             snap.CSRFToken,
		ID:                    snap.DeviceUUID,
		ServerConfigRetrieval: "1",
	})
	if err != nil {
		return "", &errors.Error{Type: errors.ErrorTypeUnknown, Message: err.Error()}
	}

	if _, err := a.client.PostBootstrap(pathLauncherSync, body); err != nil {
		return "", err
	}

	snap = a.client.session.Snapshot()
	if snap.CSRFToken == "" {
		return "", &errors.Error{Type: errors.ErrorTypeUnknown, Code: 412, Message: "Unable to fetch token for use"}
	}

	return snap.CSRFToken, nil
}

// PrefillCandidates issues the account recovery prefill bootstrap call.
// Part of the pre-login warm-up sequence; failures are not fatal to login.
func (a *Authentication) PrefillCandidates() *errors.Error {
	snap := a.client.session.Snapshot()

	body, err := signPayload(prefillCandidatesPayload{
		AndroidDeviceID: snap.AndroidID,
		Usages:          `["account_recovery_omnibox"]`,
		DeviceID:        snap.DeviceUUID,
	})
	if err != nil {
		return &errors.Error{Type: errors.ErrorTypeUnknown, Message: err.Error()}
	}

	_, apiErr := a.client.PostBootstrap(pathPrefillCandidates, body)
	return apiErr
}

// ContactPointPrefill issues the contact point prefill bootstrap call
func (a *Authentication) ContactPointPrefill() *errors.Error {
	snap := a.client.session.Snapshot()

	body, err := signPayload(contactPointPrefillPayload{
		PhoneID:   snap.PhoneID,
		CSRFToken: snap.CSRFToken,
		Usage:     "prefill",
	})
	if err != nil {
		return &errors.Error{Type: errors.ErrorTypeUnknown, Message: err.Error()}
	}

	_, apiErr := a.client.PostBootstrap(pathContactPointPrefill, body)
	return apiErr
}

// Authenticate logs the user in. When the session already holds a CSRF
// token the bootstrap phase is skipped; otherwise it runs first and a blank
// resulting token is a terminal AuthTokenFailure.
func (a *Authentication) Authenticate(username, password string) AuthResult {
	return a.AuthenticateWithToken(username, password, a.client.session.Snapshot().CSRFToken)
}

// AuthenticateWithToken logs the user in with an explicit CSRF token,
// bootstrapping only when the token is blank.
func (a *Authentication) AuthenticateWithToken(username, password, token string) AuthResult {
	if token != "" {
		return a.login(username, password, token)
	}

	token, err := a.Bootstrap()
	if err != nil {
		return AuthTokenFailure{Code: err.Code, Message: err.Message}
	}

	return a.login(username, password, token)
}

func (a *Authentication) login(username, password, token string) AuthResult {
	snap := a.client.session.Snapshot()

	encPassword, cryptoErr := crypto.EncryptedPasswordField(snap.PublicKey, snap.PublicKeyID, password, time.Now())
	if cryptoErr != nil {
		// No plaintext fallback: a crypto failure aborts the attempt.
		a.logger.ErrorWithFields("password encryption failed", map[string]interface{}{
			"error": cryptoErr.Error(),
		})
		return AuthFailure{Code: cryptoErr.Code, Message: cryptoErr.Message, Cause: cryptoErr}
	}

	body, err := signPayload(loginPayload{
		PhoneID:           snap.PhoneID,
		CSRFToken:         token,
		Username:          username,
		AdID:              snap.AdID,
		GUID:              snap.DeviceUUID,
		DeviceID:          snap.AndroidID,
		GoogleTokens:      "[]",
		EncPassword:       encPassword,
		Jazoest:           snap.Jazoest,
		LoginAttemptCount: 1,
	})
	if err != nil {
		return AuthFailure{Message: err.Error()}
	}

	res, apiErr := a.client.Post(pathLogin, body)
	if apiErr != nil {
		return AuthFailure{Code: apiErr.Code, Message: apiErr.Message, Cause: apiErr}
	}

	switch res.StatusCode {
	case 200:
		pk, sessionData := a.recordLogin(res)
		return AuthSuccess{PrimaryKey: pk, SessionData: sessionData, Body: res.Body}
	case 400:
		var parsed loginResponse
		if err := res.JSON(&parsed); err != nil {
			return AuthFailure{Code: res.StatusCode, Message: res.Text()}
		}

		switch {
		case parsed.TwoFactorRequired:
			identifier := ""
			if parsed.TwoFactorInfo != nil {
				identifier = parsed.TwoFactorInfo.TwoFactorIdentifier
			}
			return AuthTwoFactorRequired{
				Identifier: identifier,
				Token:      token,
				DeviceID:   snap.AndroidID,
				Info:       res.Body,
			}
		case parsed.Challenge != nil:
			challenge, _ := json.Marshal(parsed.Challenge)
			return AuthChallengeRequired{Path: parsed.Challenge.APIPath, Challenge: challenge}
		case parsed.InvalidCredentials:
			return AuthInvalidCredentials{Message: errInvalidCredentials}
		default:
			return AuthFailure{Code: res.StatusCode, Message: res.Text()}
		}
	default:
		return AuthFailure{Code: res.StatusCode, Message: res.Text()}
	}
}

// TwoFactorLogin completes a login that required a two-factor code. The
// code is whitespace-stripped before signing; identifier and token come
// from the preceding AuthTwoFactorRequired result.
func (a *Authentication) TwoFactorLogin(code, identifier, token, username, password string) TwoFactorResult {
	snap := a.client.session.Snapshot()

	body, err := signPayload(twoFactorPayload{
		VerificationCode:    stripWhitespace(code),
		TwoFactorIdentifier: identifier,
		CSRFToken:           token,
		Username:            username,
		DeviceID:            snap.AndroidID,
		Password:            password,
	})
	if err != nil {
		return TwoFactorFailure{Message: err.Error()}
	}

	res, apiErr := a.client.Post(pathTwoFactorLogin, body)
	if apiErr != nil {
		return TwoFactorFailure{Code: apiErr.Code, Message: apiErr.Message, Cause: apiErr}
	}

	if res.StatusCode != 200 {
		return TwoFactorFailure{Code: res.StatusCode, Message: res.OptString("message", "An unknown error occurred.")}
	}

	pk, sessionData := a.recordLogin(res)
	return TwoFactorSuccess{PrimaryKey: pk, SessionData: sessionData, Body: res.Body}
}

// PrepareChallenge fetches the state of a server-issued challenge. Only the
// method-selection and delta-login-review steps are considered prepared.
func (a *Authentication) PrepareChallenge(path string) ChallengeResult {
	snap := a.client.session.Snapshot()

	params := url.Values{}
	params.Set("guid", snap.DeviceUUID)
	params.Set("device_id", snap.AndroidID)

	res, apiErr := a.client.Get(path, params)
	if apiErr != nil {
		return ChallengeFailure{Code: apiErr.Code, Message: apiErr.Message, Cause: apiErr}
	}

	if res.StatusCode != 200 {
		return ChallengeFailure{Code: res.StatusCode, Message: res.OptString("message", "An unknown error occurred.")}
	}

	var parsed challengeStateResponse
	if err := res.JSON(&parsed); err != nil {
		return ChallengeFailure{Code: res.StatusCode, Message: err.Message, Cause: err}
	}

	switch parsed.StepName {
	case "select_verify_method", "delta_login_review":
		return ChallengePrepared{StepName: parsed.StepName, Body: res.Body}
	default:
		return ChallengeFailure{Code: res.StatusCode, Message: res.Text()}
	}
}

// SelectChallengeMethod picks the verification channel for a prepared
// challenge. The method maps to the numeric server choice: phone is 0,
// email is 1.
func (a *Authentication) SelectChallengeMethod(path, method string) MethodSelectionResult {
	snap := a.client.session.Snapshot()

	choice := 1
	if method == AuthMethodPhone {
		choice = 0
	}

	body, err := signPayload(challengeSelectPayload{
		GUID:      snap.DeviceUUID,
		DeviceID:  snap.AndroidID,
		CSRFToken: snap.CSRFToken,
		Choice:    choice,
	})
	if err != nil {
		return MethodSelectionFailure{Message: err.Error()}
	}

	res, apiErr := a.client.Post(path, body)
	if apiErr != nil {
		return MethodSelectionFailure{Code: apiErr.Code, Message: apiErr.Message, Cause: apiErr}
	}

	if res.StatusCode != 200 {
		return MethodSelectionFailure{Code: res.StatusCode, Message: res.OptString("message", "An unknown error occurred.")}
	}

	var parsed challengeStateResponse
	if err := res.JSON(&parsed); err != nil {
		return MethodSelectionFailure{Code: res.StatusCode, Message: err.Message, Cause: err}
	}

	switch parsed.StepName {
	case "verify_code":
		return PhoneSelectionSuccess{StepData: parsed.StepData}
	case "verify_email":
		return EmailSelectionSuccess{StepData: parsed.StepData}
	default:
		return MethodSelectionFailure{Code: res.StatusCode, Message: res.Text()}
	}
}

// SubmitChallengeCode posts the verification code for a challenge. Even on
// HTTP 200 the response must carry a non-blank logged_in_user to count as
// authenticated.
func (a *Authentication) SubmitChallengeCode(path, code string) ChallengeSubmitResult {
	snap := a.client.session.Snapshot()

	body, err := signPayload(challengeSubmitPayload{
		GUID:         snap.DeviceUUID,
		DeviceID:     snap.AndroidID,
		CSRFToken:    snap.CSRFToken,
		SecurityCode: code,
	})
	if err != nil {
		return ChallengeSubmitFailure{Message: err.Error()}
	}

	res, apiErr := a.client.Post(path, body)
	if apiErr != nil {
		return ChallengeSubmitFailure{Code: apiErr.Code, Message: apiErr.Message, Cause: apiErr}
	}

	if res.StatusCode != 200 {
		return ChallengeSubmitFailure{Code: res.StatusCode, Message: res.OptString("message", "An unknown error occurred.")}
	}

	var parsed challengeSubmitResponse
	if err := res.JSON(&parsed); err != nil {
		return ChallengeSubmitFailure{Code: res.StatusCode, Message: err.Message, Cause: err}
	}

	if parsed.LoggedInUser == nil || parsed.LoggedInUser.PK.String() == "" {
		return ChallengeSubmitFailure{Code: 412, Message: res.Text()}
	}

	pk, sessionData := a.recordLogin(res)
	return ChallengeSubmitSuccess{PrimaryKey: pk, SessionData: sessionData, Body: res.Body}
}

// Logout invalidates the session on the server
func (a *Authentication) Logout() *errors.Error {
	snap := a.client.session.Snapshot()

	form := url.Values{}
	form.Set("guid", snap.DeviceUUID)

	res, apiErr := a.client.Post(pathLogout, form.Encode())
	if apiErr != nil {
		return apiErr
	}

	if res.StatusCode != 200 {
		return errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	return nil
}

// recordLogin persists the authenticated user's primary key and returns it
// along with the serialized session.
func (a *Authentication) recordLogin(res *Response) (string, string) {
	var parsed struct {
		LoggedInUser *loggedInUser `json:"logged_in_user"`
	}
	_ = json.Unmarshal(res.Body, &parsed)

	pk := ""
	if parsed.LoggedInUser != nil {
		pk = parsed.LoggedInUser.PK.String()
	}
	if pk != "" {
		a.client.session.SetPrimaryKey(pk)
	}

	sessionData, err := a.client.session.Serialize()
	if err != nil {
		a.logger.WarnWithFields("failed to serialize session", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return pk, sessionData
}

func stripWhitespace(s string) string {
	return strings.Join(strings.Fields(s), "")
}
