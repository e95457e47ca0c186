package instagram

import (
	"encoding/json"

	"igkit/pkg/errors"
)

// AuthResult is the discriminated result of a login attempt. Expected
// outcomes (two-factor, challenge, invalid credentials) are variants, not
// errors; switch over the concrete type to handle them exhaustively.
type AuthResult interface {
	isAuthResult()
}

// AuthSuccess reports a completed login. SessionData is the serialized
// session for cold-start restore.
type AuthSuccess struct {
	PrimaryKey  string
	SessionData string
	Body        json.RawMessage
}

// AuthTwoFactorRequired reports that the account requires a two-factor code.
// The token and device ID must be carried into the follow-up
// TwoFactorLogin call.
type AuthTwoFactorRequired struct {
	Identifier string
	Token      string
	DeviceID   string
	Info       json.RawMessage
}

// AuthChallengeRequired reports that the login was flagged for secondary
// verification. Path is the challenge path to feed into the challenge
// sub-flow.
type AuthChallengeRequired struct {
	Path      string
	Challenge json.RawMessage
}

// AuthInvalidCredentials is terminal: the username/password pair was
// rejected.
type AuthInvalidCredentials struct {
	Message string
}

// AuthTokenFailure is terminal: the bootstrap sequence could not produce a
// CSRF token.
type AuthTokenFailure struct {
	Code    int
	Message string
}

// AuthFailure is terminal: an unexpected status, transport failure, or
// crypto failure.
type AuthFailure struct {
	Code    int
	Message string
	Cause   *errors.Error
}

func (AuthSuccess) isAuthResult()            {}
func (AuthTwoFactorRequired) isAuthResult()  {}
func (AuthChallengeRequired) isAuthResult()  {}
func (AuthInvalidCredentials) isAuthResult() {}
func (AuthTokenFailure) isAuthResult()       {}
func (AuthFailure) isAuthResult()            {}

// TwoFactorResult is the discriminated result of a two-factor login.
type TwoFactorResult interface {
	isTwoFactorResult()
}

// TwoFactorSuccess reports a completed two-factor login.
type TwoFactorSuccess struct {
	PrimaryKey  string
	SessionData string
	Body        json.RawMessage
}

// TwoFactorFailure is terminal for this attempt.
type TwoFactorFailure struct {
	Code    int
	Message string
	Cause   *errors.Error
}

func (TwoFactorSuccess) isTwoFactorResult() {}
func (TwoFactorFailure) isTwoFactorResult() {}

// ChallengeResult is the discriminated result of preparing a challenge.
type ChallengeResult interface {
	isChallengeResult()
}

// ChallengePrepared reports that the challenge is ready for method
// selection. StepName is either "select_verify_method" or
// "delta_login_review".
type ChallengePrepared struct {
	StepName string
	Body     json.RawMessage
}

// ChallengeFailure is terminal for this attempt.
type ChallengeFailure struct {
	Code    int
	Message string
	Cause   *errors.Error
}

func (ChallengePrepared) isChallengeResult() {}
func (ChallengeFailure) isChallengeResult()  {}

// MethodSelectionResult is the discriminated result of selecting a
// verification method.
type MethodSelectionResult interface {
	isMethodSelectionResult()
}

// PhoneSelectionSuccess reports that a code was sent to the account's phone.
type PhoneSelectionSuccess struct {
	StepData json.RawMessage
}

// EmailSelectionSuccess reports that a code was sent to the account's email.
type EmailSelectionSuccess struct {
	StepData json.RawMessage
}

// MethodSelectionFailure is terminal for this attempt.
type MethodSelectionFailure struct {
	Code    int
	Message string
	Cause   *errors.Error
}

func (PhoneSelectionSuccess) isMethodSelectionResult()  {}
func (EmailSelectionSuccess) isMethodSelectionResult()  {}
func (MethodSelectionFailure) isMethodSelectionResult() {}

// ChallengeSubmitResult is the discriminated result of submitting a
// challenge code.
type ChallengeSubmitResult interface {
	isChallengeSubmitResult()
}

// ChallengeSubmitSuccess reports that the challenge completed and the user
// is authenticated.
type ChallengeSubmitSuccess struct {
	PrimaryKey  string
	SessionData string
	Body        json.RawMessage
}

// ChallengeSubmitFailure is terminal for this attempt.
type ChallengeSubmitFailure struct {
	Code    int
	Message string
	Cause   *errors.Error
}

func (ChallengeSubmitSuccess) isChallengeSubmitResult() {}
func (ChallengeSubmitFailure) isChallengeSubmitResult() {}
