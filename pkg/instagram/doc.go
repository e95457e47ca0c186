// Package instagram provides a client for the private mobile API.
//
// The package is built around three pieces:
//   - A transport Client whose interceptor folds every response back into
//     the session, observing server-driven token rotation
//   - An Authentication service that drives the login state machine and
//     reports expected outcomes (two-factor, challenge, invalid
//     credentials) as result variants rather than errors
//   - Thin endpoint services (Account, Search, Stories, Media, Direct)
//     that reuse the session, header builder and request signing
//
// Example usage:
//
//	ig := instagram.New("my-stable-seed", config.DefaultConfig())
//
//	switch res := ig.Authentication.Authenticate(username, password).(type) {
//	case instagram.AuthSuccess:
//	    persist(res.SessionData)
//	case instagram.AuthTwoFactorRequired:
//	    // Prompt for the code, then:
//	    // ig.Authentication.TwoFactorLogin(code, res.Identifier, res.Token, username, password)
//	case instagram.AuthChallengeRequired:
//	    // Drive the challenge sub-flow starting with PrepareChallenge(res.Path)
//	case instagram.AuthInvalidCredentials:
//	    // Terminal; re-prompt the user
//	case instagram.AuthTokenFailure, instagram.AuthFailure:
//	    // Inspect and retry or surface
//	}
package instagram
