package instagram

import (
	"net/http"
	"time"

	"igkit/pkg/config"
	"igkit/pkg/logger"
	"igkit/pkg/session"
)

// Instagram is the entry point for the SDK. It owns exactly one Session and
// the transport that mutates it; construct one value per logged-in (or
// logging-in) user context and retain it.
//
// The SDK is synchronous: every operation is a direct request/response
// call, and the caller layers its own concurrency model on top.
type Instagram struct {
	config *config.Config
	client *Client

	Authentication *Authentication
	Account        *Account
	Search         *Search
	Stories        *Stories
	Media          *Media
	Direct         *Direct
}

// Option customizes SDK construction
type Option func(*Instagram)

// WithLogger attaches a logger to the SDK
func WithLogger(log logger.Logger) Option {
	return func(ig *Instagram) {
		ig.client.logger = log
	}
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(ig *Instagram) {
		ig.client.httpClient = httpClient
	}
}

// WithTimeout sets the transport timeout
func WithTimeout(timeout time.Duration) Option {
	return func(ig *Instagram) {
		ig.client.httpClient.Timeout = timeout
	}
}

// WithResponseLogger attaches an observer that receives every raw response.
// Best effort: a panicking observer never affects request handling.
func WithResponseLogger(fn func(*Response)) Option {
	return func(ig *Instagram) {
		ig.client.responseLogger = fn
	}
}

// WithSessionListener attaches an observer that receives an immutable
// session snapshot after every update.
func WithSessionListener(fn func(session.Snapshot)) Option {
	return func(ig *Instagram) {
		ig.client.sessionListener = fn
	}
}

// New creates an SDK instance with a fresh session for the instance seed.
// The seed must be stable across process restarts: every derived device
// identifier is a deterministic function of it.
func New(instanceID string, cfg *config.Config, opts ...Option) *Instagram {
	return build(session.New(instanceID), cfg, opts)
}

// Restore creates an SDK instance from a previously serialized session. A
// blank data string behaves exactly like New.
func Restore(instanceID, data string, cfg *config.Config, opts ...Option) (*Instagram, error) {
	sess, err := session.Restore(instanceID, data)
	if err != nil {
		return nil, err
	}

	return build(sess, cfg, opts), nil
}

func build(sess *session.Session, cfg *config.Config, opts []Option) *Instagram {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	ig := &Instagram{
		config: cfg,
		client: NewClient(sess, cfg.Device, nil),
	}

	for _, opt := range opts {
		opt(ig)
	}

	ig.Authentication = newAuthentication(ig.client)
	ig.Account = newAccount(ig.client)
	ig.Search = newSearch(ig.client)
	ig.Stories = newStories(ig.client)
	ig.Media = newMedia(ig.client)
	ig.Direct = newDirect(ig.client)

	return ig
}

// Session returns the SDK's session
func (ig *Instagram) Session() *session.Session {
	return ig.client.Session()
}

// SessionData serializes the session for persistence
func (ig *Instagram) SessionData() (string, error) {
	return ig.client.Session().Serialize()
}
