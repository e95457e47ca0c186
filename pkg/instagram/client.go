package instagram

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"igkit/pkg/config"
	"igkit/pkg/errors"
	"igkit/pkg/logger"
	"igkit/pkg/retry"
	"igkit/pkg/session"
)

// Response is the raw outcome of an API call after it has passed through the
// response interceptor.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Text returns the response body as a string
func (r *Response) Text() string {
	return string(r.Body)
}

// JSON decodes the response body into target
func (r *Response) JSON(target interface{}) *errors.Error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return errors.Parsing(r.StatusCode, "Unable to parse JSON response.")
	}
	return nil
}

// OptString returns a top-level string field of the JSON body, or fallback
// when the field is absent or not a string.
func (r *Response) OptString(field, fallback string) string {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(r.Body, &body); err != nil {
		return fallback
	}

	raw, ok := body[field]
	if !ok {
		return fallback
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return fallback
	}
	return value
}

// Client is the transport for all API calls. Every response, authenticated
// or not, flows through the interceptor before the caller sees it; this is
// the sole channel by which server-driven token rotation is observed.
type Client struct {
	httpClient *http.Client
	session    *session.Session
	device     config.DeviceConfig
	logger     logger.Logger
	retrier    *retry.Retrier

	apiBaseURL       string
	bootstrapBaseURL string
	webBaseURL       string

	responseLogger  func(*Response)
	sessionListener func(session.Snapshot)
}

// NewClient creates a transport bound to a session
func NewClient(sess *session.Session, device config.DeviceConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient:       &http.Client{Timeout: 30 * time.Second},
		session:          sess,
		device:           device,
		logger:           log,
		retrier:          retry.NewRetrier(retry.DefaultConfig()),
		apiBaseURL:       APIBaseURL,
		bootstrapBaseURL: BootstrapBaseURL,
		webBaseURL:       WebBaseURL,
	}
}

// Session returns the session this client mutates
func (c *Client) Session() *session.Session {
	return c.session
}

// Get performs a GET request against the mobile API host. Transport
// failures are retried.
func (c *Client) Get(path string, params url.Values) (*Response, *errors.Error) {
	return c.getURL(c.apiBaseURL+path, params)
}

// GetWeb performs a GET request against the web host
func (c *Client) GetWeb(path string, params url.Values) (*Response, *errors.Error) {
	return c.getURL(c.webBaseURL+path, params)
}

func (c *Client) getURL(rawURL string, params url.Values) (*Response, *errors.Error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	var res *Response
	err := c.retrier.Do(func() error {
		req, err := http.NewRequest(http.MethodGet, rawURL, nil)
		if err != nil {
			return &errors.Error{Type: errors.ErrorTypeUnknown, Message: err.Error()}
		}

		var apiErr *errors.Error
		res, apiErr = c.do(req, false)
		if apiErr != nil {
			return apiErr
		}
		return nil
	})
	if err != nil {
		var apiErr *errors.Error
		if !stderrors.As(err, &apiErr) {
			apiErr = &errors.Error{Type: errors.ErrorTypeUnknown, Message: err.Error()}
		}
		return nil, apiErr
	}

	return res, nil
}

// Post performs a form-encoded POST against the mobile API host. POSTs are
// never retried automatically; login and challenge submissions are not
// idempotent.
func (c *Client) Post(path, body string) (*Response, *errors.Error) {
	return c.postURL(c.apiBaseURL+path, body)
}

// PostBootstrap performs a form-encoded POST against the bootstrap host
func (c *Client) PostBootstrap(path, body string) (*Response, *errors.Error) {
	return c.postURL(c.bootstrapBaseURL+path, body)
}

func (c *Client) postURL(rawURL, body string) (*Response, *errors.Error) {
	req, err := http.NewRequest(http.MethodPost, rawURL, strings.NewReader(body))
	if err != nil {
		return nil, &errors.Error{Type: errors.ErrorTypeUnknown, Message: err.Error()}
	}

	return c.do(req, true)
}

// do sends the request with the full header set and routes the response
// through the interceptor.
func (c *Client) do(req *http.Request, withBody bool) (*Response, *errors.Error) {
	for name, value := range BuildHeaders(c.session.Snapshot(), c.device, time.Now()) {
		req.Header.Set(name, value)
	}
	if withBody {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Unavailable("Unable to read response body.", err)
	}

	res := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       body,
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})

	return res, c.intercept(res, resp.Cookies())
}

// intercept folds the response into the session and invokes the caller's
// observer hooks. Hooks are best effort: a panicking hook never breaks
// request handling.
func (c *Client) intercept(res *Response, cookies []*http.Cookie) *errors.Error {
	isJSON := strings.Contains(res.Header.Get("Content-Type"), "application/json")

	if isJSON {
		snap := c.session.Absorb(res.Header, cookies)
		if c.sessionListener != nil {
			func() {
				defer func() {
					if r := recover(); r != nil {
						c.logger.WarnWithFields("session listener panicked", map[string]interface{}{"panic": r})
					}
				}()
				c.sessionListener(snap)
			}()
		}
	}

	if c.responseLogger != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.WarnWithFields("response logger panicked", map[string]interface{}{"panic": r})
				}
			}()
			c.responseLogger(res)
		}()
	}

	if !isJSON {
		return errors.Parsing(res.StatusCode, "Unable to parse JSON response.")
	}

	return nil
}

// mapTransportError converts network-level failures into the single
// retryable ApiUnavailable class.
func mapTransportError(err error) *errors.Error {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) && urlErr.Timeout() {
		return errors.Unavailable("API request timed out.", err)
	}

	return errors.Unavailable("Unable to create connection.", err)
}
