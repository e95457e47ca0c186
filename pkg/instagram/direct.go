package instagram

import (
	"encoding/json"
	"net/url"

	"igkit/pkg/errors"
)

// Direct exposes the direct messages inbox
type Direct struct {
	client *Client
}

func newDirect(client *Client) *Direct {
	return &Direct{client: client}
}

// GetInbox fetches the unified direct messages inbox
func (d *Direct) GetInbox() (json.RawMessage, *errors.Error) {
	params := url.Values{}
	params.Set("persistentBadging", "true")
	params.Set("use_unified_inbox", "true")

	res, err := d.client.Get(pathDirectInbox, params)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var parsed struct {
		Inbox json.RawMessage `json:"inbox"`
	}
	if jsonErr := res.JSON(&parsed); jsonErr != nil {
		return nil, jsonErr
	}

	return parsed.Inbox, nil
}
