package instagram

import (
	"encoding/json"

	"igkit/pkg/errors"
)

// Stories exposes the story reel endpoint
type Stories struct {
	client *Client
}

func newStories(client *Client) *Stories {
	return &Stories{client: client}
}

// GetStories fetches the story reel for a user's primary key
func (s *Stories) GetStories(userKey string) (json.RawMessage, *errors.Error) {
	res, err := s.client.Get(formatPath(pathStories, userKey), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var parsed struct {
		Reel json.RawMessage `json:"reel"`
	}
	if jsonErr := res.JSON(&parsed); jsonErr != nil {
		return nil, jsonErr
	}

	return parsed.Reel, nil
}
