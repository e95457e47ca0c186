package instagram

import (
	"encoding/json"
	"net/url"

	"igkit/pkg/errors"
)

// Search exposes the profile search endpoint
type Search struct {
	client *Client
}

func newSearch(client *Client) *Search {
	return &Search{client: client}
}

// Profiles runs a profile search for the query and returns the matching
// users.
func (s *Search) Profiles(query string) ([]json.RawMessage, *errors.Error) {
	snap := s.client.session.Snapshot()

	params := url.Values{}
	params.Set("rank_token", snap.RankToken())
	params.Set("is_typeahead", "false")
	params.Set("query", query)

	res, err := s.client.Get(pathSearch, params)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var parsed struct {
		Users []json.RawMessage `json:"users"`
	}
	if jsonErr := res.JSON(&parsed); jsonErr != nil {
		return nil, jsonErr
	}

	return parsed.Users, nil
}
