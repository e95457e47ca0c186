package instagram

import (
	"encoding/json"

	"igkit/pkg/errors"
)

// Media exposes the per-post endpoints
type Media struct {
	client *Client
}

func newMedia(client *Client) *Media {
	return &Media{client: client}
}

// GetMediaFromShortKey resolves a post from its URL shortcode. This is the
// one endpoint that still lives on the web host.
func (m *Media) GetMediaFromShortKey(shortKey string) (json.RawMessage, *errors.Error) {
	res, err := m.client.GetWeb(formatPath(pathMediaInfo, shortKey), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var parsed struct {
		GraphQL struct {
			ShortcodeMedia json.RawMessage `json:"shortcode_media"`
		} `json:"graphql"`
	}
	if jsonErr := res.JSON(&parsed); jsonErr != nil {
		return nil, jsonErr
	}

	if len(parsed.GraphQL.ShortcodeMedia) == 0 {
		return nil, errors.Server(404, "Unable to fetch valid response for media")
	}

	return parsed.GraphQL.ShortcodeMedia, nil
}

// GetLikes fetches the users that liked a post
func (m *Media) GetLikes(mediaKey string) ([]json.RawMessage, *errors.Error) {
	res, err := m.client.Get(formatPath(pathMediaLikers, mediaKey), nil)
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

// GetComments fetches the comments on a post
func (m *Media) GetComments(mediaKey string) ([]json.RawMessage, *errors.Error) {
	res, err := m.client.Get(formatPath(pathMediaComments, mediaKey), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var parsed struct {
		Comments []json.RawMessage `json:"comments"`
	}
	if jsonErr := res.JSON(&parsed); jsonErr != nil {
		return nil, jsonErr
	}

	return parsed.Comments, nil
}
