package instagram

import (
	"encoding/json"
	"net/url"

	"igkit/pkg/errors"
)

// Account exposes profile and relationship operations for an authenticated
// session.
type Account struct {
	client *Client
}

func newAccount(client *Client) *Account {
	return &Account{client: client}
}

// FeedPage is one page of a profile feed
type FeedPage struct {
	NextMaxID string            `json:"next_max_id"`
	Items     []json.RawMessage `json:"items"`
}

// RelationshipPage is one page of a followers/following listing
type RelationshipPage struct {
	NextMaxID string            `json:"next_max_id"`
	Users     []json.RawMessage `json:"users"`
}

// GetAccount fetches the profile for a user's primary key
func (a *Account) GetAccount(userKey string) (json.RawMessage, *errors.Error) {
	res, err := a.client.Get(formatPath(pathAccountInfo, userKey), nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var parsed struct {
		User json.RawMessage `json:"user"`
	}
	if jsonErr := res.JSON(&parsed); jsonErr != nil {
		return nil, jsonErr
	}

	return parsed.User, nil
}

// GetFeed fetches a page of a user's feed. maxID and minTimestamp are
// optional pagination bounds.
func (a *Account) GetFeed(userKey, maxID, minTimestamp string) (*FeedPage, *errors.Error) {
	snap := a.client.session.Snapshot()

	params := url.Values{}
	params.Set("max_id", maxID)
	params.Set("min_timestamp", minTimestamp)
	params.Set("rank_token", snap.RankToken())
	params.Set("ranked_content", "true")

	res, err := a.client.Get(formatPath(pathAccountFeed, userKey), params)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var page FeedPage
	if jsonErr := res.JSON(&page); jsonErr != nil {
		return nil, jsonErr
	}

	return &page, nil
}

// GetFollowers fetches a page of the user's followers
func (a *Account) GetFollowers(userKey, maxID string) (*RelationshipPage, *errors.Error) {
	return a.relationships(formatPath(pathFollowers, userKey), maxID)
}

// GetFollowing fetches a page of the accounts the user follows
func (a *Account) GetFollowing(userKey, maxID string) (*RelationshipPage, *errors.Error) {
	return a.relationships(formatPath(pathFollowing, userKey), maxID)
}

func (a *Account) relationships(path, maxID string) (*RelationshipPage, *errors.Error) {
	snap := a.client.session.Snapshot()

	params := url.Values{}
	params.Set("rank_token", snap.RankToken())
	params.Set("max_id", maxID)

	res, err := a.client.Get(path, params)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var page RelationshipPage
	if jsonErr := res.JSON(&page); jsonErr != nil {
		return nil, jsonErr
	}

	return &page, nil
}

// Follow follows the user, returning the updated friendship status
func (a *Account) Follow(userKey string) (json.RawMessage, *errors.Error) {
	return a.updateRelationship(formatPath(pathFollow, userKey), userKey)
}

// Unfollow unfollows the user, returning the updated friendship status
func (a *Account) Unfollow(userKey string) (json.RawMessage, *errors.Error) {
	return a.updateRelationship(formatPath(pathUnfollow, userKey), userKey)
}

func (a *Account) updateRelationship(path, userKey string) (json.RawMessage, *errors.Error) {
	payload := newAuthenticatedPayload(a.client.session.Snapshot())
	payload.UserID = userKey

	body, err := signPayload(payload)
	if err != nil {
		return nil, &errors.Error{Type: errors.ErrorTypeUnknown, Message: err.Error()}
	}

	res, apiErr := a.client.Post(path, body)
	if apiErr != nil {
		return nil, apiErr
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var parsed struct {
		FriendshipStatus json.RawMessage `json:"friendship_status"`
	}
	if jsonErr := res.JSON(&parsed); jsonErr != nil {
		return nil, jsonErr
	}

	return parsed.FriendshipStatus, nil
}

// GetBlocked fetches the accounts the user has blocked
func (a *Account) GetBlocked() ([]json.RawMessage, *errors.Error) {
	res, err := a.client.Get(pathBlockedList, nil)
	if err != nil {
		return nil, err
	}
	if res.StatusCode != 200 {
		return nil, errors.Server(res.StatusCode, res.OptString("message", ""))
	}

	var parsed struct {
		BlockedList []json.RawMessage `json:"blocked_list"`
	}
	if jsonErr := res.JSON(&parsed); jsonErr != nil {
		return nil, jsonErr
	}

	return parsed.BlockedList, nil
}
