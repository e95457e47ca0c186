package instagram

import "fmt"

// Default base URLs. The bootstrap host serves the pre-login endpoints; the
// web host serves the handful of endpoints that never moved to the mobile
// API.
const (
	APIBaseURL       = "https://i.instagram.com/api/v1"
	BootstrapBaseURL = "https://b.i.instagram.com/api/v1"
	WebBaseURL       = "https://www.instagram.com"
)

// Paths under the mobile API host
const (
	pathCSRFToken      = "/si/fetch_headers/"
	pathLogin          = "/accounts/login/"
	pathTwoFactorLogin = "/accounts/two_factor_login/"
	pathLogout         = "/accounts/logout/"

	pathAccountInfo = "/users/%s/info/"
	pathAccountFeed = "/feed/user/%s/"
	pathBlockedList = "/users/blocked_list/"
	pathFollowers   = "/friendships/%s/followers/"
	pathFollowing   = "/friendships/%s/following/"
	pathFollow      = "/friendships/create/%s/"
	pathUnfollow    = "/friendships/destroy/%s/"

	pathSearch  = "/users/search/"
	pathStories = "/feed/user/%s/story/"

	pathMediaLikers   = "/media/%s/likers/"
	pathMediaComments = "/media/%s/comments/"

	pathDirectInbox = "/direct_v2/inbox/"
)

// Paths under the bootstrap host
const (
	pathLauncherSync        = "/launcher/sync/"
	pathPrefillCandidates   = "/accounts/get_prefill_candidates/"
	pathContactPointPrefill = "/accounts/contact_point_prefill/"
)

// Paths under the web host
const (
	pathMediaInfo = "/p/%s/?__a=1"
)

func formatPath(pattern string, args ...interface{}) string {
	if len(args) == 0 {
		return pattern
	}
	return fmt.Sprintf(pattern, args...)
}
