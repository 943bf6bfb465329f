package twitter

import (
	"encoding/json"
	"net/url"

	"github.com/samber/lo"
)

// GraphQL operations and the query ids they are pinned to. Upstream rotates
// these ids; update them together with the response types when it does.
const (
	audioSpaceByIDOp   = "AudioSpaceById"
	audioSpaceByIDID   = "xVEzTKg_mLTHubK5ayL0HA"
	userByScreenNameOp = "UserByScreenName"
	userByScreenNameID = "G3KGOASz96M-Qu0nwmGXNg"
	userTweetsOp       = "UserTweets"
	userTweetsID       = "E3opETHurmVJflFsUBVuUQ"
)

var features = map[string]bool{
	"spaces_2022_h2_clipping":                                           true,
	"spaces_2022_h2_spaces_communities":                                 true,
	"creator_subscriptions_tweet_preview_api_enabled":                   true,
	"responsive_web_graphql_exclude_directive_enabled":                  true,
	"responsive_web_graphql_timeline_navigation_enabled":                true,
	"responsive_web_graphql_skip_user_profile_image_extensions_enabled": false,
	"responsive_web_edit_tweet_api_enabled":                             true,
	"responsive_web_enhance_cards_enabled":                              false,
	"graphql_is_translatable_rweb_tweet_is_translatable_enabled":        true,
	"view_counts_everywhere_api_enabled":                                true,
	"longform_notetweets_consumption_enabled":                           true,
	"longform_notetweets_rich_text_read_enabled":                        true,
	"longform_notetweets_inline_media_enabled":                          true,
	"freedom_of_speech_not_reach_fetch_enabled":                         true,
	"standardized_nudges_misinfo":                                       true,
	"tweet_with_visibility_results_prefer_gql_limited_actions_policy_enabled": true,
	"verified_phone_label_enabled":                                      false,
	"hidden_profile_likes_enabled":                                      true,
	"highlights_tweets_tab_ui_enabled":                                  true,
	"subscriptions_verification_info_verified_since_enabled":            true,
}

var encodedFeatures = string(lo.Must(json.Marshal(features)))

func (c *Client) graphqlURL(queryID, operation string, variables map[string]any) string {
	q := url.Values{}
	q.Set("variables", string(lo.Must(json.Marshal(variables))))
	q.Set("features", encodedFeatures)
	return c.API + "/i/api/graphql/" + queryID + "/" + operation + "?" + q.Encode()
}
