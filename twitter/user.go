package twitter

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/samber/lo"
	"github.com/spacedl/spacedl/util"
)

const spaceURLBase = "https://twitter.com/i/spaces/"

var (
	spaceLinkPattern = regexp.MustCompile(`https://(?:www\.)?(?:twitter|x)\.com/i/spaces/(\w+)`)
	spaceIDPattern   = regexp.MustCompile(`spaces/(?P<id>\w+)`)
	bareIDPattern    = regexp.MustCompile(`^\w+$`)
)

type userByScreenNameResponse struct {
	Data struct {
		User struct {
			Result *UserResult `json:"result"`
		} `json:"user"`
	} `json:"data"`
}

// UserID resolves screenName to its numeric rest id.
func (c *Client) UserID(ctx context.Context, headers Headers, screenName string) (string, error) {
	rawURL := c.graphqlURL(userByScreenNameID, userByScreenNameOp, map[string]any{
		"screen_name":              strings.TrimPrefix(screenName, "@"),
		"withSafetyModeUserFields": true,
	})

	var response userByScreenNameResponse
	if err := c.getJSON(ctx, rawURL, headers, &response); err != nil {
		return "", err
	}

	result := response.Data.User.Result
	if result == nil || result.RestID == "" {
		return "", fmt.Errorf("%w: user %s not found", ErrMalformed, screenName)
	}

	return result.RestID, nil
}

// UserTweets returns the raw recent tweets document of userID.
func (c *Client) UserTweets(ctx context.Context, headers Headers, userID string) (string, error) {
	rawURL := c.graphqlURL(userTweetsID, userTweetsOp, map[string]any{
		"userId":                 userID,
		"count":                  20,
		"includePromotedContent": false,
		"withVoice":              true,
		"withV2Timeline":         true,
	})

	body, err := c.get(ctx, rawURL, headers)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// SpaceURLs extracts the unique space links of a tweets document, in order of appearance.
func SpaceURLs(document string) []string {
	ids := lo.Map(spaceLinkPattern.FindAllStringSubmatch(document, -1), func(m []string, _ int) string {
		return m[1]
	})

	return lo.Map(lo.Uniq(ids), func(id string, _ int) string {
		return spaceURLBase + id
	})
}

// SpaceID extracts the space identifier from a space URL or accepts a bare identifier.
func SpaceID(input string) (string, error) {
	if id := util.ReGroups(spaceIDPattern, input)["id"]; id != "" {
		return id, nil
	}

	if bareIDPattern.MatchString(input) {
		return input, nil
	}

	return "", fmt.Errorf("%q is not a space URL", input)
}
