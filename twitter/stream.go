package twitter

import (
	"context"
	"fmt"
	"net/url"
)

type streamStatusResponse struct {
	Source struct {
		Location              string `json:"location"`
		NoRedirectPlaybackURL string `json:"noRedirectPlaybackUrl"`
		Status                string `json:"status"`
		StreamType            string `json:"streamType"`
	} `json:"source"`
}

// StreamSource returns source.location of the live video stream status of mediaKey.
func (c *Client) StreamSource(ctx context.Context, headers Headers, mediaKey string) (string, error) {
	q := url.Values{}
	q.Set("client", "web")
	q.Set("use_syndication_guest_id", "false")
	q.Set("cookie_set_host", "twitter.com")
	rawURL := c.API + "/i/api/1.1/live_video_stream/status/" + url.PathEscape(mediaKey) + "?" + q.Encode()

	var response streamStatusResponse
	if err := c.getJSON(ctx, rawURL, headers, &response); err != nil {
		return "", err
	}

	if response.Source.Location == "" {
		return "", fmt.Errorf("%w: stream %s has no source location", ErrMalformed, mediaKey)
	}

	return response.Source.Location, nil
}
