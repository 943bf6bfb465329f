package twitter

import (
	"context"
	"fmt"
	"regexp"
)

var guestTokenPattern = regexp.MustCompile(`gt=(\d{19})`)

// GuestToken scrapes a guest token from the web front page. It makes a single attempt.
func (c *Client) GuestToken(ctx context.Context) (string, error) {
	body, err := c.get(ctx, c.Web, nil)
	if err != nil {
		return "", err
	}

	return ScrapeGuestToken(string(body))
}

// ScrapeGuestToken extracts the 19 digit guest token embedded in a page.
func ScrapeGuestToken(page string) (string, error) {
	match := guestTokenPattern.FindStringSubmatch(page)
	if match == nil {
		return "", fmt.Errorf("%w: no guest token in page", ErrMalformed)
	}
	return match[1], nil
}
