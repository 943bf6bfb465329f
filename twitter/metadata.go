package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// Timestamp is a millisecond epoch. Upstream sends some of them as JSON
// numbers and some as numeric strings.
type Timestamp int64

// UnmarshalJSON accepts a number, a numeric string or null.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*t = 0
		return nil
	}

	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", data, err)
	}

	*t = Timestamp(v)
	return nil
}

// Time converts the timestamp, returning the zero time when unset.
func (t Timestamp) Time() time.Time {
	if t == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(t))
}

// UserLegacy holds the profile fields of a user result.
type UserLegacy struct {
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
}

// UserResult is a user node as it appears inside GraphQL documents.
type UserResult struct {
	RestID string     `json:"rest_id"`
	Legacy UserLegacy `json:"legacy"`
}

// CreatorResults wraps the creator of a space.
type CreatorResults struct {
	Result UserResult `json:"result"`
}

// Metadata is the snapshot of a space the whole pipeline works from.
type Metadata struct {
	RestID             string         `json:"rest_id"`
	State              string         `json:"state"`
	Title              string         `json:"title"`
	MediaKey           string         `json:"media_key"`
	CreatedAt          Timestamp      `json:"created_at"`
	ScheduledStart     Timestamp      `json:"scheduled_start,omitempty"`
	StartedAt          Timestamp      `json:"started_at"`
	EndedAt            Timestamp      `json:"ended_at,omitempty"`
	UpdatedAt          Timestamp      `json:"updated_at"`
	ReplayAvailable    bool           `json:"is_space_available_for_replay"`
	TotalReplayWatched int            `json:"total_replay_watched"`
	TotalLiveListeners int            `json:"total_live_listeners"`
	TotalParticipated  int            `json:"total_participated"`
	Creator            CreatorResults `json:"creator_results"`
}

// CreatorName returns the display name of the space host.
func (m *Metadata) CreatorName() string {
	return m.Creator.Result.Legacy.Name
}

// CreatorScreenName returns the handle of the space host.
func (m *Metadata) CreatorScreenName() string {
	return m.Creator.Result.Legacy.ScreenName
}

type audioSpaceResponse struct {
	Data struct {
		AudioSpace struct {
			Metadata *Metadata `json:"metadata"`
		} `json:"audioSpace"`
	} `json:"data"`
}

// AudioSpace fetches the metadata of spaceID. A document without a media key is malformed.
func (c *Client) AudioSpace(ctx context.Context, headers Headers, spaceID string) (*Metadata, error) {
	rawURL := c.graphqlURL(audioSpaceByIDID, audioSpaceByIDOp, map[string]any{
		"id":              spaceID,
		"isMetatagsQuery": false,
		"withReplays":     true,
		"withListeners":   true,
	})

	var response audioSpaceResponse
	if err := c.getJSON(ctx, rawURL, headers, &response); err != nil {
		return nil, err
	}

	meta := response.Data.AudioSpace.Metadata
	if meta == nil || meta.MediaKey == "" {
		return nil, fmt.Errorf("%w: space %s has no media key", ErrMalformed, spaceID)
	}

	return meta, nil
}

// MarshalJSON keeps timestamps numeric so hook round trips stay lossless.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(int64(t))
}
