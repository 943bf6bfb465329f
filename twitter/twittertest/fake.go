// Package twittertest provides an in-memory twitter.API for tests.
package twittertest

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/spacedl/spacedl/twitter"
)

// Fake serves canned responses and counts calls. A zero Fake fails every call.
type Fake struct {
	mu sync.Mutex

	// GuestTokenErrs are returned, in order, by the first guest token calls.
	GuestTokenErrs []error
	Token          string

	Spaces    map[string]*twitter.Metadata
	Locations map[string]string
	Bodies    map[string]string
	Users     map[string]string
	Tweets    map[string]string

	calls map[string]int
	last  map[string]string
}

const (
	CallGuestToken   = "guest_token"
	CallAudioSpace   = "audio_space"
	CallStreamSource = "stream_source"
	CallFetch        = "fetch"
	CallUserID       = "user_id"
	CallUserTweets   = "user_tweets"
)

var errNotFound = errors.New("not found")

func (f *Fake) record(call, arg string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.calls == nil {
		f.calls = make(map[string]int)
		f.last = make(map[string]string)
	}
	f.calls[call]++
	f.last[call] = arg
	return f.calls[call]
}

// Calls returns how many times call was made.
func (f *Fake) Calls(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[call]
}

// Last returns the argument of the latest call.
func (f *Fake) Last(call string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[call]
}

func (f *Fake) GuestToken(context.Context) (string, error) {
	n := f.record(CallGuestToken, "")
	if n <= len(f.GuestTokenErrs) {
		return "", f.GuestTokenErrs[n-1]
	}
	if f.Token == "" {
		return "", errNotFound
	}
	return f.Token, nil
}

func (f *Fake) AudioSpace(_ context.Context, _ twitter.Headers, spaceID string) (*twitter.Metadata, error) {
	f.record(CallAudioSpace, spaceID)
	meta, ok := f.Spaces[spaceID]
	if !ok {
		return nil, fmt.Errorf("space %s: %w", spaceID, errNotFound)
	}
	clone := *meta
	return &clone, nil
}

func (f *Fake) StreamSource(_ context.Context, _ twitter.Headers, mediaKey string) (string, error) {
	f.record(CallStreamSource, mediaKey)
	location, ok := f.Locations[mediaKey]
	if !ok {
		return "", fmt.Errorf("stream %s: %w", mediaKey, errNotFound)
	}
	return location, nil
}

func (f *Fake) Fetch(_ context.Context, rawURL string) (string, error) {
	f.record(CallFetch, rawURL)
	body, ok := f.Bodies[rawURL]
	if !ok {
		return "", &twitter.StatusError{URL: rawURL, Code: 404}
	}
	return body, nil
}

func (f *Fake) UserID(_ context.Context, _ twitter.Headers, screenName string) (string, error) {
	f.record(CallUserID, screenName)
	id, ok := f.Users[screenName]
	if !ok {
		return "", fmt.Errorf("user %s: %w", screenName, errNotFound)
	}
	return id, nil
}

func (f *Fake) UserTweets(_ context.Context, _ twitter.Headers, userID string) (string, error) {
	f.record(CallUserTweets, userID)
	doc, ok := f.Tweets[userID]
	if !ok {
		return "", fmt.Errorf("tweets of %s: %w", userID, errNotFound)
	}
	return doc, nil
}

// Broadcast registers a complete chain for one space: metadata, stream
// source, master and sub playlist. It returns the dynamic URL.
func (f *Fake) Broadcast(meta *twitter.Metadata, host string) string {
	if f.Spaces == nil {
		f.Spaces = make(map[string]*twitter.Metadata)
	}
	if f.Locations == nil {
		f.Locations = make(map[string]string)
	}
	if f.Bodies == nil {
		f.Bodies = make(map[string]string)
	}

	base := "https://" + host + "/Transcoding/v1/hls/" + meta.RestID
	dyn := base + "/dynamic_playlist.m3u8?type=live"
	master := base + "/master_playlist.m3u8"
	sub := "/Transcoding/v1/hls/" + meta.RestID + "/transcode/playlist_16.m3u8"

	f.Spaces[meta.RestID] = meta
	f.Locations[meta.MediaKey] = dyn
	f.Bodies[master] = "#EXTM3U\n#EXT-X-VERSION:6\n#EXT-X-STREAM-INF:BANDWIDTH=32000,CODECS=\"mp4a.40.2\"\n" + sub + "\n"
	f.Bodies["https://"+host+sub] = MediaPlaylist
	return dyn
}

// MediaPlaylist is a two segment sub playlist with relative chunk names.
const MediaPlaylist = `#EXTM3U
#EXT-X-VERSION:6
#EXT-X-TARGETDURATION:3
#EXT-X-MEDIA-SEQUENCE:0
#EXTINF:3.000,
chunk_1000_0_a.aac
#EXTINF:3.000,
chunk_1000_1_a.aac
#EXT-X-ENDLIST
`
