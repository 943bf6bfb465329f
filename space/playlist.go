package space

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/grafov/m3u8"
	"github.com/spacedl/spacedl/constant"
)

// subPlaylistLine is the 0-based line of a master playlist holding the sub playlist path.
const subPlaylistLine = 3

// MasterFromDyn replaces the trailing path segment of a dynamic playlist URL
// with the master playlist filename. The query is dropped.
func MasterFromDyn(dyn string) (string, error) {
	u, err := url.Parse(dyn)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("dynamic url %q has no host", dyn)
	}

	u.Path = path.Join(path.Dir(u.Path), constant.MasterPlaylist)
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}

// PlaylistFromMaster joins the 4th line of a master playlist body with the master host.
func PlaylistFromMaster(master, body string) (string, error) {
	lines := strings.Split(body, "\n")
	if len(lines) <= subPlaylistLine {
		return "", fmt.Errorf("master playlist has %d lines, expected at least %d", len(lines), subPlaylistLine+1)
	}

	u, err := url.Parse(master)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", fmt.Errorf("master url %q has no host", master)
	}

	rel := strings.TrimSpace(lines[subPlaylistLine])
	if rel == "" {
		return "", errors.New("master playlist has an empty sub playlist line")
	}
	if !strings.HasPrefix(rel, "/") {
		rel = "/" + rel
	}

	return "https://" + u.Host + rel, nil
}

// ChunkBase returns the master URL without query and playlist filename, keeping the trailing slash.
func ChunkBase(master string) string {
	s, _, _ := strings.Cut(master, "?")
	return s[:strings.LastIndex(s, "/")+1]
}

// RewriteChunks prefixes every chunk reference of a sub playlist with the
// master base, so the playlist can be read from disk.
func RewriteChunks(body, master string) string {
	return strings.ReplaceAll(body, constant.ChunkPrefix, ChunkBase(master)+constant.ChunkPrefix)
}

// SegmentCount decodes body as a media playlist and counts its segments.
func SegmentCount(body string) (int, error) {
	pl, listType, err := m3u8.DecodeFrom(strings.NewReader(body), false)
	if err != nil {
		return 0, err
	}
	if listType != m3u8.MEDIA {
		return 0, errors.New("not a media playlist")
	}
	return int(pl.(*m3u8.MediaPlaylist).Count()), nil
}
