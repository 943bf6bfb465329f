// Package hook defines the extension points offered around every resolver
// stage. Implementations inspect a stage result and accept it (possibly
// rewritten), abort the invocation with a reason, or abort silently.
package hook

import (
	"fmt"

	"github.com/spacedl/spacedl/twitter"
)

// Point names an extension point.
type Point string

const (
	PointBearer      Point = "bearer"
	PointGuestToken  Point = "guest_token"
	PointHeaders     Point = "headers"
	PointMetadata    Point = "metadata"
	PointDynURL      Point = "dyn_url"
	PointMasterURL   Point = "master_url"
	PointPlaylistURL Point = "playlist_url"
	PointPlaylist    Point = "playlist"
	PointUserID      Point = "user_id"
	PointUserTweets  Point = "user_tweets"
	PointSpaceURLs   Point = "space_urls"
)

// Scope carries the identifiers that apply to a call. Space stages set
// SpaceID, user stages set ScreenName and UserID.
type Scope struct {
	SpaceID    string
	ScreenName string
	UserID     string
}

type verdict int

const (
	accept verdict = iota
	abort
	silent
)

// Decision is what a hook returns for one call.
type Decision[T any] struct {
	Value   T
	verdict verdict
	Reason  string
}

// Accept passes v on to the next stage.
func Accept[T any](v T) Decision[T] {
	return Decision[T]{Value: v}
}

// Abort terminates the invocation and surfaces reason to the caller.
func Abort[T any](reason string) Decision[T] {
	return Decision[T]{verdict: abort, Reason: reason}
}

// Silent terminates the invocation without a reason.
func Silent[T any]() Decision[T] {
	return Decision[T]{verdict: silent}
}

// Aborted reports whether the decision terminates the invocation.
func (d Decision[T]) Aborted() bool {
	return d.verdict != accept
}

// VetoError is returned when a hook aborts an invocation.
type VetoError struct {
	Point  Point
	Reason string
	Silent bool
}

func (e *VetoError) Error() string {
	if e.Silent || e.Reason == "" {
		return fmt.Sprintf("aborted by %s hook", e.Point)
	}
	return fmt.Sprintf("aborted by %s hook: %s", e.Point, e.Reason)
}

// Apply converts a decision taken at point into a value or a *VetoError.
func Apply[T any](point Point, d Decision[T]) (T, error) {
	switch d.verdict {
	case abort:
		var zero T
		return zero, &VetoError{Point: point, Reason: d.Reason}
	case silent:
		var zero T
		return zero, &VetoError{Point: point, Silent: true}
	default:
		return d.Value, nil
	}
}

// Hooks exposes one method per extension point.
type Hooks interface {
	Bearer(token string, scope Scope) Decision[string]
	GuestToken(token string, scope Scope) Decision[string]
	Headers(headers twitter.Headers, scope Scope) Decision[twitter.Headers]
	Metadata(meta *twitter.Metadata, scope Scope) Decision[*twitter.Metadata]
	DynURL(url string, scope Scope) Decision[string]
	MasterURL(url string, scope Scope) Decision[string]
	PlaylistURL(url string, scope Scope) Decision[string]
	Playlist(body string, scope Scope) Decision[string]
	UserID(id string, scope Scope) Decision[string]
	UserTweets(document string, scope Scope) Decision[string]
	SpaceURLs(urls []string, scope Scope) Decision[[]string]
}

// Nop passes every value through. Embed it to override only some points.
type Nop struct{}

func (Nop) Bearer(token string, _ Scope) Decision[string] { return Accept(token) }
func (Nop) GuestToken(token string, _ Scope) Decision[string] { return Accept(token) }
func (Nop) Headers(h twitter.Headers, _ Scope) Decision[twitter.Headers] { return Accept(h) }
func (Nop) Metadata(m *twitter.Metadata, _ Scope) Decision[*twitter.Metadata] { return Accept(m) }
func (Nop) DynURL(url string, _ Scope) Decision[string] { return Accept(url) }
func (Nop) MasterURL(url string, _ Scope) Decision[string] { return Accept(url) }
func (Nop) PlaylistURL(url string, _ Scope) Decision[string] { return Accept(url) }
func (Nop) Playlist(body string, _ Scope) Decision[string] { return Accept(body) }
func (Nop) UserID(id string, _ Scope) Decision[string] { return Accept(id) }
func (Nop) UserTweets(doc string, _ Scope) Decision[string] { return Accept(doc) }
func (Nop) SpaceURLs(urls []string, _ Scope) Decision[[]string] { return Accept(urls) }
