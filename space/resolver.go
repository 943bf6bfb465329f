// Package space resolves a broadcast one stage at a time, from the guest
// credential down to the rewritten media playlist. Every stage is cached in
// the session and offered to the session hooks before it is stored.
package space

import (
	"context"
	"fmt"
	"time"

	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/hook"
	"github.com/spacedl/spacedl/session"
	"github.com/spacedl/spacedl/twitter"
)

// Options tune a Resolver. Zero values fall back to the defaults.
type Options struct {
	// Attempts is the guest token budget.
	Attempts int
	// Backoff is the pause between two guest token attempts.
	Backoff time.Duration
	// Bearer overrides the built-in bearer credential.
	Bearer string
	// Sleep waits between attempts; it returns early with ctx.Err() on cancellation.
	Sleep func(ctx context.Context, d time.Duration) error
}

const (
	DefaultAttempts = 5
	DefaultBackoff  = time.Second
)

// Resolver walks the resolution chain for one session.
type Resolver struct {
	Session *session.Session
	API     twitter.API

	options Options
}

// New returns a resolver over sess backed by api.
func New(sess *session.Session, api twitter.API, options Options) *Resolver {
	if options.Attempts <= 0 {
		options.Attempts = DefaultAttempts
	}
	if options.Backoff < 0 {
		options.Backoff = 0
	} else if options.Backoff == 0 {
		options.Backoff = DefaultBackoff
	}
	if options.Bearer == "" {
		options.Bearer = constant.BearerToken
	}
	if options.Sleep == nil {
		options.Sleep = sleep
	}

	return &Resolver{
		Session: sess,
		API:     api,
		options: options,
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Resolver) hooks() hook.Hooks {
	return r.Session.Hooks
}

// GuestToken returns the session guest token, acquiring it on a miss.
// Acquisition is retried up to the attempt budget, sleeping the backoff
// between attempts; exhaustion yields ErrCredentials.
func (r *Resolver) GuestToken(ctx context.Context) (string, error) {
	return session.Resolve(r.Session.Cache, session.GuestToken, func() (string, error) {
		var lastErr error

		for attempt := 1; attempt <= r.options.Attempts; attempt++ {
			if err := ctx.Err(); err != nil {
				return "", err
			}

			token, err := r.API.GuestToken(ctx)
			if err == nil {
				r.Session.Log.WithField("attempt", attempt).Debug("acquired guest token")
				return hook.Apply(hook.PointGuestToken, r.hooks().GuestToken(token, r.Session.Scope()))
			}

			lastErr = err
			r.Session.Log.WithField("attempt", attempt).Warnf("guest token: %s", err)

			if attempt < r.options.Attempts {
				if err := r.options.Sleep(ctx, r.options.Backoff); err != nil {
					return "", err
				}
			}
		}

		return "", stageErr(StageGuestToken, fmt.Errorf("%w after %d attempts: %s", ErrCredentials, r.options.Attempts, lastErr))
	})
}

// Headers returns the authenticated request headers of the session.
func (r *Resolver) Headers(ctx context.Context) (twitter.Headers, error) {
	return session.Resolve(r.Session.Cache, session.Headers, func() (twitter.Headers, error) {
		bearer, err := hook.Apply(hook.PointBearer, r.hooks().Bearer(r.options.Bearer, r.Session.Scope()))
		if err != nil {
			return nil, err
		}

		token, err := r.GuestToken(ctx)
		if err != nil {
			return nil, err
		}

		return hook.Apply(hook.PointHeaders, r.hooks().Headers(twitter.NewHeaders(bearer, token), r.Session.Scope()))
	})
}

// Metadata returns the metadata document of the session space.
func (r *Resolver) Metadata(ctx context.Context) (*twitter.Metadata, error) {
	return session.Resolve(r.Session.Cache, session.Metadata, func() (*twitter.Metadata, error) {
		headers, err := r.Headers(ctx)
		if err != nil {
			return nil, err
		}

		meta, err := r.API.AudioSpace(ctx, headers, r.Session.SpaceID)
		if err != nil {
			return nil, stageErr(StageMetadata, err)
		}

		r.Session.Log.WithField("state", meta.State).Infof("resolved metadata of %q", meta.Title)
		meta, err = hook.Apply(hook.PointMetadata, r.hooks().Metadata(meta, r.Session.Scope()))
		if err != nil {
			return nil, err
		}
		if meta == nil {
			return nil, stageErr(StageMetadata, errNilMetadata)
		}
		return meta, nil
	})
}

// DynURL returns the dynamic playback location of the space. A space that
// ended without a replay fails with ErrNoReplay before any status query.
func (r *Resolver) DynURL(ctx context.Context) (string, error) {
	return session.Resolve(r.Session.Cache, session.DynURL, func() (string, error) {
		meta, err := r.Metadata(ctx)
		if err != nil {
			return "", err
		}

		if meta.State == constant.StateEnded && !meta.ReplayAvailable {
			return "", stageErr(StageDynURL, ErrNoReplay)
		}

		if err := ctx.Err(); err != nil {
			return "", err
		}

		headers, err := r.Headers(ctx)
		if err != nil {
			return "", err
		}

		location, err := r.API.StreamSource(ctx, headers, meta.MediaKey)
		if err != nil {
			return "", stageErr(StageDynURL, err)
		}

		return hook.Apply(hook.PointDynURL, r.hooks().DynURL(location, r.Session.Scope()))
	})
}

// MasterURL returns the master playlist location derived from the dynamic URL.
func (r *Resolver) MasterURL(ctx context.Context) (string, error) {
	return session.Resolve(r.Session.Cache, session.MasterPlaylist, func() (string, error) {
		dyn, err := r.DynURL(ctx)
		if err != nil {
			return "", err
		}

		master, err := MasterFromDyn(dyn)
		if err != nil {
			return "", stageErr(StageMasterURL, err)
		}

		return hook.Apply(hook.PointMasterURL, r.hooks().MasterURL(master, r.Session.Scope()))
	})
}

// PlaylistURL returns the location of the sub playlist named by the master playlist.
func (r *Resolver) PlaylistURL(ctx context.Context) (string, error) {
	return session.Resolve(r.Session.Cache, session.PlaylistURL, func() (string, error) {
		master, err := r.MasterURL(ctx)
		if err != nil {
			return "", err
		}

		body, err := r.API.Fetch(ctx, master)
		if err != nil {
			return "", stageErr(StagePlaylistURL, err)
		}

		playlistURL, err := PlaylistFromMaster(master, body)
		if err != nil {
			return "", stageErr(StagePlaylistURL, err)
		}

		return hook.Apply(hook.PointPlaylistURL, r.hooks().PlaylistURL(playlistURL, r.Session.Scope()))
	})
}

// Playlist returns the sub playlist body with absolute chunk locations.
func (r *Resolver) Playlist(ctx context.Context) (string, error) {
	return session.Resolve(r.Session.Cache, session.Playlist, func() (string, error) {
		playlistURL, err := r.PlaylistURL(ctx)
		if err != nil {
			return "", err
		}

		master, err := r.MasterURL(ctx)
		if err != nil {
			return "", err
		}

		body, err := r.API.Fetch(ctx, playlistURL)
		if err != nil {
			return "", stageErr(StagePlaylist, err)
		}

		body = RewriteChunks(body, master)

		if count, err := SegmentCount(body); err != nil {
			r.Session.Log.Warnf("playlist does not decode: %s", err)
		} else {
			r.Session.Log.WithField("segments", count).Debug("rewrote playlist")
		}

		return hook.Apply(hook.PointPlaylist, r.hooks().Playlist(body, r.Session.Scope()))
	})
}

// Filename returns the output name of the space rendered from template.
// The rest id is used when the template renders empty.
func (r *Resolver) Filename(ctx context.Context, template string) (string, error) {
	return session.Resolve(r.Session.Cache, session.Filename, func() (string, error) {
		meta, err := r.Metadata(ctx)
		if err != nil {
			return "", err
		}

		name := Format(template, Fields(meta))
		if name == "" {
			name = meta.RestID
		}
		return name, nil
	})
}

// UserID resolves the session screen name to its user id.
func (r *Resolver) UserID(ctx context.Context) (string, error) {
	return session.Resolve(r.Session.Cache, session.UserID, func() (string, error) {
		headers, err := r.Headers(ctx)
		if err != nil {
			return "", err
		}

		id, err := r.API.UserID(ctx, headers, r.Session.ScreenName)
		if err != nil {
			return "", stageErr(StageUserID, err)
		}

		return hook.Apply(hook.PointUserID, r.hooks().UserID(id, r.Session.Scope()))
	})
}

// SpaceURLs returns the space links found in the recent tweets of the session user.
func (r *Resolver) SpaceURLs(ctx context.Context) ([]string, error) {
	id, err := r.UserID(ctx)
	if err != nil {
		return nil, err
	}

	headers, err := r.Headers(ctx)
	if err != nil {
		return nil, err
	}

	scope := r.Session.Scope()
	scope.UserID = id

	document, err := r.API.UserTweets(ctx, headers, id)
	if err != nil {
		return nil, stageErr(StageUserTweets, err)
	}

	document, err = hook.Apply(hook.PointUserTweets, r.hooks().UserTweets(document, scope))
	if err != nil {
		return nil, err
	}

	urls := twitter.SpaceURLs(document)
	r.Session.Log.WithField("count", len(urls)).Info("discovered spaces")

	return hook.Apply(hook.PointSpaceURLs, r.hooks().SpaceURLs(urls, scope))
}
