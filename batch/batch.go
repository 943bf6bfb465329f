// Package batch downloads several spaces, typically every space a user
// linked recently, each in its own session.
package batch

import (
	"context"

	"github.com/samber/lo"
	lop "github.com/samber/lo/parallel"
	"github.com/spacedl/spacedl/archive"
	"github.com/spacedl/spacedl/download"
	"github.com/spacedl/spacedl/hook"
	"github.com/spacedl/spacedl/session"
	"github.com/spacedl/spacedl/space"
	"github.com/spacedl/spacedl/twitter"
)

// Store remembers finished spaces.
type Store interface {
	Has(spaceID string) (bool, error)
	Add(entry archive.Entry) error
}

// Select narrows the discovered space URLs down, e.g. interactively.
type Select func(urls []string) ([]string, error)

// Outcome is the result of one space.
type Outcome struct {
	URL     string
	SpaceID string
	Title   string

	Result  *download.Result
	Err     error
	Failure space.Failure
	Skipped bool
}

// Driver runs downloads for many spaces.
type Driver struct {
	API      twitter.API
	Hooks    hook.Hooks
	Composer *download.Composer
	Resolver space.Options

	// Parallel bounds the spaces downloaded at once.
	Parallel int
	// Archive, when set, is consulted before and updated after each space.
	Archive Store
	// Select is applied to the discovered URLs of a user. Nil keeps all.
	Select Select
}

// User downloads the spaces linked from the recent tweets of screenName.
// Failures resolving the user abort the batch, failures of single spaces
// are reported through their Outcome. A hook veto aborts the batch from
// either stage.
func (d *Driver) User(ctx context.Context, screenName string) ([]Outcome, error) {
	parent := session.ForUser(screenName, d.Hooks)
	r := space.New(parent, d.API, d.Resolver)

	urls, err := r.SpaceURLs(ctx)
	if err != nil {
		return nil, err
	}

	if d.Select != nil && len(urls) > 0 {
		if urls, err = d.Select(urls); err != nil {
			return nil, err
		}
	}

	return d.Run(ctx, parent, urls)
}

// Run downloads urls. Each space gets a child session of parent, or a fresh
// session when parent is nil. A veto stops the run: no further space is
// started, running siblings stop before their next job, and the veto is
// returned with the outcomes gathered so far.
func (d *Driver) Run(ctx context.Context, parent *session.Session, urls []string) ([]Outcome, error) {
	size := d.Parallel
	if size < 1 {
		size = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var outcomes []Outcome
	for _, chunk := range lo.Chunk(urls, size) {
		if ctx.Err() != nil {
			break
		}

		done := lop.Map(chunk, func(url string, _ int) Outcome {
			outcome := d.One(ctx, parent, url)
			if outcome.Failure == space.FailureVeto {
				cancel()
			}
			return outcome
		})
		outcomes = append(outcomes, done...)

		if vetoed, ok := lo.Find(done, func(o Outcome) bool {
			return o.Failure == space.FailureVeto
		}); ok {
			return outcomes, vetoed.Err
		}
	}

	return outcomes, nil
}

// One downloads a single space.
func (d *Driver) One(ctx context.Context, parent *session.Session, url string) Outcome {
	outcome := Outcome{URL: url}

	id, err := twitter.SpaceID(url)
	if err != nil {
		return failed(outcome, err)
	}
	outcome.SpaceID = id

	if d.Archive != nil {
		seen, err := d.Archive.Has(id)
		if err != nil {
			return failed(outcome, err)
		}
		if seen {
			outcome.Skipped = true
			return outcome
		}
	}

	var sess *session.Session
	if parent != nil {
		sess = parent.Child(id)
	} else {
		sess = session.New(id, d.Hooks)
	}

	r := space.New(sess, d.API, d.Resolver)
	outcome.Result, err = d.Composer.Download(ctx, r)

	if meta, ok := session.Lookup[*twitter.Metadata](sess.Cache, session.Metadata).Get(); ok {
		outcome.Title = meta.Title
	}

	if err != nil {
		return failed(outcome, err)
	}

	if d.Archive != nil && outcome.Result.Output != "" {
		if err := d.Archive.Add(archive.Entry{
			SpaceID:    id,
			Title:      outcome.Title,
			ScreenName: sess.ScreenName,
			Output:     outcome.Result.Output,
		}); err != nil {
			sess.Log.Warnf("archive: %s", err)
		}
	}

	return outcome
}

func failed(outcome Outcome, err error) Outcome {
	outcome.Err = err
	outcome.Failure = space.Classify(err)
	return outcome
}
