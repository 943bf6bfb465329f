package space

import (
	"context"
	"errors"
	"fmt"

	"github.com/spacedl/spacedl/hook"
)

var (
	// ErrCredentials is returned when the guest token budget is exhausted.
	ErrCredentials = errors.New("could not acquire a guest token")

	// ErrNoReplay is returned for a space that ended without a replay.
	ErrNoReplay = errors.New("space ended and has no replay")

	errNilMetadata = errors.New("hook returned no metadata")
)

// Stage names a resolution step.
type Stage string

const (
	StageGuestToken  Stage = "guest token"
	StageMetadata    Stage = "metadata"
	StageDynURL      Stage = "dynamic url"
	StageMasterURL   Stage = "master playlist url"
	StagePlaylistURL Stage = "playlist url"
	StagePlaylist    Stage = "playlist"
	StageUserID      Stage = "user id"
	StageUserTweets  Stage = "user tweets"
)

// StageError tags a failure with the stage that produced it.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("resolve %s: %s", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageErr(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}

// Failure classifies an error for reporting.
type Failure int

const (
	FailureNone Failure = iota
	FailureCredentials
	FailureResolution
	FailureTerminal
	FailureVeto
	FailureCanceled
)

func (f Failure) String() string {
	switch f {
	case FailureNone:
		return "ok"
	case FailureCredentials:
		return "credentials exhausted"
	case FailureResolution:
		return "resolution failed"
	case FailureTerminal:
		return "ended without replay"
	case FailureVeto:
		return "vetoed by hook"
	case FailureCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Classify maps an error returned by the resolver onto a Failure.
func Classify(err error) Failure {
	var veto *hook.VetoError

	switch {
	case err == nil:
		return FailureNone
	case errors.As(err, &veto):
		return FailureVeto
	case errors.Is(err, ErrCredentials):
		return FailureCredentials
	case errors.Is(err, ErrNoReplay):
		return FailureTerminal
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return FailureCanceled
	default:
		return FailureResolution
	}
}
