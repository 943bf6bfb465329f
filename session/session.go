package session

import (
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spacedl/spacedl/hook"
	"github.com/spacedl/spacedl/log"
)

// Session is one resolution context: a single space download or the user
// lookup of a batch run. Sessions share no mutable state.
type Session struct {
	ID         string
	SpaceID    string
	ScreenName string

	Cache *Cache
	Hooks hook.Hooks
	Log   *logrus.Entry
}

// New returns a session for spaceID with its own cache. A nil hooks means no extensions.
func New(spaceID string, hooks hook.Hooks) *Session {
	if hooks == nil {
		hooks = hook.Nop{}
	}

	id := uuid.NewString()
	return &Session{
		ID:      id,
		SpaceID: spaceID,
		Cache:   NewCache(),
		Hooks:   hooks,
		Log:     log.With(log.Fields{"session": id, "space": spaceID}),
	}
}

// ForUser returns a session for the user-driven part of a batch run.
func ForUser(screenName string, hooks hook.Hooks) *Session {
	s := New("", hooks)
	s.ScreenName = screenName
	s.Log = log.With(log.Fields{"session": s.ID, "user": screenName})
	return s
}

// Child derives an independent session for one space of a batch run. Only
// the already resolved guest token is carried over.
func (s *Session) Child(spaceID string) *Session {
	child := New(spaceID, s.Hooks)
	child.ScreenName = s.ScreenName

	if token, ok := Lookup[string](s.Cache, GuestToken).Get(); ok {
		child.Cache.PutIfAbsent(GuestToken, token)
	}

	return child
}

// Scope identifies the session to hooks.
func (s *Session) Scope() hook.Scope {
	return hook.Scope{SpaceID: s.SpaceID, ScreenName: s.ScreenName}
}
