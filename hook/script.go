package hook

import (
	"fmt"
	"sync"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/twitter"
	"github.com/spacedl/spacedl/util"
	lua "github.com/yuin/gopher-lua"
)

// Script implements Hooks with a Lua file. Undefined functions pass values
// through. Calls are serialised because a Lua state is single-threaded.
type Script struct {
	name  string
	path  string
	mu    sync.Mutex
	state *lua.LState
}

// LoadScript executes the script at path in a fresh Lua state.
func LoadScript(path string) (*Script, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)

	if err := compileAndLoad(state, path); err != nil {
		state.Close()
		return nil, fmt.Errorf("load hook %s: %w", path, err)
	}

	return &Script{
		name:  util.FileStem(path),
		path:  path,
		state: state,
	}, nil
}

// Name returns the script basename without extension.
func (s *Script) Name() string {
	return s.name
}

// Path returns the file the script was loaded from.
func (s *Script) Path() string {
	return s.path
}

// Defines lists the hook functions the script declares.
func (s *Script) Defines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var defined []string
	for _, fn := range functions {
		if s.state.GetGlobal(fn).Type() == lua.LTFunction {
			defined = append(defined, fn)
		}
	}
	return defined
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Close()
}

var functions = []string{
	constant.BearerFn,
	constant.GuestTokenFn,
	constant.HeadersFn,
	constant.MetadataFn,
	constant.DynURLFn,
	constant.MasterURLFn,
	constant.PlaylistURLFn,
	constant.PlaylistFn,
	constant.UserIDFn,
	constant.UserTweetsFn,
	constant.SpaceURLsFn,
}

// decide calls fn(value, ids...) and maps the return values onto a decision:
// nil keeps value, false aborts (with the second return as reason), anything
// else replaces value.
func decide[T any](
	s *Script,
	fn string,
	value T,
	encode func(*lua.LState, T) lua.LValue,
	decode func(lua.LValue) (T, error),
	ids ...string,
) Decision[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	luaFn := s.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return Accept(value)
	}

	args := []lua.LValue{encode(s.state, value)}
	for _, id := range ids {
		args = append(args, lua.LString(id))
	}

	top := s.state.GetTop()
	err := s.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    2,
		Protect: true,
	}, args...)
	if err != nil {
		s.state.SetTop(top)
		return Abort[T](fmt.Sprintf("%s: %s failed: %s", s.name, fn, err))
	}

	ret, reason := s.state.Get(-2), s.state.Get(-1)
	s.state.Pop(2)

	switch {
	case ret == lua.LNil:
		return Accept(value)
	case ret == lua.LFalse:
		if reason.Type() == lua.LTString && reason.String() != "" {
			return Abort[T](reason.String())
		}
		return Silent[T]()
	}

	converted, err := decode(ret)
	if err != nil {
		return Abort[T](fmt.Sprintf("%s: %s returned an invalid value: %s", s.name, fn, err))
	}
	return Accept(converted)
}

func (s *Script) Bearer(token string, scope Scope) Decision[string] {
	return decide(s, constant.BearerFn, token, stringToLua, stringFromLua, scope.SpaceID)
}

func (s *Script) GuestToken(token string, scope Scope) Decision[string] {
	return decide(s, constant.GuestTokenFn, token, stringToLua, stringFromLua, scope.SpaceID)
}

func (s *Script) Headers(headers twitter.Headers, scope Scope) Decision[twitter.Headers] {
	return decide(s, constant.HeadersFn, headers, headersToLua, headersFromLua, scope.SpaceID)
}

func (s *Script) Metadata(meta *twitter.Metadata, scope Scope) Decision[*twitter.Metadata] {
	return decide(s, constant.MetadataFn, meta, metadataToLua, metadataFromLua, scope.SpaceID)
}

func (s *Script) DynURL(url string, scope Scope) Decision[string] {
	return decide(s, constant.DynURLFn, url, stringToLua, stringFromLua, scope.SpaceID)
}

func (s *Script) MasterURL(url string, scope Scope) Decision[string] {
	return decide(s, constant.MasterURLFn, url, stringToLua, stringFromLua, scope.SpaceID)
}

func (s *Script) PlaylistURL(url string, scope Scope) Decision[string] {
	return decide(s, constant.PlaylistURLFn, url, stringToLua, stringFromLua, scope.SpaceID)
}

func (s *Script) Playlist(body string, scope Scope) Decision[string] {
	return decide(s, constant.PlaylistFn, body, stringToLua, stringFromLua, scope.SpaceID)
}

func (s *Script) UserID(id string, scope Scope) Decision[string] {
	return decide(s, constant.UserIDFn, id, stringToLua, stringFromLua, scope.ScreenName)
}

func (s *Script) UserTweets(doc string, scope Scope) Decision[string] {
	return decide(s, constant.UserTweetsFn, doc, stringToLua, stringFromLua, scope.ScreenName, scope.UserID)
}

func (s *Script) SpaceURLs(urls []string, scope Scope) Decision[[]string] {
	return decide(s, constant.SpaceURLsFn, urls, stringsToLua, stringsFromLua, scope.ScreenName, scope.UserID)
}
