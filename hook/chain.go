package hook

import "github.com/spacedl/spacedl/twitter"

// Chain runs several implementations in order, feeding each the previous
// result. The first abort wins.
type Chain []Hooks

func run[T any](c Chain, v T, call func(Hooks, T) Decision[T]) Decision[T] {
	for _, h := range c {
		d := call(h, v)
		if d.Aborted() {
			return d
		}
		v = d.Value
	}
	return Accept(v)
}

func (c Chain) Bearer(token string, s Scope) Decision[string] {
	return run(c, token, func(h Hooks, v string) Decision[string] { return h.Bearer(v, s) })
}

func (c Chain) GuestToken(token string, s Scope) Decision[string] {
	return run(c, token, func(h Hooks, v string) Decision[string] { return h.GuestToken(v, s) })
}

func (c Chain) Headers(headers twitter.Headers, s Scope) Decision[twitter.Headers] {
	return run(c, headers, func(h Hooks, v twitter.Headers) Decision[twitter.Headers] { return h.Headers(v, s) })
}

func (c Chain) Metadata(meta *twitter.Metadata, s Scope) Decision[*twitter.Metadata] {
	return run(c, meta, func(h Hooks, v *twitter.Metadata) Decision[*twitter.Metadata] { return h.Metadata(v, s) })
}

func (c Chain) DynURL(url string, s Scope) Decision[string] {
	return run(c, url, func(h Hooks, v string) Decision[string] { return h.DynURL(v, s) })
}

func (c Chain) MasterURL(url string, s Scope) Decision[string] {
	return run(c, url, func(h Hooks, v string) Decision[string] { return h.MasterURL(v, s) })
}

func (c Chain) PlaylistURL(url string, s Scope) Decision[string] {
	return run(c, url, func(h Hooks, v string) Decision[string] { return h.PlaylistURL(v, s) })
}

func (c Chain) Playlist(body string, s Scope) Decision[string] {
	return run(c, body, func(h Hooks, v string) Decision[string] { return h.Playlist(v, s) })
}

func (c Chain) UserID(id string, s Scope) Decision[string] {
	return run(c, id, func(h Hooks, v string) Decision[string] { return h.UserID(v, s) })
}

func (c Chain) UserTweets(doc string, s Scope) Decision[string] {
	return run(c, doc, func(h Hooks, v string) Decision[string] { return h.UserTweets(v, s) })
}

func (c Chain) SpaceURLs(urls []string, s Scope) Decision[[]string] {
	return run(c, urls, func(h Hooks, v []string) Decision[[]string] { return h.SpaceURLs(v, s) })
}
