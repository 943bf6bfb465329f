package hook

import (
	"errors"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spacedl/spacedl/filesystem"
	"github.com/spacedl/spacedl/twitter"
)

type prefixURLs struct {
	Nop
	prefix string
}

func (p prefixURLs) DynURL(url string, _ Scope) Decision[string] {
	return Accept(p.prefix + url)
}

type blockSpace struct {
	Nop
	id string
}

func (b blockSpace) Metadata(m *twitter.Metadata, s Scope) Decision[*twitter.Metadata] {
	if s.SpaceID == b.id {
		return Abort[*twitter.Metadata]("blocked")
	}
	return Accept(m)
}

func TestApply(t *testing.T) {
	Convey("Apply", t, func() {
		Convey("Accept should pass the value", func() {
			v, err := Apply(PointDynURL, Accept("u"))
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "u")
		})

		Convey("Abort should surface the reason", func() {
			_, err := Apply(PointMetadata, Abort[string]("blocked"))
			var veto *VetoError
			So(errors.As(err, &veto), ShouldBeTrue)
			So(veto.Point, ShouldEqual, PointMetadata)
			So(veto.Reason, ShouldEqual, "blocked")
			So(veto.Silent, ShouldBeFalse)
			So(err.Error(), ShouldContainSubstring, "blocked")
		})

		Convey("Silent should carry no reason", func() {
			_, err := Apply(PointPlaylist, Silent[string]())
			var veto *VetoError
			So(errors.As(err, &veto), ShouldBeTrue)
			So(veto.Silent, ShouldBeTrue)
			So(veto.Reason, ShouldBeEmpty)
		})
	})
}

func TestNop(t *testing.T) {
	Convey("Nop passes every value through", t, func() {
		var h Hooks = Nop{}
		So(h.DynURL("u", Scope{}).Value, ShouldEqual, "u")
		So(h.SpaceURLs([]string{"a"}, Scope{}).Value, ShouldResemble, []string{"a"})
		So(h.Playlist("body", Scope{}).Aborted(), ShouldBeFalse)
	})
}

func TestChain(t *testing.T) {
	Convey("Chain", t, func() {
		Convey("Should feed results forward in order", func() {
			c := Chain{prefixURLs{prefix: "a/"}, prefixURLs{prefix: "b/"}}
			So(c.DynURL("u", Scope{}).Value, ShouldEqual, "b/a/u")
		})

		Convey("Should stop at the first abort", func() {
			c := Chain{blockSpace{id: "x"}, blockSpace{id: "y"}}
			d := c.Metadata(&twitter.Metadata{}, Scope{SpaceID: "x"})
			So(d.Aborted(), ShouldBeTrue)
			So(d.Reason, ShouldEqual, "blocked")

			So(c.Metadata(&twitter.Metadata{}, Scope{SpaceID: "z"}).Aborted(), ShouldBeFalse)
		})
	})
}

func writeScript(name, source string) string {
	path := filepath.Join("/hooks", name)
	if err := filesystem.API().WriteFile(path, []byte(source), 0644); err != nil {
		panic(err)
	}
	return path
}

func TestScript(t *testing.T) {
	Convey("Script", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		Convey("Undefined functions pass through", func() {
			s, err := LoadScript(writeScript("empty.lua", `-- nothing`))
			So(err, ShouldBeNil)
			defer s.Close()

			So(s.Defines(), ShouldBeEmpty)
			So(s.DynURL("u", Scope{}).Value, ShouldEqual, "u")
		})

		Convey("Returning a value replaces it", func() {
			s, err := LoadScript(writeScript("rewrite.lua", `
				function dyn_url(url, space_id)
					return url .. "#" .. space_id
				end
				function metadata(meta, space_id)
					meta.title = "[" .. meta.title .. "]"
					return meta
				end
			`))
			So(err, ShouldBeNil)
			defer s.Close()

			So(s.Defines(), ShouldResemble, []string{"metadata", "dyn_url"})
			So(s.DynURL("u", Scope{SpaceID: "abc"}).Value, ShouldEqual, "u#abc")

			d := s.Metadata(&twitter.Metadata{Title: "Hello", MediaKey: "28_1", CreatedAt: 1667000000000}, Scope{})
			So(d.Aborted(), ShouldBeFalse)
			So(d.Value.Title, ShouldEqual, "[Hello]")
			So(d.Value.MediaKey, ShouldEqual, "28_1")
			So(d.Value.CreatedAt, ShouldEqual, twitter.Timestamp(1667000000000))
		})

		Convey("Returning nil keeps the value", func() {
			s, err := LoadScript(writeScript("keep.lua", `function playlist(body) return nil end`))
			So(err, ShouldBeNil)
			defer s.Close()

			So(s.Playlist("body", Scope{}).Value, ShouldEqual, "body")
		})

		Convey("Returning false aborts", func() {
			s, err := LoadScript(writeScript("veto.lua", `
				function space_urls(urls, screen_name, user_id)
					if screen_name == "blocked" then
						return false, "user is blocked"
					end
					if screen_name == "quiet" then
						return false
					end
					local kept = {}
					for i, u in ipairs(urls) do
						if i == 1 then table.insert(kept, u) end
					end
					return kept
				end
			`))
			So(err, ShouldBeNil)
			defer s.Close()

			urls := []string{"https://twitter.com/i/spaces/a", "https://twitter.com/i/spaces/b"}

			d := s.SpaceURLs(urls, Scope{ScreenName: "blocked"})
			So(d.Aborted(), ShouldBeTrue)
			So(d.Reason, ShouldEqual, "user is blocked")

			_, err = Apply(PointSpaceURLs, s.SpaceURLs(urls, Scope{ScreenName: "quiet"}))
			var veto *VetoError
			So(errors.As(err, &veto), ShouldBeTrue)
			So(veto.Silent, ShouldBeTrue)

			So(s.SpaceURLs(urls, Scope{ScreenName: "host"}).Value, ShouldResemble, urls[:1])
		})

		Convey("Runtime errors abort with a reason", func() {
			s, err := LoadScript(writeScript("broken.lua", `function master_url(url) error("nope") end`))
			So(err, ShouldBeNil)
			defer s.Close()

			d := s.MasterURL("u", Scope{})
			So(d.Aborted(), ShouldBeTrue)
			So(d.Reason, ShouldContainSubstring, "nope")

			So(s.MasterURL("u", Scope{}).Aborted(), ShouldBeTrue)
		})

		Convey("Syntax errors fail to load", func() {
			_, err := LoadScript(writeScript("syntax.lua", `function (`))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Load", t, func() {
		filesystem.SetMemMapFs()
		defer filesystem.SetOsFs()

		fs := filesystem.API()
		So(fs.MkdirAll("/load", 0755), ShouldBeNil)

		Convey("An empty directory yields Nop", func() {
			h, scripts, err := Load("/load")
			So(err, ShouldBeNil)
			So(scripts, ShouldBeEmpty)
			So(h, ShouldHaveSameTypeAs, Nop{})
		})

		Convey("Scripts chain in lexical order", func() {
			So(fs.WriteFile("/load/b.lua", []byte(`function dyn_url(u) return u .. "b" end`), 0644), ShouldBeNil)
			So(fs.WriteFile("/load/a.lua", []byte(`function dyn_url(u) return u .. "a" end`), 0644), ShouldBeNil)
			So(fs.WriteFile("/load/notes.txt", []byte(`ignored`), 0644), ShouldBeNil)

			h, scripts, err := Load("/load")
			So(err, ShouldBeNil)
			So(scripts, ShouldHaveLength, 2)
			So(h.DynURL("", Scope{}).Value, ShouldEqual, "ab")
		})
	})
}
