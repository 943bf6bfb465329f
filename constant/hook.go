package constant

// Hook function identifiers - these are the optional global functions a Lua hook script may define.
const (
	BearerFn      = "bearer"
	GuestTokenFn  = "guest_token"
	HeadersFn     = "headers"
	MetadataFn    = "metadata"
	DynURLFn      = "dyn_url"
	MasterURLFn   = "master_url"
	PlaylistURLFn = "playlist_url"
	PlaylistFn    = "playlist"
	UserIDFn      = "user_id"
	UserTweetsFn  = "user_tweets"
	SpaceURLsFn   = "space_urls"
)

// HookExtension is the file extension of hook scripts.
const HookExtension = ".lua"

// HookTemplate is a Go text/template for scaffolding new hook scripts.
const HookTemplate = `{{ $divider := repeat "-" (plus (max (len .Name) (len .Author) 3) 12) }}{{ $divider }}
-- @name    {{ .Name }}
-- @author  {{ .Author }}
-- @license MIT
{{ $divider }}

-- Every function is optional. Return conventions:
--   return nil            keep the value unchanged
--   return value          replace the value
--   return false          abort the download silently
--   return false, "why"   abort the download and report why


----- HOOKS -----

--- Called with the resolved space metadata.
-- @param meta table Space metadata (rest_id, title, state, media_key, ...)
-- @param space_id string Space identifier
function {{ .MetadataFn }}(meta, space_id)
	return nil
end


--- Called with the space links discovered on a user's timeline.
-- @param urls string[] Discovered space URLs
-- @param screen_name string User handle
-- @param user_id string User identifier
function {{ .SpaceURLsFn }}(urls, screen_name, user_id)
	return nil
end

--- END HOOKS ---

-- ex: ts=4 sw=4 et filetype=lua
`
