package constant

// BearerToken is the public web client credential sent with every upstream API call.
const BearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

// Space states reported by the metadata endpoint.
const (
	StateRunning = "Running"
	StateEnded   = "Ended"
)

// MasterPlaylist is the fixed filename of the master playlist next to a dynamic playlist.
const MasterPlaylist = "master_playlist.m3u8"

// ChunkPrefix marks every segment reference inside a sub playlist.
const ChunkPrefix = "chunk_"

// M4A is the container extension of every ffmpeg output.
const M4A = ".m4a"
