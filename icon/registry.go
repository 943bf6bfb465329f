package icon

// Icon identifies a symbol.
type Icon int

const (
	Success Icon = iota
	Fail
	Progress
	Question
	Mark
	Skip
	Live
	Replay
	Hook
	Archive
)

var icons = map[Icon]*iconDef{
	Success:  {emoji: "🎉", nerd: "", plain: "+", kaomoji: "(ᵔᴥᵔ)", squares: "🟩"},
	Fail:     {emoji: "💥", nerd: "", plain: "x", kaomoji: "(╥﹏╥)", squares: "🟥"},
	Progress: {emoji: "⏳", nerd: "", plain: "~", kaomoji: "(・_・)", squares: "🟦"},
	Question: {emoji: "🤨", nerd: "", plain: "?", kaomoji: "(°ロ°)?", squares: "🟪"},
	Mark:     {emoji: "✔", nerd: "", plain: "*", kaomoji: "(•̀ᴗ•́)", squares: "▪"},
	Skip:     {emoji: "⏭", nerd: "", plain: "-", kaomoji: "(¬_¬)", squares: "⬜"},
	Live:     {emoji: "🔴", nerd: "", plain: "LIVE", kaomoji: "(ʘ‿ʘ)", squares: "🟥"},
	Replay:   {emoji: "📼", nerd: "", plain: "REPLAY", kaomoji: "(◕‿◕)", squares: "🟨"},
	Hook:     {emoji: "🌙", nerd: "", plain: "L", kaomoji: "(◔◡◔)", squares: "🟦"},
	Archive:  {emoji: "🗃", nerd: "", plain: "#", kaomoji: "(￣ー￣)", squares: "🟫"},
}
