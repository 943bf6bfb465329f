package archive

import (
	"fmt"
	"time"
)

// Entry is a finished download.
type Entry struct {
	SpaceID    string    `json:"space_id"`
	Title      string    `json:"title"`
	ScreenName string    `json:"screen_name,omitempty"`
	Output     string    `json:"output"`
	SavedAt    time.Time `json:"saved_at"`
}

func (e *Entry) String() string {
	if e.ScreenName == "" {
		return fmt.Sprintf("%s  %s", e.SpaceID, e.Title)
	}
	return fmt.Sprintf("%s  %s (@%s)", e.SpaceID, e.Title, e.ScreenName)
}
