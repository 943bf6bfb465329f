package space

import (
	"regexp"
	"strconv"

	"github.com/spacedl/spacedl/twitter"
	"github.com/spacedl/spacedl/util"
)

// TimeLayout is how timestamps render inside filenames.
const TimeLayout = "2006-01-02_15-04-05"

var placeholder = regexp.MustCompile(`%\{(\w*)\}`)

// Fields returns the template-fillable attributes of meta.
func Fields(meta *twitter.Metadata) map[string]string {
	ts := func(t twitter.Timestamp) string {
		if t == 0 {
			return ""
		}
		return t.Time().Format(TimeLayout)
	}

	return map[string]string{
		"title":                meta.Title,
		"rest_id":              meta.RestID,
		"state":                meta.State,
		"created_at":           ts(meta.CreatedAt),
		"started_at":           ts(meta.StartedAt),
		"ended_at":             ts(meta.EndedAt),
		"updated_at":           ts(meta.UpdatedAt),
		"total_participated":   strconv.Itoa(meta.TotalParticipated),
		"total_replay_watched": strconv.Itoa(meta.TotalReplayWatched),
		"creator_name":         meta.CreatorName(),
		"creator_screen_name":  meta.CreatorScreenName(),
		"creator_id":           meta.Creator.Result.RestID,
	}
}

// Format substitutes every %{field} in template. Unknown fields become empty
// and path separators inside values are replaced.
func Format(template string, fields map[string]string) string {
	return placeholder.ReplaceAllStringFunc(template, func(match string) string {
		name := placeholder.FindStringSubmatch(match)[1]
		return util.SanitizePathSegment(fields[name])
	})
}
