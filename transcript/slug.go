// Package transcript implements the per-video transcript acquisition
// pipeline: strategy execution, batch orchestration, and the combined
// transcript log.
package transcript

import (
	"regexp"
	"strings"
)

// TranscriptSuffix is the shared suffix of every per-video artifact.
const TranscriptSuffix = "-transcript.txt"

var (
	slugStrip    = regexp.MustCompile(`[^\w\s:-]`)
	slugCollapse = regexp.MustCompile(`[\s:]+`)
)

// Slugify sanitizes a video title for use in filenames. It strips all
// characters except alphanumerics, underscore, and hyphen, collapses
// runs of whitespace or colon into a single underscore, lower-cases,
// and trims leading/trailing underscores.
//
// Slugs carry no uniqueness guarantee of their own; derived filenames
// are unique only in combination with the video ID.
func Slugify(title string) string {
	s := slugStrip.ReplaceAllString(title, "")
	s = slugCollapse.ReplaceAllString(s, "_")
	return strings.Trim(strings.ToLower(s), "_")
}

// Filename derives the per-video artifact name from a title and video
// ID. It is a pure function: the same inputs always produce the same
// name, which is what makes the skip-if-exists check stable across runs.
func Filename(title, videoID string) string {
	return Slugify(title) + "-" + videoID + TranscriptSuffix
}
