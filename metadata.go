package main

import (
	"regexp"
	"strings"
)

// mpg123 prints the in-band stream metadata of mp3 streams as lines like
//
//	ICY-META: StreamTitle='Daft Punk - One More Time';StreamUrl='...';
//
// The StreamTitle value is a single combined string; most stations put the
// artist before one of a handful of separators.
const icyMetaPrefix = "ICY-META:"

// Non-greedy so apostrophes inside the value don't cut the match short.
var streamTitleRe = regexp.MustCompile(`StreamTitle='(.*?)';`)

// Checked in order; the first separator present wins.
var trackSeparators = []string{" - ", " – ", " — ", " | ", ": "}

// ParseICYMeta extracts (title, artist) from one line of decoder output.
// Lines without an ICY-META marker report ok=false and are not an error.
// When the value carries no recognized separator the whole value is the
// title and the artist stays empty.
func ParseICYMeta(line string) (title, artist string, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, icyMetaPrefix) || !strings.Contains(line, "StreamTitle=") {
		return "", "", false
	}

	m := streamTitleRe.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}

	value := strings.ReplaceAll(strings.TrimSpace(m[1]), "'", "")
	for _, sep := range trackSeparators {
		if i := strings.Index(value, sep); i >= 0 {
			artist = strings.TrimSpace(value[:i])
			title = strings.TrimSpace(value[i+len(sep):])
			return title, artist, true
		}
	}
	return strings.TrimSpace(value), "", true
}
