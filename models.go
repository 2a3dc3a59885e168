// this file defines the data structures used throughout
package main

import "time"

// TrackInfo is the currently detected track for the active session.
// Empty fields mean "not known yet".
type TrackInfo struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album"`
}

// ScrobbleRecord is one row of the scrobble history ledger. Rows are
// append-only and written only after the remote endpoint confirmed the
// submission.
type ScrobbleRecord struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Artist    string    `json:"artist"`
	Album     string    `json:"album"`
	Station   string    `json:"station"`
	Timestamp time.Time `json:"timestamp"`
}

// Station is one entry of the station registry, loaded once at startup.
// Web and CSS are optional and only used by the now-playing page lookup.
type Station struct {
	Link string       `json:"Link"`
	Web  string       `json:"Web,omitempty"`
	CSS  CSSSelectors `json:"CSS,omitempty"`
}

// CSSSelectors locate the now-playing fields on a station's web page.
type CSSSelectors struct {
	Title  string `json:"title,omitempty"`
	Artist string `json:"artist,omitempty"`
	Album  string `json:"album,omitempty"`
	Remove string `json:"remove,omitempty"`
}

// StatusSnapshot is the read-only view of the playback state returned
// by the controller.
type StatusSnapshot struct {
	Playing   bool      `json:"is_playing"`
	SessionID string    `json:"session_id,omitempty"`
	Station   string    `json:"station"`
	Link      string    `json:"link"`
	Track     TrackInfo `json:"track"`
}
