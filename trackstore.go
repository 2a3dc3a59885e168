package main

import "sync"

// TrackStore holds the current track for the active playback session.
// The metadata monitor writes it, the scrobble worker and status
// reporting read it, so access always goes through whole-record
// snapshots.
type TrackStore struct {
	mu    sync.RWMutex
	track TrackInfo
}

func NewTrackStore() *TrackStore {
	return &TrackStore{}
}

// Set replaces the stored track. ICY metadata never carries an album,
// so the album field is always reset along with the rest.
func (s *TrackStore) Set(title, artist string) {
	s.mu.Lock()
	s.track = TrackInfo{Title: title, Artist: artist}
	s.mu.Unlock()
}

// Snapshot returns a copy of the current track.
func (s *TrackStore) Snapshot() TrackInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.track
}

// Clear resets the store to all-empty. Called on every session boundary.
func (s *TrackStore) Clear() {
	s.mu.Lock()
	s.track = TrackInfo{}
	s.mu.Unlock()
}
