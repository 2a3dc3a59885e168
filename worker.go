package main

import (
	"context"
	"time"

	"github.com/labstack/gommon/log"
)

// How often the worker checks whether the current track deserves a
// scrobble. Tracks outlive the interval, so duplicate suppression does
// the real rate limiting.
const scrobbleInterval = 30 * time.Second

// scrobbleWorker is the periodic task bound to one station. Each tick it
// snapshots the track store, validates the candidate, suppresses repeats
// against the ledger and submits the rest. Failed ticks are logged and
// dropped; the next tick starts from whatever is current then.
type scrobbleWorker struct {
	station  string
	tracks   *TrackStore
	history  ScrobbleHistory
	client   *Scrobbler
	lookup   *NowPlayingLookup // nil when the station has no web config
	interval time.Duration
	logger   *log.Logger
}

func (w *scrobbleWorker) run(ctx context.Context) {
	w.logger.Infof("scrobble worker started for station %q", w.station)
	defer w.logger.Infof("scrobble worker stopped for station %q", w.station)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// First check right away; a fresh session should not wait a full
	// interval before its first scrobble attempt.
	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *scrobbleWorker) tick(ctx context.Context) {
	track := w.tracks.Snapshot()

	// Streams without in-band metadata leave the store empty; fall back
	// to the station's web page when the registry knows where to look.
	if track.Title == "" && track.Artist == "" && w.lookup != nil {
		found, err := w.lookup.Fetch(ctx)
		if err != nil {
			w.logger.Debugf("now-playing lookup for %q: %v", w.station, err)
			return
		}
		track = found
	}

	if track.Title == "" || track.Artist == "" {
		return
	}
	// Stations commonly emit their own name as a placeholder.
	if track.Title == w.station || track.Artist == w.station {
		w.logger.Debugf("placeholder metadata for %q, skipping", w.station)
		return
	}

	last, err := w.history.Last()
	if err != nil {
		w.logger.Warnf("reading scrobble history: %v", err)
		return
	}
	if last != nil && last.Title == track.Title && last.Artist == track.Artist {
		return
	}

	rec := ScrobbleRecord{
		Title:     track.Title,
		Artist:    track.Artist,
		Album:     track.Album,
		Station:   w.station,
		Timestamp: time.Now().UTC(),
	}
	if err := w.client.Submit(ctx, rec); err != nil {
		w.logger.Warnf("scrobble for %q skipped: %v", w.station, err)
		return
	}
	if err := w.history.Append(rec); err != nil {
		w.logger.Errorf("recording scrobble: %v", err)
		return
	}
	w.logger.Infof("scrobbled %s - %s (%s)", rec.Artist, rec.Title, rec.Station)
}
