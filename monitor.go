package main

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/labstack/gommon/log"
)

// metadataMonitor turns the decoder's interleaved stdout/stderr into
// track updates. One readLines goroutine runs per output channel; both
// publish into the same TrackStore. The monitor publishes whatever it
// parses - placeholder filtering against the station name happens in
// the scrobble worker, which knows the station identity.
type metadataMonitor struct {
	tracks *TrackStore
	logger *log.Logger
}

func newMetadataMonitor(tracks *TrackStore, logger *log.Logger) *metadataMonitor {
	return &metadataMonitor{tracks: tracks, logger: logger}
}

// readLines scans one output channel until end-of-stream. Cancellation
// works through process teardown: terminating the decoder closes its
// pipes, which unblocks the pending read with EOF. The context check
// only covers the case where lines keep arriving after cancellation.
func (m *metadataMonitor) readLines(ctx context.Context, r io.Reader, channel string) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 256*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		title, artist, ok := ParseICYMeta(line)
		if !ok || (title == "" && artist == "") {
			continue
		}

		m.tracks.Set(title, artist)
		m.logger.Infof("track update from %s: artist=%q title=%q", channel, artist, title)
	}

	if err := scanner.Err(); err != nil && ctx.Err() == nil {
		m.logger.Debugf("%s reader closed: %v", channel, err)
	}
}
