package main

import (
	"io"
	"sync"

	"github.com/labstack/gommon/log"
)

func newTestLogger() *log.Logger {
	logger := log.New("test")
	logger.SetOutput(io.Discard)
	logger.SetLevel(log.OFF)
	return logger
}

// fakeHistory is an in-memory ScrobbleHistory for worker and handler
// tests.
type fakeHistory struct {
	mu      sync.Mutex
	records []ScrobbleRecord
}

func (f *fakeHistory) Append(rec ScrobbleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec.ID = int64(len(f.records) + 1)
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeHistory) Last() (*ScrobbleRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.records) == 0 {
		return nil, nil
	}
	rec := f.records[len(f.records)-1]
	return &rec, nil
}

func (f *fakeHistory) Close() error { return nil }

func (f *fakeHistory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}
