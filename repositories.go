package main

// ScrobbleHistory is the durable append-only ledger of confirmed
// submissions. The most recent row is the baseline for duplicate
// suppression. Only the scrobble worker of the single active session
// touches it, so no extra locking is layered on top of the database.
type ScrobbleHistory interface {
	Append(rec ScrobbleRecord) error
	Last() (*ScrobbleRecord, error)
	Close() error
}
