package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type SQLiteHistory struct {
	db *sqlx.DB
}

func NewSQLiteHistory(path string) (*SQLiteHistory, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	schema := `
	  create table if not exists scrobble_history (
		id integer primary key autoincrement,
		title text not null,
		artist text not null,
		album text,
		station text,
		timestamp text not null
	  );`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating scrobble_history table: %w", err)
	}
	return &SQLiteHistory{db: db}, nil
}

func (r *SQLiteHistory) Append(rec ScrobbleRecord) error {
	query := `
	  insert into scrobble_history (title, artist, album, station, timestamp)
	  values (?, ?, ?, ?, ?);`

	_, err := r.db.Exec(query, rec.Title, rec.Artist, rec.Album, rec.Station,
		rec.Timestamp.UTC().Format(time.RFC3339))
	return err
}

func (r *SQLiteHistory) Last() (*ScrobbleRecord, error) {
	query := `
	  select id, title, artist, album, station, timestamp
	  from scrobble_history
	  order by id desc limit 1;`

	var (
		rec ScrobbleRecord
		ts  string
	)
	err := r.db.QueryRow(query).Scan(&rec.ID, &rec.Title, &rec.Artist, &rec.Album, &rec.Station, &ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if t, perr := time.Parse(time.RFC3339, ts); perr == nil {
		rec.Timestamp = t
	}
	return &rec, nil
}

func (r *SQLiteHistory) Close() error {
	return r.db.Close()
}
