package main

import (
	"net/url"
	"os"

	"github.com/labstack/gommon/log"
)

func main() {
	logger := log.New("radio")
	logger.SetLevel(log.INFO)

	var (
		history ScrobbleHistory
		err     error
	)
	dbURL := getenv("DB_URL", "sqlite://scrobble_history.db")
	u, perr := url.Parse(dbURL)
	if perr != nil {
		logger.Fatalf("invalid DB_URL %q: %v", dbURL, perr)
	}
	switch u.Scheme {
	case "sqlite":
		history, err = NewSQLiteHistory(u.Hostname())
	case "postgres":
		history, err = NewPostgresHistory(dbURL)
	default:
		logger.Fatalf("unsupported DB_URL scheme %q", u.Scheme)
	}
	if err != nil {
		logger.Fatalf("opening scrobble history: %v", err)
	}
	defer history.Close()

	stationsFile := getenv("STATIONS_FILE", "fm_stations.json")
	stations, err := LoadStations(stationsFile)
	if err != nil {
		logger.Warnf("station registry unavailable: %v", err)
		stations = StationRegistry{}
	}
	logger.Infof("loaded %d stations from %s", len(stations), stationsFile)

	scrobbler := NewScrobbler(ScrobblerConfig{
		Endpoint:  os.Getenv("SCROBBLE_URL"),
		SessionID: os.Getenv("PHPSESSID"),
		AuthToken: os.Getenv("OPEN_SCROBBLER_JWT"),
	}, logger)

	ctrl := NewController(history, scrobbler, stations, logger)
	defer ctrl.Stop()

	var bluetooth *BluetoothSpeaker
	if mac := os.Getenv("JBL_GO_MAC_ADDRESS"); mac != "" {
		script := getenv("BLUETOOTH_SCRIPT_PATH", "./bluetooth_speaker_setup.sh")
		bluetooth = NewBluetoothSpeaker(script, mac, logger)
	} else {
		logger.Warnf("JBL_GO_MAC_ADDRESS not set, bluetooth endpoints disabled")
	}

	router := NewHTTPRouter(ctrl, stations, bluetooth)
	addr := ":" + getenv("PORT", "8000")
	if err := router.Start(addr); err != nil {
		logger.Fatalf("server stopped: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
