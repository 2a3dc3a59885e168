package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *httpServer {
	return &httpServer{
		ctrl: newTestController(),
		stations: StationRegistry{
			"Radio Swiss Pop": {Link: "http://stream.srg-ssr.ch/m/rsp/mp3_128"},
		},
	}
}

func TestHealthHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	s := newTestServer()
	require.NoError(t, s.health(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStatusHandlerIdle(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/status", nil)
	rec := httptest.NewRecorder()

	s := newTestServer()
	require.NoError(t, s.status(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	body := map[string]interface{}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["is_playing"])
	assert.NotContains(t, body, "session_id")
	// No bluetooth speaker configured, no probe result.
	assert.NotContains(t, body, "bluetooth_connected")
}

func TestListStationsHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/stations", nil)
	rec := httptest.NewRecorder()

	s := newTestServer()
	require.NoError(t, s.listStations(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	registry := StationRegistry{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &registry))
	assert.Contains(t, registry, "Radio Swiss Pop")
}

func TestPlayHandlerMissingLink(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/play", strings.NewReader(`{"name":"X"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	s := newTestServer()
	require.NoError(t, s.play(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, s.ctrl.Status().Playing)
}

func TestPlayHandlerLaunchFailure(t *testing.T) {
	stubExec(t, "/this/binary/does/not/exist")

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/play",
		strings.NewReader(`{"name":"X","link":"http://stream.example.com/radio.mp3"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	s := newTestServer()
	require.NoError(t, s.play(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, s.ctrl.Status().Playing)
}

func TestPlayAndStopHandlers(t *testing.T) {
	stubExec(t, "sleep", "60")

	e := echo.New()
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/api/play",
		strings.NewReader(`{"name":"Radio Swiss Pop","link":"http://stream.srg-ssr.ch/m/rsp/mp3_128"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	require.NoError(t, s.play(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, s.ctrl.Status().Playing)

	req = httptest.NewRequest(http.MethodPost, "/api/stop", nil)
	rec = httptest.NewRecorder()
	require.NoError(t, s.stop(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, s.ctrl.Status().Playing)
}

func TestSetVolumeHandlerValidation(t *testing.T) {
	e := echo.New()
	s := newTestServer()

	for _, volume := range []string{"abc", "-1", "101"} {
		req := httptest.NewRequest(http.MethodPost, "/api/volume/"+volume, nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("volume")
		c.SetParamValues(volume)

		require.NoError(t, s.setVolume(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, "volume %q", volume)
	}
}

func TestConnectBluetoothHandlerUnconfigured(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/api/bluetooth/connect", nil)
	rec := httptest.NewRecorder()

	s := newTestServer()
	require.NoError(t, s.connectBluetooth(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
