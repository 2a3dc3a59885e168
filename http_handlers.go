package main

// this file contains the implementation of HTTP handlers - REST API

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo"
	"github.com/labstack/echo/middleware"
)

type httpServer struct {
	ctrl      *Controller
	stations  StationRegistry
	bluetooth *BluetoothSpeaker
}

func NewHTTPRouter(ctrl *Controller, stations StationRegistry, bluetooth *BluetoothSpeaker) *echo.Echo {
	s := &httpServer{ctrl: ctrl, stations: stations, bluetooth: bluetooth}

	r := echo.New()
	r.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "method=${method}, uri=${uri}, status=${status}\n",
	}))

	r.File("/", "index.html")
	r.Static("/static", "static")

	api := r.Group("/api")
	api.GET("/health", s.health)
	api.GET("/status", s.status)
	api.GET("/stations", s.listStations)
	api.POST("/play", s.play)
	api.POST("/stop", s.stop)
	api.POST("/volume/:volume", s.setVolume)
	api.GET("/current_volume", s.currentVolume)
	api.POST("/bluetooth/connect", s.connectBluetooth)

	return r
}

func (s *httpServer) health(c echo.Context) error {
	return c.String(http.StatusOK, "I am up and running!")
}

func (s *httpServer) status(c echo.Context) error {
	snap := s.ctrl.Status()
	resp := echo.Map{
		"is_playing": snap.Playing,
		"station":    echo.Map{"name": snap.Station, "link": snap.Link},
		"track":      snap.Track,
	}
	if snap.SessionID != "" {
		resp["session_id"] = snap.SessionID
	}

	if s.bluetooth != nil {
		resp["bluetooth_mac"] = s.bluetooth.MAC()
		connected, err := s.bluetooth.Status(c.Request().Context())
		resp["bluetooth_connected"] = connected
		if err != nil {
			resp["bluetooth_status_error"] = err.Error()
		}
	}

	return c.JSON(http.StatusOK, resp)
}

func (s *httpServer) listStations(c echo.Context) error {
	return c.JSON(http.StatusOK, s.stations)
}

func (s *httpServer) play(c echo.Context) error {
	form := struct {
		Name string `json:"name" form:"name"`
		Link string `json:"link" form:"link"`
	}{}
	if err := c.Bind(&form); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"message": "Malformed play request.",
		})
	}

	msg, err := s.ctrl.Play(form.Name, form.Link)
	if err != nil {
		var launchErr *LaunchError
		if errors.As(err, &launchErr) {
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"status":  "error",
				"message": fmt.Sprintf("Failed to start playback: %v", err),
			})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": msg,
	})
}

func (s *httpServer) stop(c echo.Context) error {
	s.ctrl.Stop()
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Playback stopped.",
	})
}

func (s *httpServer) setVolume(c echo.Context) error {
	volume, err := strconv.Atoi(c.Param("volume"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error",
			"error":  "Invalid volume value - must be an integer",
		})
	}
	if volume < 0 || volume > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status": "error",
			"error":  "Volume must be between 0 and 100",
		})
	}

	if err := setMasterVolume(c.Request().Context(), volume); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status": "error",
			"error":  fmt.Sprintf("Failed to set volume: %v", err),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": fmt.Sprintf("Volume set to %d%%", volume),
		"volume":  volume,
	})
}

func (s *httpServer) currentVolume(c echo.Context) error {
	volume, err := getMasterVolume(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error":  err.Error(),
			"volume": nil,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"volume": volume})
}

func (s *httpServer) connectBluetooth(c echo.Context) error {
	if s.bluetooth == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  "error",
			"message": "No bluetooth device configured.",
		})
	}

	if err := s.bluetooth.Connect(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"status":  "error",
			"message": err.Error(),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "success",
		"message": "Connection attempt sent via script.",
	})
}
