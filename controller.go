package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// Grace period between SIGTERM and SIGKILL during teardown. mpg123 and
// ffplay both exit well within this on a healthy system.
const termGracePeriod = 5 * time.Second

// Seam for tests so lifecycle behavior can be exercised with harmless
// commands instead of the real decoders.
var execCommand = exec.Command

// LaunchError reports a decoder process that could not be started; no
// session exists when it is returned.
type LaunchError struct {
	Command string
	Err     error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("launching %s: %v", e.Command, e.Err)
}

func (e *LaunchError) Unwrap() error { return e.Err }

// decoderCommand is the invocation chosen for a stream URL.
type decoderCommand struct {
	name          string
	args          []string
	captureOutput bool
}

// selectDecoderCommand picks the decoder for a stream URL. mp3 streams
// run through mpg123 without -q so the ICY-META lines appear on its
// output and can be sniffed; everything else goes to ffplay audio-only
// with no captured output.
func selectDecoderCommand(link string) decoderCommand {
	if strings.Contains(link, "mp3") {
		return decoderCommand{
			name:          "mpg123",
			args:          []string{"-o", "pulse", link},
			captureOutput: true,
		}
	}
	return decoderCommand{
		name: "ffplay",
		args: []string{"-nodisp", "-autoexit", link},
	}
}

// playbackSession bundles every resource owned by one playing station:
// the decoder process, the monitor readers and the scrobble worker.
type playbackSession struct {
	id      string
	station string
	link    string

	cmd    *exec.Cmd
	cancel context.CancelFunc

	procDone  chan struct{}  // closed once the decoder has been reaped
	tasksDone sync.WaitGroup // scrobble worker
}

type sessionInfo struct {
	id      string
	station string
	link    string
	done    <-chan struct{} // closed once the decoder has been reaped
}

// Controller owns the single active playback session. Play and Stop
// serialize on the mutex; Status reads a lock-free mirror so it never
// waits behind a teardown in progress.
type Controller struct {
	mu      sync.Mutex
	session *playbackSession
	current atomic.Pointer[sessionInfo]

	tracks    *TrackStore
	history   ScrobbleHistory
	scrobbler *Scrobbler
	stations  StationRegistry
	logger    *log.Logger
}

func NewController(history ScrobbleHistory, scrobbler *Scrobbler, stations StationRegistry, logger *log.Logger) *Controller {
	return &Controller{
		tracks:    NewTrackStore(),
		history:   history,
		scrobbler: scrobbler,
		stations:  stations,
		logger:    logger,
	}
}

// Play tears down any active session, then launches the decoder for the
// requested station and binds a fresh monitor and scrobble worker to it.
// Teardown happens before the request is even validated, so a failed
// Play never leaves playback running and two sessions never overlap.
func (c *Controller) Play(station, link string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()

	if link == "" {
		return "", errors.New("station link not provided")
	}

	dec := selectDecoderCommand(link)
	cmd := execCommand(dec.name, dec.args...)

	var stdout, stderr io.ReadCloser
	if dec.captureOutput {
		var err error
		if stdout, err = cmd.StdoutPipe(); err != nil {
			return "", &LaunchError{Command: dec.name, Err: err}
		}
		if stderr, err = cmd.StderrPipe(); err != nil {
			return "", &LaunchError{Command: dec.name, Err: err}
		}
	}

	c.logger.Infof("starting playback for %q: %s %s", station, dec.name, strings.Join(dec.args, " "))
	if err := cmd.Start(); err != nil {
		return "", &LaunchError{Command: dec.name, Err: err}
	}

	ctx, cancel := context.WithCancel(context.Background())
	sess := &playbackSession{
		id:       uuid.New().String(),
		station:  station,
		link:     link,
		cmd:      cmd,
		cancel:   cancel,
		procDone: make(chan struct{}),
	}

	var readers sync.WaitGroup
	if dec.captureOutput {
		monitor := newMetadataMonitor(c.tracks, c.logger)
		readers.Add(2)
		go func() {
			defer readers.Done()
			monitor.readLines(ctx, stdout, "stdout")
		}()
		go func() {
			defer readers.Done()
			monitor.readLines(ctx, stderr, "stderr")
		}()
	}

	// Reap the decoder after the readers are done with its pipes.
	go func() {
		readers.Wait()
		cmd.Wait()
		close(sess.procDone)
	}()

	worker := &scrobbleWorker{
		station:  station,
		tracks:   c.tracks,
		history:  c.history,
		client:   c.scrobbler,
		lookup:   c.lookupFor(station),
		interval: scrobbleInterval,
		logger:   c.logger,
	}
	sess.tasksDone.Add(1)
	go func() {
		defer sess.tasksDone.Done()
		worker.run(ctx)
	}()

	c.session = sess
	c.current.Store(&sessionInfo{id: sess.id, station: station, link: link, done: sess.procDone})
	return fmt.Sprintf("Playing %s", station), nil
}

// Stop tears down the active session. Safe to call with no session.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// stopLocked cancels the worker, terminates the decoder and waits for
// everything to wind down. After it returns no process and no session
// task is left running. Callers hold c.mu.
func (c *Controller) stopLocked() {
	sess := c.session
	if sess == nil {
		return
	}

	c.logger.Infof("stopping playback for %q", sess.station)
	sess.cancel()

	// SIGTERM first; the signal fails harmlessly if the decoder already
	// exited on its own.
	if err := sess.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		c.logger.Debugf("terminating decoder: %v", err)
	}
	select {
	case <-sess.procDone:
	case <-time.After(termGracePeriod):
		c.logger.Warnf("decoder ignored SIGTERM, killing pid %d", sess.cmd.Process.Pid)
		sess.cmd.Process.Kill()
		<-sess.procDone
	}

	sess.tasksDone.Wait()

	c.tracks.Clear()
	c.session = nil
	c.current.Store(nil)
}

// Status reports the current playback state without blocking on any
// in-flight Play or Stop.
func (c *Controller) Status() StatusSnapshot {
	snap := StatusSnapshot{Track: c.tracks.Snapshot()}
	info := c.current.Load()
	if info == nil {
		return snap
	}
	select {
	case <-info.done:
		// The decoder exited on its own; playback is over even though
		// the session has not been torn down yet.
	default:
		snap.Playing = true
		snap.SessionID = info.id
		snap.Station = info.station
		snap.Link = info.link
	}
	return snap
}

func (c *Controller) lookupFor(station string) *NowPlayingLookup {
	st, ok := c.stations[station]
	if !ok || st.Web == "" {
		return nil
	}
	return NewNowPlayingLookup(st.Web, st.CSS)
}
