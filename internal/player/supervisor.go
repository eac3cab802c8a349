package player

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mixcore/mixcore/internal/decode"
	"github.com/mixcore/mixcore/internal/mediasource"
	"github.com/mixcore/mixcore/internal/ringbuf"
)

// Config configures a Supervisor's hardware access, mirroring the knobs the
// teacher's play command exposes as flags.
type Config struct {
	DeviceIndex     int // PortAudio output device index
	FramesPerBuffer int // unused directly (session.openStream fixes 512); kept for parity with teacher flags
}

// Supervisor owns the command queue, the current decode session, and the
// event bus. Exactly one Play session is active at a time; Stop/Play
// teardown the previous session before a new one starts (§4.1).
type Supervisor struct {
	cfg Config
	bus *EventBus

	cmdCh chan Command

	mu      sync.Mutex
	session *session
	status  *status

	playing        atomic.Bool
	decodeStop     atomic.Bool
	flushRequested atomic.Bool
	volumeBits     atomic.Uint32

	preloadMu sync.Mutex
	preload   *preloaded

	sessionWG sync.WaitGroup
}

// NewSupervisor creates a Supervisor and starts its command-processing
// goroutine. Call Close to stop it.
func NewSupervisor(cfg Config) *Supervisor {
	sup := &Supervisor{
		cfg:    cfg,
		bus:    NewEventBus(),
		cmdCh:  make(chan Command, 16),
		status: newStatus(),
	}
	sup.volumeBits.Store(float32bits(1.0))
	go sup.loop()
	return sup
}

// Subscribe exposes the event bus to callers (§4.9); the player publishes
// exactly one topic, "audioplayer://ended".
func (sup *Supervisor) Subscribe(topic string) <-chan Event {
	return sup.bus.Subscribe(topic)
}

// Status returns a snapshot of the current playback status.
func (sup *Supervisor) Status() PlaybackStatus {
	return sup.status.snapshot()
}

// Play enqueues a Play command. Non-blocking; the actual teardown/startup
// happens on the supervisor goroutine.
func (sup *Supervisor) Play(url string) { sup.cmdCh <- Command{Type: CmdPlay, URL: url} }

// Preload enqueues a Preload command.
func (sup *Supervisor) Preload(url string) { sup.cmdCh <- Command{Type: CmdPreload, URL: url} }

// Pause enqueues a Pause command.
func (sup *Supervisor) Pause() { sup.cmdCh <- Command{Type: CmdPause} }

// Resume enqueues a Resume command.
func (sup *Supervisor) Resume() { sup.cmdCh <- Command{Type: CmdResume} }

// Stop enqueues a Stop command.
func (sup *Supervisor) Stop() { sup.cmdCh <- Command{Type: CmdStop} }

// SetVolume enqueues a SetVolume command; v is clamped to [0,1].
func (sup *Supervisor) SetVolume(v float32) {
	sup.cmdCh <- Command{Type: CmdSetVolume, Volume: clampVolume(v)}
}

// Seek enqueues a Seek command.
func (sup *Supervisor) Seek(t float32) { sup.cmdCh <- Command{Type: CmdSeek, SeekTo: t} }

// loop is the supervisor goroutine: it serializes every command.
func (sup *Supervisor) loop() {
	for cmd := range sup.cmdCh {
		switch cmd.Type {
		case CmdPlay:
			sup.handlePlay(cmd.URL)
		case CmdPreload:
			go sup.handlePreload(cmd.URL)
		case CmdPause:
			sup.playing.Store(false)
			sup.status.setPlaying(false)
		case CmdResume:
			if sup.status.snapshot().SampleRate > 0 {
				sup.playing.Store(true)
				sup.status.setPlaying(true)
			}
		case CmdStop:
			sup.handleStop()
		case CmdSetVolume:
			sup.volumeBits.Store(float32bits(cmd.Volume))
		case CmdSeek:
			sup.status.requestSeek(cmd.SeekTo)
		}
	}
}

// handlePlay implements the teardown + startup protocol of §4.1.
func (sup *Supervisor) handlePlay(url string) {
	sup.teardownCurrent()

	time.Sleep(50 * time.Millisecond)

	sup.decodeStop.Store(false)
	sup.flushRequested.Store(false)
	sup.playing.Store(false)
	sup.status.reset()

	ring := ringbuf.New(ringBufferBytes)

	sess := &session{
		url:            url,
		ring:           ring,
		status:         sup.status,
		playing:        &sup.playing,
		decodeStop:     &sup.decodeStop,
		flushRequested: &sup.flushRequested,
		volumeBits:     &sup.volumeBits,
		bus:            sup.bus,
		deviceIndex:    sup.cfg.DeviceIndex,
	}

	sup.preloadMu.Lock()
	pre := sup.preload
	if pre != nil && pre.url == url {
		sup.preload = nil
	} else {
		pre = nil
	}
	sup.preloadMu.Unlock()

	if pre != nil {
		sess.ms, sess.dec, sess.cleanup = pre.ms, pre.dec, pre.cleanup
		if pre.prime != nil && len(pre.prime.Audio) > 0 {
			frameBytes := 2 * (int(pre.prime.Format.BitsPerSample) / 8)
			out := make([]byte, int(pre.prime.SamplesCount)*frameBytes)
			expandToStereo(pre.prime.Audio, int(pre.prime.SamplesCount), int(pre.prime.Format.Channels), int(pre.prime.Format.BitsPerSample)/8, out)
			ring.Write(out)
		}
	} else {
		ms, err := mediasource.New(url)
		if err != nil {
			slog.Warn("player: failed to open media source", "url", url, "error", err)
			sup.status.setTransitioning(false)
			return
		}
		dec, cleanup, err := decode.NewDecoder(ms, extOf(url))
		if err != nil {
			slog.Warn("player: failed to open decoder", "url", url, "error", err)
			ms.Close()
			sup.status.setTransitioning(false)
			return
		}
		sess.ms, sess.dec, sess.cleanup = ms, dec, cleanup
	}

	sup.mu.Lock()
	sup.session = sess
	sup.mu.Unlock()

	sup.sessionWG.Add(1)
	go func() {
		defer sup.sessionWG.Done()
		sess.run()
	}()
}

func (sup *Supervisor) handlePreload(url string) {
	pre, err := preparePreload(url)
	if err != nil {
		slog.Warn("player: preload failed", "url", url, "error", err)
		return
	}
	sup.preloadMu.Lock()
	if sup.preload != nil {
		sup.preload.cleanup()
		sup.preload.ms.Close()
	}
	sup.preload = pre
	sup.preloadMu.Unlock()
}

func (sup *Supervisor) teardownCurrent() {
	sup.playing.Store(false)
	sup.decodeStop.Store(true)
	sup.mu.Lock()
	hasSession := sup.session != nil
	sup.mu.Unlock()
	if hasSession {
		sup.sessionWG.Wait()
	}
	sup.mu.Lock()
	sup.session = nil
	sup.mu.Unlock()
}

func (sup *Supervisor) handleStop() {
	sup.teardownCurrent()
	sup.status.setPlaying(false)
	sup.status.setTransitioning(false)
}

// Close stops any active session and shuts down the command loop. Safe to
// call once at program exit.
func (sup *Supervisor) Close() {
	sup.handleStop()
	close(sup.cmdCh)
}
