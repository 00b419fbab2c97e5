// Package remote implements the Player interface over a WebSocket bridge to a
// browser tab hosting the YouTube iframe player.
//
// The bridge serves a small page that embeds the video and reports the player's
// clock and state changes back over /ws. Commands (seek, play, pause) travel the
// other way. Only one browser tab drives the app: the latest connection wins.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
	"github.com/tejashwikalptaru/mixviz/internal/ports"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "127.0.0.1:8090"

const writeTimeout = 5 * time.Second

// Config configures a Bridge.
type Config struct {
	// Addr is the TCP listen address (host:port)
	Addr string

	// VideoID is the YouTube video loaded by the player page
	VideoID string

	// Title is the player page title
	Title string
}

// peer is one connected browser tab.
type peer struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (p *peer) send(cmd command) error {
	data, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	_ = p.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return p.conn.WriteMessage(websocket.TextMessage, data)
}

// Bridge is a ports.Controllable backed by a browser-hosted YouTube player.
//
// Thread-safety: This implementation is thread-safe. State handlers run on the
// connection's read goroutine, never under the bridge lock.
type Bridge struct {
	logger   *slog.Logger
	clock    ports.Clock
	upgrader websocket.Upgrader

	mu      sync.Mutex
	cfg     Config
	current *peer
	ready   bool
	playing bool

	// Last reported position and when it arrived; the position is
	// extrapolated from these while playing.
	reported   float64
	reportedAt time.Time

	handlers map[int]func(domain.PlayerState)
	nextID   int

	server   *http.Server
	listener net.Listener
	wg       sync.WaitGroup
	closed   bool
}

// Compile-time interface check
var _ ports.Controllable = (*Bridge)(nil)

// NewBridge creates a bridge. It does not listen until Start is called.
// A nil clock uses the system clock.
func NewBridge(cfg Config, logger *slog.Logger, clock ports.Clock) *Bridge {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Title == "" {
		cfg.Title = "MixViz player"
	}
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &Bridge{
		logger: logger.With(slog.String("adapter", "remote")),
		clock:  clock,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     sameHostOrigin,
		},
		handlers: make(map[int]func(domain.PlayerState)),
	}
}

// SetVideo changes the video id served to newly loaded player pages.
func (b *Bridge) SetVideo(videoID, title string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cfg.VideoID = videoID
	if title != "" {
		b.cfg.Title = title
	}
}

// Start binds the listener and serves the router in the background.
// Failing to bind is the one error callers should treat as fatal.
func (b *Bridge) Start() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return domain.ErrClosed
	}
	if b.server != nil {
		return nil
	}

	ln, err := net.Listen("tcp", b.cfg.Addr)
	if err != nil {
		return fmt.Errorf("bind player bridge on %s: %w", b.cfg.Addr, err)
	}
	b.listener = ln
	b.server = &http.Server{
		Handler:           b.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			b.logger.Error("player bridge stopped", slog.Any("error", err))
		}
	}()

	b.logger.Info("player bridge listening", slog.String("url", "http://"+ln.Addr().String()+"/"))
	return nil
}

// URL returns the address of the player page, or "" before Start.
func (b *Bridge) URL() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listener == nil {
		return ""
	}
	return "http://" + b.listener.Addr().String() + "/"
}

// Close shuts the server down, disconnects the browser and waits for every
// connection goroutine to exit. Calling it twice is a no-op.
func (b *Bridge) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	server := b.server
	current := b.current
	b.mu.Unlock()

	var err error
	if server != nil {
		err = server.Shutdown(ctx)
	}
	// Hijacked WebSocket connections are not tracked by Shutdown
	if current != nil {
		_ = current.conn.Close()
	}
	b.wg.Wait()
	return err
}

// Ready reports whether a browser is connected and its player has loaded.
func (b *Bridge) Ready() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current != nil && b.ready
}

// Connected reports whether a browser tab holds the bridge.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current != nil
}

// CurrentTime returns the last reported position, advanced by the wall-clock
// time since the report when the player is playing.
func (b *Bridge) CurrentTime() (float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current == nil || !b.ready {
		return 0, domain.ErrPlayerNotReady
	}
	pos := b.reported
	if b.playing {
		pos += b.clock.Now().Sub(b.reportedAt).Seconds()
	}
	return pos, nil
}

// SeekTo asks the browser player to jump to the given position.
func (b *Bridge) SeekTo(seconds float64) error {
	p, err := b.peer()
	if err != nil {
		return err
	}
	if err := p.send(command{Type: cmdSeek, Time: &seconds}); err != nil {
		return domain.NewPlayerError("seek", err)
	}

	// Optimistic: the browser's next report confirms or corrects it
	b.mu.Lock()
	if b.current == p {
		b.reported = seconds
		b.reportedAt = b.clock.Now()
	}
	b.mu.Unlock()
	return nil
}

// Play asks the browser player to start playback.
func (b *Bridge) Play() error {
	return b.transport(cmdPlay)
}

// Pause asks the browser player to pause.
func (b *Bridge) Pause() error {
	return b.transport(cmdPause)
}

func (b *Bridge) transport(kind string) error {
	p, err := b.peer()
	if err != nil {
		return err
	}
	if err := p.send(command{Type: kind}); err != nil {
		return domain.NewPlayerError(kind, err)
	}
	return nil
}

// peer returns the connected browser or ErrNoClient.
func (b *Bridge) peer() (*peer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil, domain.ErrNoClient
	}
	return b.current, nil
}

// OnStateChange registers a handler for the browser player's state changes.
func (b *Bridge) OnStateChange(handler func(domain.PlayerState)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[id] = handler

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.handlers, id)
		})
	}
}

// emit delivers state to a snapshot of the handlers. Must not be called with b.mu held.
func (b *Bridge) emit(state domain.PlayerState) {
	b.mu.Lock()
	handlers := make([]func(domain.PlayerState), 0, len(b.handlers))
	for id := 0; id < b.nextID; id++ {
		if h, ok := b.handlers[id]; ok {
			handlers = append(handlers, h)
		}
	}
	b.mu.Unlock()

	for _, h := range handlers {
		h(state)
	}
}

// apply folds one browser report into the bridge state. It reports the state
// code to emit, if any.
func (b *Bridge) apply(p *peer, r report) (domain.PlayerState, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.current != p {
		return 0, false
	}

	now := b.clock.Now()
	switch r.Type {
	case msgReady:
		b.ready = true
	case msgTime:
		b.reported = r.Time
		b.reportedAt = now
	case msgState:
		state := domain.PlayerState(r.State)
		b.ready = true
		b.reported = r.Time
		b.reportedAt = now
		b.playing = state == domain.PlayerPlaying
		return state, true
	default:
		b.logger.Debug("unknown player message", slog.String("type", r.Type))
	}
	return 0, false
}

// attach makes p the current peer. The previous peer, if any, is returned so the
// caller can close it outside the lock.
func (b *Bridge) attach(p *peer) (previous *peer, ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, false
	}
	previous = b.current
	b.current = p
	b.ready = false
	b.playing = false
	b.wg.Add(1)
	return previous, true
}

// detach clears p if it is still current. It reports whether p was playing,
// in which case the clock stopped with it.
func (b *Bridge) detach(p *peer) (wasPlaying bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != p {
		return false
	}
	if b.playing {
		b.reported += b.clock.Now().Sub(b.reportedAt).Seconds()
		b.reportedAt = b.clock.Now()
	}
	wasPlaying = b.playing
	b.current = nil
	b.ready = false
	b.playing = false
	return wasPlaying
}
