package remote

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tejashwikalptaru/mixviz/internal/domain"
)

// Router builds the bridge's HTTP routes.
func (b *Bridge) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(b.logRequests)

	r.Get("/", b.handlePage)
	r.Get("/ws", b.handleWS)
	r.Get("/health", b.handleHealth)
	return r
}

func (b *Bridge) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		b.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.Duration("elapsed", time.Since(start)))
	})
}

func (b *Bridge) handlePage(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	data := pageData{Title: b.cfg.Title, VideoID: b.cfg.VideoID}
	b.mu.Unlock()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := playerPage.Execute(w, data); err != nil {
		b.logger.Warn("render player page", slog.Any("error", err))
	}
}

func (b *Bridge) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    "ok",
		"connected": b.Connected(),
		"ready":     b.Ready(),
	})
}

func (b *Bridge) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}

	p := &peer{conn: conn}
	previous, ok := b.attach(p)
	if !ok {
		_ = conn.Close()
		return
	}
	if previous != nil {
		b.logger.Info("player page replaced by a newer connection")
		_ = previous.conn.Close()
	}
	b.logger.Info("player page connected", slog.String("remote", r.RemoteAddr))

	go b.readLoop(p)
}

// readLoop consumes browser reports until the connection closes.
func (b *Bridge) readLoop(p *peer) {
	defer b.wg.Done()
	defer p.conn.Close()

	for {
		_, data, err := p.conn.ReadMessage()
		if err != nil {
			break
		}
		var r report
		if err := json.Unmarshal(data, &r); err != nil {
			b.logger.Debug("malformed player message", slog.Any("error", err))
			continue
		}
		if state, ok := b.apply(p, r); ok {
			b.emit(state)
		}
	}

	if b.detach(p) {
		b.emit(domain.PlayerPaused)
	}
	b.logger.Info("player page disconnected")
}

// sameHostOrigin accepts requests without an Origin header and those whose
// origin host matches the request host.
func sameHostOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
