// Package ws streams the live dashboard to admin clients. One hub polls the
// report pipeline and pushes a fresh payload whenever the report changes;
// session revocation closes the affected connections immediately.
package ws

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tavolo-order-service/internal/auth"
	"tavolo-order-service/internal/config"
	"tavolo-order-service/internal/domain"
	"tavolo-order-service/internal/http/handlers"
	"tavolo-order-service/internal/session"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type Server struct {
	Handler  *handlers.Handler
	Sessions *session.Store
	Logger   *zap.Logger
	Config   config.Config

	dashboardRealtime *dashboardRealtime
}

func New(h *handlers.Handler, sessions *session.Store, logger *zap.Logger, cfg config.Config) *Server {
	srv := &Server{Handler: h, Sessions: sessions, Logger: logger, Config: cfg}
	srv.dashboardRealtime = newDashboardRealtime(h, sessions, logger, cfg.WSDashboardPoll)
	return srv
}

type wsRealtimeClient struct {
	conn    *websocket.Conn
	writeMu sync.Mutex
}

func (c *wsRealtimeClient) writeJSON(value any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteJSON(value)
}

type dashboardRealtime struct {
	handler  *handlers.Handler
	sessions *session.Store
	logger   *zap.Logger
	poll     time.Duration

	started sync.Once
	mu      sync.RWMutex
	subs    map[string]map[*wsRealtimeClient]struct{} // session id -> clients

	lastPayload []byte
}

func newDashboardRealtime(h *handlers.Handler, sessions *session.Store, logger *zap.Logger, poll time.Duration) *dashboardRealtime {
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &dashboardRealtime{
		handler:  h,
		sessions: sessions,
		logger:   logger,
		poll:     poll,
		subs:     make(map[string]map[*wsRealtimeClient]struct{}),
	}
}

func (dr *dashboardRealtime) ensureStarted() {
	dr.started.Do(func() {
		go dr.pollLoop(context.Background())
		go dr.sessionLoop()
	})
}

func (dr *dashboardRealtime) subscribe(sessionID string, client *wsRealtimeClient) (unsubscribe func()) {
	dr.mu.Lock()
	if dr.subs[sessionID] == nil {
		dr.subs[sessionID] = make(map[*wsRealtimeClient]struct{})
	}
	dr.subs[sessionID][client] = struct{}{}
	dr.mu.Unlock()

	return func() {
		dr.mu.Lock()
		clients := dr.subs[sessionID]
		delete(clients, client)
		if len(clients) == 0 {
			delete(dr.subs, sessionID)
		}
		dr.mu.Unlock()
	}
}

func (dr *dashboardRealtime) broadcast(message any) {
	dr.mu.RLock()
	clients := make([]*wsRealtimeClient, 0)
	for _, clientsMap := range dr.subs {
		for c := range clientsMap {
			clients = append(clients, c)
		}
	}
	dr.mu.RUnlock()

	for _, c := range clients {
		if err := c.writeJSON(message); err != nil {
			_ = c.conn.Close()
			dr.dropClient(c)
		}
	}
}

func (dr *dashboardRealtime) dropClient(client *wsRealtimeClient) {
	dr.mu.Lock()
	for sessionID, clients := range dr.subs {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			if len(clients) == 0 {
				delete(dr.subs, sessionID)
			}
		}
	}
	dr.mu.Unlock()
}

// closeSession closes every connection bound to the given session id.
func (dr *dashboardRealtime) closeSession(sessionID string, reason string) {
	dr.mu.Lock()
	clients := dr.subs[sessionID]
	delete(dr.subs, sessionID)
	dr.mu.Unlock()

	for c := range clients {
		_ = c.writeJSON(map[string]any{"type": "session.closed", "reason": reason})
		_ = c.conn.Close()
	}
}

func (dr *dashboardRealtime) hasSubscribers() bool {
	dr.mu.RLock()
	defer dr.mu.RUnlock()
	return len(dr.subs) > 0
}

func (dr *dashboardRealtime) pollLoop(ctx context.Context) {
	ticker := time.NewTicker(dr.poll)
	defer ticker.Stop()

	for range ticker.C {
		if !dr.hasSubscribers() {
			continue
		}

		report, err := dr.handler.LoadReport(ctx)
		if err != nil {
			if dr.logger != nil {
				dr.logger.Warn("dashboard poll failed", zap.Error(err))
			}
			continue
		}

		payload, err := json.Marshal(report)
		if err != nil {
			continue
		}
		if bytes.Equal(payload, dr.lastPayload) {
			continue
		}
		dr.lastPayload = payload

		dr.broadcast(map[string]any{"type": "dashboard.state", "data": report})
	}
}

func (dr *dashboardRealtime) sessionLoop() {
	for event := range dr.sessions.Watch() {
		switch event.Type {
		case session.EventRevoked:
			dr.closeSession(event.Session.ID, "revoked")
		case session.EventExpired:
			dr.closeSession(event.Session.ID, "expired")
		}
	}
}

func (s *Server) AdminDashboardWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	token := r.URL.Query().Get("token")
	claims, err := auth.VerifyAccessToken(token, s.Config.JWTSecret)
	if err != nil || claims.Role != domain.RoleAdmin {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}
	sess, live := s.Sessions.Get(claims.SessionID)
	if !live || sess.Email != claims.Email {
		_ = conn.WriteJSON(map[string]any{"type": "error", "message": "unauthorized"})
		return
	}

	s.dashboardRealtime.ensureStarted()
	ctx := r.Context()
	client := &wsRealtimeClient{conn: conn}
	unsubscribe := s.dashboardRealtime.subscribe(sess.ID, client)
	defer unsubscribe()

	// Send the current report immediately so the client never starts blank.
	if report, reportErr := s.Handler.LoadReport(ctx); reportErr == nil {
		_ = client.writeJSON(map[string]any{"type": "dashboard.state", "data": report})
	}

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	select {
	case <-clientClosed:
		return
	case <-ctx.Done():
		return
	}
}
