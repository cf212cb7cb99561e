// Feudbox game channel plumbing
//
// Four roles share one logical game channel: a board display, a host
// question console, a judge scoring console, and a question picker. Each
// websocket connection runs its own role controller with its own in-memory
// state; the hub below is the only thing they share, and all it does is fan
// published events out to the other subscribers, fire-and-forget.
//
// Features:
// - WebSockets per channel and role: /feud/:channel/:role/ws
// - Judge is the authority for game state (teams, points, strikes, rounds)
// - Host/picker are the authority for question selection
// - Board only consumes; it never publishes game-affecting state
// - Judge and host state mirrored into the SQLite cache for tab recovery
// - No delivery or ordering guarantees: slow subscribers drop events
// - Channels auto-reaped after a configurable idle timeout
// - In-browser QR button to share the current channel, backed by go-qrcode

package main

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/post91/feudbox/cache"
	"github.com/post91/feudbox/feud"
	"github.com/post91/feudbox/questions"
)

// Messages coming from role clients
type clientCommand struct {
	Type      string          `json:"type"`
	Game      *feud.Game      `json:"game,omitempty"`      // createGame
	Question  *feud.Question  `json:"question,omitempty"`  // startRound
	Questions []feud.Question `json:"questions,omitempty"` // addToCart
	Index     *int            `json:"index,omitempty"`     // toggleAnswer / cart ops
	Team      feud.TeamName   `json:"team,omitempty"`      // awardWinner / undoWinner
	RoundMode feud.RoundMode  `json:"roundMode,omitempty"` // publishQuestion
	Music     feud.Music      `json:"music,omitempty"`     // playMusic
	Show      *bool           `json:"show,omitempty"`      // showQuestion
	On        *bool           `json:"on,omitempty"`        // reveal / strikeAnimation
}

// judgeView is the judge console's display state.
type judgeView struct {
	State          feud.JudgeState     `json:"state"`
	Game           *feud.Game          `json:"game,omitempty"`
	Question       *feud.RoundQuestion `json:"question,omitempty"`
	HasOnDeck      bool                `json:"hasOnDeck"`
	Winner         feud.TeamName       `json:"winner,omitempty"`
	Reveal         bool                `json:"reveal"`
	Showing        bool                `json:"showing"`
	AnsweredPoints int                 `json:"answeredPoints"`
}

// stateMessage carries a role's full display state. Every update resends the
// whole view; clients overwrite rather than merge.
type stateMessage struct {
	Type     string              `json:"type"` // "state"
	Role     string              `json:"role"`
	Board    *feud.Board         `json:"board,omitempty"`
	Judge    *judgeView          `json:"judge,omitempty"`
	Cart     []feud.ListQuestion `json:"cart,omitempty"`
	Question *feud.Question      `json:"question,omitempty"` // host's staged question
}

// effectMessage tells the board client to run a one-shot effect (ding,
// buzzer, music).
type effectMessage struct {
	Type   string          `json:"type"` // "effect"
	Effect feud.EffectKind `json:"effect"`
	Music  feud.Music      `json:"music,omitempty"`
}

// errorMessage is sent only to the client whose command was rejected.
type errorMessage struct {
	Type    string `json:"type"` // "error"
	Message string `json:"message"`
}

// cachedStateMessage offers a recoverable cache entry on connect.
type cachedStateMessage struct {
	Type    string `json:"type"` // "cachedGame" or "cachedQuestion"
	Present bool   `json:"present"`
}

// invalidEntryMessage reports manual-entry validation problems to the host.
type invalidEntryMessage struct {
	Type   string                 `json:"type"` // "invalidEntry"
	Errors []questions.FieldError `json:"errors"`
}

const (
	roleBoard  = "board"
	roleHost   = "host"
	roleJudge  = "judge"
	rolePicker = "picker"
)

func validRole(role string) bool {
	switch role {
	case roleBoard, roleHost, roleJudge, rolePicker:
		return true
	}
	return false
}

type client struct {
	conn   *websocket.Conn
	send   chan json.RawMessage
	events chan feud.Event
	id     string
	role   string
}

type publishRequest struct {
	from  *client
	event feud.Event
}

// channelHub is one logical game channel. It fans published events out to
// every other subscriber. Per-client buffers are small and drop on overflow:
// the transport promises nothing, and the roles are built to survive that.
type channelHub struct {
	name string

	clients   map[*client]bool
	register  chan *client
	unreg     chan *client
	publishes chan publishRequest

	mu sync.RWMutex

	createdAt  time.Time
	lastActive time.Time
}

func newChannelHub(name string) *channelHub {
	now := time.Now()
	return &channelHub{
		name:       name,
		clients:    make(map[*client]bool),
		register:   make(chan *client),
		unreg:      make(chan *client),
		publishes:  make(chan publishRequest),
		createdAt:  now,
		lastActive: now,
	}
}

func (h *channelHub) run(cfg *Config) {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			h.lastActive = time.Now()
			h.clients[c] = true
			h.mu.Unlock()

			logf(cfg, "FEUD: %s joined %q", c.role, h.name)

		case c := <-h.unreg:
			h.mu.Lock()
			h.lastActive = time.Now()
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.events)
			}
			h.mu.Unlock()

		case pub := <-h.publishes:
			h.mu.Lock()
			h.lastActive = time.Now()

			for c := range h.clients {
				if c == pub.from {
					continue
				}
				select {
				case c.events <- pub.event:
				default:
					// Slow subscriber: the event is simply lost, same as
					// any other unacknowledged publish.
				}
			}
			h.mu.Unlock()
		}
	}
}

// publish broadcasts an event to every other subscriber on the channel.
func (h *channelHub) publish(from *client, events ...feud.Event) {
	for _, e := range events {
		h.publishes <- publishRequest{from: from, event: e}
	}
}

// closeAll disconnects all clients of this channel (used by the reaper).
func (h *channelHub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.clients {
		close(c.events)
		_ = c.conn.Close()
		delete(h.clients, c)
	}
}

// channelManager holds the hubs keyed by logical channel name, so each
// user-supplied game channel code is its own isolated session.
type channelManager struct {
	mu          sync.Mutex
	hubs        map[string]*channelHub
	idleTimeout time.Duration
}

func newChannelManager(idleTimeout time.Duration) *channelManager {
	cm := &channelManager{
		hubs:        make(map[string]*channelHub),
		idleTimeout: idleTimeout,
	}
	if idleTimeout > 0 {
		go cm.reaperLoop()
	}
	return cm
}

func (cm *channelManager) getHub(cfg *Config, code string) *channelHub {
	name := feud.ChannelName(code)

	cm.mu.Lock()
	defer cm.mu.Unlock()

	if hub, ok := cm.hubs[name]; ok {
		return hub
	}

	hub := newChannelHub(name)
	cm.hubs[name] = hub
	go hub.run(cfg)
	return hub
}

// reaperLoop periodically removes hubs that have been idle longer than
// idleTimeout.
func (cm *channelManager) reaperLoop() {
	ticker := time.NewTicker(cm.idleTimeout / 2)
	for range ticker.C {
		cutoff := time.Now().Add(-cm.idleTimeout)

		cm.mu.Lock()
		for name, hub := range cm.hubs {
			hub.mu.RLock()
			last := hub.lastActive
			hub.mu.RUnlock()

			if last.Before(cutoff) {
				delete(cm.hubs, name)
				go hub.closeAll()
			}
		}
		cm.mu.Unlock()
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveRoleWS upgrades a role connection and runs its controller until the
// socket or the channel goes away.
func serveRoleWS(cfg *Config, cm *channelManager, store *cache.Store) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := ps.ByName("channel")
		if code == "" {
			http.Error(w, "missing game channel", http.StatusBadRequest)
			return
		}

		role := ps.ByName("role")
		if !validRole(role) {
			http.Error(w, "unknown role", http.StatusNotFound)
			return
		}

		hub := cm.getHub(cfg, code)

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade error:", err)
			return
		}

		c := &client{
			conn:   conn,
			send:   make(chan json.RawMessage, 16),
			events: make(chan feud.Event, 16),
			id:     uuid.NewString(),
			role:   role,
		}

		hub.register <- c

		go c.writePump()
		c.runController(cfg, hub, store)
	}
}

// runController reads commands off the socket and events off the hub, and
// drives the role's state machine from a single goroutine. The controller is
// the only sender on c.send, so closing it here is safe and releases the
// write pump.
func (c *client) runController(cfg *Config, hub *channelHub, store *cache.Store) {
	defer close(c.send)

	cmds := make(chan clientCommand, 16)

	go c.readPump(hub, cmds)

	switch c.role {
	case roleBoard:
		runBoard(cfg, hub, c, cmds)
	case roleJudge:
		runJudge(cfg, hub, store, c, cmds)
	case rolePicker:
		runPicker(cfg, hub, c, cmds)
	case roleHost:
		runHost(cfg, hub, store, c, cmds)
	}
}

func (c *client) readPump(hub *channelHub, cmds chan<- clientCommand) {
	defer func() {
		hub.unreg <- c
		_ = c.conn.Close()
		close(cmds)
	}()

	for {
		var cmd clientCommand
		if err := c.conn.ReadJSON(&cmd); err != nil {
			return
		}

		cmds <- cmd
	}
}

func (c *client) writePump() {
	defer c.conn.Close()

	for msg := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// trySend encodes the message on the caller's goroutine and queues the
// bytes, dropping them if the write buffer is full. Encoding here, not in
// the write pump, is what makes a queued state message a snapshot: the
// controller keeps mutating its live structs after queueing.
func (c *client) trySend(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	select {
	case c.send <- json.RawMessage(data):
	default:
	}
}

func (c *client) sendError(err error) {
	c.trySend(errorMessage{Type: "error", Message: err.Error()})
}

// QR handler: generates a PNG QR code for the current channel URL using
// go-qrcode.
func qrHandler(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := ps.ByName("channel")
	if code == "" {
		http.Error(w, "missing game channel", http.StatusBadRequest)
		return
	}

	// Derive scheme (respecting TLS and X-Forwarded-Proto if present).
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	// We are at /feud/:channel/qr; strip trailing "/qr" to get the channel URL.
	path := strings.TrimSuffix(r.URL.Path, "/qr")

	url := scheme + "://" + r.Host + path

	const qrSize = 320 // mobile-friendly size
	png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// registerFeudGame sets up routes so that:
//   - $path/:channel/qr        → PNG QR code for that channel URL
//   - $path/:channel/:role/ws  → WebSocket for that channel and role
func registerFeudGame(cfg *Config, path string, mux *httprouter.Router, store *cache.Store) {
	cm := newChannelManager(cfg.sessionTimeout)

	mux.GET(cfg.prefix+path+"/:channel/qr", qrHandler)

	mux.GET(cfg.prefix+path+"/:channel/:role/ws", serveRoleWS(cfg, cm, store))
}
