// Package chat is the websocket gateway for the shared game channel.
// It delivers the engine's announcements and whispers, and routes chat
// lines starting with "!" into game commands.
package chat

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// announcer is the name game output is broadcast under.
const announcer = "game"

// Server accepts websocket clients and fans chat across them. It
// implements game.Messenger.
type Server struct {
	addr     string
	upgrader websocket.Upgrader
	router   *Router
	logger   *log.Logger

	register   chan *Connection
	unregister chan *Connection

	mu          sync.RWMutex
	connections map[*Connection]bool
	byName      map[string]*Connection

	ctx    context.Context
	cancel context.CancelFunc
}

// NewServer creates a chat server. The router may be wired afterwards
// with SetRouter, since the game needs the server as its Messenger
// before the router can exist.
func NewServer(addr string, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		addr: addr,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger:      logger.WithPrefix("chat"),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		connections: make(map[*Connection]bool),
		byName:      make(map[string]*Connection),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// SetRouter wires the command router for inbound chat lines.
func (s *Server) SetRouter(router *Router) {
	s.router = router
}

// ListenAndServe runs the gateway until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	go s.run()

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	srv := &http.Server{Addr: s.addr, Handler: mux}
	go func() {
		<-ctx.Done()
		s.cancel()
		_ = srv.Close()
	}()

	s.logger.Info("listening", "addr", s.addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Announce broadcasts to every connected client. Part of
// game.Messenger; must not block, and doesn't: sends go to buffered
// per-connection channels.
func (s *Server) Announce(text string) {
	s.broadcast(NewChat(announcer, text))
}

// Whisper delivers privately to one named client. Unknown or
// disconnected names are dropped silently.
func (s *Server) Whisper(player, text string) {
	s.mu.RLock()
	conn, ok := s.byName[player]
	s.mu.RUnlock()
	if ok {
		conn.Send(NewNotice(text))
	}
}

func (s *Server) broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for conn := range s.connections {
		conn.Send(msg)
	}
}

func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				if name := conn.Name(); name != "" && s.byName[name] == conn {
					delete(s.byName, name)
				}
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("client disconnected", "total", total)

		case <-s.ctx.Done():
			s.mu.Lock()
			for conn := range s.connections {
				_ = conn.Close()
			}
			s.mu.Unlock()
			return
		}
	}
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newConnection(conn, s, s.logger)
	s.register <- client
	client.start()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleMessage processes one inbound frame from a client.
func (s *Server) handleMessage(conn *Connection, msg *Message) {
	switch msg.Type {
	case MessageTypeAuth:
		s.handleAuth(conn, msg)
	case MessageTypeChat:
		s.handleChat(conn, msg)
	default:
		conn.Send(&Message{Type: MessageTypeError, Text: fmt.Sprintf("unknown message type %q", msg.Type)})
	}
}

func (s *Server) handleAuth(conn *Connection, msg *Message) {
	name := strings.TrimSpace(msg.Name)
	if name == "" || strings.ContainsAny(name, " \t\n") {
		conn.Send(&Message{Type: MessageTypeError, Text: "invalid name"})
		return
	}

	s.mu.Lock()
	if other, taken := s.byName[name]; taken && other != conn {
		s.mu.Unlock()
		conn.Send(&Message{Type: MessageTypeError, Text: "name already in use"})
		return
	}
	s.byName[name] = conn
	s.mu.Unlock()

	conn.setName(name)
	conn.Send(NewNotice(fmt.Sprintf("Welcome, %s!", name)))
	s.logger.Info("client authenticated", "name", name)
}

func (s *Server) handleChat(conn *Connection, msg *Message) {
	sender := conn.Name()
	if sender == "" {
		conn.Send(&Message{Type: MessageTypeError, Text: "authenticate first"})
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	// Everyone sees the line, command or not, like any chat channel.
	s.broadcast(NewChat(sender, text))

	if s.router != nil && strings.HasPrefix(text, "!") {
		if err := s.router.Route(conn.ctx, sender, text); err != nil {
			s.Whisper(sender, "[*] "+err.Error())
		}
	}
}
