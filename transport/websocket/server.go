package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/pkg"
)

const mailboxSize = 256

type uGame interface {
	CreateRoom(ctx context.Context, playerID string) (*entity.Room, error)
	JoinRoom(ctx context.Context, roomID, playerID string) (*entity.Room, error)
	MakeMove(ctx context.Context, roomID, playerID string, cell int) (*entity.Room, *entity.MoveOutcome, error)
	RequestRematch(ctx context.Context, roomID string) (*entity.Room, error)
	LeaveRooms(ctx context.Context, playerID string) ([]*entity.Room, error)
}

type Options struct {
	SendBuffer     int
	MaxMessageSize int64
	PingPeriod     time.Duration
	PongWait       time.Duration
	WriteWait      time.Duration
}

func DefaultOptions() Options {
	return Options{
		SendBuffer:     16,
		MaxMessageSize: 4096,
		PingPeriod:     54 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
	}
}

type eventKind int

const (
	eventConnect eventKind = iota
	eventMessage
	eventDisconnect
)

type event struct {
	kind   eventKind
	client *Client
	data   []byte
}

type handlerFunc func(ctx context.Context, client *Client, message *Message) error

// Server routes player intents to the game and fans results out to rooms.
// All room state changes and all sends happen on the single Run goroutine,
// in the order events arrive.
type Server struct {
	logger  *slog.Logger
	uGame   uGame
	options Options

	upgrader websocket.Upgrader
	handlers map[string]handlerFunc

	events chan event
	done   chan struct{}

	// owned by the Run goroutine
	clients map[string]*Client
}

func New(logger *slog.Logger, uGame uGame, options Options) *Server {
	server := &Server{
		logger:  logger.With("component", "websocket"),
		uGame:   uGame,
		options: options,

		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		handlers: make(map[string]handlerFunc),

		events:  make(chan event, mailboxSize),
		done:    make(chan struct{}),
		clients: make(map[string]*Client),
	}

	server.handlers[ActionCreateRoom] = server.handleCreateRoom
	server.handlers[ActionJoinRoom] = server.handleJoinRoom
	server.handlers[ActionMakeMove] = server.handleMakeMove
	server.handlers[ActionRequestRematch] = server.handleRequestRematch

	return server
}

// ServeHTTP - upgrades the request and serves the player until it disconnects.
func (that *Server) ServeHTTP(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	if that.stopped() {
		http.Error(writer, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := that.upgrader.Upgrade(writer, req, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := newClient(that, conn, pkg.GenerateNewSessionID())

	if !that.post(event{kind: eventConnect, client: client}) {
		_ = conn.Close()
		return
	}

	log.Info("WebSocket connection established", "playerID", client.ID, "remote", req.RemoteAddr)

	go client.writePump()
	client.readPump()
}

// Run - processes events one at a time until ctx is done, then closes every connection.
func (that *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			that.closeAll()
			close(that.done)
			that.drain()
			return
		case ev := <-that.events:
			that.dispatch(ctx, ev)
		}
	}
}

// post hands an event to the dispatcher. It reports false once Run has stopped.
func (that *Server) post(ev event) bool {
	if that.stopped() {
		return false
	}

	select {
	case that.events <- ev:
		return true
	case <-that.done:
		return false
	}
}

func (that *Server) stopped() bool {
	select {
	case <-that.done:
		return true
	default:
		return false
	}
}

// drain closes connections whose events were queued but never dispatched.
func (that *Server) drain() {
	for {
		select {
		case ev := <-that.events:
			ev.client.closeSend()
		default:
			return
		}
	}
}

func (that *Server) dispatch(ctx context.Context, ev event) {
	switch ev.kind {
	case eventConnect:
		that.clients[ev.client.ID] = ev.client
		that.send(ev.client.ID, ActionConnected, ConnectedPayload{PlayerID: ev.client.ID})
	case eventMessage:
		that.handleMessage(ctx, ev.client, ev.data)
	case eventDisconnect:
		that.handleDisconnect(ctx, ev.client)
	}
}

func (that *Server) handleMessage(ctx context.Context, client *Client, data []byte) {
	log := that.logger.With("method", "handleMessage", "playerID", client.ID)

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		log.Debug("failed to unmarshal message", "error", err)
		that.sendError(client, errMalformedMessage)
		return
	}

	handler, ok := that.handlers[message.Action]
	if !ok {
		log.Debug("unknown action", "action", message.Action)
		that.sendError(client, errUnknownAction)
		return
	}

	if err := handler(ctx, client, &message); err != nil {
		log.Debug("action rejected", "action", message.Action, "error", err)
		that.sendError(client, err)
	}
}

// send queues a message for one player. A player whose queue is full is dropped.
func (that *Server) send(playerID, action string, payload any) {
	data, err := encodeMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "action", action, "error", err)
		return
	}

	that.deliver(playerID, data)
}

// broadcast queues the same message for every member of the room.
func (that *Server) broadcast(room *entity.Room, action string, payload any) {
	data, err := encodeMessage(action, payload)
	if err != nil {
		that.logger.Error("failed to encode message", "action", action, "error", err)
		return
	}

	for _, playerID := range room.Players {
		that.deliver(playerID, data)
	}
}

func (that *Server) deliver(playerID string, data []byte) {
	client, ok := that.clients[playerID]
	if !ok {
		return
	}

	select {
	case client.send <- data:
	default:
		that.logger.Warn("send queue is full, dropping connection", "playerID", playerID)
		that.unregister(client)
	}
}

func (that *Server) unregister(client *Client) {
	if current, ok := that.clients[client.ID]; ok && current == client {
		delete(that.clients, client.ID)
	}

	client.closeSend()
}

func (that *Server) closeAll() {
	for _, client := range that.clients {
		that.unregister(client)
	}

	that.logger.Info("all connections closed")
}
