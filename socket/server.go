package socket

import (
	socketio "github.com/googollee/go-socket.io"
	"go.uber.org/zap"
)

// MessageEvent is the payload fanned out to a conversation room. The
// HTTP send path publishes it after persisting; the realtime
// send-message path relays it as-is without persisting.
type MessageEvent struct {
	RoomID     string `json:"roomId"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName"`
	Message    string `json:"message"`
	Timestamp  string `json:"timestamp"`
}

// Server is the room-based broadcast router. Rooms map one-to-one to
// conversation ids; delivery is fire-and-forget with no replay for
// late joiners.
type Server struct {
	IO       *socketio.Server
	Registry *Registry

	logger *zap.SugaredLogger
}

// NewServer wires the realtime event handlers onto a Socket.IO server.
func NewServer(logger *zap.SugaredLogger) *Server {
	io := socketio.NewServer(nil)
	s := &Server{IO: io, Registry: NewRegistry(), logger: logger}

	io.OnConnect("/", func(c socketio.Conn) error {
		logger.Infow("socket connected", "id", c.ID())
		return nil
	})

	io.OnEvent("/", "join-room", func(c socketio.Conn, roomID string) {
		if roomID == "" {
			logger.Warnw("join-room without roomId", "id", c.ID())
			return
		}
		c.Join(roomID)
		s.Registry.Join(c.ID(), roomID)
		logger.Infow("joined room", "id", c.ID(), "roomId", roomID)
	})

	io.OnEvent("/", "send-message", func(c socketio.Conn, ev MessageEvent) {
		if ev.RoomID == "" {
			logger.Warnw("send-message without roomId", "id", c.ID())
			return
		}
		// Relay-only path: nothing is persisted here. Clients needing
		// durability send through the HTTP endpoint, which republishes
		// after the store append.
		io.BroadcastToRoom("/", ev.RoomID, "receive-message", ev)
	})

	io.OnDisconnect("/", func(c socketio.Conn, reason string) {
		s.Registry.Disconnect(c.ID())
		logger.Infow("socket disconnected", "id", c.ID(), "reason", reason)
	})

	io.OnError("/", func(c socketio.Conn, err error) {
		logger.Errorw("socket error", "error", err)
	})

	return s
}

// PublishMessage fans a persisted message out to every connection in
// the conversation's room. It never blocks the write path and gives no
// delivery guarantee.
func (s *Server) PublishMessage(roomID string, ev MessageEvent) {
	s.IO.BroadcastToRoom("/", roomID, "receive-message", ev)
}
