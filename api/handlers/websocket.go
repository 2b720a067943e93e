package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/chatroom"
	"github.com/mindhaven-app/mindhaven-api/config"
)

const wsWriteTimeout = 10 * time.Second

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // origin filtering happens at the CORS layer for the browser clients
	},
}

// ChatSocket streams chatroom events to connected participants.
type ChatSocket struct {
	Tokens *api.TokenService
	Engine *chatroom.Engine
	Hub    *chatroom.Hub
}

// Serve upgrades the connection and relays hub events for one chatroom.
// Browsers cannot set an Authorization header on a websocket handshake, so
// the token travels as a query parameter instead.
func (cs ChatSocket) Serve(w http.ResponseWriter, r *http.Request) {
	chatroomID, err := primitive.ObjectIDFromHex(mux.Vars(r)["chatroomId"])
	if err != nil {
		config.ErrorStatus("invalid chatroom id", http.StatusBadRequest, w, err)
		return
	}

	userID, err := cs.Tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		config.ErrorStatus("invalid token", http.StatusUnauthorized, w, err)
		return
	}
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		config.ErrorStatus("invalid token", http.StatusUnauthorized, w, err)
		return
	}

	ok, err := cs.Engine.IsParticipant(r.Context(), chatroomID, uid)
	if err != nil {
		config.ErrorStatus("failed to check chatroom membership", http.StatusNotFound, w, err)
		return
	}
	if !ok {
		config.ErrorStatus("not a participant of this chatroom", http.StatusForbidden, w, nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade failed", "chatroomId", chatroomID.Hex(), "error", err)
		return
	}
	defer conn.Close()

	events, cancel := cs.Hub.Subscribe(chatroomID.Hex())
	defer cancel()

	zap.S().Infow("websocket subscriber connected", "chatroomId", chatroomID.Hex(), "userId", uid.Hex())

	// reader goroutine: we never expect inbound frames, but reading is the
	// only way to notice the peer going away
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.NextReader(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case event := <-events:
			conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteJSON(event); err != nil {
				zap.S().Debugw("websocket write failed, dropping subscriber",
					"chatroomId", chatroomID.Hex(), "userId", uid.Hex())
				return
			}
		case <-done:
			zap.S().Infow("websocket subscriber disconnected", "chatroomId", chatroomID.Hex(), "userId", uid.Hex())
			return
		}
	}
}
