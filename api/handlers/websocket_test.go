package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/api/handlers"
	"github.com/mindhaven-app/mindhaven-api/chatroom"
	"github.com/mindhaven-app/mindhaven-api/config"
	mocksdb "github.com/mindhaven-app/mindhaven-api/databases/mocks"
	"github.com/mindhaven-app/mindhaven-api/models"
)

func newChatSocket(crdb *mocksdb.ChatroomDatabase) handlers.ChatSocket {
	return handlers.ChatSocket{
		Tokens: api.NewTokenService(&config.Config{JWTSecret: "test-secret"}),
		Engine: chatroom.NewEngine(crdb, &mocksdb.ChatroomMessageDatabase{}, &mocksdb.UserDatabase{}, chatroom.NewHub()),
		Hub:    chatroom.NewHub(),
	}
}

func TestChatSocket_RejectsMalformedChatroomID(t *testing.T) {
	cs := newChatSocket(&mocksdb.ChatroomDatabase{})

	req := httptest.NewRequest(http.MethodGet, "/ws/chatrooms/zzz", nil)
	req = mux.SetURLVars(req, map[string]string{"chatroomId": "zzz"})
	rr := httptest.NewRecorder()

	http.HandlerFunc(cs.Serve).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestChatSocket_RejectsBadToken(t *testing.T) {
	cs := newChatSocket(&mocksdb.ChatroomDatabase{})
	roomID := primitive.NewObjectID()

	req := httptest.NewRequest(http.MethodGet, "/ws/chatrooms/"+roomID.Hex()+"?token=not.a.token", nil)
	req = mux.SetURLVars(req, map[string]string{"chatroomId": roomID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(cs.Serve).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestChatSocket_RejectsNonParticipant(t *testing.T) {
	outsider := primitive.NewObjectID()
	room := &models.Chatroom{
		ID:             primitive.NewObjectID(),
		ChildID:        primitive.NewObjectID(),
		PsychologistID: primitive.NewObjectID(),
		Active:         true,
	}

	crdb := &mocksdb.ChatroomDatabase{}
	crdb.On("FindOne", mock.Anything, bson.M{"_id": room.ID}).Return(room, nil)

	cs := newChatSocket(crdb)
	token, err := cs.Tokens.Sign(outsider.Hex())
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/ws/chatrooms/"+room.ID.Hex()+"?token="+token, nil)
	req = mux.SetURLVars(req, map[string]string{"chatroomId": room.ID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(cs.Serve).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}
