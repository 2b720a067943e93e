// Package chatroom owns the lifecycle of conversations between a child and a
// psychologist and the messages within them.
package chatroom

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mindhaven-app/mindhaven-api/databases"
	"github.com/mindhaven-app/mindhaven-api/models"
)

// Operation-failure codes for unexpected lower-layer errors.
const (
	codeGetOrCreateFailed = "GET_OR_CREATE_CHATROOM_FAILED"
	codeCreateFailed      = "CREATE_CHATROOM_FAILED"
	codeSendFailed        = "SEND_CHATROOM_MESSAGE_FAILED"
	codeMarkReadFailed    = "MARK_CHATROOM_MESSAGES_READ_FAILED"
	codeListFailed        = "GET_CHATROOMS_FAILED"
	codeGetMessagesFailed = "GET_CHATROOM_MESSAGES_FAILED"
	codeDeactivateFailed  = "DEACTIVATE_CHATROOM_FAILED"
)

const (
	defaultMessagePageSize = 50
	maxMessagePageSize     = 200
)

// Engine implements the conversation state machine over the chatroom and
// message collections.
type Engine struct {
	CRDB databases.ChatroomDatabase
	MDB  databases.ChatroomMessageDatabase
	UDB  databases.UserDatabase
	Hub  *Hub
}

// NewEngine wires an engine with its collections and an optional hub.
func NewEngine(crdb databases.ChatroomDatabase, mdb databases.ChatroomMessageDatabase, udb databases.UserDatabase, hub *Hub) *Engine {
	return &Engine{CRDB: crdb, MDB: mdb, UDB: udb, Hub: hub}
}

// GetOrCreate returns the chatroom for this exact (child, psychologist) pair,
// creating it on first contact. Safe under concurrent calls: the unique index
// on the pair turns a racing insert into a duplicate-key error, which is
// answered by fetching the winner.
func (e *Engine) GetOrCreate(ctx context.Context, childID, psychologistID primitive.ObjectID) (*models.Chatroom, error) {
	child, err := e.lookupParticipant(ctx, childID, models.RoleChild)
	if err != nil {
		return nil, models.WrapOperation(codeGetOrCreateFailed, err)
	}
	psychologist, err := e.lookupParticipant(ctx, psychologistID, models.RolePsychologist)
	if err != nil {
		return nil, models.WrapOperation(codeGetOrCreateFailed, err)
	}

	pairFilter := bson.M{"child": childID, "psychologist": psychologistID}
	room, err := e.CRDB.FindOne(ctx, pairFilter)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.WrapOperation(codeGetOrCreateFailed, err)
	}

	if room == nil {
		now := primitive.NewDateTimeFromTime(time.Now())
		fresh := models.Chatroom{
			ID:             primitive.NewObjectID(),
			ChildID:        childID,
			PsychologistID: psychologistID,
			Active:         true,
			UnreadCount:    models.UnreadCount{},
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if _, err := e.CRDB.InsertOne(ctx, fresh); err != nil {
			if !mongo.IsDuplicateKeyError(err) {
				return nil, models.WrapOperation(codeGetOrCreateFailed, err)
			}
			// lost the race; the existing room wins
			room, err = e.CRDB.FindOne(ctx, pairFilter)
			if err != nil {
				return nil, models.WrapOperation(codeGetOrCreateFailed, err)
			}
		} else {
			room = &fresh
		}
	}

	room.Child = child
	room.Psychologist = psychologist
	return room, nil
}

// Create is GetOrCreate restricted to the child side: only the child may
// explicitly originate a conversation.
func (e *Engine) Create(ctx context.Context, childID, psychologistID, callerID primitive.ObjectID) (*models.Chatroom, error) {
	if callerID != childID {
		return nil, models.NewError(models.CodeUnauthorized, "only the child may start this conversation")
	}
	room, err := e.GetOrCreate(ctx, childID, psychologistID)
	return room, models.WrapOperation(codeCreateFailed, err)
}

// SendMessage appends a message and updates the chatroom bookkeeping in one
// atomic storage operation: last-message pointer, timestamp, and the unread
// counter of the non-sending participant.
func (e *Engine) SendMessage(ctx context.Context, chatroomID, senderID primitive.ObjectID, content, messageType string) (*models.ChatroomMessage, error) {
	if content == "" || len([]rune(content)) > models.MaxMessageContentLength {
		return nil, models.NewError(models.CodeInvalidInput, "message content must be 1-5000 characters")
	}
	if messageType == "" {
		messageType = models.MessageTypeText
	}
	if !models.ValidMessageType(messageType) {
		return nil, models.NewError(models.CodeInvalidInput, "unknown message type")
	}

	room, err := e.CRDB.FindOne(ctx, bson.M{"_id": chatroomID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeChatroomNotFound, "chatroom not found")
		}
		return nil, models.WrapOperation(codeSendFailed, err)
	}

	senderRole := room.ParticipantRole(senderID)
	if senderRole == "" {
		return nil, models.NewError(models.CodeUnauthorized, "sender is not a participant of this chatroom")
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	message := models.ChatroomMessage{
		ID:         primitive.NewObjectID(),
		ChatroomID: chatroomID,
		SenderID:   senderID,
		Content:    content,
		Type:       messageType,
		IsRead:     false,
		CreatedAt:  now,
	}
	if _, err := e.MDB.InsertOne(ctx, message); err != nil {
		return nil, models.WrapOperation(codeSendFailed, err)
	}

	update := bson.M{
		"$set": bson.M{
			"lastMessage":   message.ID,
			"lastMessageAt": now,
			"updatedAt":     now,
		},
		"$inc": bson.M{unreadCounterField(otherRole(senderRole)): 1},
	}
	if _, err := e.CRDB.UpdateOne(ctx, bson.M{"_id": chatroomID}, update); err != nil {
		return nil, models.WrapOperation(codeSendFailed, err)
	}

	if sender, err := e.UDB.FindOne(ctx, bson.M{"_id": senderID}); err == nil {
		message.Sender = sender
	} else {
		zap.S().Warnw("failed to populate message sender", "chatroomId", chatroomID.Hex(), "senderId", senderID.Hex())
	}

	if e.Hub != nil {
		e.Hub.Publish(chatroomID.Hex(), Event{
			Type:       EventMessageCreated,
			ChatroomID: chatroomID.Hex(),
			Message:    &message,
		})
	}
	return &message, nil
}

// MarkRead flags every message not sent by the reader as read and resets the
// reader's unread counter. Missing chatrooms and non-participant readers are
// silent no-ops: counters must never move for outsiders.
func (e *Engine) MarkRead(ctx context.Context, chatroomID, readerID primitive.ObjectID) error {
	room, err := e.CRDB.FindOne(ctx, bson.M{"_id": chatroomID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return models.WrapOperation(codeMarkReadFailed, err)
	}

	readerRole := room.ParticipantRole(readerID)
	if readerRole == "" {
		return nil
	}

	messageFilter := bson.M{
		"chatroom": chatroomID,
		"sender":   bson.M{"$ne": readerID},
		"isRead":   false,
	}
	if _, err := e.MDB.UpdateMany(ctx, messageFilter, bson.M{"$set": bson.M{"isRead": true}}); err != nil {
		return models.WrapOperation(codeMarkReadFailed, err)
	}

	reset := bson.M{"$set": bson.M{unreadCounterField(readerRole): 0}}
	if _, err := e.CRDB.UpdateOne(ctx, bson.M{"_id": chatroomID}, reset); err != nil {
		return models.WrapOperation(codeMarkReadFailed, err)
	}
	return nil
}

// ListForUser returns the user's active chatrooms, most recently messaged
// first, never-messaged rooms last. Rooms whose participant references no
// longer resolve are excluded and logged as a data-integrity signal.
func (e *Engine) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Chatroom, error) {
	filter := bson.M{
		"active": true,
		"$or": []bson.M{
			{"child": userID},
			{"psychologist": userID},
		},
	}
	sort := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})
	rooms, err := e.CRDB.Find(ctx, filter, sort)
	if err != nil {
		return nil, models.WrapOperation(codeListFailed, err)
	}

	results := make([]models.Chatroom, 0, len(rooms))
	for i := range rooms {
		room := rooms[i]
		child, err := e.resolveUser(ctx, room.ChildID)
		if err != nil {
			return nil, models.WrapOperation(codeListFailed, err)
		}
		psychologist, err := e.resolveUser(ctx, room.PsychologistID)
		if err != nil {
			return nil, models.WrapOperation(codeListFailed, err)
		}
		if child == nil || psychologist == nil {
			zap.S().Warnw("excluding chatroom with dangling participant reference",
				"chatroomId", room.ID.Hex(),
				"childResolved", child != nil,
				"psychologistResolved", psychologist != nil,
			)
			continue
		}
		room.Child = child
		room.Psychologist = psychologist
		if room.LastMessageID != nil {
			if last, err := e.MDB.FindOne(ctx, bson.M{"_id": *room.LastMessageID}); err == nil {
				room.LastMessage = last
			}
		}
		results = append(results, room)
	}
	return results, nil
}

// GetMessages returns a page of a chatroom's messages, newest first, with
// senders populated.
func (e *Engine) GetMessages(ctx context.Context, chatroomID primitive.ObjectID, limit, page int) ([]models.ChatroomMessage, error) {
	if _, err := e.CRDB.FindOne(ctx, bson.M{"_id": chatroomID}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeChatroomNotFound, "chatroom not found")
		}
		return nil, models.WrapOperation(codeGetMessagesFailed, err)
	}

	if limit <= 0 {
		limit = defaultMessagePageSize
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}
	if page <= 0 {
		page = 1
	}

	sort := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	messages, err := e.MDB.FindPage(ctx, bson.M{"chatroom": chatroomID}, limit, page, sort)
	if err != nil {
		return nil, models.WrapOperation(codeGetMessagesFailed, err)
	}

	senders := map[primitive.ObjectID]*models.User{}
	for i := range messages {
		sender, ok := senders[messages[i].SenderID]
		if !ok {
			sender, err = e.resolveUser(ctx, messages[i].SenderID)
			if err != nil {
				return nil, models.WrapOperation(codeGetMessagesFailed, err)
			}
			senders[messages[i].SenderID] = sender
		}
		messages[i].Sender = sender
	}
	return messages, nil
}

// Deactivate flips a chatroom inactive; moderation only.
func (e *Engine) Deactivate(ctx context.Context, chatroomID primitive.ObjectID) error {
	res, err := e.CRDB.UpdateOne(ctx, bson.M{"_id": chatroomID}, bson.M{"$set": bson.M{
		"active":    false,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}})
	if err != nil {
		return models.WrapOperation(codeDeactivateFailed, err)
	}
	if res != nil && res.MatchedCount == 0 {
		return models.NewError(models.CodeChatroomNotFound, "chatroom not found")
	}
	return nil
}

// IsParticipant reports whether userID belongs to the chatroom. Used by the
// websocket endpoint before subscribing a connection.
func (e *Engine) IsParticipant(ctx context.Context, chatroomID, userID primitive.ObjectID) (bool, error) {
	room, err := e.CRDB.FindOne(ctx, bson.M{"_id": chatroomID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, models.NewError(models.CodeChatroomNotFound, "chatroom not found")
		}
		return false, models.WrapOperation(codeListFailed, err)
	}
	return room.ParticipantRole(userID) != "", nil
}

func (e *Engine) lookupParticipant(ctx context.Context, userID primitive.ObjectID, role string) (*models.User, error) {
	user, err := e.UDB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeUserNotFound, "participant not found")
		}
		return nil, err
	}
	if user.Role != role {
		return nil, models.NewError(models.CodeInvalidInput, "participant has the wrong role for this chatroom")
	}
	return user, nil
}

// resolveUser returns (nil, nil) for a dangling reference so callers can
// exclude instead of erroring.
func (e *Engine) resolveUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := e.UDB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

func otherRole(role string) string {
	if role == models.RoleChild {
		return models.RolePsychologist
	}
	return models.RoleChild
}

func unreadCounterField(role string) string {
	if role == models.RoleChild {
		return "unreadCount.child"
	}
	return "unreadCount.psychologist"
}
