package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Message types supported by sendChatroomMessage.
const (
	MessageTypeText  = "TEXT"
	MessageTypeImage = "IMAGE"
	MessageTypeFile  = "FILE"
	MessageTypeAudio = "AUDIO"
	MessageTypeVideo = "VIDEO"
)

// MaxMessageContentLength bounds message content in runes.
const MaxMessageContentLength = 5000

// ValidMessageType reports whether t is a known message type.
func ValidMessageType(t string) bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeFile, MessageTypeAudio, MessageTypeVideo:
		return true
	}
	return false
}

// ChatroomMessage holds the structure for the chatroomMessages collection in
// mongo. Content is immutable once created; only the read flag transitions.
type ChatroomMessage struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	ChatroomID primitive.ObjectID `json:"chatroomId" bson:"chatroom"`
	SenderID   primitive.ObjectID `json:"senderId" bson:"sender"`
	Content    string             `json:"content" bson:"content"`
	Type       string             `json:"type" bson:"type"`
	IsRead     bool               `json:"isRead" bson:"isRead"`
	CreatedAt  primitive.DateTime `json:"createdAt" bson:"createdAt"`

	// Populated sender; filled by the engine, never persisted.
	Sender *User `json:"sender,omitempty" bson:"-"`
}
