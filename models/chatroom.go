package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// UnreadCount tracks per-role unread messages for a chatroom. Each counter
// holds messages sent by the other participant not yet marked read.
type UnreadCount struct {
	Child        int64 `json:"child" bson:"child"`
	Psychologist int64 `json:"psychologist" bson:"psychologist"`
}

// Chatroom holds the structure for the chatrooms collection in mongo. A
// chatroom is a single persistent conversation between exactly one child and
// one psychologist; the (child, psychologist) pair carries a unique index.
type Chatroom struct {
	ID             primitive.ObjectID  `json:"_id" bson:"_id"`
	ChildID        primitive.ObjectID  `json:"childId" bson:"child"`
	PsychologistID primitive.ObjectID  `json:"psychologistId" bson:"psychologist"`
	Active         bool                `json:"active" bson:"active"`
	LastMessageID  *primitive.ObjectID `json:"lastMessageId,omitempty" bson:"lastMessage,omitempty"`
	LastMessageAt  *primitive.DateTime `json:"lastMessageAt,omitempty" bson:"lastMessageAt,omitempty"`
	UnreadCount    UnreadCount         `json:"unreadCount" bson:"unreadCount"`
	CreatedAt      primitive.DateTime  `json:"createdAt" bson:"createdAt"`
	UpdatedAt      primitive.DateTime  `json:"updatedAt" bson:"updatedAt"`

	// Populated participants; filled by the engine at the boundary, never
	// persisted.
	Child        *User            `json:"child,omitempty" bson:"-"`
	Psychologist *User            `json:"psychologist,omitempty" bson:"-"`
	LastMessage  *ChatroomMessage `json:"lastMessage,omitempty" bson:"-"`
}

// ParticipantRole returns the role userID plays in the chatroom, or empty
// string for a non-participant.
func (c *Chatroom) ParticipantRole(userID primitive.ObjectID) string {
	switch userID {
	case c.ChildID:
		return RoleChild
	case c.PsychologistID:
		return RolePsychologist
	default:
		return ""
	}
}
