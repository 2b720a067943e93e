package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Feedback holds the structure for the feedback collection in mongo. Rating is
// bounded 1..5 at the resolver boundary.
type Feedback struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	PsychologistID primitive.ObjectID `json:"psychologistId" bson:"psychologist"`
	AuthorID       primitive.ObjectID `json:"authorId" bson:"author"`
	Rating         int32              `json:"rating" bson:"rating"`
	Comment        string             `json:"comment" bson:"comment"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
}
