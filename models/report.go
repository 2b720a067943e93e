package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Report statuses, moved by the admin moderation surface.
const (
	ReportOpen      = "OPEN"
	ReportResolved  = "RESOLVED"
	ReportDismissed = "DISMISSED"
)

// Report holds the structure for the reports collection in mongo. Reports are
// filed by members against other members and reviewed by admins.
type Report struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	ReporterID primitive.ObjectID `json:"reporterId" bson:"reporter"`
	ReportedID primitive.ObjectID `json:"reportedId" bson:"reported"`
	Reason     string             `json:"reason" bson:"reason"`
	Details    string             `json:"details" bson:"details"`
	Status     string             `json:"status" bson:"status"`
	CreatedAt  primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt  primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
