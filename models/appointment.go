package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Appointment statuses.
const (
	AppointmentPending   = "PENDING"
	AppointmentConfirmed = "CONFIRMED"
	AppointmentCancelled = "CANCELLED"
	AppointmentCompleted = "COMPLETED"
)

// ValidAppointmentStatus reports whether s is a known appointment status.
func ValidAppointmentStatus(s string) bool {
	switch s {
	case AppointmentPending, AppointmentConfirmed, AppointmentCancelled, AppointmentCompleted:
		return true
	}
	return false
}

// Appointment holds the structure for the appointments collection in mongo
type Appointment struct {
	ID              primitive.ObjectID `json:"_id" bson:"_id"`
	ChildID         primitive.ObjectID `json:"childId" bson:"child"`
	PsychologistID  primitive.ObjectID `json:"psychologistId" bson:"psychologist"`
	ScheduledAt     primitive.DateTime `json:"scheduledAt" bson:"scheduledAt"`
	DurationMinutes int32              `json:"durationMinutes" bson:"durationMinutes"`
	Status          string             `json:"status" bson:"status"`
	Notes           string             `json:"notes" bson:"notes"`
	Paid            bool               `json:"paid" bson:"paid"`
	CreatedAt       primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt       primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}
