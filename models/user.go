package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User roles. Admins are provisioned out of band, never via createUser.
const (
	RoleChild        = "CHILD"
	RolePsychologist = "PSYCHOLOGIST"
	RoleAdmin        = "ADMIN"
)

// ValidSignupRole reports whether role may be chosen at registration.
func ValidSignupRole(role string) bool {
	return role == RoleChild || role == RolePsychologist
}

// User holds the structure for the users collection in mongo. Username is
// unique; email is unique when present (sparse index).
type User struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id"`
	Name           string             `json:"name" bson:"name"`
	Username       string             `json:"username" bson:"username"`
	Email          string             `json:"email,omitempty" bson:"email,omitempty"`
	Password       string             `json:"-" bson:"password"`
	Role           string             `json:"role" bson:"role"`
	IsVerified     bool               `json:"isVerified" bson:"isVerified"`
	IsPrivate      bool               `json:"isPrivate" bson:"isPrivate"`
	Bio            string             `json:"bio" bson:"bio"`
	ProfilePicture string             `json:"profilePicture" bson:"profilePicture"`
	Specialization string             `json:"specialization,omitempty" bson:"specialization,omitempty"`
	HourlyRate     int64              `json:"hourlyRate,omitempty" bson:"hourlyRate,omitempty"`
	CreatedAt      primitive.DateTime `json:"createdAt" bson:"createdAt"`
	UpdatedAt      primitive.DateTime `json:"updatedAt" bson:"updatedAt"`
}

// AuthPayload is returned by createUser and loginUser.
type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}
