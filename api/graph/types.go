package graph

import (
	"github.com/graphql-go/graphql"

	"github.com/mindhaven-app/mindhaven-api/models"
)

var roleEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "Role",
	Values: graphql.EnumValueConfigMap{
		models.RoleChild:        {Value: models.RoleChild},
		models.RolePsychologist: {Value: models.RolePsychologist},
		models.RoleAdmin:        {Value: models.RoleAdmin},
	},
})

var signupRoleEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "SignupRole",
	Values: graphql.EnumValueConfigMap{
		models.RoleChild:        {Value: models.RoleChild},
		models.RolePsychologist: {Value: models.RolePsychologist},
	},
})

var messageTypeEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "MessageType",
	Values: graphql.EnumValueConfigMap{
		models.MessageTypeText:  {Value: models.MessageTypeText},
		models.MessageTypeImage: {Value: models.MessageTypeImage},
		models.MessageTypeFile:  {Value: models.MessageTypeFile},
		models.MessageTypeAudio: {Value: models.MessageTypeAudio},
		models.MessageTypeVideo: {Value: models.MessageTypeVideo},
	},
})

var appointmentStatusEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "AppointmentStatus",
	Values: graphql.EnumValueConfigMap{
		models.AppointmentPending:   {Value: models.AppointmentPending},
		models.AppointmentConfirmed: {Value: models.AppointmentConfirmed},
		models.AppointmentCancelled: {Value: models.AppointmentCancelled},
		models.AppointmentCompleted: {Value: models.AppointmentCompleted},
	},
})

var reportStatusEnum = graphql.NewEnum(graphql.EnumConfig{
	Name: "ReportStatus",
	Values: graphql.EnumValueConfigMap{
		models.ReportOpen:      {Value: models.ReportOpen},
		models.ReportResolved:  {Value: models.ReportResolved},
		models.ReportDismissed: {Value: models.ReportDismissed},
	},
})

// sourceUser tolerates value and pointer sources; graphql-go hands resolvers
// whatever the parent resolver returned.
func sourceUser(p graphql.ResolveParams) *models.User {
	switch u := p.Source.(type) {
	case *models.User:
		return u
	case models.User:
		return &u
	}
	return nil
}

func sourceChatroom(p graphql.ResolveParams) *models.Chatroom {
	switch c := p.Source.(type) {
	case *models.Chatroom:
		return c
	case models.Chatroom:
		return &c
	}
	return nil
}

func sourceMessage(p graphql.ResolveParams) *models.ChatroomMessage {
	switch m := p.Source.(type) {
	case *models.ChatroomMessage:
		return m
	case models.ChatroomMessage:
		return &m
	}
	return nil
}

var userType = graphql.NewObject(graphql.ObjectConfig{
	Name: "User",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(objectIDScalar),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if u := sourceUser(p); u != nil {
					return u.ID, nil
				}
				return nil, nil
			},
		},
		"name":           &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"username":       &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"email":          &graphql.Field{Type: graphql.String},
		"role":           &graphql.Field{Type: graphql.NewNonNull(roleEnum)},
		"isVerified":     &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"isPrivate":      &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"bio":            &graphql.Field{Type: graphql.String},
		"profilePicture": &graphql.Field{Type: graphql.String},
		"specialization": &graphql.Field{Type: graphql.String},
		"hourlyRate":     &graphql.Field{Type: graphql.Int},
		"createdAt":      &graphql.Field{Type: dateTimeScalar},
		"updatedAt":      &graphql.Field{Type: dateTimeScalar},
	},
})

var authPayloadType = graphql.NewObject(graphql.ObjectConfig{
	Name: "AuthPayload",
	Fields: graphql.Fields{
		"token": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"user":  &graphql.Field{Type: graphql.NewNonNull(userType)},
	},
})

var unreadCountType = graphql.NewObject(graphql.ObjectConfig{
	Name: "UnreadCount",
	Fields: graphql.Fields{
		"child":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"psychologist": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var chatroomMessageType = graphql.NewObject(graphql.ObjectConfig{
	Name: "ChatroomMessage",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(objectIDScalar),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if m := sourceMessage(p); m != nil {
					return m.ID, nil
				}
				return nil, nil
			},
		},
		"chatroomId": &graphql.Field{Type: graphql.NewNonNull(objectIDScalar)},
		"sender": &graphql.Field{
			Type: userType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if m := sourceMessage(p); m != nil {
					return m.Sender, nil
				}
				return nil, nil
			},
		},
		"content":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"type":      &graphql.Field{Type: graphql.NewNonNull(messageTypeEnum)},
		"isRead":    &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt": &graphql.Field{Type: dateTimeScalar},
	},
})

var chatroomType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Chatroom",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(objectIDScalar),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if c := sourceChatroom(p); c != nil {
					return c.ID, nil
				}
				return nil, nil
			},
		},
		"child": &graphql.Field{
			Type: userType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if c := sourceChatroom(p); c != nil {
					return c.Child, nil
				}
				return nil, nil
			},
		},
		"psychologist": &graphql.Field{
			Type: userType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if c := sourceChatroom(p); c != nil {
					return c.Psychologist, nil
				}
				return nil, nil
			},
		},
		"active": &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"lastMessage": &graphql.Field{
			Type: chatroomMessageType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if c := sourceChatroom(p); c != nil {
					return c.LastMessage, nil
				}
				return nil, nil
			},
		},
		"lastMessageAt": &graphql.Field{Type: dateTimeScalar},
		"unreadCount":   &graphql.Field{Type: graphql.NewNonNull(unreadCountType)},
		"createdAt":     &graphql.Field{Type: dateTimeScalar},
		"updatedAt":     &graphql.Field{Type: dateTimeScalar},
	},
})

var appointmentType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Appointment",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(objectIDScalar),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch a := p.Source.(type) {
				case *models.Appointment:
					return a.ID, nil
				case models.Appointment:
					return a.ID, nil
				}
				return nil, nil
			},
		},
		"childId":         &graphql.Field{Type: graphql.NewNonNull(objectIDScalar)},
		"psychologistId":  &graphql.Field{Type: graphql.NewNonNull(objectIDScalar)},
		"scheduledAt":     &graphql.Field{Type: graphql.NewNonNull(dateTimeScalar)},
		"durationMinutes": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"status":          &graphql.Field{Type: graphql.NewNonNull(appointmentStatusEnum)},
		"notes":           &graphql.Field{Type: graphql.String},
		"paid":            &graphql.Field{Type: graphql.NewNonNull(graphql.Boolean)},
		"createdAt":       &graphql.Field{Type: dateTimeScalar},
		"updatedAt":       &graphql.Field{Type: dateTimeScalar},
	},
})

var feedbackType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Feedback",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(objectIDScalar),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch f := p.Source.(type) {
				case *models.Feedback:
					return f.ID, nil
				case models.Feedback:
					return f.ID, nil
				}
				return nil, nil
			},
		},
		"psychologistId": &graphql.Field{Type: graphql.NewNonNull(objectIDScalar)},
		"authorId":       &graphql.Field{Type: graphql.NewNonNull(objectIDScalar)},
		"rating":         &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"comment":        &graphql.Field{Type: graphql.String},
		"createdAt":      &graphql.Field{Type: dateTimeScalar},
	},
})

var reportType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Report",
	Fields: graphql.Fields{
		"id": &graphql.Field{
			Type: graphql.NewNonNull(objectIDScalar),
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				switch r := p.Source.(type) {
				case *models.Report:
					return r.ID, nil
				case models.Report:
					return r.ID, nil
				}
				return nil, nil
			},
		},
		"reporterId": &graphql.Field{Type: graphql.NewNonNull(objectIDScalar)},
		"reportedId": &graphql.Field{Type: graphql.NewNonNull(objectIDScalar)},
		"reason":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"details":    &graphql.Field{Type: graphql.String},
		"status":     &graphql.Field{Type: graphql.NewNonNull(reportStatusEnum)},
		"createdAt":  &graphql.Field{Type: dateTimeScalar},
		"updatedAt":  &graphql.Field{Type: dateTimeScalar},
	},
})
