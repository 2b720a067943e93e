package graph

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindhaven-app/mindhaven-api/account"
	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/models"
)

const (
	minAppointmentMinutes = 15
	maxAppointmentMinutes = 240
)

func (r *Resolver) mutationType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"name":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"username":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"email":     &graphql.ArgumentConfig{Type: graphql.String},
					"password":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"role":      &graphql.ArgumentConfig{Type: graphql.NewNonNull(signupRoleEnum)},
					"isPrivate": &graphql.ArgumentConfig{Type: graphql.Boolean},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					isPrivate, _ := p.Args["isPrivate"].(bool)
					return r.Accounts.Register(p.Context, account.RegisterInput{
						Name:      stringArg(p.Args, "name"),
						Username:  stringArg(p.Args, "username"),
						Email:     stringArg(p.Args, "email"),
						Password:  stringArg(p.Args, "password"),
						Role:      stringArg(p.Args, "role"),
						IsPrivate: isPrivate,
					})
				},
			},
			"loginUser": &graphql.Field{
				Type: graphql.NewNonNull(authPayloadType),
				Args: graphql.FieldConfigArgument{
					"identifier": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return r.Accounts.Login(p.Context, stringArg(p.Args, "identifier"), stringArg(p.Args, "password"))
				},
			},
			"updateProfile": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"name":           &graphql.ArgumentConfig{Type: graphql.String},
					"bio":            &graphql.ArgumentConfig{Type: graphql.String},
					"profilePicture": &graphql.ArgumentConfig{Type: graphql.String},
					"isPrivate":      &graphql.ArgumentConfig{Type: graphql.Boolean},
					"specialization": &graphql.ArgumentConfig{Type: graphql.String},
					"hourlyRate":     &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := api.RequireAuthentication(p.Context)
					if err != nil {
						return nil, err
					}
					update := account.ProfileUpdate{
						Name:           optString(p.Args, "name"),
						Bio:            optString(p.Args, "bio"),
						ProfilePicture: optString(p.Args, "profilePicture"),
						IsPrivate:      optBool(p.Args, "isPrivate"),
						Specialization: optString(p.Args, "specialization"),
						HourlyRate:     optInt64(p.Args, "hourlyRate"),
					}
					return r.Accounts.UpdateProfile(p.Context, caller.ID, update)
				},
			},
			"forgotPassword": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"identifier": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := r.Accounts.ForgotPassword(p.Context, stringArg(p.Args, "identifier")); err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"verifyOTP": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"identifier": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"otp":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := r.Accounts.VerifyOTP(p.Context, stringArg(p.Args, "identifier"), stringArg(p.Args, "otp")); err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"resetPassword": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"identifier":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"otp":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"newPassword": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					err := r.Accounts.ResetPassword(p.Context,
						stringArg(p.Args, "identifier"),
						stringArg(p.Args, "otp"),
						stringArg(p.Args, "newPassword"),
					)
					if err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"sendVerificationEmail": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := r.Accounts.SendVerificationEmail(p.Context, stringArg(p.Args, "email")); err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"verifyEmailOTP": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"email": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"otp":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := r.Accounts.VerifyEmailOTP(p.Context, stringArg(p.Args, "email"), stringArg(p.Args, "otp")); err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"createChatroom": &graphql.Field{
				Type: graphql.NewNonNull(chatroomType),
				Args: graphql.FieldConfigArgument{
					"childId":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"psychologistId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := api.RequireAuthentication(p.Context)
					if err != nil {
						return nil, err
					}
					childID, err := parseID(p.Args["childId"], "childId")
					if err != nil {
						return nil, err
					}
					psychologistID, err := parseID(p.Args["psychologistId"], "psychologistId")
					if err != nil {
						return nil, err
					}
					return r.Chat.Create(p.Context, childID, psychologistID, caller.ID)
				},
			},
			"sendChatroomMessage": &graphql.Field{
				Type: graphql.NewNonNull(chatroomMessageType),
				Args: graphql.FieldConfigArgument{
					"chatroomId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"content":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"type":       &graphql.ArgumentConfig{Type: messageTypeEnum},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := api.RequireAuthentication(p.Context)
					if err != nil {
						return nil, err
					}
					chatroomID, err := parseID(p.Args["chatroomId"], "chatroomId")
					if err != nil {
						return nil, err
					}
					return r.Chat.SendMessage(p.Context, chatroomID, caller.ID,
						stringArg(p.Args, "content"), stringArg(p.Args, "type"))
				},
			},
			"markChatroomMessagesAsRead": &graphql.Field{
				Type: graphql.NewNonNull(graphql.Boolean),
				Args: graphql.FieldConfigArgument{
					"chatroomId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := api.RequireAuthentication(p.Context)
					if err != nil {
						return nil, err
					}
					chatroomID, err := parseID(p.Args["chatroomId"], "chatroomId")
					if err != nil {
						return nil, err
					}
					if err := r.Chat.MarkRead(p.Context, chatroomID, caller.ID); err != nil {
						return false, err
					}
					return true, nil
				},
			},
			"createAppointment": &graphql.Field{
				Type: graphql.NewNonNull(appointmentType),
				Args: graphql.FieldConfigArgument{
					"psychologistId":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"scheduledAt":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"durationMinutes": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"notes":           &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.createAppointment,
			},
			"updateAppointmentStatus": &graphql.Field{
				Type: graphql.NewNonNull(appointmentType),
				Args: graphql.FieldConfigArgument{
					"appointmentId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"status":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(appointmentStatusEnum)},
				},
				Resolve: r.updateAppointmentStatus,
			},
			"createFeedback": &graphql.Field{
				Type: graphql.NewNonNull(feedbackType),
				Args: graphql.FieldConfigArgument{
					"psychologistId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"rating":         &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
					"comment":        &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.createFeedback,
			},
			"createReport": &graphql.Field{
				Type: graphql.NewNonNull(reportType),
				Args: graphql.FieldConfigArgument{
					"reportedId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"reason":     &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"details":    &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.createReport,
			},
		},
	})
}

func (r *Resolver) createAppointment(p graphql.ResolveParams) (interface{}, error) {
	caller, err := api.RequireAuthentication(p.Context)
	if err != nil {
		return nil, err
	}
	if caller.Role != models.RoleChild {
		return nil, models.NewError(models.CodeForbidden, "only children may book appointments")
	}

	psychologistID, err := parseID(p.Args["psychologistId"], "psychologistId")
	if err != nil {
		return nil, err
	}
	psychologist, err := r.UDB.FindOne(p.Context, bson.M{"_id": psychologistID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeUserNotFound, "psychologist not found")
		}
		return nil, models.WrapOperation("CREATE_APPOINTMENT_FAILED", err)
	}
	if psychologist.Role != models.RolePsychologist {
		return nil, models.NewError(models.CodeInvalidInput, "appointments can only be booked with a psychologist")
	}

	scheduledAt, err := time.Parse(time.RFC3339, stringArg(p.Args, "scheduledAt"))
	if err != nil {
		return nil, models.NewError(models.CodeInvalidInput, "scheduledAt must be an RFC 3339 timestamp")
	}
	if !scheduledAt.After(time.Now()) {
		return nil, models.NewError(models.CodeInvalidInput, "scheduledAt must be in the future")
	}
	duration := intArg(p.Args, "durationMinutes")
	if duration < minAppointmentMinutes || duration > maxAppointmentMinutes {
		return nil, models.NewError(models.CodeInvalidInput, "durationMinutes must be between 15 and 240")
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	appointment := models.Appointment{
		ID:              primitive.NewObjectID(),
		ChildID:         caller.ID,
		PsychologistID:  psychologistID,
		ScheduledAt:     primitive.NewDateTimeFromTime(scheduledAt),
		DurationMinutes: int32(duration),
		Status:          models.AppointmentPending,
		Notes:           stringArg(p.Args, "notes"),
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if _, err := r.ADB.InsertOne(p.Context, appointment); err != nil {
		return nil, models.WrapOperation("CREATE_APPOINTMENT_FAILED", err)
	}
	return &appointment, nil
}

func (r *Resolver) updateAppointmentStatus(p graphql.ResolveParams) (interface{}, error) {
	caller, err := api.RequireAuthentication(p.Context)
	if err != nil {
		return nil, err
	}
	appointmentID, err := parseID(p.Args["appointmentId"], "appointmentId")
	if err != nil {
		return nil, err
	}
	status := stringArg(p.Args, "status")
	if !models.ValidAppointmentStatus(status) || status == models.AppointmentPending {
		return nil, models.NewError(models.CodeInvalidInput, "status must be CONFIRMED, CANCELLED or COMPLETED")
	}

	appointment, err := r.ADB.FindOne(p.Context, bson.M{"_id": appointmentID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeNotFound, "appointment not found")
		}
		return nil, models.WrapOperation("UPDATE_APPOINTMENT_STATUS_FAILED", err)
	}

	isChild := caller.ID == appointment.ChildID
	isPsychologist := caller.ID == appointment.PsychologistID
	if !isChild && !isPsychologist {
		return nil, models.NewError(models.CodeForbidden, "not a participant of this appointment")
	}
	// only the psychologist moves an appointment forward; either side cancels
	if status != models.AppointmentCancelled && !isPsychologist {
		return nil, models.NewError(models.CodeForbidden, "only the psychologist may confirm or complete")
	}
	if appointment.Status == models.AppointmentCancelled || appointment.Status == models.AppointmentCompleted {
		return nil, models.NewError(models.CodeInvalidAction, "appointment is already "+appointment.Status)
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	update := bson.M{"$set": bson.M{"status": status, "updatedAt": now}}
	if _, err := r.ADB.UpdateOne(p.Context, bson.M{"_id": appointmentID}, update); err != nil {
		return nil, models.WrapOperation("UPDATE_APPOINTMENT_STATUS_FAILED", err)
	}
	appointment.Status = status
	appointment.UpdatedAt = now
	return appointment, nil
}

func (r *Resolver) createFeedback(p graphql.ResolveParams) (interface{}, error) {
	caller, err := api.RequireAuthentication(p.Context)
	if err != nil {
		return nil, err
	}
	psychologistID, err := parseID(p.Args["psychologistId"], "psychologistId")
	if err != nil {
		return nil, err
	}
	if err := api.ValidateNotSelfAction(caller.ID, psychologistID, "leave feedback for"); err != nil {
		return nil, err
	}
	rating := intArg(p.Args, "rating")
	if rating < 1 || rating > 5 {
		return nil, models.NewError(models.CodeInvalidInput, "rating must be between 1 and 5")
	}

	psychologist, err := r.UDB.FindOne(p.Context, bson.M{"_id": psychologistID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeUserNotFound, "psychologist not found")
		}
		return nil, models.WrapOperation("CREATE_FEEDBACK_FAILED", err)
	}
	if psychologist.Role != models.RolePsychologist {
		return nil, models.NewError(models.CodeInvalidInput, "feedback can only target a psychologist")
	}

	feedback := models.Feedback{
		ID:             primitive.NewObjectID(),
		PsychologistID: psychologistID,
		AuthorID:       caller.ID,
		Rating:         int32(rating),
		Comment:        stringArg(p.Args, "comment"),
		CreatedAt:      primitive.NewDateTimeFromTime(time.Now()),
	}
	if _, err := r.FDB.InsertOne(p.Context, feedback); err != nil {
		return nil, models.WrapOperation("CREATE_FEEDBACK_FAILED", err)
	}
	return &feedback, nil
}

func (r *Resolver) createReport(p graphql.ResolveParams) (interface{}, error) {
	caller, err := api.RequireAuthentication(p.Context)
	if err != nil {
		return nil, err
	}
	reportedID, err := parseID(p.Args["reportedId"], "reportedId")
	if err != nil {
		return nil, err
	}
	if err := api.ValidateNotSelfAction(caller.ID, reportedID, "report"); err != nil {
		return nil, err
	}
	reason := stringArg(p.Args, "reason")
	if reason == "" {
		return nil, models.NewError(models.CodeInvalidInput, "reason is required")
	}

	if _, err := r.UDB.FindOne(p.Context, bson.M{"_id": reportedID}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeUserNotFound, "reported user not found")
		}
		return nil, models.WrapOperation("CREATE_REPORT_FAILED", err)
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	report := models.Report{
		ID:         primitive.NewObjectID(),
		ReporterID: caller.ID,
		ReportedID: reportedID,
		Reason:     reason,
		Details:    stringArg(p.Args, "details"),
		Status:     models.ReportOpen,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := r.RDB.InsertOne(p.Context, report); err != nil {
		return nil, models.WrapOperation("CREATE_REPORT_FAILED", err)
	}
	return &report, nil
}

func optString(args map[string]interface{}, name string) *string {
	if v, ok := args[name].(string); ok {
		return &v
	}
	return nil
}

func optBool(args map[string]interface{}, name string) *bool {
	if v, ok := args[name].(bool); ok {
		return &v
	}
	return nil
}

func optInt64(args map[string]interface{}, name string) *int64 {
	if v, ok := args[name].(int); ok {
		n := int64(v)
		return &n
	}
	return nil
}
