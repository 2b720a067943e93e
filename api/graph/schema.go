package graph

import (
	"errors"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-api/account"
	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/chatroom"
	"github.com/mindhaven-app/mindhaven-api/databases"
	"github.com/mindhaven-app/mindhaven-api/models"
)

const (
	defaultDirectoryPageSize = 20
	maxDirectoryPageSize     = 100
)

// Resolver carries the services the GraphQL operations delegate to.
type Resolver struct {
	Accounts *account.Service
	Chat     *chatroom.Engine
	UDB      databases.UserDatabase
	ADB      databases.AppointmentDatabase
	FDB      databases.FeedbackDatabase
	RDB      databases.ReportDatabase
}

// NewSchema assembles the executable schema around a resolver.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    r.queryType(),
		Mutation: r.mutationType(),
	})
}

func (r *Resolver) queryType() *graphql.Object {
	return graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"me": &graphql.Field{
				Type: userType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return api.RequireAuthentication(p.Context)
				},
			},
			"user": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, err := parseID(p.Args["id"], "id")
					if err != nil {
						return nil, err
					}
					user, err := r.UDB.FindOne(p.Context, bson.M{"_id": id})
					if err != nil {
						if errors.Is(err, mongo.ErrNoDocuments) {
							return nil, models.NewError(models.CodeUserNotFound, "user not found")
						}
						return nil, models.WrapOperation("GET_USER_FAILED", err)
					}
					return user, nil
				},
			},
			"psychologists": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(userType)),
				Args: graphql.FieldConfigArgument{
					"limit": &graphql.ArgumentConfig{Type: graphql.Int},
					"page":  &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					limit := intArg(p.Args, "limit")
					if limit <= 0 {
						limit = defaultDirectoryPageSize
					}
					if limit > maxDirectoryPageSize {
						limit = maxDirectoryPageSize
					}
					page := intArg(p.Args, "page")
					if page <= 0 {
						page = 1
					}
					// private profiles stay out of the public directory
					filter := bson.M{"role": models.RolePsychologist, "isPrivate": false}
					sort := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
					users, err := r.UDB.FindPage(p.Context, filter, limit, page, sort)
					return users, models.WrapOperation("GET_PSYCHOLOGISTS_FAILED", err)
				},
			},
			"getChatrooms": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(chatroomType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := api.RequireAuthentication(p.Context)
					if err != nil {
						return nil, err
					}
					return r.Chat.ListForUser(p.Context, caller.ID)
				},
			},
			"getChatroomMessages": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(chatroomMessageType)),
				Args: graphql.FieldConfigArgument{
					"chatroomId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"limit":      &graphql.ArgumentConfig{Type: graphql.Int},
					"page":       &graphql.ArgumentConfig{Type: graphql.Int},
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
					ok, err := r.Chat.IsParticipant(p.Context, chatroomID, caller.ID)
					if err != nil {
						return nil, err
					}
					if !ok {
						return nil, models.NewError(models.CodeUnauthorized, "not a participant of this chatroom")
					}
					return r.Chat.GetMessages(p.Context, chatroomID, intArg(p.Args, "limit"), intArg(p.Args, "page"))
				},
			},
			"getOrCreateChatroom": &graphql.Field{
				Type: chatroomType,
				Args: graphql.FieldConfigArgument{
					"psychologistId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := api.RequireAuthentication(p.Context)
					if err != nil {
						return nil, err
					}
					psychologistID, err := parseID(p.Args["psychologistId"], "psychologistId")
					if err != nil {
						return nil, err
					}
					return r.Chat.GetOrCreate(p.Context, caller.ID, psychologistID)
				},
			},
			"appointments": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(appointmentType)),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					caller, err := api.RequireAuthentication(p.Context)
					if err != nil {
						return nil, err
					}
					filter := bson.M{"$or": []bson.M{
						{"child": caller.ID},
						{"psychologist": caller.ID},
					}}
					sort := options.Find().SetSort(bson.D{{Key: "scheduledAt", Value: -1}})
					appointments, err := r.ADB.Find(p.Context, filter, sort)
					return appointments, models.WrapOperation("GET_APPOINTMENTS_FAILED", err)
				},
			},
			"feedback": &graphql.Field{
				Type: graphql.NewList(graphql.NewNonNull(feedbackType)),
				Args: graphql.FieldConfigArgument{
					"psychologistId": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					psychologistID, err := parseID(p.Args["psychologistId"], "psychologistId")
					if err != nil {
						return nil, err
					}
					sort := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
					feedback, err := r.FDB.Find(p.Context, bson.M{"psychologist": psychologistID}, sort)
					return feedback, models.WrapOperation("GET_FEEDBACK_FAILED", err)
				},
			},
		},
	})
}
