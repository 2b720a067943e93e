// Package graph exposes the member-facing operations over a single GraphQL
// endpoint. Resolvers stay thin; domain behavior lives in the account,
// chatroom and databases packages.
package graph

import (
	"time"

	"github.com/graphql-go/graphql"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mindhaven-app/mindhaven-api/models"
)

// objectIDScalar renders mongo object ids as hex strings. Inbound ids arrive
// as plain String arguments and are parsed by parseID, so only Serialize
// matters here.
var objectIDScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "ObjectID",
	Description: "A mongo object id rendered as a 24-character hex string.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case primitive.ObjectID:
			return v.Hex()
		case *primitive.ObjectID:
			if v == nil {
				return nil
			}
			return v.Hex()
		case string:
			return v
		}
		return nil
	},
})

var dateTimeScalar = graphql.NewScalar(graphql.ScalarConfig{
	Name:        "DateTime",
	Description: "An RFC 3339 timestamp in UTC.",
	Serialize: func(value interface{}) interface{} {
		switch v := value.(type) {
		case primitive.DateTime:
			return v.Time().UTC().Format(time.RFC3339)
		case *primitive.DateTime:
			if v == nil {
				return nil
			}
			return v.Time().UTC().Format(time.RFC3339)
		case time.Time:
			return v.UTC().Format(time.RFC3339)
		}
		return nil
	},
})

// parseID converts a client-supplied hex id into an object id, mapping
// malformed input onto the invalid-input code instead of a raw driver error.
func parseID(value interface{}, field string) (primitive.ObjectID, error) {
	hex, ok := value.(string)
	if !ok || hex == "" {
		return primitive.NilObjectID, models.NewError(models.CodeInvalidInput, field+" is required")
	}
	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, models.NewError(models.CodeInvalidInput, field+" is not a valid id")
	}
	return oid, nil
}

func stringArg(args map[string]interface{}, name string) string {
	s, _ := args[name].(string)
	return s
}

func intArg(args map[string]interface{}, name string) int {
	n, _ := args[name].(int)
	return n
}
