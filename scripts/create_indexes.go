package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// One-off utility to create the indexes the API depends on.
// Usage: MONGODB_URI=... DB_NAME=... go run scripts/create_indexes.go
func main() {
	uri := os.Getenv("MONGODB_URI")
	dbName := os.Getenv("DB_NAME")
	if uri == "" || dbName == "" {
		fmt.Println("Usage: MONGODB_URI=... DB_NAME=... go run scripts/create_indexes.go")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		fmt.Printf("Error connecting: %v\n", err)
		os.Exit(1)
	}
	defer client.Disconnect(ctx)

	db := client.Database(dbName)

	indexes := map[string][]mongo.IndexModel{
		"users": {
			// username is the login handle, always unique
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
			// email is optional, unique only when present
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
			{Keys: bson.D{{Key: "role", Value: 1}}},
		},
		"chatrooms": {
			// the duplicate-key error from this index is what makes
			// concurrent get-or-create safe
			{Keys: bson.D{{Key: "child", Value: 1}, {Key: "psychologist", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "child", Value: 1}, {Key: "lastMessageAt", Value: -1}}},
			{Keys: bson.D{{Key: "psychologist", Value: 1}, {Key: "lastMessageAt", Value: -1}}},
		},
		"chatroomMessages": {
			{Keys: bson.D{{Key: "chatroom", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"appointments": {
			{Keys: bson.D{{Key: "child", Value: 1}, {Key: "scheduledAt", Value: -1}}},
			{Keys: bson.D{{Key: "psychologist", Value: 1}, {Key: "scheduledAt", Value: -1}}},
		},
		"feedback": {
			{Keys: bson.D{{Key: "psychologist", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		"reports": {
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
	}

	for collection, models := range indexes {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			fmt.Printf("Error creating indexes on %s: %v\n", collection, err)
			os.Exit(1)
		}
		fmt.Printf("%s: created %v\n", collection, names)
	}
	fmt.Println("All indexes created")
}
