package databases

// go generate: mockery --name ChatroomDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-api/models"
)

const chatroomName = "chatrooms"

// ChatroomDatabase contains the methods to use with the chatroom database
type ChatroomDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Chatroom, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Chatroom, error)
	InsertOne(ctx context.Context, chatroom models.Chatroom) (interface{}, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type chatroomDatabase struct {
	db DatabaseHelper
}

// NewChatroomDatabase initializes a new instance of chatroom database with the provided db connection
func NewChatroomDatabase(db DatabaseHelper) ChatroomDatabase {
	return &chatroomDatabase{
		db: db,
	}
}

func (c *chatroomDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Chatroom, error) {
	chatroom := &models.Chatroom{}
	err := c.db.Collection(chatroomName).FindOne(ctx, filter).Decode(chatroom)
	if err != nil {
		return nil, err
	}
	return chatroom, nil
}

func (c *chatroomDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Chatroom, error) {
	var chatrooms []models.Chatroom
	cursor, err := c.db.Collection(chatroomName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &chatrooms); err != nil {
		return nil, err
	}
	return chatrooms, nil
}

func (c *chatroomDatabase) InsertOne(ctx context.Context, chatroom models.Chatroom) (interface{}, error) {
	return c.db.Collection(chatroomName).InsertOne(ctx, chatroom)
}

func (c *chatroomDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(chatroomName).UpdateOne(ctx, filter, update, opts...)
}
