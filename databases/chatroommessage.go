package databases

// go generate: mockery --name ChatroomMessageDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-api/models"
)

const chatroomMessageName = "chatroomMessages"

// ChatroomMessageDatabase contains the methods to use with the chatroom message database
type ChatroomMessageDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.ChatroomMessage, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ChatroomMessage, error)
	FindPage(ctx context.Context, filter interface{}, limit, page int, opts ...*options.FindOptions) ([]models.ChatroomMessage, error)
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	InsertOne(ctx context.Context, message models.ChatroomMessage) (interface{}, error)
	UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type chatroomMessageDatabase struct {
	db DatabaseHelper
}

// NewChatroomMessageDatabase initializes a new instance of chatroom message database with the provided db connection
func NewChatroomMessageDatabase(db DatabaseHelper) ChatroomMessageDatabase {
	return &chatroomMessageDatabase{
		db: db,
	}
}

func (c *chatroomMessageDatabase) FindOne(ctx context.Context, filter interface{}) (*models.ChatroomMessage, error) {
	msg := &models.ChatroomMessage{}
	err := c.db.Collection(chatroomMessageName).FindOne(ctx, filter).Decode(msg)
	if err != nil {
		return nil, err
	}
	return msg, nil
}

func (c *chatroomMessageDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.ChatroomMessage, error) {
	var messages []models.ChatroomMessage
	cursor, err := c.db.Collection(chatroomMessageName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

func (c *chatroomMessageDatabase) FindPage(ctx context.Context, filter interface{}, limit, page int, opts ...*options.FindOptions) ([]models.ChatroomMessage, error) {
	opts = append(opts, newMongoPaginate(limit, page).getPaginatedOpts())
	return c.Find(ctx, filter, opts...)
}

func (c *chatroomMessageDatabase) CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error) {
	return c.db.Collection(chatroomMessageName).CountDocuments(ctx, filter, opts...)
}

func (c *chatroomMessageDatabase) InsertOne(ctx context.Context, message models.ChatroomMessage) (interface{}, error) {
	return c.db.Collection(chatroomMessageName).InsertOne(ctx, message)
}

func (c *chatroomMessageDatabase) UpdateMany(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return c.db.Collection(chatroomMessageName).UpdateMany(ctx, filter, update, opts...)
}
