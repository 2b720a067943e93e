package databases

// go generate: mockery --name AppointmentDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-api/models"
)

const appointmentName = "appointments"

// AppointmentDatabase contains the methods to use with the appointment database
type AppointmentDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Appointment, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Appointment, error)
	InsertOne(ctx context.Context, appointment models.Appointment) (interface{}, error)
	UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error)
}

type appointmentDatabase struct {
	db DatabaseHelper
}

// NewAppointmentDatabase initializes a new instance of appointment database with the provided db connection
func NewAppointmentDatabase(db DatabaseHelper) AppointmentDatabase {
	return &appointmentDatabase{
		db: db,
	}
}

func (a *appointmentDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Appointment, error) {
	appointment := &models.Appointment{}
	err := a.db.Collection(appointmentName).FindOne(ctx, filter).Decode(appointment)
	if err != nil {
		return nil, err
	}
	return appointment, nil
}

func (a *appointmentDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Appointment, error) {
	var appointments []models.Appointment
	cursor, err := a.db.Collection(appointmentName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	if err := cursor.All(ctx, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

func (a *appointmentDatabase) InsertOne(ctx context.Context, appointment models.Appointment) (interface{}, error) {
	return a.db.Collection(appointmentName).InsertOne(ctx, appointment)
}

func (a *appointmentDatabase) UpdateOne(ctx context.Context, filter interface{}, update interface{}, opts ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	return a.db.Collection(appointmentName).UpdateOne(ctx, filter, update, opts...)
}
