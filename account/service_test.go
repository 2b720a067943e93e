package account_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindhaven-app/mindhaven-api/account"
	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/config"
	mocksdb "github.com/mindhaven-app/mindhaven-api/databases/mocks"
	"github.com/mindhaven-app/mindhaven-api/models"
	"github.com/mindhaven-app/mindhaven-api/otp"
)

// fakeMailer records outgoing codes instead of hitting sendgrid.
type fakeMailer struct {
	sent []sentMail
	err  error
}

type sentMail struct {
	to   string
	code string
}

func (f *fakeMailer) SendCode(toEmail, subject, intro, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to: toEmail, code: code})
	return nil
}

func newTestService(udb *mocksdb.UserDatabase, mail *fakeMailer) *account.Service {
	tokens := api.NewTokenService(&config.Config{JWTSecret: "test-secret"})
	return account.NewService(udb, otp.NewMemoryStore(), mail, tokens)
}

func hashOf(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hash)
}

func TestRegister_CreatesUserAndSignsIn(t *testing.T) {
	udb := &mocksdb.UserDatabase{}
	udb.On("CountDocuments", mock.Anything, bson.M{"username": "newkid"}).Return(int64(0), nil)
	udb.On("CountDocuments", mock.Anything, bson.M{"email": "kid@example.com"}).Return(int64(0), nil)
	udb.On("InsertOne", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "newkid" &&
			u.Email == "kid@example.com" &&
			u.Role == models.RoleChild &&
			u.Password != "hunter2password" &&
			bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("hunter2password")) == nil
	})).Return(primitive.NewObjectID(), nil)

	svc := newTestService(udb, &fakeMailer{})
	payload, err := svc.Register(context.Background(), account.RegisterInput{
		Name:     "New Kid",
		Username: "  NewKid ",
		Email:    "Kid@Example.com",
		Password: "hunter2password",
		Role:     models.RoleChild,
	})

	assert.NoError(t, err)
	assert.NotEmpty(t, payload.Token)
	assert.Equal(t, "newkid", payload.User.Username)
	udb.AssertExpectations(t)
}

func TestRegister_RejectsBadInput(t *testing.T) {
	svc := newTestService(&mocksdb.UserDatabase{}, &fakeMailer{})

	cases := []struct {
		name  string
		input account.RegisterInput
	}{
		{"empty name", account.RegisterInput{Username: "kiddo", Password: "longenough", Role: models.RoleChild}},
		{"short username", account.RegisterInput{Name: "K", Username: "ab", Password: "longenough", Role: models.RoleChild}},
		{"short password", account.RegisterInput{Name: "K", Username: "kiddo", Password: "short", Role: models.RoleChild}},
		{"admin role", account.RegisterInput{Name: "K", Username: "kiddo", Password: "longenough", Role: models.RoleAdmin}},
		{"unknown role", account.RegisterInput{Name: "K", Username: "kiddo", Password: "longenough", Role: "WIZARD"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.input)
			assert.Equal(t, models.CodeInvalidInput, models.CodeOf(err))
		})
	}
}

func TestRegister_ConflictOnTakenUsername(t *testing.T) {
	udb := &mocksdb.UserDatabase{}
	udb.On("CountDocuments", mock.Anything, bson.M{"username": "taken"}).Return(int64(1), nil)

	svc := newTestService(udb, &fakeMailer{})
	_, err := svc.Register(context.Background(), account.RegisterInput{
		Name: "K", Username: "taken", Password: "longenough", Role: models.RoleChild,
	})

	assert.Equal(t, models.CodeConflict, models.CodeOf(err))
	udb.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestRegister_ConflictOnInsertRace(t *testing.T) {
	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}

	udb := &mocksdb.UserDatabase{}
	udb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	udb.On("InsertOne", mock.Anything, mock.Anything).Return(nil, dup)

	svc := newTestService(udb, &fakeMailer{})
	_, err := svc.Register(context.Background(), account.RegisterInput{
		Name: "K", Username: "racer", Password: "longenough", Role: models.RolePsychologist,
	})

	assert.Equal(t, models.CodeConflict, models.CodeOf(err))
}

func TestLogin_ByEmailOrUsername(t *testing.T) {
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "drsmith",
		Email:    "smith@example.com",
		Password: hashOf(t, "correct horse"),
		Role:     models.RolePsychologist,
	}

	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, bson.M{"$or": []bson.M{
		{"email": "drsmith"},
		{"username": "drsmith"},
	}}).Return(user, nil)

	svc := newTestService(udb, &fakeMailer{})
	payload, err := svc.Login(context.Background(), "DrSmith", "correct horse")

	assert.NoError(t, err)
	assert.NotEmpty(t, payload.Token)
	assert.Equal(t, user.ID, payload.User.ID)
}

func TestLogin_UnknownUserAndWrongPasswordReadTheSame(t *testing.T) {
	user := &models.User{
		ID:       primitive.NewObjectID(),
		Username: "drsmith",
		Password: hashOf(t, "correct horse"),
	}

	missing := &mocksdb.UserDatabase{}
	missing.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)
	_, errMissing := newTestService(missing, &fakeMailer{}).Login(context.Background(), "nobody", "whatever")

	wrongPw := &mocksdb.UserDatabase{}
	wrongPw.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)
	_, errWrongPw := newTestService(wrongPw, &fakeMailer{}).Login(context.Background(), "drsmith", "incorrect horse")

	assert.Equal(t, models.CodeInvalidCredentials, models.CodeOf(errMissing))
	assert.Equal(t, models.CodeInvalidCredentials, models.CodeOf(errWrongPw))
	assert.Equal(t, errMissing.Error(), errWrongPw.Error())
}

func TestForgotPassword_MailsACode(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Email: "kid@example.com"}

	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)

	mail := &fakeMailer{}
	svc := newTestService(udb, mail)

	err := svc.ForgotPassword(context.Background(), "kiddo")

	assert.NoError(t, err)
	assert.Len(t, mail.sent, 1)
	assert.Equal(t, "kid@example.com", mail.sent[0].to)
	assert.Len(t, mail.sent[0].code, 6)

	// the mailed code is the one the store now holds
	assert.NoError(t, svc.VerifyOTP(context.Background(), "kiddo", mail.sent[0].code))
}

func TestForgotPassword_UserWithoutEmail(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "ghost"}

	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)

	err := newTestService(udb, &fakeMailer{}).ForgotPassword(context.Background(), "ghost")
	assert.Equal(t, models.CodeEmailNotFound, models.CodeOf(err))
}

func TestForgotPassword_UnknownUser(t *testing.T) {
	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	err := newTestService(udb, &fakeMailer{}).ForgotPassword(context.Background(), "nobody")
	assert.Equal(t, models.CodeUserNotFound, models.CodeOf(err))
}

func TestForgotPassword_DeliveryFailure(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Email: "kid@example.com"}

	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)

	mail := &fakeMailer{err: errors.New("sendgrid down")}
	err := newTestService(udb, mail).ForgotPassword(context.Background(), "kiddo")

	assert.Equal(t, "FORGOT_PASSWORD_FAILED", models.CodeOf(err))
	assert.NotContains(t, err.Error(), "sendgrid")
}

func TestResetPassword_FullFlow(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Email: "kid@example.com"}

	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)
	udb.On("UpdateOne", mock.Anything, bson.M{"_id": user.ID}, mock.MatchedBy(func(update interface{}) bool {
		set, ok := update.(bson.M)["$set"].(bson.M)
		if !ok {
			return false
		}
		newHash, ok := set["password"].(string)
		return ok && bcrypt.CompareHashAndPassword([]byte(newHash), []byte("fresh password")) == nil
	})).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	mail := &fakeMailer{}
	svc := newTestService(udb, mail)

	assert.NoError(t, svc.ForgotPassword(context.Background(), "kiddo"))
	code := mail.sent[0].code

	// verification does not consume the code
	assert.NoError(t, svc.VerifyOTP(context.Background(), "kiddo", code))
	assert.NoError(t, svc.VerifyOTP(context.Background(), "kiddo", code))

	assert.NoError(t, svc.ResetPassword(context.Background(), "kiddo", code, "fresh password"))

	// reset consumes the code
	err := svc.ResetPassword(context.Background(), "kiddo", code, "another password")
	assert.Equal(t, models.CodeInvalidOrExpiredOTP, models.CodeOf(err))
	udb.AssertExpectations(t)
}

func TestResetPassword_WrongCode(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Email: "kid@example.com"}

	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)

	mail := &fakeMailer{}
	svc := newTestService(udb, mail)
	assert.NoError(t, svc.ForgotPassword(context.Background(), "kiddo"))

	err := svc.ResetPassword(context.Background(), "kiddo", "000000x", "fresh password")
	assert.Equal(t, models.CodeInvalidOrExpiredOTP, models.CodeOf(err))
	udb.AssertNotCalled(t, "UpdateOne", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyEmail_FullFlow(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Email: "kid@example.com"}

	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, bson.M{"email": "kid@example.com"}).Return(user, nil)
	udb.On("UpdateOne", mock.Anything, bson.M{"_id": user.ID}, mock.MatchedBy(func(update interface{}) bool {
		set, ok := update.(bson.M)["$set"].(bson.M)
		return ok && set["isVerified"] == true
	})).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	mail := &fakeMailer{}
	svc := newTestService(udb, mail)

	assert.NoError(t, svc.SendVerificationEmail(context.Background(), "Kid@Example.com"))
	assert.NoError(t, svc.VerifyEmailOTP(context.Background(), "kid@example.com", mail.sent[0].code))
	udb.AssertExpectations(t)
}

func TestVerifyEmail_AlreadyVerified(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Email: "kid@example.com", IsVerified: true}

	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)

	err := newTestService(udb, &fakeMailer{}).SendVerificationEmail(context.Background(), "kid@example.com")
	assert.Equal(t, models.CodeInvalidAction, models.CodeOf(err))
}

func TestVerifyEmail_ResetCodeDoesNotVerifyEmail(t *testing.T) {
	user := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Email: "kid@example.com"}

	udb := &mocksdb.UserDatabase{}
	udb.On("FindOne", mock.Anything, mock.Anything).Return(user, nil)

	mail := &fakeMailer{}
	svc := newTestService(udb, mail)

	// a password reset code must never pass email verification
	assert.NoError(t, svc.ForgotPassword(context.Background(), "kiddo"))
	err := svc.VerifyEmailOTP(context.Background(), "kid@example.com", mail.sent[0].code)
	assert.Equal(t, models.CodeInvalidOrExpiredOTP, models.CodeOf(err))
}

func TestUpdateProfile_AppliesOnlyProvidedFields(t *testing.T) {
	userID := primitive.NewObjectID()
	bio := "here to help"
	rate := int64(120)

	udb := &mocksdb.UserDatabase{}
	udb.On("UpdateOne", mock.Anything, bson.M{"_id": userID}, mock.MatchedBy(func(update interface{}) bool {
		set, ok := update.(bson.M)["$set"].(bson.M)
		if !ok {
			return false
		}
		_, hasName := set["name"]
		return set["bio"] == "here to help" && set["hourlyRate"] == int64(120) && !hasName
	})).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)
	udb.On("FindOne", mock.Anything, bson.M{"_id": userID}).
		Return(&models.User{ID: userID, Bio: bio, HourlyRate: rate}, nil)

	svc := newTestService(udb, &fakeMailer{})
	updated, err := svc.UpdateProfile(context.Background(), userID, account.ProfileUpdate{
		Bio:        &bio,
		HourlyRate: &rate,
	})

	assert.NoError(t, err)
	assert.Equal(t, bio, updated.Bio)
	udb.AssertExpectations(t)
}

func TestUpdateProfile_RejectsNegativeRate(t *testing.T) {
	rate := int64(-5)
	svc := newTestService(&mocksdb.UserDatabase{}, &fakeMailer{})

	_, err := svc.UpdateProfile(context.Background(), primitive.NewObjectID(), account.ProfileUpdate{HourlyRate: &rate})
	assert.Equal(t, models.CodeInvalidInput, models.CodeOf(err))
}
