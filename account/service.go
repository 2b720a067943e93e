// Package account orchestrates registration, login, password reset and email
// verification over the user directory, the OTP store and the mailer.
package account

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/databases"
	"github.com/mindhaven-app/mindhaven-api/mailer"
	"github.com/mindhaven-app/mindhaven-api/models"
	"github.com/mindhaven-app/mindhaven-api/otp"
)

const (
	codeCreateUserFailed    = "CREATE_USER_FAILED"
	codeLoginFailed         = "LOGIN_USER_FAILED"
	codeForgotFailed        = "FORGOT_PASSWORD_FAILED"
	codeResetFailed         = "RESET_PASSWORD_FAILED"
	codeSendVerifyFailed    = "SEND_VERIFICATION_EMAIL_FAILED"
	codeVerifyEmailFailed   = "VERIFY_EMAIL_FAILED"
	codeUpdateProfileFailed = "UPDATE_PROFILE_FAILED"
)

const minPasswordLength = 8

// Service carries the dependencies of the account flows.
type Service struct {
	UDB    databases.UserDatabase
	OTP    otp.Store
	Mail   mailer.Mailer
	Tokens *api.TokenService
}

// NewService wires an account service.
func NewService(udb databases.UserDatabase, store otp.Store, mail mailer.Mailer, tokens *api.TokenService) *Service {
	return &Service{UDB: udb, OTP: store, Mail: mail, Tokens: tokens}
}

// RegisterInput is the createUser payload.
type RegisterInput struct {
	Name      string
	Username  string
	Email     string
	Password  string
	Role      string
	IsPrivate bool
}

// Register creates a member account and signs it in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*models.AuthPayload, error) {
	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))

	switch {
	case strings.TrimSpace(input.Name) == "":
		return nil, models.NewError(models.CodeInvalidInput, "name is required")
	case len(username) < 3:
		return nil, models.NewError(models.CodeInvalidInput, "username must be at least 3 characters")
	case len(input.Password) < minPasswordLength:
		return nil, models.NewError(models.CodeInvalidInput, "password must be at least 8 characters")
	case !models.ValidSignupRole(input.Role):
		return nil, models.NewError(models.CodeInvalidInput, "role must be CHILD or PSYCHOLOGIST")
	}

	taken, err := s.UDB.CountDocuments(ctx, bson.M{"username": username})
	if err != nil {
		return nil, models.WrapOperation(codeCreateUserFailed, err)
	}
	if taken > 0 {
		return nil, models.NewError(models.CodeConflict, "username is already taken")
	}
	if email != "" {
		taken, err = s.UDB.CountDocuments(ctx, bson.M{"email": email})
		if err != nil {
			return nil, models.WrapOperation(codeCreateUserFailed, err)
		}
		if taken > 0 {
			return nil, models.NewError(models.CodeConflict, "email is already registered")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.WrapOperation(codeCreateUserFailed, err)
	}

	now := primitive.NewDateTimeFromTime(time.Now())
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      strings.TrimSpace(input.Name),
		Username:  username,
		Email:     email,
		Password:  string(hash),
		Role:      input.Role,
		IsPrivate: input.IsPrivate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.UDB.InsertOne(ctx, user); err != nil {
		// the unique indexes close the check-then-insert window
		if mongo.IsDuplicateKeyError(err) {
			return nil, models.NewError(models.CodeConflict, "username or email is already registered")
		}
		return nil, models.WrapOperation(codeCreateUserFailed, err)
	}

	token, err := s.Tokens.Sign(user.ID.Hex())
	if err != nil {
		return nil, models.WrapOperation(codeCreateUserFailed, err)
	}
	return &models.AuthPayload{Token: token, User: &user}, nil
}

// Login verifies credentials for an email or username and issues a token.
// Unknown identifier and wrong password read identically to the caller.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.AuthPayload, error) {
	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		if models.CodeOf(err) == models.CodeUserNotFound {
			return nil, models.NewError(models.CodeInvalidCredentials, "invalid credentials")
		}
		return nil, models.WrapOperation(codeLoginFailed, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewError(models.CodeInvalidCredentials, "invalid credentials")
	}

	token, err := s.Tokens.Sign(user.ID.Hex())
	if err != nil {
		return nil, models.WrapOperation(codeLoginFailed, err)
	}
	return &models.AuthPayload{Token: token, User: user}, nil
}

// ForgotPassword stores a reset code for the matched user's email and mails
// it. The response shape never reveals delivery detail beyond outright
// failure to hand the message off.
func (s *Service) ForgotPassword(ctx context.Context, identifier string) error {
	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return models.WrapOperation(codeForgotFailed, err)
	}
	if user.Email == "" {
		return models.NewError(models.CodeEmailNotFound, "account has no email on file")
	}

	code := otp.Generate()
	s.OTP.Store(otp.PurposeReset, user.Email, code)

	if err := s.Mail.SendCode(user.Email, "MindHaven password reset code", "Your password reset code is:", code); err != nil {
		return models.NewError(codeForgotFailed, "failed to send password reset email")
	}
	return nil
}

// VerifyOTP checks a reset code without consuming it, so the frontend can
// validate before asking for the new password.
func (s *Service) VerifyOTP(ctx context.Context, identifier, code string) error {
	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return models.WrapOperation(codeResetFailed, err)
	}
	return s.checkCode(otp.PurposeReset, user.Email, code)
}

// ResetPassword replaces the password when the reset code matches, then
// consumes the code.
func (s *Service) ResetPassword(ctx context.Context, identifier, code, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return models.NewError(models.CodeInvalidInput, "password must be at least 8 characters")
	}

	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return models.WrapOperation(codeResetFailed, err)
	}
	if err := s.checkCode(otp.PurposeReset, user.Email, code); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.WrapOperation(codeResetFailed, err)
	}
	update := bson.M{"$set": bson.M{
		"password":  string(hash),
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	if _, err := s.UDB.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return models.WrapOperation(codeResetFailed, err)
	}

	s.OTP.Consume(otp.PurposeReset, user.Email)
	return nil
}

// SendVerificationEmail stores and mails a verification code, keyed by email
// directly (no username fallback).
func (s *Service) SendVerificationEmail(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.UDB.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.NewError(models.CodeUserNotFound, "no account with that email")
		}
		return models.WrapOperation(codeSendVerifyFailed, err)
	}
	if user.IsVerified {
		return models.NewError(models.CodeInvalidAction, "email is already verified")
	}

	code := otp.Generate()
	s.OTP.Store(otp.PurposeVerification, email, code)

	if err := s.Mail.SendCode(email, "MindHaven email verification code", "Your email verification code is:", code); err != nil {
		return models.NewError(codeSendVerifyFailed, "failed to send verification email")
	}
	return nil
}

// VerifyEmailOTP flips the verified flag when the code matches, then consumes
// the code.
func (s *Service) VerifyEmailOTP(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.UDB.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.NewError(models.CodeUserNotFound, "no account with that email")
		}
		return models.WrapOperation(codeVerifyEmailFailed, err)
	}

	if err := s.checkCode(otp.PurposeVerification, email, code); err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"isVerified": true,
		"updatedAt":  primitive.NewDateTimeFromTime(time.Now()),
	}}
	if _, err := s.UDB.UpdateOne(ctx, bson.M{"_id": user.ID}, update); err != nil {
		return models.WrapOperation(codeVerifyEmailFailed, err)
	}

	s.OTP.Consume(otp.PurposeVerification, email)
	return nil
}

// ProfileUpdate carries the optional updateProfile fields.
type ProfileUpdate struct {
	Name           *string
	Bio            *string
	ProfilePicture *string
	IsPrivate      *bool
	Specialization *string
	HourlyRate     *int64
}

// UpdateProfile applies the provided fields and returns the fresh user.
func (s *Service) UpdateProfile(ctx context.Context, userID primitive.ObjectID, update ProfileUpdate) (*models.User, error) {
	set := bson.M{"updatedAt": primitive.NewDateTimeFromTime(time.Now())}
	if update.Name != nil {
		if strings.TrimSpace(*update.Name) == "" {
			return nil, models.NewError(models.CodeInvalidInput, "name cannot be empty")
		}
		set["name"] = strings.TrimSpace(*update.Name)
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.ProfilePicture != nil {
		set["profilePicture"] = *update.ProfilePicture
	}
	if update.IsPrivate != nil {
		set["isPrivate"] = *update.IsPrivate
	}
	if update.Specialization != nil {
		set["specialization"] = *update.Specialization
	}
	if update.HourlyRate != nil {
		if *update.HourlyRate < 0 {
			return nil, models.NewError(models.CodeInvalidInput, "hourly rate cannot be negative")
		}
		set["hourlyRate"] = *update.HourlyRate
	}

	if _, err := s.UDB.UpdateOne(ctx, bson.M{"_id": userID}, bson.M{"$set": set}); err != nil {
		return nil, models.WrapOperation(codeUpdateProfileFailed, err)
	}
	user, err := s.UDB.FindOne(ctx, bson.M{"_id": userID})
	if err != nil {
		return nil, models.WrapOperation(codeUpdateProfileFailed, err)
	}
	return user, nil
}

// findByIdentifier resolves an account by email or username.
func (s *Service) findByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	identifier = strings.ToLower(strings.TrimSpace(identifier))
	if identifier == "" {
		return nil, models.NewError(models.CodeInvalidInput, "identifier is required")
	}
	user, err := s.UDB.FindOne(ctx, bson.M{"$or": []bson.M{
		{"email": identifier},
		{"username": identifier},
	}})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.NewError(models.CodeUserNotFound, "user not found")
		}
		return nil, err
	}
	return user, nil
}

// checkCode compares a stored code; missing, expired and mismatched all read
// the same so the caller cannot probe which case applied.
func (s *Service) checkCode(purpose, email, code string) error {
	stored, ok := s.OTP.Retrieve(purpose, email)
	if !ok || stored != code {
		return models.NewError(models.CodeInvalidOrExpiredOTP, "invalid or expired code")
	}
	return nil
}
