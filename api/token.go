package api

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mindhaven-app/mindhaven-api/config"
	"github.com/mindhaven-app/mindhaven-api/models"
)

// TokenValidity is the fixed lifetime of a member bearer token. Tokens are
// never revoked server side; they simply expire.
const TokenValidity = 7 * 24 * time.Hour

// TokenService signs and verifies member bearer tokens with the single
// symmetric secret resolved at boot.
type TokenService struct {
	secret []byte
}

// NewTokenService builds a TokenService from the validated config.
func NewTokenService(conf *config.Config) *TokenService {
	return &TokenService{secret: []byte(conf.JWTSecret)}
}

// Sign issues a token embedding the user id, valid for TokenValidity.
func (t *TokenService) Sign(userID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    now.Unix(),
		"exp":    now.Add(TokenValidity).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify checks signature and expiry and returns the embedded user id.
func (t *TokenService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", models.NewError(models.CodeTokenExpired, "token has expired")
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return "", models.NewError(models.CodeInvalidToken, "invalid token")
		default:
			return "", models.NewError(models.CodeTokenVerificationFailed, "token verification failed")
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", models.NewError(models.CodeInvalidTokenPayload, "invalid token payload")
	}
	userID, ok := claims["userId"].(string)
	if !ok || strings.TrimSpace(userID) == "" {
		return "", models.NewError(models.CodeInvalidTokenPayload, "invalid token payload")
	}
	return userID, nil
}

// ExtractToken pulls the bearer token out of an Authorization header value.
// A bare token (no whitespace) is accepted as-is; otherwise the header must be
// exactly "Bearer <token>" with a case-insensitive scheme.
func ExtractToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", models.NewError(models.CodeMissingToken, "authorization token is missing")
	}

	parts := strings.Fields(header)
	if len(parts) == 1 {
		// a lone scheme word is a scheme with no token, not a bare token
		if strings.EqualFold(parts[0], "Bearer") {
			return "", models.NewError(models.CodeMissingToken, "authorization token is missing")
		}
		return parts[0], nil
	}
	if len(parts) != 2 {
		return "", models.NewError(models.CodeInvalidAuthHeaderFormat, "authorization header must be 'Bearer <token>'")
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", models.NewError(models.CodeInvalidAuthScheme, "authorization scheme must be Bearer")
	}
	if parts[1] == "" {
		return "", models.NewError(models.CodeMissingToken, "authorization token is missing")
	}
	return parts[1], nil
}
