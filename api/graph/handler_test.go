package graph_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindhaven-app/mindhaven-api/account"
	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/api/graph"
	"github.com/mindhaven-app/mindhaven-api/chatroom"
	"github.com/mindhaven-app/mindhaven-api/config"
	mocksdb "github.com/mindhaven-app/mindhaven-api/databases/mocks"
	"github.com/mindhaven-app/mindhaven-api/models"
	"github.com/mindhaven-app/mindhaven-api/otp"
)

type graphResponse struct {
	Data   map[string]interface{} `json:"data"`
	Errors []struct {
		Message    string                 `json:"message"`
		Extensions map[string]interface{} `json:"extensions"`
	} `json:"errors"`
}

type noopMailer struct{}

func (noopMailer) SendCode(string, string, string, string) error { return nil }

type testEnv struct {
	handler http.Handler
	tokens  *api.TokenService
	udb     *mocksdb.UserDatabase
	crdb    *mocksdb.ChatroomDatabase
	mdb     *mocksdb.ChatroomMessageDatabase
	adb     *mocksdb.AppointmentDatabase
	fdb     *mocksdb.FeedbackDatabase
	rdb     *mocksdb.ReportDatabase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		udb:  &mocksdb.UserDatabase{},
		crdb: &mocksdb.ChatroomDatabase{},
		mdb:  &mocksdb.ChatroomMessageDatabase{},
		adb:  &mocksdb.AppointmentDatabase{},
		fdb:  &mocksdb.FeedbackDatabase{},
		rdb:  &mocksdb.ReportDatabase{},
	}
	env.tokens = api.NewTokenService(&config.Config{JWTSecret: "test-secret"})

	resolver := &graph.Resolver{
		Accounts: account.NewService(env.udb, otp.NewMemoryStore(), noopMailer{}, env.tokens),
		Chat:     chatroom.NewEngine(env.crdb, env.mdb, env.udb, chatroom.NewHub()),
		UDB:      env.udb,
		ADB:      env.adb,
		FDB:      env.fdb,
		RDB:      env.rdb,
	}
	h, err := graph.NewHandler(resolver)
	assert.NoError(t, err)

	auth := &api.Authenticator{Tokens: env.tokens, UDB: env.udb}
	env.handler = api.AuthContext(auth)(h)
	return env
}

func (env *testEnv) execute(t *testing.T, query string, variables map[string]interface{}, authHeader string) graphResponse {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{"query": query, "variables": variables})
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp graphResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func errorCode(resp graphResponse) string {
	if len(resp.Errors) == 0 {
		return ""
	}
	code, _ := resp.Errors[0].Extensions["code"].(string)
	return code
}

func (env *testEnv) signInAs(t *testing.T, user *models.User) string {
	t.Helper()
	env.udb.On("FindOne", mock.Anything, bson.M{"_id": user.ID}).Return(user, nil)
	token, err := env.tokens.Sign(user.ID.Hex())
	assert.NoError(t, err)
	return "Bearer " + token
}

func TestGraphQL_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodGet, "/graphql", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestGraphQL_MeRequiresAuthentication(t *testing.T) {
	env := newTestEnv(t)

	resp := env.execute(t, `{ me { id username } }`, nil, "")
	assert.Equal(t, models.CodeUnauthenticated, errorCode(resp))
}

func TestGraphQL_MeSurfacesTokenError(t *testing.T) {
	env := newTestEnv(t)

	resp := env.execute(t, `{ me { id username } }`, nil, "Bearer not.a.token")
	assert.Equal(t, models.CodeInvalidToken, errorCode(resp))
}

func TestGraphQL_MeReturnsCaller(t *testing.T) {
	env := newTestEnv(t)
	user := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Name: "Kiddo", Role: models.RoleChild}
	header := env.signInAs(t, user)

	resp := env.execute(t, `{ me { id username role } }`, nil, header)

	assert.Empty(t, resp.Errors)
	me := resp.Data["me"].(map[string]interface{})
	assert.Equal(t, user.ID.Hex(), me["id"])
	assert.Equal(t, "kiddo", me["username"])
	assert.Equal(t, models.RoleChild, me["role"])
}

func TestGraphQL_CreateUserReturnsAuthPayload(t *testing.T) {
	env := newTestEnv(t)
	env.udb.On("CountDocuments", mock.Anything, mock.Anything).Return(int64(0), nil)
	env.udb.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)

	resp := env.execute(t, `
		mutation {
			createUser(name: "New Kid", username: "newkid", email: "kid@example.com",
				password: "longenough", role: CHILD) {
				token
				user { username role }
			}
		}`, nil, "")

	assert.Empty(t, resp.Errors)
	payload := resp.Data["createUser"].(map[string]interface{})
	assert.NotEmpty(t, payload["token"])
	assert.Equal(t, "newkid", payload["user"].(map[string]interface{})["username"])
}

func TestGraphQL_LoginErrorCarriesCode(t *testing.T) {
	env := newTestEnv(t)
	env.udb.On("FindOne", mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	resp := env.execute(t, `
		mutation { loginUser(identifier: "nobody", password: "whatever") { token } }`, nil, "")

	assert.Equal(t, models.CodeInvalidCredentials, errorCode(resp))
}

func TestGraphQL_UserRejectsMalformedID(t *testing.T) {
	env := newTestEnv(t)

	resp := env.execute(t, `{ user(id: "zzz") { id } }`, nil, "")
	assert.Equal(t, models.CodeInvalidInput, errorCode(resp))
}

func TestGraphQL_PsychologistsFiltersDirectory(t *testing.T) {
	env := newTestEnv(t)
	listed := models.User{ID: primitive.NewObjectID(), Username: "drsmith", Name: "Dr Smith", Role: models.RolePsychologist}
	env.udb.On("FindPage", mock.Anything,
		bson.M{"role": models.RolePsychologist, "isPrivate": false},
		20, 1, mock.Anything).Return([]models.User{listed}, nil)

	resp := env.execute(t, `{ psychologists { username } }`, nil, "")

	assert.Empty(t, resp.Errors)
	list := resp.Data["psychologists"].([]interface{})
	assert.Len(t, list, 1)
	env.udb.AssertExpectations(t)
}

func TestGraphQL_SendChatroomMessage(t *testing.T) {
	env := newTestEnv(t)
	child := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Role: models.RoleChild}
	room := &models.Chatroom{
		ID:             primitive.NewObjectID(),
		ChildID:        child.ID,
		PsychologistID: primitive.NewObjectID(),
		Active:         true,
	}
	header := env.signInAs(t, child)

	env.crdb.On("FindOne", mock.Anything, bson.M{"_id": room.ID}).Return(room, nil)
	env.mdb.On("InsertOne", mock.Anything, mock.Anything).Return(primitive.NewObjectID(), nil)
	env.crdb.On("UpdateOne", mock.Anything, bson.M{"_id": room.ID}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	resp := env.execute(t, `
		mutation($roomId: String!) {
			sendChatroomMessage(chatroomId: $roomId, content: "hello") {
				content
				type
				isRead
				sender { username }
			}
		}`, map[string]interface{}{"roomId": room.ID.Hex()}, header)

	assert.Empty(t, resp.Errors)
	message := resp.Data["sendChatroomMessage"].(map[string]interface{})
	assert.Equal(t, "hello", message["content"])
	assert.Equal(t, models.MessageTypeText, message["type"])
	assert.Equal(t, false, message["isRead"])
	assert.Equal(t, "kiddo", message["sender"].(map[string]interface{})["username"])
}

func TestGraphQL_CreateAppointmentValidation(t *testing.T) {
	env := newTestEnv(t)
	child := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Role: models.RoleChild}
	psychologist := &models.User{ID: primitive.NewObjectID(), Username: "drsmith", Role: models.RolePsychologist}
	header := env.signInAs(t, child)
	env.udb.On("FindOne", mock.Anything, bson.M{"_id": psychologist.ID}).Return(psychologist, nil)

	resp := env.execute(t, `
		mutation($pid: String!) {
			createAppointment(psychologistId: $pid, scheduledAt: "2020-01-01T10:00:00Z", durationMinutes: 60) { id }
		}`, map[string]interface{}{"pid": psychologist.ID.Hex()}, header)

	assert.Equal(t, models.CodeInvalidInput, errorCode(resp))
	assert.Contains(t, resp.Errors[0].Message, "future")
}

func TestGraphQL_CreateFeedbackRejectsSelf(t *testing.T) {
	env := newTestEnv(t)
	user := &models.User{ID: primitive.NewObjectID(), Username: "drsmith", Role: models.RolePsychologist}
	header := env.signInAs(t, user)

	resp := env.execute(t, `
		mutation($pid: String!) {
			createFeedback(psychologistId: $pid, rating: 5) { id }
		}`, map[string]interface{}{"pid": user.ID.Hex()}, header)

	assert.Equal(t, models.CodeInvalidAction, errorCode(resp))
}

func TestGraphQL_CreateReport(t *testing.T) {
	env := newTestEnv(t)
	reporter := &models.User{ID: primitive.NewObjectID(), Username: "kiddo", Role: models.RoleChild}
	reported := &models.User{ID: primitive.NewObjectID(), Username: "baduser", Role: models.RolePsychologist}
	header := env.signInAs(t, reporter)

	env.udb.On("FindOne", mock.Anything, bson.M{"_id": reported.ID}).Return(reported, nil)
	env.rdb.On("InsertOne", mock.Anything, mock.MatchedBy(func(r models.Report) bool {
		return r.ReporterID == reporter.ID && r.ReportedID == reported.ID && r.Status == models.ReportOpen
	})).Return(primitive.NewObjectID(), nil)

	resp := env.execute(t, `
		mutation($rid: String!) {
			createReport(reportedId: $rid, reason: "misconduct", details: "details here") {
				status
				reason
			}
		}`, map[string]interface{}{"rid": reported.ID.Hex()}, header)

	assert.Empty(t, resp.Errors)
	report := resp.Data["createReport"].(map[string]interface{})
	assert.Equal(t, models.ReportOpen, report["status"])
	env.rdb.AssertExpectations(t)
}
