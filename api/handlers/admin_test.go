package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mindhaven-app/mindhaven-api/api/handlers"
	"github.com/mindhaven-app/mindhaven-api/chatroom"
	mocksdb "github.com/mindhaven-app/mindhaven-api/databases/mocks"
	"github.com/mindhaven-app/mindhaven-api/models"
)

func TestListReports_FiltersByStatus(t *testing.T) {
	rdb := &mocksdb.ReportDatabase{}
	rdb.On("Find", mock.Anything, bson.M{"status": models.ReportOpen}, mock.Anything).
		Return([]models.Report{{ID: primitive.NewObjectID(), Status: models.ReportOpen, Reason: "misconduct"}}, nil)

	h := handlers.Admin{RDB: rdb}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/reports?status=OPEN", nil)
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.ListReportsHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var reports []models.Report
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reports))
	assert.Len(t, reports, 1)
	rdb.AssertExpectations(t)
}

func TestUpdateReportStatus_ResolvesOpenReport(t *testing.T) {
	reportID := primitive.NewObjectID()

	rdb := &mocksdb.ReportDatabase{}
	rdb.On("UpdateOne", mock.Anything,
		bson.M{"_id": reportID, "status": models.ReportOpen},
		mock.MatchedBy(func(update interface{}) bool {
			set, ok := update.(bson.M)["$set"].(bson.M)
			return ok && set["status"] == models.ReportResolved
		})).Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	h := handlers.Admin{RDB: rdb}
	body, _ := json.Marshal(map[string]string{"status": models.ReportResolved})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/reports/"+reportID.Hex(), bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"reportId": reportID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.UpdateReportStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	rdb.AssertExpectations(t)
}

func TestUpdateReportStatus_RejectsUnknownStatus(t *testing.T) {
	reportID := primitive.NewObjectID()
	h := handlers.Admin{RDB: &mocksdb.ReportDatabase{}}

	body, _ := json.Marshal(map[string]string{"status": "REOPENED"})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/reports/"+reportID.Hex(), bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"reportId": reportID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.UpdateReportStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestUpdateReportStatus_NotFoundWhenAlreadyClosed(t *testing.T) {
	reportID := primitive.NewObjectID()

	rdb := &mocksdb.ReportDatabase{}
	rdb.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	h := handlers.Admin{RDB: rdb}
	body, _ := json.Marshal(map[string]string{"status": models.ReportDismissed})
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/reports/"+reportID.Hex(), bytes.NewReader(body))
	req = mux.SetURLVars(req, map[string]string{"reportId": reportID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.UpdateReportStatusHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeactivateChatroom(t *testing.T) {
	roomID := primitive.NewObjectID()

	crdb := &mocksdb.ChatroomDatabase{}
	crdb.On("UpdateOne", mock.Anything, bson.M{"_id": roomID}, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 1}, nil)

	engine := chatroom.NewEngine(crdb, &mocksdb.ChatroomMessageDatabase{}, &mocksdb.UserDatabase{}, nil)
	h := handlers.Admin{Engine: engine}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/chatrooms/"+roomID.Hex()+"/deactivate", nil)
	req = mux.SetURLVars(req, map[string]string{"chatroomId": roomID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.DeactivateChatroomHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	crdb.AssertExpectations(t)
}

func TestDeactivateChatroom_NotFound(t *testing.T) {
	roomID := primitive.NewObjectID()

	crdb := &mocksdb.ChatroomDatabase{}
	crdb.On("UpdateOne", mock.Anything, mock.Anything, mock.Anything).
		Return(&mongo.UpdateResult{MatchedCount: 0}, nil)

	engine := chatroom.NewEngine(crdb, &mocksdb.ChatroomMessageDatabase{}, &mocksdb.UserDatabase{}, nil)
	h := handlers.Admin{Engine: engine}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/chatrooms/"+roomID.Hex()+"/deactivate", nil)
	req = mux.SetURLVars(req, map[string]string{"chatroomId": roomID.Hex()})
	rr := httptest.NewRecorder()

	http.HandlerFunc(h.DeactivateChatroomHandler).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
