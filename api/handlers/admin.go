package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven-app/mindhaven-api/chatroom"
	"github.com/mindhaven-app/mindhaven-api/config"
	"github.com/mindhaven-app/mindhaven-api/databases"
	"github.com/mindhaven-app/mindhaven-api/models"
)

// Admin handles the moderation surface. Every route here sits behind the
// go-guardian admin middleware.
type Admin struct {
	RDB    databases.ReportDatabase
	Engine *chatroom.Engine
}

// ListReportsHandler returns reports, newest first, optionally filtered by
// ?status=OPEN|RESOLVED|DISMISSED.
func (a Admin) ListReportsHandler(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if status := r.URL.Query().Get("status"); status != "" {
		filter["status"] = status
	}

	sort := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	reports, err := a.RDB.Find(r.Context(), filter, sort)
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(reports)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(b)
}

type updateReportRequest struct {
	Status string `json:"status"`
}

// UpdateReportStatusHandler moves an open report to RESOLVED or DISMISSED.
func (a Admin) UpdateReportStatusHandler(w http.ResponseWriter, r *http.Request) {
	reportID, err := primitive.ObjectIDFromHex(mux.Vars(r)["reportId"])
	if err != nil {
		config.ErrorStatus("invalid report id", http.StatusBadRequest, w, err)
		return
	}

	var body updateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if body.Status != models.ReportResolved && body.Status != models.ReportDismissed {
		config.ErrorStatus("status must be RESOLVED or DISMISSED", http.StatusBadRequest, w, nil)
		return
	}

	update := bson.M{"$set": bson.M{
		"status":    body.Status,
		"updatedAt": primitive.NewDateTimeFromTime(time.Now()),
	}}
	res, err := a.RDB.UpdateOne(r.Context(), bson.M{"_id": reportID, "status": models.ReportOpen}, update)
	if err != nil {
		config.ErrorStatus("failed to update report", http.StatusInternalServerError, w, err)
		return
	}
	if res.MatchedCount == 0 {
		config.ErrorStatus("no open report with that id", http.StatusNotFound, w, nil)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message": "report updated"}`))
}

// DeactivateChatroomHandler flips a chatroom inactive as a moderation action.
func (a Admin) DeactivateChatroomHandler(w http.ResponseWriter, r *http.Request) {
	chatroomID, err := primitive.ObjectIDFromHex(mux.Vars(r)["chatroomId"])
	if err != nil {
		config.ErrorStatus("invalid chatroom id", http.StatusBadRequest, w, err)
		return
	}

	if err := a.Engine.Deactivate(r.Context(), chatroomID); err != nil {
		if models.CodeOf(err) == models.CodeChatroomNotFound {
			config.ErrorStatus("chatroom not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to deactivate chatroom", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message": "chatroom deactivated"}`))
}
