package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/config"
	"github.com/mindhaven-app/mindhaven-api/databases"
	"github.com/mindhaven-app/mindhaven-api/models"
)

// Checkout handles payment-related requests for appointments
type Checkout struct {
	Config config.Config
	ADB    databases.AppointmentDatabase
	UDB    databases.UserDatabase
}

// CreateCheckoutSessionHandler opens a Stripe checkout session for a
// confirmed, unpaid appointment. Only the booking child may pay.
func (c Checkout) CreateCheckoutSessionHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := api.RequireAuthentication(r.Context())
	if err != nil {
		config.ErrorStatus("authentication required", http.StatusUnauthorized, w, err)
		return
	}

	appointmentID, err := primitive.ObjectIDFromHex(mux.Vars(r)["appointmentId"])
	if err != nil {
		config.ErrorStatus("invalid appointment id", http.StatusBadRequest, w, err)
		return
	}

	appointment, err := c.ADB.FindOne(r.Context(), bson.M{"_id": appointmentID})
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			config.ErrorStatus("appointment not found", http.StatusNotFound, w, err)
			return
		}
		config.ErrorStatus("failed to get appointment", http.StatusInternalServerError, w, err)
		return
	}

	if appointment.ChildID != caller.ID {
		config.ErrorStatus("only the booking user may pay", http.StatusForbidden, w, nil)
		return
	}
	if appointment.Status != models.AppointmentConfirmed {
		config.ErrorStatus("appointment is not confirmed", http.StatusConflict, w, nil)
		return
	}
	if appointment.Paid {
		config.ErrorStatus("appointment is already paid", http.StatusConflict, w, nil)
		return
	}

	psychologist, err := c.UDB.FindOne(r.Context(), bson.M{"_id": appointment.PsychologistID})
	if err != nil {
		config.ErrorStatus("failed to get psychologist", http.StatusInternalServerError, w, err)
		return
	}
	if psychologist.HourlyRate <= 0 {
		config.ErrorStatus("psychologist has no hourly rate configured", http.StatusConflict, w, nil)
		return
	}

	// rate is per hour in whole currency units; stripe wants cents
	amount := psychologist.HourlyRate * 100 * int64(appointment.DurationMinutes) / 60

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Session with " + psychologist.Name),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(c.Config.BaseURL + "/api/v1/payments/success?appointmentId=" + appointmentID.Hex()),
		CancelURL:         stripe.String(c.Config.BaseURL + "/api/v1/payments/cancel"),
		ClientReferenceID: stripe.String(appointmentID.Hex()),
	}

	s, err := session.New(params)
	if err != nil {
		config.ErrorStatus("failed to create checkout session", http.StatusInternalServerError, w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"sessionId": s.ID, "url": s.URL})
}

// SuccessRedirectHandler lands the user after a completed payment and marks
// the appointment paid. A production deployment would confirm via a stripe
// webhook instead of trusting the redirect.
func (c Checkout) SuccessRedirectHandler(w http.ResponseWriter, r *http.Request) {
	appointmentID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("appointmentId"))
	if err != nil {
		config.ErrorStatus("invalid appointment id", http.StatusBadRequest, w, err)
		return
	}

	if _, err := c.ADB.UpdateOne(r.Context(), bson.M{"_id": appointmentID}, bson.M{"$set": bson.M{"paid": true}}); err != nil {
		config.ErrorStatus("failed to mark appointment paid", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("appointment paid", "appointmentId", appointmentID.Hex())

	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message": "payment successful"}`))
}

// CancelRedirectHandler lands the user after an abandoned payment.
func (c Checkout) CancelRedirectHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message": "payment cancelled"}`))
}
