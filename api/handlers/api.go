package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stripe/stripe-go/v82"
	"go.uber.org/zap"

	"github.com/mindhaven-app/mindhaven-api/account"
	"github.com/mindhaven-app/mindhaven-api/api"
	"github.com/mindhaven-app/mindhaven-api/api/graph"
	"github.com/mindhaven-app/mindhaven-api/chatroom"
	"github.com/mindhaven-app/mindhaven-api/config"
	"github.com/mindhaven-app/mindhaven-api/databases"
	"github.com/mindhaven-app/mindhaven-api/mailer"
	"github.com/mindhaven-app/mindhaven-api/models"
	"github.com/mindhaven-app/mindhaven-api/otp"
)

const requestTimeout = 30 * time.Second

// App stores the router, config and service graph so it can be reused
type App struct {
	Router *mux.Router
	Config config.Config

	// exported for the scheduler wiring in main
	OTP  otp.Store
	UDB  databases.UserDatabase
	CRDB databases.ChatroomDatabase

	dbHelper databases.DatabaseHelper
	tokens   *api.TokenService
	hub      *chatroom.Hub
	engine   *chatroom.Engine
	accounts *account.Service
	adb      databases.AppointmentDatabase
	fdb      databases.FeedbackDatabase
	rdb      databases.ReportDatabase
	mdb      databases.ChatroomMessageDatabase
}

// New creates a new mux router and all the routes
func (a *App) New() (*mux.Router, error) {
	// setup go-guardian for the admin surface
	m := api.MiddlewareDB{DB: a.UDB}
	m.SetupGoGuardian()

	authn := &api.Authenticator{Tokens: a.tokens, UDB: a.UDB}

	r := mux.NewRouter()
	r.Use(
		api.RequestID,
		api.CORS(a.Config.AllowedOrigins),
		api.MetricsMiddleware,
		api.AuthContext(authn),
	)

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	gql, err := graph.NewHandler(&graph.Resolver{
		Accounts: a.accounts,
		Chat:     a.engine,
		UDB:      a.UDB,
		ADB:      a.adb,
		FDB:      a.fdb,
		RDB:      a.rdb,
	})
	if err != nil {
		return nil, err
	}
	r.Handle("/graphql", api.TimeoutMiddleware(requestTimeout)(gql)).Methods("POST")

	ws := ChatSocket{Tokens: a.tokens, Engine: a.engine, Hub: a.hub}
	r.HandleFunc("/ws/chatrooms/{chatroomId}", ws.Serve).Methods("GET")

	uploads := UploadHandler{Config: a.Config}
	checkout := Checkout{Config: a.Config, ADB: a.adb, UDB: a.UDB}
	admin := Admin{RDB: a.rdb, Engine: a.engine}

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/uploads/signature", http.HandlerFunc(uploads.GenerateSignature)).Methods("POST")

	apiCreate.Handle("/appointments/{appointmentId}/checkout", http.HandlerFunc(checkout.CreateCheckoutSessionHandler)).Methods("POST")
	apiCreate.Handle("/payments/success", http.HandlerFunc(checkout.SuccessRedirectHandler)).Methods("GET")
	apiCreate.Handle("/payments/cancel", http.HandlerFunc(checkout.CancelRedirectHandler)).Methods("GET")

	apiCreate.Handle("/admin/auth/token", api.AdminMiddleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/admin/auth/logout", api.AdminMiddleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")
	apiCreate.Handle("/admin/reports", api.AdminMiddleware(http.HandlerFunc(admin.ListReportsHandler))).Methods("GET")
	apiCreate.Handle("/admin/reports/{reportId}", api.AdminMiddleware(http.HandlerFunc(admin.UpdateReportStatusHandler))).Methods("PATCH")
	apiCreate.Handle("/admin/chatrooms/{chatroomId}/deactivate", api.AdminMiddleware(http.HandlerFunc(admin.DeactivateChatroomHandler))).Methods("PATCH")

	return r, nil
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {
	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("mindhaven-api has connected to the database")

	if a.Config.StripeSecretKey == "" {
		return fmt.Errorf("stripe secret key is not set")
	}
	stripe.Key = a.Config.StripeSecretKey

	a.UDB = databases.NewUserDatabase(a.dbHelper)
	a.CRDB = databases.NewChatroomDatabase(a.dbHelper)
	a.mdb = databases.NewChatroomMessageDatabase(a.dbHelper)
	a.adb = databases.NewAppointmentDatabase(a.dbHelper)
	a.fdb = databases.NewFeedbackDatabase(a.dbHelper)
	a.rdb = databases.NewReportDatabase(a.dbHelper)

	a.OTP = otp.NewMemoryStore()
	a.tokens = api.NewTokenService(&a.Config)
	a.hub = chatroom.NewHub()
	a.engine = chatroom.NewEngine(a.CRDB, a.mdb, a.UDB, a.hub)
	a.accounts = account.NewService(a.UDB, a.OTP, mailer.New(&a.Config), a.tokens)

	a.Router, err = a.New()
	return err
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
