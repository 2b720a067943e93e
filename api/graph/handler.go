package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// Handler serves the POST /graphql endpoint. Domain errors come back inside
// the standard errors array with the code under extensions; the HTTP status
// stays 200 unless the request itself is unreadable.
type Handler struct {
	Schema graphql.Schema
}

// NewHandler compiles the schema for a resolver and wraps it in an HTTP
// handler.
func NewHandler(r *Resolver) (*Handler, error) {
	schema, err := NewSchema(r)
	if err != nil {
		return nil, err
	}
	return &Handler{Schema: schema}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body request
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  body.Query,
		OperationName:  body.OperationName,
		VariableValues: body.Variables,
		Context:        req.Context(),
	})

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(result); err != nil {
		zap.S().Errorw("failed to write graphql response", "error", err)
	}
}
