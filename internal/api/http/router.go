package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"church-inventory-backend/internal/security"
)

// Handlers groups the resource handlers the router wires up.
type Handlers struct {
	Items         *ItemHandler
	Checkouts     *CheckoutHandler
	Ministries    *MinistryHandler
	Categories    *CategoryHandler
	Notifications *NotificationHandler
}

// NewRouter builds the HTTP routing table. Everything under /api/v1
// requires a verified bearer token; /healthz does not.
func NewRouter(h Handlers, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(tokens))

	// Items and the ledger
	api.HandleFunc("/items", h.Items.Create).Methods(http.MethodPost)
	api.HandleFunc("/items", h.Items.List).Methods(http.MethodGet)
	api.HandleFunc("/items/low-stock", h.Items.LowStock).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}", h.Items.Get).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}", h.Items.UpdateMetadata).Methods(http.MethodPut)
	api.HandleFunc("/items/{id:[0-9]+}", h.Items.Deactivate).Methods(http.MethodDelete)
	api.HandleFunc("/items/{id:[0-9]+}/adjustments", h.Items.Adjust).Methods(http.MethodPost)
	api.HandleFunc("/items/{id:[0-9]+}/transactions", h.Items.Transactions).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}/availability", h.Items.Availability).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}/checkouts", h.Checkouts.ListByItem).Methods(http.MethodGet)
	api.HandleFunc("/transfers", h.Items.Transfer).Methods(http.MethodPost)

	// Checkouts
	api.HandleFunc("/checkouts", h.Checkouts.Create).Methods(http.MethodPost)
	api.HandleFunc("/checkouts/overdue", h.Checkouts.ListOverdue).Methods(http.MethodGet)
	api.HandleFunc("/checkouts/{id:[0-9]+}", h.Checkouts.Get).Methods(http.MethodGet)
	api.HandleFunc("/checkouts/{id:[0-9]+}/checkin", h.Checkouts.Checkin).Methods(http.MethodPost)
	api.HandleFunc("/borrowers/{id:[0-9]+}/checkouts", h.Checkouts.ListByBorrower).Methods(http.MethodGet)

	// Reference data
	api.HandleFunc("/ministries", h.Ministries.Create).Methods(http.MethodPost)
	api.HandleFunc("/ministries", h.Ministries.List).Methods(http.MethodGet)
	api.HandleFunc("/ministries/{id:[0-9]+}", h.Ministries.Get).Methods(http.MethodGet)
	api.HandleFunc("/ministries/{id:[0-9]+}", h.Ministries.Update).Methods(http.MethodPut)
	api.HandleFunc("/categories", h.Categories.Create).Methods(http.MethodPost)
	api.HandleFunc("/categories", h.Categories.List).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}", h.Categories.Get).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}", h.Categories.Update).Methods(http.MethodPut)

	// Notifications for the authenticated user
	api.HandleFunc("/notifications", h.Notifications.List).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notifications.MarkAsRead).Methods(http.MethodPost)

	return r
}
