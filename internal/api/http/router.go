package http

import (
	"net/http"

	"bingohall-backend/internal/security"

	"github.com/gorilla/mux"
)

// NewRouter wires every endpoint. Sign-in and health are public; everything
// else sits behind the bearer-token middleware.
func NewRouter(h *Handler, tokens security.TokenManager) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/auth/signin", h.SignIn).Methods(http.MethodPost)

	authed := r.NewRoute().Subrouter()
	authed.Use(AuthMiddleware(tokens))

	authed.HandleFunc("/auth/change-password", h.ChangePassword).Methods(http.MethodPost)
	authed.HandleFunc("/users/me", h.Me).Methods(http.MethodGet)

	authed.HandleFunc("/api/management/users/create", h.CreateUser).Methods(http.MethodPost)
	authed.HandleFunc("/api/management/users", h.ListUsers).Methods(http.MethodGet)
	authed.HandleFunc("/api/management/users/profile", h.UpdateProfile).Methods(http.MethodPut)
	authed.HandleFunc("/api/management/users/{id:[0-9]+}", h.GetUser).Methods(http.MethodGet)
	authed.HandleFunc("/api/management/dashboard", h.Dashboard).Methods(http.MethodGet)
	authed.HandleFunc("/api/management/credit-requests", h.ListCreditRequests).Methods(http.MethodGet)
	authed.HandleFunc("/api/management/credit-requests/{id:[0-9]+}/action", h.ResolveCreditRequest).Methods(http.MethodPut)

	authed.HandleFunc("/transactions/send-package", h.SendPackage).Methods(http.MethodPost)
	authed.HandleFunc("/transactions/request-package", h.RequestPackage).Methods(http.MethodPost)
	authed.HandleFunc("/transactions/revert", h.RevertTransaction).Methods(http.MethodPost)
	authed.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet)

	authed.HandleFunc("/api/game/bet", h.PlaceBet).Methods(http.MethodPost)
	authed.HandleFunc("/api/game/sessions/{id:[0-9]+}/settle", h.SettleSession).Methods(http.MethodPost)
	authed.HandleFunc("/api/game/my-transactions", h.MyGameTransactions).Methods(http.MethodGet)
	authed.HandleFunc("/game/end", h.EndGame).Methods(http.MethodPost)

	return r
}
