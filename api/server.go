package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"tradejournal-bot/bot"
	"tradejournal-bot/connect"
	models "tradejournal-bot/database/models_pkg"

	"github.com/google/uuid"
)

// AccountResolver is the account surface the issuance endpoint needs.
// Implemented by database/accounts.Repository.
type AccountResolver interface {
	ByID(id uuid.UUID) (*models.Account, error)
	ByAccountID(accountID string) (*models.Account, error)
}

// Server handles HTTP API requests
type Server struct {
	router        *bot.Router
	tokens        connect.Store
	accounts      AccountResolver
	events        http.Handler
	webhookSecret string
}

// NewServer creates a new API server instance
func NewServer(router *bot.Router, tokens connect.Store, accountResolver AccountResolver,
	events http.Handler, webhookSecret string) *Server {
	return &Server{
		router:        router,
		tokens:        tokens,
		accounts:      accountResolver,
		events:        events,
		webhookSecret: webhookSecret,
	}
}

// Start starts the HTTP server on the specified port
func (s *Server) Start(port int) error {
	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("POST /webhook/telegram", s.handleTelegramWebhook)
	mux.HandleFunc("POST /api/telegram/connect-token", s.handleIssueConnectToken)
	mux.Handle("GET /api/events", s.events) // Dashboard WebSocket feed
	mux.HandleFunc("GET /health", s.handleHealth)

	addr := fmt.Sprintf(":%d", port)
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("🌐 API server listening on %s", addr)
	return server.ListenAndServe()
}
