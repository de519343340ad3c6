package api

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"tradejournal-bot/connect"
	"tradejournal-bot/database/accounts"
	models "tradejournal-bot/database/models_pkg"
	"tradejournal-bot/telegram"

	"github.com/google/uuid"
)

// handleTelegramWebhook accepts one Bot API update. The webhook caller is
// always acknowledged quickly: processing happens in its own goroutine and
// replies flow through the delivery queue.
func (s *Server) handleTelegramWebhook(w http.ResponseWriter, r *http.Request) {
	if s.webhookSecret != "" &&
		r.Header.Get("X-Telegram-Bot-Api-Secret-Token") != s.webhookSecret {
		writeError(w, http.StatusUnauthorized, "invalid webhook secret")
		return
	}

	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "malformed update")
		return
	}

	go s.router.HandleUpdate(context.Background(), &update)

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type issueTokenRequest struct {
	AccountID string `json:"account_id"`
}

type issueTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"` // seconds
}

// handleIssueConnectToken is the account-settings issuance surface. Gated to
// non-free plans; the router enforces the same gate again on consume.
func (s *Server) handleIssueConnectToken(w http.ResponseWriter, r *http.Request) {
	var req issueTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is required")
		return
	}

	account, err := s.resolveAccount(req.AccountID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			writeError(w, http.StatusNotFound, "account not found")
			return
		}
		log.Printf("⚠️  Account lookup failed for %q: %v", req.AccountID, err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if account.IsFree() {
		writeError(w, http.StatusForbidden, "telegram connect requires a paid plan")
		return
	}

	token, err := s.tokens.Issue(r.Context(), account.ID.String())
	if err != nil {
		log.Printf("⚠️  Token issue failed for account %s: %v", account.AccountID, err)
		writeError(w, http.StatusServiceUnavailable, "token storage unavailable")
		return
	}

	writeJSON(w, http.StatusOK, issueTokenResponse{
		Token:     token,
		ExpiresIn: int(connect.TokenTTL.Seconds()),
	})
}

// resolveAccount accepts either the UUID primary key or the short shareable
// TRD-XXXXX identifier.
func (s *Server) resolveAccount(id string) (*models.Account, error) {
	if parsed, err := uuid.Parse(id); err == nil {
		return s.accounts.ByID(parsed)
	}
	return s.accounts.ByAccountID(id)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("⚠️  Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
