// Package bot classifies inbound chat events and drives the ingestion
// pipeline. The router is stateless across messages: the only session state
// is the persisted chat-to-account binding.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"tradejournal-bot/connect"
	"tradejournal-bot/database/accounts"
	models "tradejournal-bot/database/models_pkg"
	"tradejournal-bot/extract"
	"tradejournal-bot/journal"
	"tradejournal-bot/telegram"

	"github.com/google/uuid"
)

// downloadTimeout bounds the screenshot fetch from Telegram
const downloadTimeout = 30 * time.Second

// AccountStore is the account surface the router needs.
// Implemented by database/accounts.Repository.
type AccountStore interface {
	ByID(id uuid.UUID) (*models.Account, error)
	ByChatID(chatID int64) (*models.Account, error)
	BindChat(accountID uuid.UUID, chatID int64, username string) error
}

// TradeLogger persists validated drafts. Implemented by journal.Service.
type TradeLogger interface {
	Log(account *models.Account, draft *extract.TradeDraft, inputType string, raw map[string]interface{}) (*models.Trade, error)
}

// Analyzer is the AI collaborator: a black-box classifier returning a
// structured guess. Implemented by llm.Analyzer.
type Analyzer interface {
	Available() bool
	AnalyzeImage(ctx context.Context, image []byte, caption string) (*extract.VisionAnalysis, error)
	AnalyzeText(ctx context.Context, text string) (*extract.VisionAnalysis, error)
}

// FileDownloader fetches attached files. Implemented by telegram.Client.
type FileDownloader interface {
	DownloadFile(ctx context.Context, fileID string) ([]byte, error)
}

// Replier queues outbound replies for out-of-band delivery.
// Implemented by telegram.DeliveryQueue.
type Replier interface {
	Enqueue(chatID int64, text, parseMode string)
}

// Router classifies one inbound update and dispatches it
type Router struct {
	accounts AccountStore
	tokens   connect.Store
	trades   TradeLogger
	analyzer Analyzer
	files    FileDownloader
	replies  Replier
	composer *Composer
}

// NewRouter creates the message router
func NewRouter(accountStore AccountStore, tokens connect.Store, trades TradeLogger,
	analyzer Analyzer, files FileDownloader, replies Replier, composer *Composer) *Router {
	return &Router{
		accounts: accountStore,
		tokens:   tokens,
		trades:   trades,
		analyzer: analyzer,
		files:    files,
		replies:  replies,
		composer: composer,
	}
}

// HandleUpdate processes one webhook event. All replies go through the
// delivery queue; nothing here ever reaches the webhook response.
func (r *Router) HandleUpdate(ctx context.Context, update *telegram.Update) {
	msg := update.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID
	text := strings.TrimSpace(msg.Text)

	switch {
	case strings.HasPrefix(text, "/start"):
		r.replies.Enqueue(chatID, msgStart, "")
	case strings.HasPrefix(text, "/connect"):
		r.handleConnect(ctx, msg)
	case strings.HasPrefix(text, "/"):
		r.handleCommand(msg, text)
	case len(msg.Photo) > 0:
		r.handlePhoto(ctx, msg)
	case msg.Voice != nil:
		r.handleVoice(msg)
	case text != "":
		r.handleText(ctx, msg)
	}
}

// handleConnect runs the account-linking protocol: format check, atomic
// consume, account resolution, plan gate, uniqueness checks, bind.
func (r *Router) handleConnect(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID

	parts := strings.Fields(msg.Text)
	if len(parts) != 2 || !connect.ValidFormat(parts[1]) {
		r.replies.Enqueue(chatID, msgConnectUsage, "")
		return
	}
	code := parts[1]

	accountID, err := r.tokens.Consume(ctx, code)
	if err != nil {
		if errors.Is(err, connect.ErrTokenNotFound) {
			// A re-sent code was already consumed. If this chat is bound,
			// the first attempt succeeded: answer idempotently.
			if _, bindErr := r.accounts.ByChatID(chatID); bindErr == nil {
				r.replies.Enqueue(chatID, msgAlreadyConnected, "")
				return
			}
			r.replies.Enqueue(chatID, msgTokenInvalid, "")
			return
		}
		log.Printf("⚠️  Token consume failed for chat %d: %v", chatID, err)
		r.replies.Enqueue(chatID, msgTryAgain, "")
		return
	}

	accountUUID, err := uuid.Parse(accountID)
	if err != nil {
		log.Printf("⚠️  Token for chat %d resolved to malformed account id %q", chatID, accountID)
		r.replies.Enqueue(chatID, msgTryAgain, "")
		return
	}

	account, err := r.accounts.ByID(accountUUID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			r.replies.Enqueue(chatID, msgAccountMissing, "")
			return
		}
		log.Printf("⚠️  Account lookup failed for chat %d: %v", chatID, err)
		r.replies.Enqueue(chatID, msgTryAgain, "")
		return
	}

	// Telegram logging is a paid feature
	if account.IsFree() {
		r.replies.Enqueue(chatID, msgPlanGated, "")
		return
	}

	// One chat binds to at most one account
	if existing, err := r.accounts.ByChatID(chatID); err == nil {
		if existing.ID != account.ID {
			r.replies.Enqueue(chatID, msgChatTaken, "")
			return
		}
		r.replies.Enqueue(chatID, msgAlreadyConnected, "")
		return
	} else if !errors.Is(err, accounts.ErrNotFound) {
		log.Printf("⚠️  Chat binding lookup failed for chat %d: %v", chatID, err)
		r.replies.Enqueue(chatID, msgTryAgain, "")
		return
	}

	username := ""
	if msg.From != nil {
		username = msg.From.Username
	}
	if err := r.accounts.BindChat(account.ID, chatID, username); err != nil {
		log.Printf("⚠️  Chat bind failed for account %s chat %d: %v", account.AccountID, chatID, err)
		r.replies.Enqueue(chatID, msgTryAgain, "")
		return
	}

	reply := fmt.Sprintf("✅ Connected successfully to %s! Send me your trades now.", account.Name)
	r.replies.Enqueue(chatID, reply, "")
}

// handleCommand routes the remaining slash commands. Unknown commands return
// help rather than falling through to trade parsing.
func (r *Router) handleCommand(msg *telegram.Message, text string) {
	chatID := msg.Chat.ID

	if _, ok := r.boundAccount(chatID); !ok {
		return
	}

	switch strings.Fields(text)[0] {
	case "/news":
		r.replies.Enqueue(chatID, msgNews, "")
	default:
		r.replies.Enqueue(chatID, msgUnknownCommand, "")
	}
}

// handleText runs the free-text pipeline: deterministic extraction, AI
// fallback, persistence gate, acknowledgement.
func (r *Router) handleText(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	account, ok := r.boundAccount(chatID)
	if !ok {
		return
	}

	draft := extract.FromText(msg.Text)
	if draft == nil && r.analyzer.Available() {
		if analysis, err := r.analyzer.AnalyzeText(ctx, msg.Text); err == nil {
			// MergeVision with a nil caption applies the same sentinel rules
			// that a screenshot merge would.
			if merged, mergeErr := extract.MergeVision(nil, analysis); mergeErr == nil {
				draft = merged
			}
		} else {
			log.Printf("⚠️  Text analysis degraded for chat %d: %v", chatID, err)
		}
	}
	if draft == nil {
		r.replies.Enqueue(chatID, msgNoTradeDetected, "")
		return
	}

	raw := map[string]interface{}{"text": msg.Text}
	trade, err := r.trades.Log(account, draft, models.InputText, raw)
	if err != nil {
		r.replies.Enqueue(chatID, r.replyForError(chatID, err), "")
		return
	}

	r.replies.Enqueue(chatID, r.composer.TradeLogged(ctx, trade, msg.Text, draft.Confidence), "")
}

// handlePhoto runs the screenshot pipeline: download, vision analysis,
// caption merge, persistence gate. Vision degradation falls back to the
// caption; only a total miss declines.
func (r *Router) handlePhoto(ctx context.Context, msg *telegram.Message) {
	chatID := msg.Chat.ID
	account, ok := r.boundAccount(chatID)
	if !ok {
		return
	}

	captionDraft := extract.FromText(msg.Caption)

	var analysis *extract.VisionAnalysis
	if r.analyzer.Available() {
		downloadCtx, cancel := context.WithTimeout(ctx, downloadTimeout)
		image, err := r.files.DownloadFile(downloadCtx, msg.LargestPhoto())
		cancel()
		if err != nil {
			log.Printf("⚠️  Screenshot download failed for chat %d: %v", chatID, err)
		} else if a, err := r.analyzer.AnalyzeImage(ctx, image, msg.Caption); err != nil {
			log.Printf("⚠️  Vision analysis degraded for chat %d: %v", chatID, err)
		} else {
			analysis = a
		}
	}

	var draft *extract.TradeDraft
	if analysis != nil {
		merged, err := extract.MergeVision(captionDraft, analysis)
		if err != nil {
			r.replies.Enqueue(chatID, msgPhotoNoInstrument, "")
			return
		}
		draft = merged
	} else if captionDraft != nil {
		// Caption-only degradation
		draft = captionDraft
	} else {
		r.replies.Enqueue(chatID, msgPhotoNotAnalyzed, "")
		return
	}

	raw := map[string]interface{}{"caption": msg.Caption, "file_id": msg.LargestPhoto()}
	trade, err := r.trades.Log(account, draft, models.InputScreenshot, raw)
	if err != nil {
		r.replies.Enqueue(chatID, r.replyForError(chatID, err), "")
		return
	}

	r.replies.Enqueue(chatID, r.composer.TradeLogged(ctx, trade, msg.Caption, draft.Confidence), "")
}

// handleVoice acknowledges voice notes; extraction depth is out of scope
func (r *Router) handleVoice(msg *telegram.Message) {
	if _, ok := r.boundAccount(msg.Chat.ID); !ok {
		return
	}
	r.replies.Enqueue(msg.Chat.ID, msgVoiceAck, "")
}

// boundAccount resolves the chat binding, prompting to connect when absent.
// Evaluated before any extraction work so unbound chats cost nothing.
func (r *Router) boundAccount(chatID int64) (*models.Account, bool) {
	account, err := r.accounts.ByChatID(chatID)
	if err == nil {
		return account, true
	}
	if errors.Is(err, accounts.ErrNotFound) {
		r.replies.Enqueue(chatID, msgNotConnected, "")
	} else {
		log.Printf("⚠️  Chat binding lookup failed for chat %d: %v", chatID, err)
		r.replies.Enqueue(chatID, msgTryAgain, "")
	}
	return nil, false
}

// replyForError maps pipeline errors to the reply taxonomy: user-input and
// quota errors get specific corrective text, everything else a generic retry
// line with the detail kept in the logs.
func (r *Router) replyForError(chatID int64, err error) string {
	var validationErr *journal.ValidationError
	if errors.As(err, &validationErr) {
		return "❌ I couldn't log that trade: " + validationErr.Reason + ". Please double-check and resend."
	}

	var quotaErr *journal.QuotaError
	if errors.As(err, &quotaErr) {
		return fmt.Sprintf("🚦 You've reached the free plan limit of %d trades this month. "+
			"Upgrade to Pro for unlimited logging.", quotaErr.Cap)
	}

	log.Printf("⚠️  Trade pipeline failed for chat %d: %v", chatID, err)
	return msgTryAgain
}
