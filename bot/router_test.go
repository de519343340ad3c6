package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tradejournal-bot/connect"
	"tradejournal-bot/database/accounts"
	models "tradejournal-bot/database/models_pkg"
	"tradejournal-bot/extract"
	"tradejournal-bot/journal"
	"tradejournal-bot/telegram"

	"github.com/google/uuid"
)

type fakeAccounts struct {
	byID     map[uuid.UUID]*models.Account
	byChat   map[int64]*models.Account
	bindErr  error
	bound    []int64
	boundTo  []uuid.UUID
	chatErrs map[int64]error
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{
		byID:     make(map[uuid.UUID]*models.Account),
		byChat:   make(map[int64]*models.Account),
		chatErrs: make(map[int64]error),
	}
}

func (f *fakeAccounts) ByID(id uuid.UUID) (*models.Account, error) {
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, accounts.ErrNotFound
}

func (f *fakeAccounts) ByChatID(chatID int64) (*models.Account, error) {
	if err, ok := f.chatErrs[chatID]; ok {
		return nil, err
	}
	if a, ok := f.byChat[chatID]; ok {
		return a, nil
	}
	return nil, accounts.ErrNotFound
}

func (f *fakeAccounts) BindChat(accountID uuid.UUID, chatID int64, username string) error {
	if f.bindErr != nil {
		return f.bindErr
	}
	f.bound = append(f.bound, chatID)
	f.boundTo = append(f.boundTo, accountID)
	if a, ok := f.byID[accountID]; ok {
		f.byChat[chatID] = a
	}
	return nil
}

type fakeTokens struct {
	accountID string
	err       error
	consumed  []string
}

func (f *fakeTokens) Issue(ctx context.Context, accountID string) (string, error) {
	return "TM-AAAAAA", nil
}

func (f *fakeTokens) Consume(ctx context.Context, token string) (string, error) {
	f.consumed = append(f.consumed, token)
	return f.accountID, f.err
}

type fakeLogger struct {
	err    error
	logged []*extract.TradeDraft
	types  []string
}

func (f *fakeLogger) Log(account *models.Account, draft *extract.TradeDraft, inputType string, raw map[string]interface{}) (*models.Trade, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.logged = append(f.logged, draft)
	f.types = append(f.types, inputType)
	return &models.Trade{
		AccountID:  account.ID,
		Instrument: draft.Instrument,
		Direction:  draft.Direction,
		EntryPrice: draft.EntryPrice,
		ExitPrice:  draft.ExitPrice,
		Result:     draft.Result,
		RMultiple:  draft.RMultiple,
		InputType:  inputType,
	}, nil
}

type fakeAnalyzer struct {
	enabled    bool
	analysis   *extract.VisionAnalysis
	err        error
	imageCalls int
	textCalls  int
}

func (f *fakeAnalyzer) Available() bool { return f.enabled }

func (f *fakeAnalyzer) AnalyzeImage(ctx context.Context, image []byte, caption string) (*extract.VisionAnalysis, error) {
	f.imageCalls++
	return f.analysis, f.err
}

func (f *fakeAnalyzer) AnalyzeText(ctx context.Context, text string) (*extract.VisionAnalysis, error) {
	f.textCalls++
	return f.analysis, f.err
}

type fakeDownloader struct {
	data []byte
	err  error
}

func (f *fakeDownloader) DownloadFile(ctx context.Context, fileID string) ([]byte, error) {
	return f.data, f.err
}

type fakeReplier struct {
	chatIDs []int64
	texts   []string
}

func (f *fakeReplier) Enqueue(chatID int64, text, parseMode string) {
	f.chatIDs = append(f.chatIDs, chatID)
	f.texts = append(f.texts, text)
}

func (f *fakeReplier) last(t *testing.T) string {
	t.Helper()
	if len(f.texts) == 0 {
		t.Fatal("expected a reply, got none")
	}
	return f.texts[len(f.texts)-1]
}

type routerFixture struct {
	router   *Router
	accounts *fakeAccounts
	tokens   *fakeTokens
	logger   *fakeLogger
	analyzer *fakeAnalyzer
	files    *fakeDownloader
	replies  *fakeReplier
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		accounts: newFakeAccounts(),
		tokens:   &fakeTokens{},
		logger:   &fakeLogger{},
		analyzer: &fakeAnalyzer{},
		files:    &fakeDownloader{data: []byte("png")},
		replies:  &fakeReplier{},
	}
	f.router = NewRouter(f.accounts, f.tokens, f.logger, f.analyzer, f.files, f.replies, NewComposer(nil))
	return f
}

func (f *routerFixture) bind(chatID int64, plan string) *models.Account {
	account := &models.Account{ID: uuid.New(), AccountID: "TRD-0001", Name: "Test Trader", Plan: plan, TelegramConnected: true}
	f.accounts.byID[account.ID] = account
	f.accounts.byChat[chatID] = account
	return account
}

func textUpdate(chatID int64, text string) *telegram.Update {
	return &telegram.Update{Message: &telegram.Message{
		Chat: telegram.Chat{ID: chatID},
		From: &telegram.User{Username: "trader"},
		Text: text,
	}}
}

func photoUpdate(chatID int64, caption string) *telegram.Update {
	return &telegram.Update{Message: &telegram.Message{
		Chat:    telegram.Chat{ID: chatID},
		Caption: caption,
		Photo:   []telegram.PhotoSize{{FileID: "small"}, {FileID: "large"}},
	}}
}

func TestRouterStart(t *testing.T) {
	f := newRouterFixture()
	f.router.HandleUpdate(context.Background(), textUpdate(1, "/start"))
	if f.replies.last(t) != msgStart {
		t.Errorf("expected start message, got %q", f.replies.last(t))
	}
}

func TestRouterIgnoresEmptyUpdate(t *testing.T) {
	f := newRouterFixture()
	f.router.HandleUpdate(context.Background(), &telegram.Update{})
	if len(f.replies.texts) != 0 {
		t.Errorf("expected no replies, got %v", f.replies.texts)
	}
}

func TestRouterUnboundTextPromptsConnect(t *testing.T) {
	f := newRouterFixture()
	f.analyzer.enabled = true

	f.router.HandleUpdate(context.Background(), textUpdate(1, "Long BTC entry 99000 exit 100000"))

	if f.replies.last(t) != msgNotConnected {
		t.Errorf("expected connect prompt, got %q", f.replies.last(t))
	}
	if len(f.logger.logged) != 0 {
		t.Error("unbound chat must not log trades")
	}
	if f.analyzer.textCalls != 0 {
		t.Error("unbound chat must not trigger analysis")
	}
}

func TestRouterTextTradeLogged(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)

	f.router.HandleUpdate(context.Background(), textUpdate(1, "Long BTC entry 99000 exit 100000"))

	if len(f.logger.logged) != 1 {
		t.Fatalf("expected 1 logged trade, got %d", len(f.logger.logged))
	}
	if f.logger.types[0] != models.InputText {
		t.Errorf("expected text input type, got %q", f.logger.types[0])
	}
	reply := f.replies.last(t)
	if !strings.Contains(reply, "Trade logged") || !strings.Contains(reply, "BTC") {
		t.Errorf("unexpected acknowledgement: %q", reply)
	}
}

func TestRouterTextNoTradeNoAnalyzer(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)

	f.router.HandleUpdate(context.Background(), textUpdate(1, "just checking in"))

	if f.replies.last(t) != msgNoTradeDetected {
		t.Errorf("expected no-trade reply, got %q", f.replies.last(t))
	}
	if len(f.logger.logged) != 0 {
		t.Error("nothing should be logged")
	}
}

func TestRouterTextAnalyzerFallback(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)
	f.analyzer.enabled = true
	f.analyzer.analysis = &extract.VisionAnalysis{
		Instrument: "GOLD",
		Direction:  "LONG",
		Result:     "WIN",
		Confidence: 0.8,
	}

	// No ticker-shaped token survives the stop-word filter here, so the
	// deterministic pass yields nothing and the analyzer takes over.
	f.router.HandleUpdate(context.Background(), textUpdate(1, "took the long, hit target, win"))

	if f.analyzer.textCalls != 1 {
		t.Fatalf("expected one analyzer call, got %d", f.analyzer.textCalls)
	}
	if len(f.logger.logged) != 1 {
		t.Fatalf("expected 1 logged trade, got %d", len(f.logger.logged))
	}
	if f.logger.logged[0].Instrument != "GOLD" {
		t.Errorf("expected analyzer instrument, got %q", f.logger.logged[0].Instrument)
	}
}

func TestRouterConnectUsage(t *testing.T) {
	f := newRouterFixture()
	for _, text := range []string{"/connect", "/connect nonsense", "/connect TM-AB", "/connect TM-A1B2C3 extra"} {
		f.router.HandleUpdate(context.Background(), textUpdate(1, text))
		if f.replies.last(t) != msgConnectUsage {
			t.Errorf("%q: expected usage reply, got %q", text, f.replies.last(t))
		}
	}
	if len(f.tokens.consumed) != 0 {
		t.Error("malformed codes must not reach the token store")
	}
}

func TestRouterConnectSuccess(t *testing.T) {
	f := newRouterFixture()
	account := &models.Account{ID: uuid.New(), AccountID: "TRD-0001", Name: "Test Trader", Plan: models.PlanPro}
	f.accounts.byID[account.ID] = account
	f.tokens.accountID = account.ID.String()

	f.router.HandleUpdate(context.Background(), textUpdate(1, "/connect TM-A1B2C3"))

	if len(f.accounts.bound) != 1 || f.accounts.bound[0] != 1 {
		t.Fatalf("expected chat 1 bound, got %v", f.accounts.bound)
	}
	if f.accounts.boundTo[0] != account.ID {
		t.Errorf("bound to wrong account: %v", f.accounts.boundTo[0])
	}
	reply := f.replies.last(t)
	if !strings.Contains(reply, "Connected successfully") || !strings.Contains(reply, account.Name) {
		t.Errorf("unexpected success reply: %q", reply)
	}
}

func TestRouterConnectConsumedCodeIdempotent(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro) // first attempt already bound this chat
	f.tokens.err = connect.ErrTokenNotFound

	f.router.HandleUpdate(context.Background(), textUpdate(1, "/connect TM-A1B2C3"))

	if f.replies.last(t) != msgAlreadyConnected {
		t.Errorf("re-sent consumed code on a bound chat should ack, got %q", f.replies.last(t))
	}
}

func TestRouterConnectUnknownCode(t *testing.T) {
	f := newRouterFixture()
	f.tokens.err = connect.ErrTokenNotFound

	f.router.HandleUpdate(context.Background(), textUpdate(1, "/connect TM-A1B2C3"))

	if f.replies.last(t) != msgTokenInvalid {
		t.Errorf("expected invalid-code reply, got %q", f.replies.last(t))
	}
}

func TestRouterConnectStoreDown(t *testing.T) {
	f := newRouterFixture()
	f.tokens.err = connect.ErrStoreUnavailable

	f.router.HandleUpdate(context.Background(), textUpdate(1, "/connect TM-A1B2C3"))

	if f.replies.last(t) != msgTryAgain {
		t.Errorf("expected retry reply, got %q", f.replies.last(t))
	}
}

func TestRouterConnectFreePlanGated(t *testing.T) {
	f := newRouterFixture()
	account := &models.Account{ID: uuid.New(), Plan: models.PlanFree}
	f.accounts.byID[account.ID] = account
	f.tokens.accountID = account.ID.String()

	f.router.HandleUpdate(context.Background(), textUpdate(1, "/connect TM-A1B2C3"))

	if f.replies.last(t) != msgPlanGated {
		t.Errorf("expected plan gate, got %q", f.replies.last(t))
	}
	if len(f.accounts.bound) != 0 {
		t.Error("free account must not bind")
	}
}

func TestRouterConnectChatTaken(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro) // chat 1 already belongs to someone else

	other := &models.Account{ID: uuid.New(), Name: "Other", Plan: models.PlanElite}
	f.accounts.byID[other.ID] = other
	f.tokens.accountID = other.ID.String()

	f.router.HandleUpdate(context.Background(), textUpdate(1, "/connect TM-A1B2C3"))

	if f.replies.last(t) != msgChatTaken {
		t.Errorf("expected chat-taken reply, got %q", f.replies.last(t))
	}
}

func TestRouterConnectAccountGone(t *testing.T) {
	f := newRouterFixture()
	f.tokens.accountID = uuid.New().String() // resolves to nothing

	f.router.HandleUpdate(context.Background(), textUpdate(1, "/connect TM-A1B2C3"))

	if f.replies.last(t) != msgAccountMissing {
		t.Errorf("expected account-missing reply, got %q", f.replies.last(t))
	}
}

func TestRouterQuotaReply(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)
	f.logger.err = &journal.QuotaError{Cap: 30}

	f.router.HandleUpdate(context.Background(), textUpdate(1, "Long BTC entry 99000 exit 100000"))

	reply := f.replies.last(t)
	if !strings.Contains(reply, "free plan limit") || !strings.Contains(reply, "30") {
		t.Errorf("expected quota reply, got %q", reply)
	}
}

func TestRouterValidationReply(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)
	f.logger.err = &journal.ValidationError{Reason: "LONG from 100 to 110 is profitable but labeled LOSS"}

	f.router.HandleUpdate(context.Background(), textUpdate(1, "Long BTC entry 100 exit 110 loss"))

	reply := f.replies.last(t)
	if !strings.Contains(reply, "labeled LOSS") {
		t.Errorf("expected validation detail in reply, got %q", reply)
	}
}

func TestRouterCommands(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)

	f.router.HandleUpdate(context.Background(), textUpdate(1, "/news"))
	if f.replies.last(t) != msgNews {
		t.Errorf("expected news reply, got %q", f.replies.last(t))
	}

	f.router.HandleUpdate(context.Background(), textUpdate(1, "/unknown"))
	if f.replies.last(t) != msgUnknownCommand {
		t.Errorf("expected unknown-command reply, got %q", f.replies.last(t))
	}
}

func TestRouterPhotoVisionMerge(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)
	f.analyzer.enabled = true
	entry, exit := 2385.2, 2391.8
	f.analyzer.analysis = &extract.VisionAnalysis{
		Instrument: "XAUUSD",
		Direction:  "LONG",
		EntryPrice: &entry,
		ExitPrice:  &exit,
		Result:     "PENDING",
		Confidence: 0.9,
	}

	f.router.HandleUpdate(context.Background(), photoUpdate(1, "gold long win"))

	if f.analyzer.imageCalls != 1 {
		t.Fatalf("expected one vision call, got %d", f.analyzer.imageCalls)
	}
	if len(f.logger.logged) != 1 {
		t.Fatalf("expected 1 logged trade, got %d", len(f.logger.logged))
	}
	draft := f.logger.logged[0]
	if draft.Instrument != "XAUUSD" {
		t.Errorf("vision instrument should win, got %q", draft.Instrument)
	}
	if draft.Result != "WIN" {
		t.Errorf("explicit caption result should win, got %q", draft.Result)
	}
	if f.logger.types[0] != models.InputScreenshot {
		t.Errorf("expected screenshot input type, got %q", f.logger.types[0])
	}
}

func TestRouterPhotoCaptionOnlyDegradation(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)
	f.analyzer.enabled = true
	f.analyzer.err = errors.New("vision backend down")

	f.router.HandleUpdate(context.Background(), photoUpdate(1, "Long BTC entry 99000 exit 100000"))

	if len(f.logger.logged) != 1 {
		t.Fatalf("expected caption-only trade logged, got %d", len(f.logger.logged))
	}
	if f.logger.logged[0].Instrument != "BTC" {
		t.Errorf("expected caption instrument, got %q", f.logger.logged[0].Instrument)
	}
}

func TestRouterPhotoNothingUsable(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)
	// analyzer disabled, caption empty

	f.router.HandleUpdate(context.Background(), photoUpdate(1, ""))

	if f.replies.last(t) != msgPhotoNotAnalyzed {
		t.Errorf("expected not-analyzed reply, got %q", f.replies.last(t))
	}
}

func TestRouterPhotoNoInstrumentAnywhere(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)
	f.analyzer.enabled = true
	f.analyzer.analysis = &extract.VisionAnalysis{Instrument: extract.UnknownSentinel}

	f.router.HandleUpdate(context.Background(), photoUpdate(1, ""))

	if f.replies.last(t) != msgPhotoNoInstrument {
		t.Errorf("expected no-instrument reply, got %q", f.replies.last(t))
	}
}

func TestRouterVoiceAck(t *testing.T) {
	f := newRouterFixture()
	f.bind(1, models.PlanPro)

	update := &telegram.Update{Message: &telegram.Message{
		Chat:  telegram.Chat{ID: 1},
		Voice: &telegram.Voice{FileID: "voice", Duration: 4},
	}}
	f.router.HandleUpdate(context.Background(), update)

	if f.replies.last(t) != msgVoiceAck {
		t.Errorf("expected voice ack, got %q", f.replies.last(t))
	}
}
