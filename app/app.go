package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"tradejournal-bot/api"
	"tradejournal-bot/bot"
	"tradejournal-bot/cache"
	"tradejournal-bot/config"
	"tradejournal-bot/connect"
	"tradejournal-bot/database"
	"tradejournal-bot/database/accounts"
	"tradejournal-bot/database/tokens"
	"tradejournal-bot/database/trades"
	"tradejournal-bot/journal"
	"tradejournal-bot/llm"
	"tradejournal-bot/realtime"
	"tradejournal-bot/telegram"
)

// App represents the main application
type App struct {
	config *config.Config
	db     *database.Database
	redis  *cache.RedisClient
	queue  *telegram.DeliveryQueue
	hub    *realtime.Hub
}

// New creates a new application instance
func New(cfg *config.Config) *App {
	return &App{config: cfg}
}

// Start wires the collaborators and runs the HTTP server until a shutdown
// signal arrives.
func (a *App) Start() error {
	// 1. Database Connection
	fmt.Println("🗄️  Connecting to database...")

	dbPort, err := strconv.Atoi(a.config.DatabasePort)
	if err != nil {
		return fmt.Errorf("invalid database port: %w", err)
	}

	db, err := database.Connect(
		a.config.DatabaseHost,
		dbPort,
		a.config.DatabaseName,
		a.config.DatabaseUser,
		a.config.DatabasePassword,
	)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	a.db = db

	if err := db.InitSchema(); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}

	// 2. Redis Connection. The token store degrades to the durable table
	// when Redis is down, so a nil client is tolerated.
	fmt.Println("🧠 Connecting to Redis...")
	a.redis = cache.NewRedisClient(
		a.config.RedisHost,
		a.config.RedisPort,
		a.config.RedisPassword,
	)
	if a.redis == nil {
		fmt.Println("⚠️  Redis connection failed. Connect tokens fall back to the database.")
	}

	// 3. Repositories
	accountRepo := accounts.NewRepository(db.DB())
	tradeRepo := trades.NewRepository(db.DB())
	tokenRepo := tokens.NewRepository(db.DB())

	// 4. Connect-token store: Redis primary, durable table fallback
	var primary connect.Store
	if a.redis != nil {
		primary = connect.NewRedisStore(a.redis)
	}
	tokenStore := connect.NewFallbackStore(primary, connect.NewDatabaseStore(tokenRepo))

	// 5. AI analyzer (capability-gated)
	analyzer := llm.NewAnalyzer(
		a.config.LLM.Enabled,
		a.config.LLM.Endpoint,
		a.config.LLM.APIKey,
		a.config.LLM.Model,
	)
	if analyzer.Available() {
		fmt.Println("🤖 AI analysis enabled")
	} else {
		fmt.Println("ℹ️  AI analysis disabled, running deterministic extraction only")
	}

	// 6. Outbound delivery and realtime feed
	tgClient := telegram.NewClient(a.config.Telegram.BotToken)
	a.queue = telegram.NewDeliveryQueue(tgClient, 4)

	a.hub = realtime.NewHub()
	go a.hub.Run()

	// 7. Pipeline wiring
	journalService := journal.NewService(tradeRepo, a.config.Plan.FreeMonthlyTradeCap, a.hub)
	composer := bot.NewComposer(analyzer)
	router := bot.NewRouter(accountRepo, tokenStore, journalService, analyzer, tgClient, a.queue, composer)

	server := api.NewServer(router, tokenStore, accountRepo, a.hub, a.config.Telegram.WebhookSecret)

	// 8. Run until signaled
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(a.config.ServerPort)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.shutdown()
		return fmt.Errorf("server stopped: %w", err)
	case sig := <-sigCh:
		log.Printf("📡 Received %s, shutting down...", sig)
		a.shutdown()
		return nil
	}
}

// shutdown drains the delivery queue and closes connections
func (a *App) shutdown() {
	if a.queue != nil {
		a.queue.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			log.Printf("⚠️  Redis close failed: %v", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			log.Printf("⚠️  Database close failed: %v", err)
		}
	}
}
