package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"

	"github.com/ENuel20/sona-crypto-chat/internal/agent"
	"github.com/ENuel20/sona-crypto-chat/internal/alert"
	"github.com/ENuel20/sona-crypto-chat/internal/api/handler"
	customMiddleware "github.com/ENuel20/sona-crypto-chat/internal/api/middleware"
	"github.com/ENuel20/sona-crypto-chat/internal/chat"
	"github.com/ENuel20/sona-crypto-chat/internal/config"
	"github.com/ENuel20/sona-crypto-chat/internal/defi"
	"github.com/ENuel20/sona-crypto-chat/internal/llm"
	"github.com/ENuel20/sona-crypto-chat/internal/llm/gemini"
	"github.com/ENuel20/sona-crypto-chat/internal/llm/ollama"
	"github.com/ENuel20/sona-crypto-chat/internal/llm/openai"
	"github.com/ENuel20/sona-crypto-chat/internal/market"
	"github.com/ENuel20/sona-crypto-chat/internal/repository/postgres"
	"github.com/ENuel20/sona-crypto-chat/internal/repository/redis"
	"github.com/ENuel20/sona-crypto-chat/internal/repository/sqlite"
	"github.com/ENuel20/sona-crypto-chat/internal/wallet"
)

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, db *postgres.DB, redisClient *redis.Client, localCache *sqlite.Cache) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.RequestTimeout))

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", customMiddleware.WalletHeader},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Repositories
	conversationRepo := postgres.NewConversationRepository(db.Pool)
	stakingRepo := postgres.NewStakingPositionRepository(db.Pool)
	lendingRepo := postgres.NewLendingPositionRepository(db.Pool)
	swapRepo := postgres.NewSwapHistoryRepository(db.Pool)
	alertRepo := postgres.NewAlertRepository(db.Pool)
	userRepo := postgres.NewUserRepository(db.Pool)

	rateLimiter := redis.NewRateLimiter(redisClient, cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst)
	priceCache := redis.NewPriceCache(redisClient, cfg.Market.PriceCacheTTL)

	// LLM router
	llmRouter := llm.NewRouter(cfg.LLM.DefaultProvider)
	log.Info().Str("default", cfg.LLM.DefaultProvider).Msg("initializing LLM providers")

	if cfg.LLM.Ollama.Host != "" {
		log.Info().Str("host", cfg.LLM.Ollama.Host).Msg("registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.LLM.Ollama.Host, cfg.LLM.Ollama.DefaultModel))
	}
	if cfg.LLM.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.LLM.OpenAI.APIKey, cfg.LLM.OpenAI.Model))
	}
	if cfg.LLM.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.LLM.Gemini.APIKey, cfg.LLM.Gemini.Model))
	} else {
		log.Warn().Msg("Gemini API key is empty, skipping registration")
	}

	// Domain services
	prices := market.NewClient(cfg.Market.CoinGeckoURL, priceCache)
	balances := wallet.NewService(wallet.NewRPCClient(cfg.Solana.RPCURL), prices, userRepo)
	alerts := alert.NewService(alertRepo, prices)
	staking := defi.NewStakingService(stakingRepo)
	lending := defi.NewLendingService(lendingRepo)
	swaps := defi.NewSwapService(swapRepo)

	peers := agent.Peers{
		Balances: balances,
		Alerts:   alerts,
		Staking:  staking,
		Lending:  lending,
		Swap:     swaps,
	}

	hub := chat.NewHub(conversationRepo, localCache, func(walletAddr string) chat.Responder {
		return agent.NewPipeline(llmRouter, peers, walletAddr, cfg.LLM.DefaultProvider, "")
	})
	hub.SetLoadPolicy(chat.ParseLoadPolicy(cfg.Cache.LoadPolicy))

	// Handlers
	chatHandler := handler.NewChatHandler(hub)
	portfolioHandler := handler.NewPortfolioHandler(balances, prices)
	stakingHandler := handler.NewStakingHandler(staking)
	lendingHandler := handler.NewLendingHandler(lending)
	swapHandler := handler.NewSwapHandler(swaps)
	alertHandler := handler.NewAlertHandler(alerts)

	rateLimitMiddleware := customMiddleware.NewRateLimitMiddleware(rateLimiter)

	r.Route("/api/v1", func(r chi.Router) {
		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(db))

		// Wallet-scoped routes
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.WalletIdentity)
			r.Use(rateLimitMiddleware.Limit)

			r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

			r.Route("/chat", func(r chi.Router) {
				r.Get("/", chatHandler.List)
				r.Post("/mode", chatHandler.SetMode)
				r.Post("/messages", chatHandler.Message)
				r.Post("/disconnect", chatHandler.Disconnect)

				r.Route("/conversations", func(r chi.Router) {
					r.Post("/", chatHandler.Create)

					r.Route("/{conversationID}", func(r chi.Router) {
						r.Post("/switch", chatHandler.Switch)
						r.Patch("/", chatHandler.Rename)
						r.Delete("/", chatHandler.Delete)
					})
				})
			})

			r.Route("/portfolio", func(r chi.Router) {
				r.Get("/", portfolioHandler.Get)
				r.Get("/prices", portfolioHandler.Prices)
			})

			r.Route("/staking", func(r chi.Router) {
				r.Get("/pools", stakingHandler.Pools)
				r.Get("/positions", stakingHandler.Positions)
				r.Post("/stake", stakingHandler.Stake)
				r.Post("/unstake", stakingHandler.Unstake)
			})

			r.Route("/lending", func(r chi.Router) {
				r.Get("/pools", lendingHandler.Pools)
				r.Get("/positions", lendingHandler.Positions)
				r.Post("/supply", lendingHandler.Supply)
				r.Post("/borrow", lendingHandler.Borrow)
				r.Post("/withdraw", lendingHandler.Withdraw)
				r.Post("/repay", lendingHandler.Repay)
			})

			r.Route("/swap", func(r chi.Router) {
				r.Post("/quote", swapHandler.Quote)
				r.Post("/execute", swapHandler.Execute)
				r.Get("/history", swapHandler.History)
			})

			r.Route("/alerts", func(r chi.Router) {
				r.Get("/", alertHandler.List)
				r.Post("/", alertHandler.Create)
				r.Get("/triggered", alertHandler.Triggered)

				r.Route("/{alertID}", func(r chi.Router) {
					r.Patch("/", alertHandler.Toggle)
					r.Delete("/", alertHandler.Delete)
				})
			})
		})
	})

	return r
}
