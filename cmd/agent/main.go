package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/funnel-agent/internal/config"
	"github.com/xavierca1/funnel-agent/internal/infra/database"
	"github.com/xavierca1/funnel-agent/internal/infra/http/handlers"
	"github.com/xavierca1/funnel-agent/internal/infra/http/middleware"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/gtrends"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/instagram"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/openai"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/reddit"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/stripe"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/tiktok"
	"github.com/xavierca1/funnel-agent/internal/infra/integration/youtube"
	"github.com/xavierca1/funnel-agent/internal/infra/mail"
	"github.com/xavierca1/funnel-agent/internal/infra/queue"
	"github.com/xavierca1/funnel-agent/internal/infra/scheduler"
	"github.com/xavierca1/funnel-agent/internal/infra/video"
	"github.com/xavierca1/funnel-agent/internal/session"
	"github.com/xavierca1/funnel-agent/internal/usecase"
)

const usageText = `usage: agent [-config FILE] COMMAND

Commands:
  schedule   run the automation on its daily schedule
  trend      spot trends once, now
  content    generate one piece of content (use -trend-id to pick the trend)
  weekly     send weekly premium plans now
  stats      print the funnel stats report
  web        serve the landing page, chat API and webhook
`

func main() {
	os.Exit(run())
}

func run() int {
	fs := flag.NewFlagSet("agent", flag.ContinueOnError)
	configPath := fs.String("config", "config.yaml", "path to the YAML config file")
	trendID := fs.Int64("trend-id", 0, "trend id for the content command")
	fs.Usage = func() { fmt.Fprint(os.Stderr, usageText) }

	if err := fs.Parse(os.Args[1:]); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}
	command := fs.Arg(0)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "funnel-agent",
	})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("configuration error", "error", err)
		return 1
	}

	app, cleanup, err := buildApp(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		return 1
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch command {
	case "trend":
		if _, err := app.spotTrends.Execute(ctx); err != nil {
			logger.Error("trend spotting failed", "error", err)
			return 1
		}

	case "content":
		var err error
		if *trendID > 0 {
			_, err = app.createContent.ExecuteFromTrend(ctx, *trendID)
		} else {
			_, err = app.createContent.ExecuteDaily(ctx)
		}
		if err != nil {
			logger.Error("content generation failed", "error", err)
			return 1
		}

	case "weekly":
		if err := app.weekly.SendWeeklyPlans(ctx); err != nil {
			logger.Error("weekly delivery failed", "error", err)
			return 1
		}

	case "stats":
		if err := app.printStats(ctx); err != nil {
			logger.Error("stats report failed", "error", err)
			return 1
		}

	case "schedule":
		sched := scheduler.New(app, logger)
		if err := sched.Register(cfg.Scheduling.TrendCheckTime, cfg.Scheduling.ContentGenerationTimes); err != nil {
			logger.Error("invalid schedule", "error", err)
			return 1
		}
		sched.Run(ctx)

	case "web":
		if err := app.serveWeb(ctx, cfg.Port); err != nil {
			logger.Error("web server failed", "error", err)
			return 1
		}

	default:
		fs.Usage()
		return 2
	}

	return 0
}

// app holds the wired object graph shared by every command.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	db       *sql.DB
	rabbit   *queue.RabbitMQ
	sessions session.Store

	spotTrends    *usecase.SpotTrends
	createContent *usecase.CreateContent
	chat          *usecase.Chat
	subscription  *usecase.Subscription
	weekly        *usecase.WeeklyDelivery
	payments      *stripe.Client
}

func buildApp(cfg *config.Config, logger *log.Logger) (*app, func(), error) {
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	// The broker is optional: without it premium activation delivers inline.
	var rabbit *queue.RabbitMQ
	if cfg.Queue.AMQPURL != "" {
		rabbit, err = queue.NewRabbitMQ(cfg.Queue.AMQPURL)
		if err != nil {
			logger.Warn("rabbitmq unavailable, premium delivery will run inline", "error", err)
			rabbit = nil
		}
	}

	// 1. Repositories
	trendRepo := database.NewTrendRepository(db)
	contentRepo := database.NewContentRepository(db)
	leadRepo := database.NewLeadRepository(db)
	convRepo := database.NewConversationRepository(db)
	planRepo := database.NewMealPlanRepository(db)

	// 2. Integrations
	llm := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens)
	payments := stripe.NewClient(cfg.Payments.StripeSecretKey, cfg.Payments.StripeWebhookSecret)
	mailSender, err := mail.NewEmailSender(
		cfg.Email.Host, cfg.Email.Port, cfg.Email.User, cfg.Email.Password,
		cfg.Email.FromEmail, cfg.Email.FromName,
	)
	if err != nil {
		db.Close()
		return nil, nil, err
	}

	// 3. Usecases
	generator := &usecase.MealPlanGenerator{LLM: llm, Persona: cfg.Chatbot.Persona}

	spotTrends := &usecase.SpotTrends{
		Scrapers: []usecase.TrendScraper{
			&usecase.RedditSource{Client: reddit.NewClient(), Subreddits: cfg.Scraping.Subreddits},
			&usecase.GoogleTrendsSource{Client: gtrends.NewClient(""), Keywords: cfg.Scraping.TrendKeywords},
			&usecase.StaticHashtagSource{},
		},
		LLM:       llm,
		TrendRepo: trendRepo,
		Niche:     cfg.Content.Niche,
		Logger:    logger,
	}

	createContent := &usecase.CreateContent{
		LLM:         llm,
		TrendRepo:   trendRepo,
		ContentRepo: contentRepo,
		Composer:    video.NewComposer(llm, cfg.Content.OutputDir, cfg.Content.BackgroundClip, logger),
		Publishers: map[string]usecase.PlatformPublisher{
			"instagram": instagram.NewClient(
				cfg.SocialMedia.Instagram.AccessToken,
				cfg.SocialMedia.Instagram.BusinessAccountID,
			),
			"tiktok":  tiktok.NewClient(),
			"youtube": youtube.NewClient(),
		},
		Niche:              cfg.Content.Niche,
		BrandVoice:         cfg.Content.BrandVoice,
		CallToAction:       cfg.Content.CallToAction,
		PublicVideoBaseURL: cfg.SocialMedia.PublicVideoBaseURL,
		PostsPerDay:        cfg.Content.PostsPerDay,
		Logger:             logger,
	}

	weekly := &usecase.WeeklyDelivery{
		LeadRepo:  leadRepo,
		PlanRepo:  planRepo,
		Email:     mailSender,
		Generator: generator,
		Logger:    logger,
	}

	subscription := &usecase.Subscription{
		LeadRepo:   leadRepo,
		Payments:   payments,
		Deliverer:  weekly,
		PriceID:    cfg.Payments.StripePriceID,
		SuccessURL: cfg.Payments.SuccessURL,
		CancelURL:  cfg.Payments.CancelURL,
		Logger:     logger,
	}
	if rabbit != nil {
		subscription.Producer = queue.NewProducer(rabbit.Ch)
	}

	// One session store backs both the chat and the subscribe endpoint, so
	// the upgrade call can read the preferences the funnel captured.
	sessions := session.NewMemoryStore()

	chat := &usecase.Chat{
		Sessions:     sessions,
		LLM:          llm,
		ConvRepo:     convRepo,
		LeadRepo:     leadRepo,
		PlanRepo:     planRepo,
		Email:        mailSender,
		Generator:    generator,
		Persona:      cfg.Chatbot.Persona,
		FreePlanDays: cfg.Chatbot.FreePlanDays,
		PremiumPrice: cfg.Chatbot.PremiumPrice,
		Logger:       logger,
	}

	a := &app{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		rabbit:        rabbit,
		sessions:      sessions,
		spotTrends:    spotTrends,
		createContent: createContent,
		chat:          chat,
		subscription:  subscription,
		weekly:        weekly,
		payments:      payments,
	}

	cleanup := func() {
		if rabbit != nil {
			rabbit.Close()
		}
		db.Close()
	}
	return a, cleanup, nil
}

// SpotTrends, GenerateContent, SendWeeklyPlans and ReportStats are the
// scheduler job entry points.
func (a *app) SpotTrends(ctx context.Context) error {
	_, err := a.spotTrends.Execute(ctx)
	return err
}

func (a *app) GenerateContent(ctx context.Context) error {
	_, err := a.createContent.ExecuteDaily(ctx)
	return err
}

func (a *app) SendWeeklyPlans(ctx context.Context) error {
	return a.weekly.SendWeeklyPlans(ctx)
}

func (a *app) ReportStats(ctx context.Context) error {
	stats, err := a.subscription.Stats(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("funnel stats",
		"total_leads", stats.TotalLeads,
		"free", stats.FreeUsers,
		"premium", stats.PremiumUsers,
		"conversion_rate", stats.ConversionRate,
		"signups_last_7d", stats.RecentSignups,
	)
	return nil
}

func (a *app) printStats(ctx context.Context) error {
	stats, err := a.subscription.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Println("Funnel stats")
	fmt.Printf("  Total leads:       %d\n", stats.TotalLeads)
	fmt.Printf("  Free users:        %d\n", stats.FreeUsers)
	fmt.Printf("  Premium users:     %d\n", stats.PremiumUsers)
	fmt.Printf("  Conversion rate:   %.2f%%\n", stats.ConversionRate)
	fmt.Printf("  Signups (7 days):  %d\n", stats.RecentSignups)
	return nil
}

func (a *app) serveWeb(ctx context.Context, port string) error {
	// The activation worker consumes the queue alongside the web server,
	// so a single process covers the whole funnel.
	if a.rabbit != nil {
		worker := queue.NewWorker(a.rabbit.Ch, a.weekly, a.logger)
		go func() {
			if err := worker.Start(ctx); err != nil && ctx.Err() == nil {
				a.logger.Error("activation worker stopped", "error", err)
			}
		}()
	}

	// 4. Handlers
	homeHandler := handlers.NewHomeHandler()
	chatHandler := handlers.NewChatHandler(a.chat)
	subscribeHandler := handlers.NewSubscribeHandler(a.subscription, a.sessions)
	webhookHandler := handlers.NewWebhookHandler(a.payments, a.subscription, a.logger)

	var rabbitConn *amqp091.Connection
	if a.rabbit != nil {
		rabbitConn = a.rabbit.Conn
	}
	healthHandler := handlers.NewHealthHandler(a.db, rabbitConn, a.payments.Configured())

	// 5. Router
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
	}))

	r.Get("/", homeHandler.Handle)
	r.Post("/api/chat", chatHandler.Handle)
	r.Post("/api/subscribe", subscribeHandler.Handle)
	r.Post("/webhook/stripe", webhookHandler.Handle)
	r.Get("/api/health", healthHandler.Handle)
	r.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	a.logger.Info("web server listening", "port", port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
