// Package config loads the agent configuration from a YAML file or, for
// production deployments, from individual environment variables. The loaded
// value is passed explicitly into every constructor — there is no singleton.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type OpenAIConfig struct {
	APIKey    string `yaml:"api_key"`
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
}

type InstagramConfig struct {
	AccessToken       string `yaml:"access_token"`
	BusinessAccountID string `yaml:"business_account_id"`
}

type SocialMediaConfig struct {
	Instagram InstagramConfig   `yaml:"instagram"`
	TikTok    map[string]string `yaml:"tiktok"`
	YouTube   map[string]string `yaml:"youtube"`
	// PublicVideoBaseURL is where finished clips are reachable over HTTP;
	// the Instagram Graph API pulls the video from a URL, not an upload.
	PublicVideoBaseURL string `yaml:"public_video_base_url"`
}

type EmailConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	User      string `yaml:"user"`
	Password  string `yaml:"password"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type ScrapingConfig struct {
	Subreddits    []string `yaml:"subreddits"`
	TrendKeywords []string `yaml:"trend_keywords"`
	Categories    []string `yaml:"categories"`
}

type ContentConfig struct {
	Niche        string `yaml:"niche"`
	BrandVoice   string `yaml:"brand_voice"`
	CallToAction string `yaml:"call_to_action"`
	PostsPerDay  int    `yaml:"posts_per_day"`
	OutputDir    string `yaml:"output_dir"`
	// Optional looping background footage for the composer.
	BackgroundClip string `yaml:"background_clip"`
}

type ChatbotConfig struct {
	Persona      string `yaml:"persona"`
	FreePlanDays int    `yaml:"free_plan_days"`
	PremiumPrice int    `yaml:"premium_price"` // dollars per month
}

type SchedulingConfig struct {
	TrendCheckTime         string   `yaml:"trend_check_time"`
	ContentGenerationTimes []string `yaml:"content_generation_times"`
}

type PaymentsConfig struct {
	StripeSecretKey     string `yaml:"stripe_secret_key"`
	StripePriceID       string `yaml:"stripe_price_id"`
	StripeWebhookSecret string `yaml:"stripe_webhook_secret"`
	SuccessURL          string `yaml:"success_url"`
	CancelURL           string `yaml:"cancel_url"`
}

type QueueConfig struct {
	AMQPURL string `yaml:"amqp_url"`
}

type Config struct {
	OpenAI      OpenAIConfig      `yaml:"openai"`
	SocialMedia SocialMediaConfig `yaml:"social_media"`
	Email       EmailConfig       `yaml:"email"`
	Database    DatabaseConfig    `yaml:"database"`
	Scraping    ScrapingConfig    `yaml:"scraping"`
	Content     ContentConfig     `yaml:"content"`
	Chatbot     ChatbotConfig     `yaml:"chatbot"`
	Scheduling  SchedulingConfig  `yaml:"scheduling"`
	Payments    PaymentsConfig    `yaml:"payments"`
	Queue       QueueConfig       `yaml:"queue"`
	Port        string            `yaml:"port"`
}

// Load reads configuration. Precedence: defaults, then the YAML file at path
// (if it exists), then environment variables. A .env file in the working
// directory is folded into the environment first.
func Load(path string) (*Config, error) {
	godotenv.Load()

	cfg := defaults()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(raw, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	applyEnv(cfg)

	if cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("config: OPENAI_API_KEY is required (set it or provide a config file)")
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		OpenAI: OpenAIConfig{Model: "gpt-4", MaxTokens: 1000},
		Email: EmailConfig{
			Port:     587,
			FromName: "Meal Prep AI",
		},
		Database: DatabaseConfig{Path: "data/funnel.db"},
		Scraping: ScrapingConfig{
			Subreddits:    []string{"MealPrepSunday", "EatCheapAndHealthy", "HealthyFood"},
			TrendKeywords: []string{"meal prep", "healthy eating", "diet"},
			Categories:    []string{"Food", "Health"},
		},
		Content: ContentConfig{
			Niche:        "meal prep and healthy eating",
			BrandVoice:   "friendly, helpful meal prep expert",
			CallToAction: "Want a custom meal plan? Click the link in my bio!",
			PostsPerDay:  3,
			OutputDir:    "output/videos",
		},
		Chatbot: ChatbotConfig{
			Persona:      "friendly AI nutrition assistant",
			FreePlanDays: 3,
			PremiumPrice: 19,
		},
		Scheduling: SchedulingConfig{
			TrendCheckTime:         "09:00",
			ContentGenerationTimes: []string{"10:00", "14:00", "18:00"},
		},
		Port: "8080",
	}
}

func applyEnv(cfg *Config) {
	setString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	setInt(&cfg.OpenAI.MaxTokens, "OPENAI_MAX_TOKENS")

	setString(&cfg.Email.Host, "MAIL_HOST")
	setInt(&cfg.Email.Port, "MAIL_PORT")
	setString(&cfg.Email.User, "MAIL_USER")
	setString(&cfg.Email.Password, "MAIL_PASS")
	setString(&cfg.Email.FromEmail, "FROM_EMAIL")
	setString(&cfg.Email.FromName, "FROM_NAME")

	setString(&cfg.Database.Path, "DATABASE_PATH")

	setString(&cfg.Content.Niche, "CONTENT_NICHE")
	setString(&cfg.Content.BrandVoice, "BRAND_VOICE")
	setString(&cfg.Content.CallToAction, "CTA")
	setInt(&cfg.Content.PostsPerDay, "POSTS_PER_DAY")

	setString(&cfg.Chatbot.Persona, "CHATBOT_PERSONA")
	setInt(&cfg.Chatbot.FreePlanDays, "FREE_PLAN_DAYS")
	setInt(&cfg.Chatbot.PremiumPrice, "PREMIUM_PRICE")

	setString(&cfg.Scheduling.TrendCheckTime, "TREND_CHECK_TIME")

	setString(&cfg.Payments.StripeSecretKey, "STRIPE_SECRET_KEY")
	setString(&cfg.Payments.StripePriceID, "STRIPE_PRICE_ID")
	setString(&cfg.Payments.StripeWebhookSecret, "STRIPE_WEBHOOK_SECRET")
	setString(&cfg.Payments.SuccessURL, "STRIPE_SUCCESS_URL")
	setString(&cfg.Payments.CancelURL, "STRIPE_CANCEL_URL")

	setString(&cfg.Queue.AMQPURL, "AMQP_URL")

	setString(&cfg.SocialMedia.Instagram.AccessToken, "INSTAGRAM_ACCESS_TOKEN")
	setString(&cfg.SocialMedia.Instagram.BusinessAccountID, "INSTAGRAM_ACCOUNT_ID")
	setString(&cfg.SocialMedia.PublicVideoBaseURL, "PUBLIC_VIDEO_BASE_URL")

	setString(&cfg.Port, "PORT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
