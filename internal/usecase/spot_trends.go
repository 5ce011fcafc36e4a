package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/xavierca1/funnel-agent/internal/entity"
)

// SpotTrends collects raw signals from every source, stores them, and asks
// the model to pick the single most promising topic for the niche. The
// analyzed trend is what content generation consumes.
type SpotTrends struct {
	Scrapers  []TrendScraper
	LLM       LLMClient
	TrendRepo TrendRepositoryInterface
	Niche     string
	Logger    *log.Logger
}

const topicMarker = "**Trending Topic:**"

func (uc *SpotTrends) Execute(ctx context.Context) (*entity.Trend, error) {
	var collected []entity.Trend

	for _, scraper := range uc.Scrapers {
		trends, err := scraper.Scrape(ctx)
		if err != nil {
			// One dead source must not stop the run; the static
			// hashtag source always yields something.
			uc.Logger.Warn("trend source failed", "source", scraper.Name(), "error", err)
			continue
		}
		uc.Logger.Info("trend source scraped", "source", scraper.Name(), "count", len(trends))
		collected = append(collected, trends...)
	}

	if len(collected) == 0 {
		return nil, &TechnicalError{Code: "NO_TREND_DATA", Message: "all trend sources failed"}
	}

	for i := range collected {
		if err := uc.TrendRepo.Save(ctx, &collected[i]); err != nil {
			return nil, &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("save scraped trend: %v", err)}
		}
	}

	analysis, err := uc.LLM.Complete(ctx, uc.analysisSystemPrompt(), buildAnalysisPrompt(collected))
	if err != nil {
		return nil, &TechnicalError{Code: "LLM_ERROR", Message: fmt.Sprintf("trend analysis: %v", err)}
	}

	trend := &entity.Trend{
		Source:  "analysis",
		Topic:   extractTopic(analysis),
		Summary: analysis,
	}
	if err := uc.TrendRepo.Save(ctx, trend); err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("save analyzed trend: %v", err)}
	}

	uc.Logger.Info("trend analyzed", "trend_id", trend.ID, "topic", trend.Topic)
	return trend, nil
}

func (uc *SpotTrends) analysisSystemPrompt() string {
	return fmt.Sprintf(
		"You are a social media trend analyst for the %s niche. "+
			"You pick topics with viral short-form video potential.", uc.Niche)
}

func buildAnalysisPrompt(trends []entity.Trend) string {
	var b strings.Builder
	b.WriteString("Here are today's raw signals from Reddit, Google Trends and niche hashtags:\n\n")

	for _, t := range trends {
		fmt.Fprintf(&b, "- [%s] %s", t.Source, t.Topic)
		if t.Summary != "" {
			fmt.Fprintf(&b, " (%s)", t.Summary)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nPick the ONE topic with the best short-form video potential today. ")
	b.WriteString("Start your answer with a line in exactly this format:\n")
	b.WriteString(topicMarker + " <the topic>\n")
	b.WriteString("Then explain in 2-3 sentences why it will perform and what angle to take.")
	return b.String()
}

// extractTopic finds the marker line the prompt asked for. Models do not
// always comply, so the first non-empty line is the fallback.
func extractTopic(analysis string) string {
	for _, line := range strings.Split(analysis, "\n") {
		trimmed := strings.TrimSpace(line)
		if rest, found := strings.CutPrefix(trimmed, topicMarker); found {
			if topic := strings.TrimSpace(rest); topic != "" {
				return topic
			}
		}
	}

	for _, line := range strings.Split(analysis, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
