package usecase

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/xavierca1/funnel-agent/internal/entity"
)

// CreateContent runs the content factory: trend in, published video out.
// Each stage that succeeds is persisted, so a failure partway leaves a
// draft or an unpublished video behind instead of losing the work.
type CreateContent struct {
	LLM         LLMClient
	TrendRepo   TrendRepositoryInterface
	ContentRepo ContentRepositoryInterface
	Composer    VideoComposer
	Publishers  map[string]PlatformPublisher

	Niche              string
	BrandVoice         string
	CallToAction       string
	PublicVideoBaseURL string
	PostsPerDay        int
	Logger             *log.Logger
}

// ExecuteFromTrend produces one piece of content for a specific trend.
func (uc *CreateContent) ExecuteFromTrend(ctx context.Context, trendID int64) (*entity.Content, error) {
	trend, err := uc.TrendRepo.GetByID(ctx, trendID)
	if err != nil {
		return nil, &DomainError{Code: "TREND_NOT_FOUND", Message: fmt.Sprintf("trend %d not found", trendID)}
	}
	return uc.produce(ctx, trend)
}

// ExecuteDaily consumes up to PostsPerDay of the freshest unused trends.
// Per-trend failures are collected, not propagated: one bad trend must not
// cost the rest of the day's posts.
func (uc *CreateContent) ExecuteDaily(ctx context.Context) ([]*entity.Content, error) {
	limit := uc.PostsPerDay
	if limit <= 0 {
		limit = 1
	}

	trends, err := uc.TrendRepo.GetUnused(ctx, limit)
	if err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("load unused trends: %v", err)}
	}
	if len(trends) == 0 {
		return nil, &DomainError{Code: "NO_UNUSED_TRENDS", Message: "no unused trends available, run trend spotting first"}
	}

	var created []*entity.Content
	failed := 0
	for _, trend := range trends {
		content, err := uc.produce(ctx, trend)
		if err != nil {
			uc.Logger.Error("content run failed for trend", "trend_id", trend.ID, "error", err)
			failed++
			continue
		}
		created = append(created, content)
	}

	uc.Logger.Info("daily content run done", "created", len(created), "failed", failed)
	if len(created) == 0 {
		return nil, &TechnicalError{Code: "CONTENT_ERROR", Message: fmt.Sprintf("all %d content runs failed", failed)}
	}
	return created, nil
}

func (uc *CreateContent) produce(ctx context.Context, trend *entity.Trend) (*entity.Content, error) {
	raw, err := uc.LLM.Complete(ctx, uc.scriptSystemPrompt(), uc.scriptPrompt(trend))
	if err != nil {
		return nil, &TechnicalError{Code: "LLM_ERROR", Message: fmt.Sprintf("generate script: %v", err)}
	}

	script := ParseScript(raw)
	if script.Hook == "" {
		uc.Logger.Warn("script missing hook section, continuing with body only", "trend_id", trend.ID)
	}

	content := &entity.Content{
		TrendID: &trend.ID,
		Script:  script.FullText,
	}
	if err := uc.ContentRepo.Save(ctx, content); err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("save content: %v", err)}
	}
	uc.Logger.Info("script generated", "content_id", content.ID, "trend_id", trend.ID)

	name := fmt.Sprintf("content_%d_%s", content.ID, time.Now().Format("20060102"))
	videoPath, err := uc.Composer.Compose(ctx, name, script.Hook, script.MainContent, script.Narration())
	if err != nil {
		return nil, &TechnicalError{Code: "VIDEO_ERROR", Message: fmt.Sprintf("compose video: %v", err)}
	}

	if err := uc.ContentRepo.SetVideoPath(ctx, content.ID, videoPath); err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("record video path: %v", err)}
	}
	content.VideoPath = videoPath
	content.Status = entity.ContentStatusCreated
	if err := uc.ContentRepo.UpdateStatus(ctx, content.ID, entity.ContentStatusCreated, nil); err != nil {
		return nil, &TechnicalError{Code: "DB_ERROR", Message: fmt.Sprintf("update content status: %v", err)}
	}

	uc.publish(ctx, content, script, trend)
	return content, nil
}

// publish posts the clip to every configured platform. Publishing is best
// effort: one success marks the content published and consumes the trend;
// zero successes leave it in created for a later retry.
func (uc *CreateContent) publish(ctx context.Context, content *entity.Content, script Script, trend *entity.Trend) {
	hashtags := append(append([]string{}, DefaultHashtags...), TopicHashtags(trend.Topic, 3)...)
	caption := BuildCaption(script.Hook, uc.CallToAction, hashtags)
	videoURL := uc.publicVideoURL(content.VideoPath)

	published := false
	for platform, publisher := range uc.Publishers {
		if !publisher.Configured() {
			uc.Logger.Debug("publisher not configured, skipping", "platform", platform)
			continue
		}
		if videoURL == "" {
			uc.Logger.Warn("no public video base url, cannot publish", "platform", platform)
			continue
		}

		mediaID, err := publisher.PublishVideo(ctx, videoURL, caption)
		if err != nil {
			uc.Logger.Error("publish failed", "platform", platform, "content_id", content.ID, "error", err)
			continue
		}
		uc.Logger.Info("published", "platform", platform, "content_id", content.ID, "media_id", mediaID)
		published = true
	}

	if !published {
		return
	}

	now := time.Now()
	if err := uc.ContentRepo.UpdateStatus(ctx, content.ID, entity.ContentStatusPublished, &now); err != nil {
		uc.Logger.Error("mark content published failed", "content_id", content.ID, "error", err)
		return
	}
	content.Status = entity.ContentStatusPublished
	content.PublishedAt = &now

	if err := uc.TrendRepo.MarkUsed(ctx, trend.ID); err != nil {
		uc.Logger.Error("mark trend used failed", "trend_id", trend.ID, "error", err)
	}
}

func (uc *CreateContent) publicVideoURL(videoPath string) string {
	if uc.PublicVideoBaseURL == "" || videoPath == "" {
		return ""
	}
	u, err := url.JoinPath(uc.PublicVideoBaseURL, filepath.Base(videoPath))
	if err != nil {
		return ""
	}
	return u
}

func (uc *CreateContent) scriptSystemPrompt() string {
	return fmt.Sprintf(
		"You are a %s creating short-form video scripts about %s. "+
			"Scripts run 30-60 seconds when read aloud.", uc.BrandVoice, uc.Niche)
}

func (uc *CreateContent) scriptPrompt(trend *entity.Trend) string {
	return fmt.Sprintf(`Write a short-form video script about this trending topic: %s

Context: %s

Structure your answer with exactly these labeled sections:
**HOOK:** one attention-grabbing opening line (under 10 words)
**MAIN CONTENT:** the body of the script, conversational, 3-5 short sentences
**CTA:** %s
**VISUAL NOTES:** brief direction for the on-screen visuals`,
		trend.Topic, trend.Summary, uc.CallToAction)
}
