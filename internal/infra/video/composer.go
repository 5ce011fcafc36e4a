// Package video turns a narration script into a vertical short-form clip.
// Audio comes from a TTS backend; the visuals are composed with ffmpeg,
// either over a looping background clip or a solid color canvas.
package video

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	width     = 1080
	height    = 1920
	frameRate = 30

	// The hook caption holds the screen for the first seconds, then the
	// body caption takes over for the rest of the clip.
	hookSeconds = 3.0
)

// Speaker synthesizes narration audio into the file at outPath.
type Speaker interface {
	Speak(ctx context.Context, text, outPath string) error
}

type Composer struct {
	tts            Speaker
	outputDir      string
	backgroundClip string
	logger         *log.Logger
}

func NewComposer(tts Speaker, outputDir, backgroundClip string, logger *log.Logger) *Composer {
	return &Composer{
		tts:            tts,
		outputDir:      outputDir,
		backgroundClip: backgroundClip,
		logger:         logger,
	}
}

// Compose renders the clip for a script and returns the output path.
// name becomes the file stem, so callers pass something unique per content.
func (c *Composer) Compose(ctx context.Context, name, hook, body, narration string) (string, error) {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	audioPath := filepath.Join(c.outputDir, name+".mp3")
	if err := c.tts.Speak(ctx, narration, audioPath); err != nil {
		return "", fmt.Errorf("synthesize narration: %w", err)
	}
	defer os.Remove(audioPath)

	duration, err := probeDuration(ctx, audioPath)
	if err != nil {
		return "", err
	}
	c.logger.Debug("narration ready", "file", audioPath, "seconds", duration)

	videoPath := filepath.Join(c.outputDir, name+".mp4")
	args := c.composeArgs(audioPath, videoPath, hook, body, duration)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("ffmpeg compose: %w: %s", err, tail(string(output)))
	}

	c.logger.Info("video composed", "file", videoPath, "seconds", duration)
	return videoPath, nil
}

func (c *Composer) composeArgs(audioPath, videoPath, hook, body string, duration float64) []string {
	args := []string{"-y"}

	if c.backgroundClip != "" {
		args = append(args, "-stream_loop", "-1", "-i", c.backgroundClip)
	} else {
		args = append(args, "-f", "lavfi",
			"-i", fmt.Sprintf("color=c=0x1a472a:s=%dx%d:r=%d", width, height, frameRate))
	}
	args = append(args, "-i", audioPath)

	hookEnd := hookSeconds
	if duration < hookEnd {
		hookEnd = duration
	}

	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d", width, height, width, height),
		drawText(hook, 72, fmt.Sprintf("between(t,0,%.1f)", hookEnd)),
		drawText(body, 48, fmt.Sprintf("gte(t,%.1f)", hookEnd)),
	}

	// Input 0 is video, input 1 the narration. Background clips can carry
	// their own audio track, so map streams explicitly.
	args = append(args,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-vf", strings.Join(filters, ","),
		"-t", fmt.Sprintf("%.2f", duration),
		"-r", strconv.Itoa(frameRate),
		"-c:v", "libx264",
		"-preset", "fast",
		"-pix_fmt", "yuv420p",
		"-c:a", "aac",
		"-shortest",
		videoPath,
	)
	return args
}

func drawText(text string, fontSize int, enable string) string {
	return fmt.Sprintf(
		"drawtext=text='%s':fontsize=%d:fontcolor=white:borderw=4:bordercolor=black:x=(w-text_w)/2:y=(h-text_h)/2:enable='%s'",
		escapeDrawText(wrapText(text, 24)), fontSize, enable)
}

// probeDuration asks ffprobe for the audio length in seconds.
func probeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(string(output)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse ffprobe duration: %w", err)
	}
	return duration, nil
}

// escapeDrawText escapes the characters the drawtext filter treats specially.
func escapeDrawText(text string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return replacer.Replace(text)
}

// wrapText inserts line breaks so captions fit a vertical frame.
func wrapText(text string, maxChars int) string {
	words := strings.Fields(text)
	var lines []string
	var current string
	for _, word := range words {
		if current == "" {
			current = word
		} else if len(current)+1+len(word) <= maxChars {
			current += " " + word
		} else {
			lines = append(lines, current)
			current = word
		}
	}
	if current != "" {
		lines = append(lines, current)
	}
	return strings.Join(lines, "\n")
}

func tail(s string) string {
	const max = 500
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
