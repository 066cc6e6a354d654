package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/playwright-community/playwright-go"

	"go-vacancy-collector/pkg/logging"
)

// Screenshotter is the part of playwright.Page used for debug captures.
type Screenshotter interface {
	Screenshot(options ...playwright.PageScreenshotOptions) ([]byte, error)
}

// ScreenShotDebugger saves full-page screenshots when a page fails to load.
// A nil debugger or an empty dir disables capturing.
type ScreenShotDebugger struct {
	outputDir string
	logger    *logging.Logger
	now       func() time.Time
}

func NewScreenShotDebugger(dir string, logger *logging.Logger) *ScreenShotDebugger {
	if dir == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &ScreenShotDebugger{outputDir: dir, logger: logger, now: time.Now}
}

// CaptureAndLog writes <name>_<timestamp>.png and returns its path.
func (s *ScreenShotDebugger) CaptureAndLog(page Screenshotter, name, message string) (string, error) {
	if s == nil {
		return "", nil
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("screenshot: create dir: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.png", name, s.now().Format("2006-01-02_15-04-05"))
	path := filepath.Join(s.outputDir, filename)
	s.logger.Info(message, "screenshot", path)

	if _, err := page.Screenshot(playwright.PageScreenshotOptions{
		Path:     playwright.String(path),
		FullPage: playwright.Bool(true),
	}); err != nil {
		s.logger.Warn("failed to capture screenshot", "error", err)
		return "", fmt.Errorf("screenshot: capture: %w", err)
	}
	return path, nil
}
