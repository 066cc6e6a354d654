package browser

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

// Evaluator is the part of playwright.Page the scroll helpers need.
type Evaluator interface {
	Evaluate(expression string, arg ...interface{}) (interface{}, error)
}

const (
	scrollHeightJS   = "document.body.scrollHeight"
	scrollToBottomJS = "window.scrollTo(0, document.body.scrollHeight)"
)

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RandomDelay waits a random duration in [min, max].
func RandomDelay(ctx context.Context, min, max time.Duration) error {
	if max <= min {
		return Sleep(ctx, min)
	}
	return Sleep(ctx, min+time.Duration(rand.Int63n(int64(max-min)+1)))
}

// ScrollToEnd scrolls to the bottom until the document height stops growing,
// so lazily loaded results are rendered. It gives up after maxScrolls rounds
// and returns the number of scrolls performed.
func ScrollToEnd(ctx context.Context, page Evaluator, pause time.Duration, maxScrolls int) (int, error) {
	last, err := scrollHeight(page)
	if err != nil {
		return 0, err
	}

	scrolls := 0
	for maxScrolls <= 0 || scrolls < maxScrolls {
		if _, err := page.Evaluate(scrollToBottomJS); err != nil {
			return scrolls, fmt.Errorf("browser: scroll: %w", err)
		}
		scrolls++

		if err := Sleep(ctx, pause); err != nil {
			return scrolls, err
		}

		h, err := scrollHeight(page)
		if err != nil {
			return scrolls, err
		}
		if h == last {
			break
		}
		last = h
	}
	return scrolls, nil
}

func scrollHeight(page Evaluator) (int64, error) {
	v, err := page.Evaluate(scrollHeightJS)
	if err != nil {
		return 0, fmt.Errorf("browser: read scroll height: %w", err)
	}
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case float64:
		return int64(n), nil
	default:
		return 0, fmt.Errorf("browser: unexpected scroll height %T", v)
	}
}
