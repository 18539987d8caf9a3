package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/yanqian/pocket-activities/pkg/util"
)

// SunsetPassedText is shown once the sunset instant is reached.
const SunsetPassedText = "Sunset has passed."

// CountdownText renders the time left until sunset.
func CountdownText(now, sunset time.Time) string {
	minutes, ok := util.MinutesUntil(now, sunset)
	if !ok {
		return SunsetPassedText
	}
	hours, rest := minutes/60, minutes%60
	parts := make([]string, 0, 2)
	if hours > 0 {
		parts = append(parts, plural(hours, "hour"))
	}
	if rest > 0 || hours == 0 {
		parts = append(parts, plural(rest, "minute"))
	}
	return "in " + strings.Join(parts, " ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// countdown ticks until sunset and stops itself once sunset passes.
type countdown struct {
	stopCh chan struct{}
	once   sync.Once
	done   chan struct{}
}

func startCountdown(interval time.Duration, sunset time.Time, now func() time.Time, emit func(text string, passed bool)) *countdown {
	c := &countdown{stopCh: make(chan struct{}), done: make(chan struct{})}
	go func() {
		defer close(c.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stopCh:
				return
			case <-ticker.C:
				current := now()
				passed := !current.Before(sunset)
				emit(CountdownText(current, sunset), passed)
				if passed {
					return
				}
			}
		}
	}()
	return c
}

// stop ends the ticker goroutine and waits for it to exit.
func (c *countdown) stop() {
	if c == nil {
		return
	}
	c.once.Do(func() { close(c.stopCh) })
	<-c.done
}
