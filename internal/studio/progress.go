package studio

import (
	"sync"
	"time"
)

// Rotating status lines shown while a generation is in flight. Purely
// cosmetic; the rotation has no effect on pipeline correctness.
var loadingMessages = []string{
	"Initializing render engine...",
	"Analyzing style references...",
	"Injecting neural prompts...",
	"Synthesizing pixels...",
	"Finalizing masterwork...",
}

// DefaultProgressInterval is the cadence of the progress message rotation.
const DefaultProgressInterval = 2 * time.Second

// progressTicker rotates loading messages for the lifetime of exactly one
// generation. stop is safe to call more than once and guarantees the
// underlying timer goroutine exits.
type progressTicker struct {
	done chan struct{}
	once sync.Once
}

// startProgress publishes the first message immediately, then rotates on
// every tick until stopped.
func startProgress(interval time.Duration, publish func(string)) *progressTicker {
	if interval <= 0 {
		interval = DefaultProgressInterval
	}
	p := &progressTicker{done: make(chan struct{})}
	publish(loadingMessages[0])

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		idx := 0
		for {
			select {
			case <-p.done:
				return
			case <-ticker.C:
				idx = (idx + 1) % len(loadingMessages)
				publish(loadingMessages[idx])
			}
		}
	}()

	return p
}

func (p *progressTicker) stop() {
	p.once.Do(func() {
		close(p.done)
	})
}
