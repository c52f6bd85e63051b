package monitor

import (
	"furniture-inventory/metrics"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is how often store liveness is sampled
const DefaultInterval = 15 * time.Second

// LivenessSource reports whether the data store connection is usable
type LivenessSource interface {
	IsLive() bool
}

// Worker samples store liveness in the background, keeps the store_live
// gauge current and logs every transition between live and unreachable.
type Worker struct {
	store    LivenessSource
	interval time.Duration
	logger   *slog.Logger
	running  bool
	stopped  bool
	live     bool
	mu       sync.Mutex
	stopChan chan struct{}
	done     chan struct{}
}

// NewWorker creates a new liveness worker. A non-positive interval falls
// back to DefaultInterval.
func NewWorker(store LivenessSource, interval time.Duration, logger *slog.Logger) *Worker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		store:    store,
		interval: interval,
		logger:   logger,
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the background liveness loop. A stopped worker stays stopped.
func (w *Worker) Start() {
	w.mu.Lock()
	if w.running || w.stopped {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.live = w.store.IsLive()
	w.mu.Unlock()

	metrics.SetStoreLive(w.live)
	w.logger.Info("liveness monitor started", "interval", w.interval, "live", w.live)

	go w.run()
}

// Stop stops the loop and waits for it to exit
func (w *Worker) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	close(w.stopChan)
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	<-w.done
	w.logger.Info("liveness monitor stopped")
}

// Live returns the last sampled state
func (w *Worker) Live() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.live
}

func (w *Worker) run() {
	defer close(w.done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.sample()
		case <-w.stopChan:
			return
		}
	}
}

func (w *Worker) sample() {
	live := w.store.IsLive()
	metrics.SetStoreLive(live)

	w.mu.Lock()
	changed := live != w.live
	w.live = live
	w.mu.Unlock()

	if !changed {
		return
	}
	if live {
		w.logger.Info("data store reachable again")
	} else {
		w.logger.Warn("data store unreachable")
	}
}
