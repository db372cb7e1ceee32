// Package refresh keeps the in-memory device list in step with the
// gateway: one initial load, then a silent poll on a fixed interval.
package refresh

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/kalambet/solaces/internal/docs"
	"github.com/kalambet/solaces/internal/gateway"
)

// DefaultInterval is the background poll period.
const DefaultInterval = 5 * time.Second

// Fetcher returns the authoritative device list.
// Implemented by gateway.Client.
type Fetcher interface {
	ListDevices(ctx context.Context) ([]docs.Device, error)
}

// Sink receives refreshed state. Implemented by astra.Controller.
// The *Locked methods are only called from inside Locked.
type Sink interface {
	Locked(fn func())
	ReplaceDevicesLocked(devices []docs.Device)
	RestoreCachedLocked()
}

// Status is what the device page shows next to the list.
type Status struct {
	Loading     bool      `json:"loading"`
	LoadError   string    `json:"loadError,omitempty"`
	LastRefresh time.Time `json:"lastRefresh,omitempty"`
}

// Loop polls a Fetcher and pushes results into a Sink.
type Loop struct {
	fetcher  Fetcher
	sink     Sink
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	group singleflight.Group

	mu     sync.Mutex
	status Status
}

// NewLoop creates a Loop. If interval is <= 0, it defaults to DefaultInterval.
func NewLoop(fetcher Fetcher, sink Sink, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		fetcher:  fetcher,
		sink:     sink,
		interval: interval,
		logger:   slog.Default(),
		now:      time.Now,
	}
}

// Status returns a snapshot of the load state.
func (l *Loop) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// Handle controls a running loop.
type Handle struct {
	loop   *Loop
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	// cancelled is guarded by the sink lock.
	cancelled bool
}

// Start runs the initial load and then polls until ctx is done or the
// handle is cancelled.
func (l *Loop) Start(ctx context.Context) *Handle {
	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{loop: l, ctx: ctx, cancel: cancel, done: make(chan struct{})}

	l.mu.Lock()
	l.status.Loading = true
	l.status.LoadError = ""
	l.mu.Unlock()

	go h.run()
	return h
}

func (h *Handle) run() {
	defer close(h.done)

	h.refresh(h.ctx, true)

	ticker := time.NewTicker(h.loop.interval)
	defer ticker.Stop()
	for {
		select {
		case <-h.ctx.Done():
			return
		case <-ticker.C:
			h.refresh(h.ctx, false)
		}
	}
}

// Cancel stops the loop. No device or status change is applied after
// Cancel returns, even for a fetch that is already in flight.
func (h *Handle) Cancel() {
	h.loop.sink.Locked(func() { h.cancelled = true })
	h.cancel()
}

// Status returns the load state of the running loop.
func (h *Handle) Status() Status {
	return h.loop.Status()
}

// Done is closed once the loop goroutine has exited.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// RefreshNow performs an out-of-band background refresh. It shares the
// fetch with a tick that is already running. The fetch itself runs on the
// loop's context; if ctx ends first, RefreshNow returns ctx.Err() and the
// load state is left as it was.
func (h *Handle) RefreshNow(ctx context.Context) error {
	return h.refresh(ctx, false)
}

func (h *Handle) refresh(ctx context.Context, initial bool) error {
	l := h.loop
	ch := l.group.DoChan("devices", func() (any, error) {
		return l.fetcher.ListDevices(h.ctx)
	})

	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		return ctx.Err()
	}
	err := res.Err

	var devices []docs.Device
	if err == nil {
		devices = res.Val.([]docs.Device)
	} else if h.ctx.Err() != nil {
		// Shutdown, not a gateway fault.
		return err
	} else {
		l.logger.Warn("refreshing devices failed", "initial", initial, "error", err)
	}

	l.sink.Locked(func() {
		if h.cancelled {
			return
		}
		l.mu.Lock()
		defer l.mu.Unlock()

		if err == nil {
			l.sink.ReplaceDevicesLocked(devices)
			l.status.LoadError = ""
			l.status.LastRefresh = l.now()
		} else {
			if initial {
				l.sink.RestoreCachedLocked()
			}
			l.status.LoadError = describe(err)
		}
		if initial {
			l.status.Loading = false
		}
	})
	return err
}

// describe renders a fetch failure for the status caption.
func describe(err error) string {
	var se *gateway.StatusError
	if errors.As(err, &se) {
		return se.Error()
	}
	return err.Error()
}
