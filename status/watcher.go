// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package status

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/b2atech/r2000/common"
	"github.com/b2atech/r2000/control"
	"github.com/b2atech/r2000/handle"
	"github.com/b2atech/r2000/internal/pubsub"
	"github.com/b2atech/r2000/internal/rescue"
	"github.com/b2atech/r2000/logger"
	"github.com/b2atech/r2000/metrics"
)

// EventKind discriminates the values a Watcher publishes on its bus.
type EventKind int

const (
	EventStatusAvailable EventKind = iota
	EventDeviceConnected
	EventDeviceDisconnected
)

// Event is one status-bus message.
type Event struct {
	Kind   EventKind
	Status DeviceStatus
}

// Options configures a Watcher. Zero values fall back to package
// defaults.
type Options struct {
	Period                        time.Duration
	CommandTimeout                time.Duration
	DisconnectionTriggerThreshold int
}

// Watcher periodically polls a fixed device parameter set and raises
// debounced connect/disconnect edges. Events are
// delivered through an adapted internal/pubsub broadcast bus instead of
// a synchronous callback list: unlike scan publication, status events
// tolerate the small buffering a subscriber queue introduces.
type Watcher struct {
	h       handle.Handle
	channel control.Channel
	log     logger.Logger

	period    time.Duration
	cmdTO     time.Duration
	threshold int

	bus *pubsub.PubSub[Event]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu        sync.Mutex
	connected bool
	hitCount  int
}

// NewWatcher constructs a Watcher bound to h's control channel.
func NewWatcher(h handle.Handle, channel control.Channel, log logger.Logger, opts Options) *Watcher {
	if opts.Period <= 0 {
		opts.Period = common.DefaultStatusPeriod
	}
	if opts.CommandTimeout <= 0 {
		opts.CommandTimeout = common.DefaultStatusCommandTimeout
	}
	if opts.DisconnectionTriggerThreshold <= 0 {
		opts.DisconnectionTriggerThreshold = common.DefaultDisconnectionTriggerThreshold
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		h:         h,
		channel:   channel,
		log:       log,
		period:    opts.Period,
		cmdTO:     opts.CommandTimeout,
		threshold: opts.DisconnectionTriggerThreshold,
		bus:       pubsub.New[Event](),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start spawns the polling goroutine.
func (w *Watcher) Start() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run()
	}()
}

// Stop cancels the polling goroutine and waits for it to exit.
func (w *Watcher) Stop() {
	w.cancel()
	w.wg.Wait()
}

// Subscribe returns a new queue receiving every Event this Watcher
// publishes. Callers must Unsubscribe when done.
func (w *Watcher) Subscribe(size int) pubsub.Queue[Event] {
	return w.bus.Subscribe(size)
}

// Unsubscribe releases a previously subscribed queue.
func (w *Watcher) Unsubscribe(q pubsub.Queue[Event]) {
	w.bus.Unsubscribe(q)
}

// OnStatusAvailable registers cb to be invoked, on its own goroutine,
// for every EventStatusAvailable published. Returns an unsubscribe
// function.
func (w *Watcher) OnStatusAvailable(cb func(DeviceStatus)) (unsubscribe func()) {
	return w.onEvent(EventStatusAvailable, func(e Event) { cb(e.Status) })
}

// OnDeviceConnected registers cb to fire on every EventDeviceConnected.
func (w *Watcher) OnDeviceConnected(cb func()) (unsubscribe func()) {
	return w.onEvent(EventDeviceConnected, func(Event) { cb() })
}

// OnDeviceDisconnected registers cb to fire on every
// EventDeviceDisconnected.
func (w *Watcher) OnDeviceDisconnected(cb func()) (unsubscribe func()) {
	return w.onEvent(EventDeviceDisconnected, func(Event) { cb() })
}

func (w *Watcher) onEvent(kind EventKind, cb func(Event)) func() {
	q := w.bus.Subscribe(8)
	done := make(chan struct{})
	go func() {
		for {
			e, ok := q.PopTimeout(1 * time.Second)
			select {
			case <-done:
				return
			default:
			}
			if !ok {
				continue
			}
			if e.Kind == kind {
				rescue.Safe(func() { cb(e) })
			}
		}
	}()
	return func() {
		close(done)
		w.bus.Unsubscribe(q)
		q.Close()
	}
}

func (w *Watcher) run() {
	ticker := time.NewTicker(w.period)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			w.pollOnce()
		}
	}
}

func (w *Watcher) pollOnce() {
	ctx, cancel := context.WithTimeout(w.ctx, w.cmdTO)
	defer cancel()

	ds, err := fetchParameters(ctx, w.channel, w.h)

	w.mu.Lock()
	defer w.mu.Unlock()

	if err != nil {
		w.hitCount++
		metrics.StatusPollFailures.WithLabelValues(w.h.ID).Inc()
		w.log.Warnf("status: get_parameters failed for handle %s: %v", w.h.ID, err)
		if w.hitCount >= w.threshold && w.connected {
			w.connected = false
			metrics.ConnectivityFlag.WithLabelValues(w.h.ID).Set(0)
			w.bus.Publish(Event{Kind: EventDeviceDisconnected})
		}
		return
	}

	w.hitCount = 0
	wasConnected := w.connected
	w.connected = true
	metrics.ConnectivityFlag.WithLabelValues(w.h.ID).Set(1)
	metrics.Uptime.Set(float64(time.Now().Unix() - common.Started()))
	w.bus.Publish(Event{Kind: EventStatusAvailable, Status: ds})
	if !wasConnected {
		w.bus.Publish(Event{Kind: EventDeviceConnected})
	}
}

// fetchParameters issues get_parameters and decodes the response into a
// DeviceStatus: load indication, raw system time, uptime, power cycles,
// operation time scaled/unscaled, temperatures, and status flags.
func fetchParameters(ctx context.Context, channel control.Channel, h handle.Handle) (DeviceStatus, error) {
	tree, err := channel.Send(ctx, control.GetParameters, control.Params{"handle": h.ID})
	if err != nil {
		return DeviceStatus{}, err
	}
	if !tree.Success() {
		return DeviceStatus{}, statusError(tree.ErrorText)
	}

	var ds DeviceStatus
	if v, ok := tree.Get("cpu_load"); ok {
		ds.CPULoad = parseFloat(v)
	}
	if v, ok := tree.Get("system_time_raw"); ok {
		ds.RawSystemTime = parseUint(v)
	}
	if v, ok := tree.Get("up_time"); ok {
		ds.Uptime = time.Duration(parseUint(v)) * time.Second
	}
	if v, ok := tree.Get("power_cycles"); ok {
		ds.PowerCycles = parseUint(v)
	}
	if v, ok := tree.Get("operation_time"); ok {
		ds.OperationTime = time.Duration(parseUint(v)) * time.Second
	}
	if v, ok := tree.Get("operation_time_scaled"); ok {
		ds.OperationTimeScaled = time.Duration(parseUint(v)) * time.Second
	}
	if v, ok := tree.Get("current_temperature"); ok {
		ds.CurrentTemperature = parseFloat(v)
	}
	if v, ok := tree.Get("minimal_temperature"); ok {
		ds.MinTemperature = parseFloat(v)
	}
	if v, ok := tree.Get("maximal_temperature"); ok {
		ds.MaxTemperature = parseFloat(v)
	}
	if v, ok := tree.Get("status_flags"); ok {
		ds.Flags = InterpretFlags(uint32(parseUint(v)))
	}
	return ds, nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

func parseUint(s string) uint64 {
	v, _ := strconv.ParseUint(s, 10, 64)
	return v
}

type statusError string

func (e statusError) Error() string { return string(e) }
