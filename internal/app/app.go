// ABOUTME: Main client application orchestration
// ABOUTME: Wires session, capture, playback, dispatch, metrics and the TUI together
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/harperreed/voicecart/internal/catalog"
	"github.com/harperreed/voicecart/internal/command"
	"github.com/harperreed/voicecart/internal/config"
	"github.com/harperreed/voicecart/internal/metrics"
	"github.com/harperreed/voicecart/internal/store"
	"github.com/harperreed/voicecart/internal/ui"
	audiocapture "github.com/harperreed/voicecart/pkg/audio/capture"
	"github.com/harperreed/voicecart/pkg/audio/decode"
	"github.com/harperreed/voicecart/pkg/audio/output"
	"github.com/harperreed/voicecart/pkg/capture"
	"github.com/harperreed/voicecart/pkg/player"
	"github.com/harperreed/voicecart/pkg/protocol"
	"github.com/harperreed/voicecart/pkg/session"
	"golang.org/x/sync/errgroup"
)

const statsInterval = 500 * time.Millisecond

// View receives UI messages. *tea.Program satisfies it.
type View interface {
	Send(msg tea.Msg)
}

// Deps holds the devices and UI the application drives
type Deps struct {
	Output     output.Output
	Microphone audiocapture.Source
	Frames     capture.FrameSource // nil when no camera is configured
	View       View
	Controls   *ui.Controls
}

// App is the running client
type App struct {
	config  *config.Config
	catalog *catalog.Catalog
	view    View

	controls *ui.Controls

	store      *store.Store
	dispatcher *command.Dispatcher
	session    *session.Session
	scheduler  *player.Scheduler
	pipeline   *capture.Pipeline
	vision     *capture.VisionLoop
	metrics    *metrics.Metrics

	ctx    context.Context
	cancel context.CancelFunc

	closeOnce sync.Once
}

// New builds the application for an already resolved server URL
func New(cfg *config.Config, cat *catalog.Catalog, deps Deps) (*App, error) {
	if cfg.Server.URL == "" {
		return nil, errors.New("no server URL")
	}
	if deps.Output == nil {
		return nil, errors.New("no audio output")
	}
	if deps.Microphone == nil {
		return nil, errors.New("no microphone")
	}

	ctx, cancel := context.WithCancel(context.Background())

	a := &App{
		config:   cfg,
		catalog:  cat,
		view:     deps.View,
		controls: deps.Controls,
		store:    store.New(cat.Products()),
		ctx:      ctx,
		cancel:   cancel,
	}

	a.scheduler = player.NewScheduler(deps.Output)

	a.session = session.New(session.Config{
		URL:           cfg.Server.URL,
		WriteTimeout:  cfg.Server.WriteTimeout,
		DialTimeout:   cfg.Server.DialTimeout,
		OnAudio:       a.handleAudio,
		OnToolCall:    a.handleToolCall,
		OnStateChange: a.handleStateChange,
		OnError:       a.handleError,
	})

	pipeline, err := capture.NewPipeline(deps.Microphone, a.session, capture.PipelineConfig{
		QueueDepth: cfg.Audio.QueueDepth,
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create capture pipeline: %w", err)
	}
	a.pipeline = pipeline

	if deps.Frames != nil {
		a.vision = capture.NewVisionLoop(deps.Frames, a.session, capture.VisionConfig{
			Interval:  cfg.Vision.Interval,
			OnStopped: a.handleVisionStopped,
		})
	}

	a.metrics = metrics.New(a.metricSources())

	a.dispatcher = command.New(a.store, cat, command.NotifierFunc(a.notify), command.Config{
		HighlightDelay: cfg.Catalog.HighlightDelay,
		OnDispatch:     a.recordDispatch,
	})

	a.store.Subscribe(func(s store.State) {
		a.send(ui.StateMsg(s))
	})

	return a, nil
}

// Run connects and serves until ctx ends or Close is called. A failed
// first connection is not fatal; the user can reconnect from the UI.
func (a *App) Run(ctx context.Context) error {
	go func() {
		select {
		case <-ctx.Done():
			a.cancel()
		case <-a.ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(a.ctx)

	if addr := a.config.Metrics.Addr; addr != "" {
		g.Go(func() error {
			return a.metrics.Serve(gctx, addr)
		})
	}

	if a.controls != nil {
		g.Go(func() error {
			a.handleControls(gctx)
			return nil
		})
	}

	g.Go(func() error {
		a.statsLoop(gctx)
		return nil
	})

	a.send(ui.StateMsg(a.store.State()))
	a.send(ui.StatusMsg{Connection: session.Disconnected.String(), ServerURL: a.config.Server.URL})

	if err := a.Connect(gctx); err != nil {
		log.Printf("Initial connection failed: %v", err)
		a.notify("Connection failed, press r to retry")
	}

	<-gctx.Done()
	a.Close()

	return g.Wait()
}

// Connect opens the session. Capture starts only for the modes configured
// to follow the connection; the rest wait for the user.
func (a *App) Connect(ctx context.Context) error {
	log.Printf("Connecting to %s", a.config.Server.URL)

	if err := a.session.Open(ctx); err != nil {
		a.metrics.ConnectErrors.Inc()
		return err
	}

	a.metrics.Connects.Inc()
	log.Printf("Session %s established", a.session.ID())
	return nil
}

// Close stops capture, drops pending highlights, closes the session and
// releases the playback device
func (a *App) Close() {
	a.closeOnce.Do(func() {
		a.cancel()
		a.dispatcher.Close()
		a.pipeline.Stop()
		if a.vision != nil {
			a.vision.Stop()
		}
		if err := a.session.Close(); err != nil {
			log.Printf("Error closing session: %v", err)
		}
		if err := a.scheduler.Close(); err != nil {
			log.Printf("Error closing audio output: %v", err)
		}
	})
}

// Store returns the application state store
func (a *App) Store() *store.Store {
	return a.store
}

// Session returns the assistant session
func (a *App) Session() *session.Session {
	return a.session
}

// Metrics returns the application metrics
func (a *App) Metrics() *metrics.Metrics {
	return a.metrics
}

func (a *App) handleAudio(fragment protocol.AudioFragment) {
	seg, err := decode.Fragment(fragment.MIMEType, fragment.Data)
	if err != nil {
		a.metrics.FragmentsMalformed.Inc()
		log.Printf("Dropping audio fragment: %v", err)
		return
	}

	a.metrics.FragmentsDecoded.Inc()
	a.metrics.FragmentSeconds.Observe(seg.Duration())

	if err := a.scheduler.Enqueue(seg); err != nil {
		log.Printf("Playback unavailable: %v", err)
	}
}

func (a *App) handleToolCall(args protocol.ToolCallArgs) {
	log.Printf("Tool call: action=%s target=%q details=%q", args.Action, args.Target, args.Details)
	a.dispatcher.Dispatch(args)
}

func (a *App) handleStateChange(state session.State) {
	log.Printf("Session state: %s", state)

	status := ui.StatusMsg{Connection: state.String()}
	if state == session.Connected {
		status.SessionID = a.session.ID()
		defer a.startCapture()
	}

	if state == session.Disconnected {
		a.teardown()
		off := false
		status.Mic = &off
		status.Camera = &off
	}

	a.send(status)
}

// teardown releases everything tied to a live session
func (a *App) teardown() {
	a.pipeline.Stop()
	if a.vision != nil {
		a.vision.Stop()
	}
	a.scheduler.Clear()
	a.dispatcher.Cancel()
}

func (a *App) handleError(err error) {
	var terr *session.TransportError
	if errors.As(err, &terr) {
		a.metrics.TransportError.Inc()
	}
	log.Printf("Session error: %v", err)
	a.notify("Connection lost")
}

func (a *App) handleVisionStopped(err error) {
	log.Printf("Camera stopped: %v", err)
	off := false
	a.send(ui.StatusMsg{Camera: &off})
	a.notify("Camera stopped")
}

func (a *App) recordDispatch(action string, err error) {
	a.metrics.RecordToolCall(action, err)
	switch {
	case errors.Is(err, command.ErrUnknownAction):
		a.metrics.UnknownActions.Inc()
	case errors.Is(err, command.ErrUnresolvedReference):
		a.metrics.Unresolved.Inc()
	}
}

// handleControls processes user requests from the TUI
func (a *App) handleControls(ctx context.Context) {
	for {
		select {
		case action := <-a.controls.Actions:
			a.apply(ctx, action)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) apply(ctx context.Context, action ui.Action) {
	switch action.Kind {
	case ui.ToggleMic:
		a.toggleMic()

	case ui.ToggleCamera:
		a.toggleCamera(ctx)

	case ui.Reconnect:
		if a.session.State() != session.Disconnected {
			a.notify("Already connected")
			return
		}
		if err := a.Connect(ctx); err != nil {
			log.Printf("Reconnect failed: %v", err)
			a.notify("Connection failed")
		}

	case ui.AddSelected:
		product, ok := a.catalog.Lookup(action.ProductID)
		if !ok {
			log.Printf("Selected product %q not in catalog", action.ProductID)
			return
		}
		a.store.Dispatch(store.AddToCart{Product: product})
		a.notify(fmt.Sprintf("Added to Cart: %s", product.Name))

	case ui.Checkout:
		a.store.Dispatch(store.NavigateCheckout{})

	case ui.Home:
		a.store.Dispatch(store.NavigateHome{})

	case ui.SendText:
		if err := a.session.SendText(action.Text); err != nil {
			log.Printf("Failed to send text: %v", err)
			a.notify("Not connected")
		}
	}
}

func (a *App) toggleMic() {
	a.setMic(!a.pipeline.Running())
}

// setMic starts or stops streaming. A device failure leaves the mic off.
func (a *App) setMic(on bool) {
	if on {
		if err := a.pipeline.Start(); err != nil {
			log.Printf("Microphone error: %v", err)
			a.notify("Microphone unavailable")
			on = false
		}
	} else {
		a.pipeline.Stop()
	}
	a.send(ui.StatusMsg{Mic: &on})
}

func (a *App) toggleCamera(ctx context.Context) {
	if a.vision == nil {
		a.notify("No camera configured")
		return
	}
	a.setCamera(ctx, !a.vision.Running())
}

func (a *App) setCamera(ctx context.Context, on bool) {
	if on {
		a.vision.Start(ctx)
	} else {
		a.vision.Stop()
	}
	a.send(ui.StatusMsg{Camera: &on})
}

// startCapture turns on the modes configured to follow the connection
func (a *App) startCapture() {
	if a.config.Audio.CaptureOnConnect && !a.pipeline.Running() {
		a.setMic(true)
	}
	if a.config.Vision.CaptureOnConnect && a.vision != nil && !a.vision.Running() {
		a.setCamera(a.ctx, true)
	}
}

// statsLoop periodically pushes playback counters to the UI
func (a *App) statsLoop(ctx context.Context) {
	ticker := time.NewTicker(statsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			stats := a.scheduler.Stats()
			a.send(ui.StatusMsg{
				Played:  stats.Played,
				Queued:  stats.Queued,
				Dropped: stats.Dropped,
			})
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) metricSources() metrics.Sources {
	sources := metrics.Sources{
		Session: func() metrics.SessionStats {
			s := a.session.Stats()
			return metrics.SessionStats{
				State:         int(a.session.State()),
				AudioSent:     s.AudioSent,
				AudioDropped:  s.AudioDropped,
				ImagesSent:    s.ImagesSent,
				ImagesDropped: s.ImagesDropped,
				Inbound:       s.Inbound,
				Malformed:     s.Malformed,
			}
		},
		Pipeline: func() metrics.CaptureStats {
			s := a.pipeline.Stats()
			return metrics.CaptureStats{Captured: s.Captured, Dropped: s.Dropped}
		},
		Playback: func() metrics.PlaybackStats {
			s := a.scheduler.Stats()
			return metrics.PlaybackStats{
				Received: s.Received,
				Played:   s.Played,
				Dropped:  s.Dropped,
				Queued:   s.Queued,
			}
		},
	}

	if a.vision != nil {
		sources.Vision = func() metrics.VisionStats {
			s := a.vision.Stats()
			return metrics.VisionStats{Sent: s.Sent, Failed: s.Failed}
		}
	}

	return sources
}

// notify shows a toast and logs it
func (a *App) notify(message string) {
	log.Printf("Toast: %s", message)
	a.send(ui.ToastMsg(message))
}

func (a *App) send(msg tea.Msg) {
	if a.view != nil {
		a.view.Send(msg)
	}
}
