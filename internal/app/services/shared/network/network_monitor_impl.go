package network

import (
	"context"
	"sync"
	"time"

	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"
	"dococlock-service/internal/pkg/utils"

	"go.uber.org/zap"
)

type networkMonitor struct {
	mu        sync.Mutex
	state     models.NetworkState
	listeners map[int]func(models.NetworkEvent)
	nextID    int
	hooks     []func(ctx context.Context)
	now       func() time.Time
	Log       *zap.Logger
}

// NewNetworkMonitor starts offline with unknown quality until the first sample arrives,
// so the first online sample counts as a reconnect.
func NewNetworkMonitor(logger *zap.Logger) contracts.NetworkMonitor {
	return &networkMonitor{
		state: models.NetworkState{
			EffectiveType:     models.EffectiveTypeUnknown,
			ConnectionQuality: models.ConnectionQualityUnknown,
		},
		listeners: make(map[int]func(models.NetworkEvent)),
		now:       time.Now,
		Log:       logger,
	}
}

func (m *networkMonitor) State() models.NetworkState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *networkMonitor) Subscribe(listener func(models.NetworkEvent)) func() {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.listeners[id] = listener

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *networkMonitor) OnReconnect(hook func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks = append(m.hooks, hook)
}

// Observe folds one sample into the state. Listeners and reconnect hooks run after the
// lock is released, on the caller's goroutine.
func (m *networkMonitor) Observe(ctx context.Context, sample models.NetworkSample) models.NetworkState {
	effectiveType := sample.EffectiveType
	if effectiveType == "" {
		effectiveType = models.EffectiveTypeUnknown
	}

	m.mu.Lock()
	previous := m.state
	current := models.NetworkState{
		IsOnline:          sample.IsOnline,
		EffectiveType:     effectiveType,
		Downlink:          sample.Downlink,
		RTT:               sample.RTT,
		ConnectionQuality: models.ClassifyQuality(effectiveType, sample.Downlink),
		UpdatedAt:         m.now().UTC(),
	}
	m.state = current

	var events []models.NetworkEvent
	if previous.IsOnline != current.IsOnline {
		eventType := models.NetworkEventOffline
		if current.IsOnline {
			eventType = models.NetworkEventOnline
		}
		events = append(events, models.NetworkEvent{Type: eventType, State: current, Previous: previous})
	}
	if previous.ConnectionQuality != current.ConnectionQuality {
		events = append(events, models.NetworkEvent{Type: models.NetworkEventQualityChanged, State: current, Previous: previous})
	}

	listeners := make([]func(models.NetworkEvent), 0, len(m.listeners))
	for id := 0; id < m.nextID; id++ {
		if listener, ok := m.listeners[id]; ok {
			listeners = append(listeners, listener)
		}
	}
	var hooks []func(ctx context.Context)
	reconnected := !previous.IsOnline && current.IsOnline
	if reconnected {
		hooks = append(hooks, m.hooks...)
	}
	m.mu.Unlock()

	requestID := utils.GetRequestID(ctx)
	for _, event := range events {
		m.Log.Info("networkMonitor.Observe emitting event",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String("event", string(event.Type)),
			zap.Bool(constvars.LoggingIsOnlineKey, current.IsOnline),
			zap.String(constvars.LoggingEffectiveTypeKey, string(current.EffectiveType)),
			zap.Float64(constvars.LoggingDownlinkKey, current.Downlink),
			zap.Int(constvars.LoggingRTTKey, current.RTT),
			zap.String(constvars.LoggingQualityKey, string(current.ConnectionQuality)),
		)
		for _, listener := range listeners {
			listener(event)
		}
	}

	if reconnected {
		m.Log.Info("networkMonitor.Observe running reconnect hooks",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Int("hook_count", len(hooks)),
		)
		for _, hook := range hooks {
			hook(ctx)
		}
	}
	return current
}
