package network

import (
	"context"
	"testing"

	"dococlock-service/internal/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNetworkMonitor_InitialState(t *testing.T) {
	state := NewNetworkMonitor(zap.NewNop()).State()
	assert.False(t, state.IsOnline)
	assert.Equal(t, models.EffectiveTypeUnknown, state.EffectiveType)
	assert.Equal(t, models.ConnectionQualityUnknown, state.ConnectionQuality)
}

func TestNetworkMonitor_ReconnectHooks(t *testing.T) {
	ctx := context.Background()
	monitor := NewNetworkMonitor(zap.NewNop())

	var order []string
	monitor.OnReconnect(func(ctx context.Context) { order = append(order, "first") })
	monitor.OnReconnect(func(ctx context.Context) { order = append(order, "second") })

	online := models.NetworkSample{IsOnline: true, EffectiveType: models.EffectiveType4G, Downlink: 10}
	offline := models.NetworkSample{IsOnline: false}

	monitor.Observe(ctx, online)
	assert.Equal(t, []string{"first", "second"}, order)

	// staying online is not a reconnect
	monitor.Observe(ctx, models.NetworkSample{IsOnline: true, EffectiveType: models.EffectiveType3G})
	assert.Len(t, order, 2)

	monitor.Observe(ctx, offline)
	assert.Len(t, order, 2)

	monitor.Observe(ctx, online)
	assert.Equal(t, []string{"first", "second", "first", "second"}, order)
}

func TestNetworkMonitor_Events(t *testing.T) {
	ctx := context.Background()
	monitor := NewNetworkMonitor(zap.NewNop())

	var events []models.NetworkEvent
	unsubscribe := monitor.Subscribe(func(event models.NetworkEvent) { events = append(events, event) })

	state := monitor.Observe(ctx, models.NetworkSample{IsOnline: true, EffectiveType: models.EffectiveType4G, Downlink: 6})
	assert.Equal(t, models.ConnectionQualityExcellent, state.ConnectionQuality)
	require.Len(t, events, 2)
	assert.Equal(t, models.NetworkEventOnline, events[0].Type)
	assert.Equal(t, models.NetworkEventQualityChanged, events[1].Type)
	assert.False(t, events[0].Previous.IsOnline)

	events = nil
	monitor.Observe(ctx, models.NetworkSample{IsOnline: true, EffectiveType: models.EffectiveType4G, Downlink: 7})
	assert.Empty(t, events, "same quality and connectivity emit nothing")

	monitor.Observe(ctx, models.NetworkSample{IsOnline: true, EffectiveType: models.EffectiveType3G, Downlink: 1})
	require.Len(t, events, 1)
	assert.Equal(t, models.NetworkEventQualityChanged, events[0].Type)
	assert.Equal(t, models.ConnectionQualityAverage, events[0].State.ConnectionQuality)

	unsubscribe()
	events = nil
	monitor.Observe(ctx, models.NetworkSample{IsOnline: false})
	assert.Empty(t, events)
	assert.False(t, monitor.State().IsOnline)
}

func TestEstimateEffectiveType(t *testing.T) {
	testCases := []struct {
		rtt      int
		downlink float64
		want     models.EffectiveType
	}{
		{rtt: 2500, downlink: 10, want: models.EffectiveTypeSlow2G},
		{rtt: 50, downlink: 0.01, want: models.EffectiveTypeSlow2G},
		{rtt: 1500, downlink: 10, want: models.EffectiveType2G},
		{rtt: 300, downlink: 10, want: models.EffectiveType3G},
		{rtt: 50, downlink: 0.5, want: models.EffectiveType3G},
		{rtt: 50, downlink: 10, want: models.EffectiveType4G},
	}
	for _, tc := range testCases {
		assert.Equalf(t, tc.want, EstimateEffectiveType(tc.rtt, tc.downlink), "rtt=%d downlink=%v", tc.rtt, tc.downlink)
	}
}

func TestNetworkMonitor_QualityMatchesStoredType(t *testing.T) {
	ctx := context.Background()
	monitor := NewNetworkMonitor(zap.NewNop())

	samples := []models.NetworkSample{
		{IsOnline: true, Downlink: 10},
		{IsOnline: true, EffectiveType: models.EffectiveTypeUnknown, Downlink: 3},
		{IsOnline: true, EffectiveType: models.EffectiveType("5g"), Downlink: 3},
		{IsOnline: true, EffectiveType: models.EffectiveType4G, Downlink: 6},
		{IsOnline: true, EffectiveType: models.EffectiveType3G, Downlink: 0.2},
		{IsOnline: false},
	}
	for _, sample := range samples {
		state := monitor.Observe(ctx, sample)
		assert.Equalf(t, models.ClassifyQuality(state.EffectiveType, state.Downlink), state.ConnectionQuality,
			"type=%q downlink=%v", sample.EffectiveType, sample.Downlink)
	}

	state := monitor.Observe(ctx, models.NetworkSample{IsOnline: true, Downlink: 10})
	assert.Equal(t, models.EffectiveTypeUnknown, state.EffectiveType)
	assert.Equal(t, models.ConnectionQualityPoor, state.ConnectionQuality)
}
