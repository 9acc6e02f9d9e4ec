package network

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"dococlock-service/internal/app/config"
	"dococlock-service/internal/app/contracts"
	"dococlock-service/internal/app/models"
	"dococlock-service/internal/pkg/constvars"

	"go.uber.org/zap"
)

const (
	defaultProbeInterval = 15 * time.Second
	defaultProbeTimeout  = 5 * time.Second
)

// Prober periodically fetches a small upstream resource and reports what it saw to the
// monitor. A transport error means offline.
type Prober struct {
	monitor  contracts.NetworkMonitor
	client   *http.Client
	url      string
	interval time.Duration
	log      *zap.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

func NewProber(monitor contracts.NetworkMonitor, cfg config.AppNetwork, logger *zap.Logger) *Prober {
	interval := time.Duration(cfg.ProbeIntervalInSeconds) * time.Second
	if interval <= 0 {
		interval = defaultProbeInterval
	}
	timeout := time.Duration(cfg.ProbeTimeoutInSeconds) * time.Second
	if timeout <= 0 {
		timeout = defaultProbeTimeout
	}
	return &Prober{
		monitor:  monitor,
		client:   &http.Client{Timeout: timeout},
		url:      cfg.ProbeUrl,
		interval: interval,
		log:      logger,
		stop:     make(chan struct{}),
	}
}

// Start probes once right away and then on every tick. The returned func stops the loop
// and waits for it to exit.
func (p *Prober) Start(ctx context.Context) (stop func()) {
	ticker := time.NewTicker(p.interval)
	stopped := make(chan struct{})

	p.log.Info("network.Prober started",
		zap.String(constvars.LoggingEndpointKey, p.url),
		zap.Duration("interval", p.interval),
	)

	go func() {
		defer close(stopped)
		defer ticker.Stop()

		p.monitor.Observe(ctx, p.Probe(ctx))
		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stop:
				return
			case <-ticker.C:
				p.monitor.Observe(ctx, p.Probe(ctx))
			}
		}
	}()

	return func() {
		p.stopOnce.Do(func() { close(p.stop) })
		<-stopped
	}
}

// Probe makes one request and turns the timing into a sample. Any HTTP response below 500
// means the upstream is reachable.
func (p *Prober) Probe(ctx context.Context) models.NetworkSample {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		p.log.Error("network.Prober.Probe error building request", zap.Error(err))
		return models.NetworkSample{IsOnline: false, EffectiveType: models.EffectiveTypeUnknown}
	}
	req.Header.Set(constvars.HeaderCacheControl, "no-cache")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		p.log.Warn("network.Prober.Probe upstream unreachable", zap.Error(err))
		return models.NetworkSample{IsOnline: false, EffectiveType: models.EffectiveTypeUnknown}
	}
	defer resp.Body.Close()

	firstByte := time.Since(start)
	size, _ := io.Copy(io.Discard, resp.Body)
	elapsed := time.Since(start)

	if resp.StatusCode >= http.StatusInternalServerError {
		p.log.Warn("network.Prober.Probe upstream error",
			zap.Int(constvars.LoggingStatusCodeKey, resp.StatusCode),
		)
		return models.NetworkSample{IsOnline: false, EffectiveType: models.EffectiveTypeUnknown}
	}

	rtt := int(firstByte.Milliseconds())
	downlink := estimateDownlink(size, elapsed)
	return models.NetworkSample{
		IsOnline:      true,
		EffectiveType: EstimateEffectiveType(rtt, downlink),
		Downlink:      downlink,
		RTT:           rtt,
	}
}

// estimateDownlink returns Mbps rounded to 25 kbps, the granularity browsers report.
func estimateDownlink(bytes int64, elapsed time.Duration) float64 {
	if bytes <= 0 || elapsed <= 0 {
		return 0
	}
	mbps := float64(bytes*8) / elapsed.Seconds() / 1e6
	return float64(int64(mbps*40+0.5)) / 40
}

// EstimateEffectiveType applies the Network Information API thresholds: the slowest class
// whose rtt or downlink limit is crossed wins.
func EstimateEffectiveType(rttMillis int, downlinkMbps float64) models.EffectiveType {
	switch {
	case rttMillis >= 2000 || downlinkMbps < 0.05:
		return models.EffectiveTypeSlow2G
	case rttMillis >= 1400 || downlinkMbps < 0.07:
		return models.EffectiveType2G
	case rttMillis >= 270 || downlinkMbps < 0.7:
		return models.EffectiveType3G
	default:
		return models.EffectiveType4G
	}
}
