package models

import "time"

type EffectiveType string

const (
	EffectiveTypeSlow2G  EffectiveType = "slow-2g"
	EffectiveType2G      EffectiveType = "2g"
	EffectiveType3G      EffectiveType = "3g"
	EffectiveType4G      EffectiveType = "4g"
	EffectiveTypeUnknown EffectiveType = "unknown"
)

type ConnectionQuality string

const (
	ConnectionQualityPoor      ConnectionQuality = "poor"
	ConnectionQualityAverage   ConnectionQuality = "average"
	ConnectionQualityGood      ConnectionQuality = "good"
	ConnectionQualityExcellent ConnectionQuality = "excellent"
	ConnectionQualityUnknown   ConnectionQuality = "unknown"
)

// ClassifyQuality maps raw connection metrics to a quality bucket. Rules are checked in
// order and the first match wins, so downlink 2.0 on 3g is average and 5.0 on 4g is
// excellent. An unknown type counts as missing; only an unrecognised type can land in
// the unknown bucket.
func ClassifyQuality(effectiveType EffectiveType, downlink float64) ConnectionQuality {
	switch {
	case effectiveType == "" || effectiveType == EffectiveTypeUnknown || effectiveType == EffectiveTypeSlow2G:
		return ConnectionQualityPoor
	case effectiveType == EffectiveType2G || downlink < 0.5:
		return ConnectionQualityPoor
	case effectiveType == EffectiveType3G || downlink < 2:
		return ConnectionQualityAverage
	case effectiveType == EffectiveType4G && downlink >= 2 && downlink < 5:
		return ConnectionQualityGood
	case effectiveType == EffectiveType4G && downlink >= 5:
		return ConnectionQualityExcellent
	default:
		return ConnectionQualityUnknown
	}
}

// NetworkSample is one raw reading from the prober or a client report.
type NetworkSample struct {
	IsOnline      bool
	EffectiveType EffectiveType
	Downlink      float64
	RTT           int
}

type NetworkState struct {
	IsOnline          bool
	EffectiveType     EffectiveType
	Downlink          float64
	RTT               int
	ConnectionQuality ConnectionQuality
	UpdatedAt         time.Time
}

type NetworkEventType string

const (
	NetworkEventOnline         NetworkEventType = "online"
	NetworkEventOffline        NetworkEventType = "offline"
	NetworkEventQualityChanged NetworkEventType = "quality_changed"
)

type NetworkEvent struct {
	Type     NetworkEventType
	State    NetworkState
	Previous NetworkState
}
