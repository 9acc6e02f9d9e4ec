package responses

import "time"

type NetworkStatus struct {
	IsOnline          bool      `json:"is_online"`
	EffectiveType     string    `json:"effective_type"`
	Downlink          float64   `json:"downlink"`
	RTT               int       `json:"rtt"`
	ConnectionQuality string    `json:"connection_quality"`
	UpdatedAt         time.Time `json:"updated_at"`
}
