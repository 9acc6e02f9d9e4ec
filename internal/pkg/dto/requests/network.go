package requests

type NetworkSample struct {
	IsOnline      *bool   `json:"is_online" validate:"required"`
	EffectiveType string  `json:"effective_type" validate:"omitempty,oneof=slow-2g 2g 3g 4g unknown"`
	Downlink      float64 `json:"downlink" validate:"gte=0"`
	RTT           int     `json:"rtt" validate:"gte=0"`
}
