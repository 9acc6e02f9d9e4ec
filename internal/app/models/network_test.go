package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyQuality(t *testing.T) {
	testCases := []struct {
		name          string
		effectiveType EffectiveType
		downlink      float64
		want          ConnectionQuality
	}{
		{"missing type", "", 10, ConnectionQualityPoor},
		{"slow-2g", EffectiveTypeSlow2G, 10, ConnectionQualityPoor},
		{"2g", EffectiveType2G, 10, ConnectionQualityPoor},
		{"4g with tiny downlink", EffectiveType4G, 0.3, ConnectionQualityPoor},
		{"3g", EffectiveType3G, 10, ConnectionQualityAverage},
		{"3g boundary", EffectiveType3G, 2.0, ConnectionQualityAverage},
		{"4g under 2", EffectiveType4G, 1.5, ConnectionQualityAverage},
		{"4g good", EffectiveType4G, 2.0, ConnectionQualityGood},
		{"4g just under excellent", EffectiveType4G, 4.99, ConnectionQualityGood},
		{"4g excellent", EffectiveType4G, 5.0, ConnectionQualityExcellent},
		{"unknown type counts as missing", EffectiveTypeUnknown, 3, ConnectionQualityPoor},
		{"unrecognised type with usable downlink", EffectiveType("5g"), 3, ConnectionQualityUnknown},
		{"unrecognised type with tiny downlink", EffectiveType("5g"), 0.1, ConnectionQualityPoor},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyQuality(tc.effectiveType, tc.downlink))
		})
	}
}
