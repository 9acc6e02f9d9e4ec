package models

import "strings"

type MobileMoneyProvider string

const (
	MobileMoneyProviderMTN    MobileMoneyProvider = "mtn"
	MobileMoneyProviderAirtel MobileMoneyProvider = "airtel"
	MobileMoneyProviderZamtel MobileMoneyProvider = "zamtel"
)

// mobileMoneyPrefixes lists the local network prefixes each Zambian operator owns.
var mobileMoneyPrefixes = map[MobileMoneyProvider][]string{
	MobileMoneyProviderMTN:    {"096", "076"},
	MobileMoneyProviderAirtel: {"097", "077"},
	MobileMoneyProviderZamtel: {"095", "075"},
}

func ParseMobileMoneyProvider(value string) (MobileMoneyProvider, bool) {
	provider := MobileMoneyProvider(strings.ToLower(strings.TrimSpace(value)))
	_, ok := mobileMoneyPrefixes[provider]
	return provider, ok
}

func (p MobileMoneyProvider) Prefixes() []string {
	return mobileMoneyPrefixes[p]
}

// OwnsPrefix reports whether a local prefix such as "097" belongs to the provider.
func (p MobileMoneyProvider) OwnsPrefix(prefix string) bool {
	for _, owned := range mobileMoneyPrefixes[p] {
		if owned == prefix {
			return true
		}
	}
	return false
}
