package locale

import "github.com/nyaruka/phonenumbers"

// InferTimezoneFromPhone resolves a driver's scheduling timezone from the
// region their phone number belongs to. Phones outside the operating
// markets, and phones that do not parse, fall back to UTC.
func InferTimezoneFromPhone(phone string) string {
	parsed, err := phonenumbers.Parse(phone, "")
	if err != nil {
		return DefaultTimezone
	}
	if m, ok := MarketFor(phonenumbers.GetRegionCodeForNumber(parsed)); ok {
		return m.DispatchTimezone
	}
	return DefaultTimezone
}
