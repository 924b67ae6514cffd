package sanitizer

import (
	"strings"

	"fleetops/pkg/locale"

	"github.com/nyaruka/phonenumbers"
)

// NormalizePhone canonicalizes a phone number to E.164. Numbers carrying a
// leading + parse as-is; national-format numbers are tried against each
// operating market in order. Anything unparseable normalizes to the empty
// string.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ""
	}

	if strings.HasPrefix(phone, "+") {
		if parsed, err := phonenumbers.Parse(phone, ""); err == nil {
			return phonenumbers.Format(parsed, phonenumbers.E164)
		}
		return ""
	}

	for _, region := range locale.Regions() {
		parsed, err := phonenumbers.Parse(phone, region)
		if err != nil || !phonenumbers.IsValidNumberForRegion(parsed, region) {
			continue
		}
		return phonenumbers.Format(parsed, phonenumbers.E164)
	}
	return ""
}
