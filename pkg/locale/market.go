package locale

// DefaultTimezone is used when a phone number does not resolve to one of
// the operating markets.
const DefaultTimezone = "UTC"

// Market is a region the fleet operates in. DispatchTimezone is the zone
// driver schedules and daily manifests default to for that market.
type Market struct {
	Region           string // ISO 3166-1 alpha-2, as used by phonenumbers
	Name             string
	DispatchTimezone string
}

var markets = map[string]Market{
	"IL": {Region: "IL", Name: "Israel", DispatchTimezone: "Asia/Jerusalem"},
	"US": {Region: "US", Name: "United States", DispatchTimezone: "America/New_York"},
	"GB": {Region: "GB", Name: "United Kingdom", DispatchTimezone: "Europe/London"},
}

// regionOrder fixes the order national-format numbers are tried in; the
// home market goes first.
var regionOrder = []string{"IL", "US", "GB"}

// Regions lists the operating market region codes in resolution order.
func Regions() []string {
	out := make([]string, len(regionOrder))
	copy(out, regionOrder)
	return out
}

// MarketFor returns the operating market for a region code.
func MarketFor(region string) (Market, bool) {
	m, ok := markets[region]
	return m, ok
}
