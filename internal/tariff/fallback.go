package tariff

import "deliverytariff/internal/pricing"

const defaultFallbackETAHours = 72

var fallbackETAHours = map[string]int{
	"tashkent_city":   24,
	"tashkent_region": 48,
	"bukhara":         24,
	"samarkand":       48,
	"navoi":           48,
	"kashkadarya":     48,
	"jizzakh":         48,
	"syrdarya":        48,
	"surkhandarya":    72,
	"andijan":         72,
	"fergana":         72,
	"namangan":        72,
	"khorezm":         72,
	"karakalpakstan":  72,
}

// FallbackETAHours is the static ETA for a region; unknown codes get the
// default entry.
func FallbackETAHours(regionCode string) int {
	if h, ok := fallbackETAHours[regionCode]; ok {
		return h
	}
	return defaultFallbackETAHours
}

// fallback is the terminal stage. It has no error path.
type fallback struct {
	schedule pricing.Schedule
}

func (f fallback) resolve(q Query) Resolution {
	return weightRated(f.schedule, FallbackETAHours(q.RegionCode), FallbackEstimate, q.WeightKg)
}
