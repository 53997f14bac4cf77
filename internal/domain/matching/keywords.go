package matching

// Ordinal scale used when a job and a candidate both declare a seniority
// label but the labels differ. Unknown labels fall back to mid (3).
var seniorityLevels = map[string]float64{
	"intern":     1,
	"junior":     2,
	"mid":        3,
	"mid_senior": 3.5,
	"senior":     4,
	"lead":       5,
	"principal":  5,
	"director":   6,
	"vp":         7,
	"c_level":    8,
}

const defaultSeniorityLevel = 3

// Detection keywords per industry tag. Tags missing from this table use the
// tag itself as the sole keyword.
var industryKeywords = map[string][]string{
	"mobility":      {"mobility", "transport", "uber", "lyft", "ride", "taxi", "delivery", "logistics"},
	"ev_charging":   {"ev", "electric", "charging", "vehicle", "tesla", "battery"},
	"consumer_apps": {"consumer", "mobile", "app", "ios", "android", "b2c"},
	"saas":          {"saas", "software", "b2b", "enterprise", "platform"},
	"fintech":       {"fintech", "finance", "payment", "banking", "crypto"},
	"ecommerce":     {"ecommerce", "retail", "marketplace", "shopping"},
}

// Generic signals that a candidate is at least tech/product adjacent, used
// for partial credit when no required industry matched.
var techKeywords = []string{"tech", "software", "saas", "product", "startup", "digital"}

// Countries presumed Spanish-capable (and partially English-capable) by the
// language heuristic, and matched by "latam"/"latin" location preferences.
var latamCountries = []string{"mexico", "colombia", "argentina", "chile", "peru", "brazil"}

var englishSpeakingCountries = []string{"usa", "united states", "uk", "united kingdom", "canada", "australia"}
