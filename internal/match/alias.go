package match

// defaultBrandAliases maps common marketplace shorthand to the canonical
// (normalized) catalog brand name. Extendable via config overlay.
var defaultBrandAliases = map[string]string{
	"vw":       "volkswagen",
	"volks":    "volkswagen",
	"gm":       "gm chevrolet",
	"chevy":    "gm chevrolet",
	"mercedes": "mercedes benz",
	"mb":       "mercedes benz",
	"land":     "land rover",
	"jac":      "jac motors",
}

// DefaultBrandAliases returns a copy so callers can extend it without
// mutating package state.
func DefaultBrandAliases() map[string]string {
	out := make(map[string]string, len(defaultBrandAliases))
	for k, v := range defaultBrandAliases {
		out[k] = v
	}
	return out
}
