package catalog

// Icon is a symbolic icon name. The set is closed; anything outside it
// renders as IconDefault.
type Icon string

const (
	IconDefault         Icon = "check-circle"
	IconClipboardList   Icon = "clipboard-list"
	IconSmartphone      Icon = "smartphone"
	IconCar             Icon = "car"
	IconPackage         Icon = "package"
	IconUtensilsCrossed Icon = "utensils-crossed"
	IconChefHat         Icon = "chef-hat"
	IconDroplets        Icon = "droplets"
	IconArrowDownToLine Icon = "arrow-down-to-line"
	IconCoffee          Icon = "coffee"
	IconGlassWater      Icon = "glass-water"
	IconZap             Icon = "zap"
	IconTrash           Icon = "trash"
	IconWind            Icon = "wind"
	IconSparkles        Icon = "sparkles"
	IconCloudFog        Icon = "cloud-fog"
	IconMail            Icon = "mail"
	IconWaves           Icon = "waves"
	IconSun             Icon = "sun"
	IconLayers          Icon = "layers"
	IconLayoutGrid      Icon = "layout-grid"
	IconFootprints      Icon = "footprints"
	IconBone            Icon = "bone"
	IconPill            Icon = "pill"

	// Category headings.
	IconUtensils Icon = "utensils"
	IconHome     Icon = "home"
	IconShirt    Icon = "shirt"
	IconPawPrint Icon = "paw-print"
	IconBox      Icon = "box"
)

var glyphs = map[Icon]string{
	IconDefault:         "✅",
	IconClipboardList:   "📋",
	IconSmartphone:      "📱",
	IconCar:             "🚗",
	IconPackage:         "📦",
	IconUtensilsCrossed: "🔪",
	IconChefHat:         "🧑‍🍳",
	IconDroplets:        "💧",
	IconArrowDownToLine: "⬇️",
	IconCoffee:          "☕",
	IconGlassWater:      "🥛",
	IconZap:             "⚡",
	IconTrash:           "🗑️",
	IconWind:            "🌬️",
	IconSparkles:        "✨",
	IconCloudFog:        "🌫️",
	IconMail:            "✉️",
	IconWaves:           "🌊",
	IconSun:             "☀️",
	IconLayers:          "🧺",
	IconLayoutGrid:      "🗄️",
	IconFootprints:      "🐾",
	IconBone:            "🦴",
	IconPill:            "💊",
	IconUtensils:        "🍴",
	IconHome:            "🏠",
	IconShirt:           "👕",
	IconPawPrint:        "🐶",
	IconBox:             "📦",
}

// Known reports whether i is part of the icon set.
func (i Icon) Known() bool {
	_, ok := glyphs[i]
	return ok
}

// Glyph returns the drawable symbol for the icon, falling back to the
// default icon's glyph for unknown names.
func (i Icon) Glyph() string {
	if g, ok := glyphs[i]; ok {
		return g
	}
	return glyphs[IconDefault]
}

// ParseIcon maps a stored name to an Icon, returning IconDefault for names
// outside the set.
func ParseIcon(name string) Icon {
	i := Icon(name)
	if i.Known() {
		return i
	}
	return IconDefault
}
