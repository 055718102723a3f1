package catalog

// MemberColor is a theme a family member can pick for their profile chip.
type MemberColor struct {
	Label string `json:"label"`
	Token string `json:"token"`
	Hex   string `json:"hex"`
}

// MemberColors lists the selectable member themes.
var MemberColors = []MemberColor{
	{Label: "Whale", Token: "cyan", Hex: "#06b6d4"},
	{Label: "Bear", Token: "amber", Hex: "#f59e0b"},
	{Label: "Rose", Token: "rose", Hex: "#f43f5e"},
	{Label: "Sky", Token: "sky", Hex: "#0ea5e9"},
	{Label: "Fuchsia", Token: "fuchsia", Hex: "#d946ef"},
	{Label: "Orange", Token: "orange", Hex: "#f97316"},
	{Label: "Violet", Token: "violet", Hex: "#8b5cf6"},
	{Label: "Emerald", Token: "emerald", Hex: "#10b981"},
}

// DefaultMemberColor is used for new profiles.
const DefaultMemberColor = "violet"

// DefaultAvatar prefills new profiles. Logs whose member is gone show
// stats.UnknownMember instead.
const DefaultAvatar = "😊"

// MemberColorByToken returns the theme with the given token.
func MemberColorByToken(token string) (MemberColor, bool) {
	for _, c := range MemberColors {
		if c.Token == token {
			return c, true
		}
	}
	return MemberColor{}, false
}

// MemberHex returns the hex value for a member theme token, defaulting to violet.
func MemberHex(token string) string {
	if c, ok := MemberColorByToken(token); ok {
		return c.Hex
	}
	return "#8b5cf6"
}
