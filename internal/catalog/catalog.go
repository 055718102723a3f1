package catalog

// Category classifies a chore type and drives its color and heading.
type Category string

const (
	CategoryKitchen  Category = "kitchen"
	CategoryDrinks   Category = "drinks"
	CategoryHome     Category = "home"
	CategoryClothing Category = "clothing"
	CategoryPets     Category = "pets"
	CategoryMisc     Category = "misc"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryKitchen,
	CategoryDrinks,
	CategoryHome,
	CategoryClothing,
	CategoryPets,
	CategoryMisc,
}

// ChoreType is one entry of the built-in chore catalog.
type ChoreType struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Icon      Icon     `json:"icon"`
	Category  Category `json:"category"`
	PastTense string   `json:"past_tense"`
}

var chores = []ChoreType{
	{ID: "c10", Name: "Plan Meals", Icon: IconClipboardList, Category: CategoryKitchen, PastTense: "planned meals"},
	{ID: "c11", Name: "Order Food", Icon: IconSmartphone, Category: CategoryKitchen, PastTense: "ordered food"},
	{ID: "c12", Name: "Pick Up Food", Icon: IconCar, Category: CategoryKitchen, PastTense: "picked up food"},
	{ID: "c13", Name: "Put Away Groceries", Icon: IconPackage, Category: CategoryKitchen, PastTense: "put away groceries"},
	{ID: "c14", Name: "Prep Food", Icon: IconUtensilsCrossed, Category: CategoryKitchen, PastTense: "prepped food"},
	{ID: "c15", Name: "Cook Food", Icon: IconChefHat, Category: CategoryKitchen, PastTense: "cooked food"},
	{ID: "c16", Name: "Wash Dishes", Icon: IconDroplets, Category: CategoryKitchen, PastTense: "washed dishes"},
	{ID: "c17", Name: "Put Away Dishes", Icon: IconArrowDownToLine, Category: CategoryKitchen, PastTense: "put away dishes"},

	{ID: "c23", Name: "Make Coffee", Icon: IconCoffee, Category: CategoryDrinks, PastTense: "made coffee"},
	{ID: "c24", Name: "Make Water", Icon: IconGlassWater, Category: CategoryDrinks, PastTense: "made water"},
	{ID: "c25", Name: "Make Sparkling Water", Icon: IconZap, Category: CategoryDrinks, PastTense: "made sparkling water"},

	{ID: "c3", Name: "Trash", Icon: IconTrash, Category: CategoryHome, PastTense: "took out the trash"},
	{ID: "c4", Name: "Vacuum", Icon: IconWind, Category: CategoryHome, PastTense: "vacuumed"},
	{ID: "c8", Name: "Tidy Up", Icon: IconSparkles, Category: CategoryHome, PastTense: "tidied up"},
	{ID: "c22", Name: "Steam Carpet", Icon: IconCloudFog, Category: CategoryHome, PastTense: "steamed the carpet"},
	{ID: "c26", Name: "Get Mail", Icon: IconMail, Category: CategoryHome, PastTense: "got the mail"},

	{ID: "c18", Name: "Wash Clothes", Icon: IconWaves, Category: CategoryClothing, PastTense: "washed clothes"},
	{ID: "c19", Name: "Dry Clothes", Icon: IconSun, Category: CategoryClothing, PastTense: "dried clothes"},
	{ID: "c20", Name: "Fold Clothes", Icon: IconLayers, Category: CategoryClothing, PastTense: "folded clothes"},
	{ID: "c21", Name: "Organize Clothes", Icon: IconLayoutGrid, Category: CategoryClothing, PastTense: "organized clothes"},

	{ID: "c27", Name: "Take Dog Out", Icon: IconFootprints, Category: CategoryPets, PastTense: "took the dog out"},
	{ID: "c28", Name: "Feed Dog", Icon: IconBone, Category: CategoryPets, PastTense: "fed the dog"},
	{ID: "c29", Name: "Give Meds to Dog", Icon: IconPill, Category: CategoryPets, PastTense: "gave meds to the dog"},
	{ID: "c30", Name: "Take Dog to Daycare", Icon: IconCar, Category: CategoryPets, PastTense: "took the dog to daycare"},
}

var byID = func() map[string]ChoreType {
	m := make(map[string]ChoreType, len(chores))
	for _, c := range chores {
		m[c.ID] = c
	}
	return m
}()

// UnknownChore is substituted when a log references a chore id that is not in the catalog.
var UnknownChore = ChoreType{
	Name:      "Unknown",
	Icon:      IconDefault,
	Category:  CategoryMisc,
	PastTense: "did something",
}

// All returns a copy of the catalog in display order.
func All() []ChoreType {
	out := make([]ChoreType, len(chores))
	copy(out, chores)
	return out
}

// Lookup returns the chore type with the given id.
func Lookup(id string) (ChoreType, bool) {
	c, ok := byID[id]
	return c, ok
}

// Resolve returns the chore type with the given id, or UnknownChore.
func Resolve(id string) ChoreType {
	if c, ok := byID[id]; ok {
		return c
	}
	return UnknownChore
}

// Group is a category heading with the chores filed under it.
type Group struct {
	Category Category
	Title    string
	Icon     Icon
	Chores   []ChoreType
}

// Grouped returns the catalog grouped by category in Categories order.
// Categories without chores are omitted.
func Grouped() []Group {
	var groups []Group
	for _, cat := range Categories {
		g := Group{Category: cat, Title: Title(cat), Icon: CategoryIcon(cat)}
		for _, c := range chores {
			if c.Category == cat {
				g.Chores = append(g.Chores, c)
			}
		}
		if len(g.Chores) > 0 {
			groups = append(groups, g)
		}
	}
	return groups
}

// Color returns the block color token for a category. Unrecognized
// categories get the misc color.
func Color(c Category) string {
	switch c {
	case CategoryKitchen:
		return "#fb7185"
	case CategoryDrinks:
		return "#22d3ee"
	case CategoryHome:
		return "#38bdf8"
	case CategoryClothing:
		return "#e879f9"
	case CategoryPets:
		return "#fb923c"
	case CategoryMisc:
		return "#a78bfa"
	default:
		return "#a78bfa"
	}
}

// Title returns the display heading for a category.
func Title(c Category) string {
	switch c {
	case CategoryKitchen:
		return "Food & Kitchen"
	case CategoryDrinks:
		return "Drinks"
	case CategoryHome:
		return "Home"
	case CategoryClothing:
		return "Clothing"
	case CategoryPets:
		return "Pets"
	default:
		return "Miscellaneous"
	}
}

// CategoryIcon returns the heading icon for a category.
func CategoryIcon(c Category) Icon {
	switch c {
	case CategoryKitchen:
		return IconUtensils
	case CategoryDrinks:
		return IconCoffee
	case CategoryHome:
		return IconHome
	case CategoryClothing:
		return IconShirt
	case CategoryPets:
		return IconPawPrint
	default:
		return IconBox
	}
}
