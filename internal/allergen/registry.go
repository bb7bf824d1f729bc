package allergen

import "sort"

// Allergen is a single entry in the catalog: a substance or dietary
// category diners may need to avoid. Column is the structured-data
// column header used by venues that maintain per-item tri-state data.
type Allergen struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Icon     string   `json:"icon"`
	Column   string   `json:"column"`
	Keywords []string `json:"-"`
	Synonyms []string `json:"-"`
}

// Registry is the canonical allergen catalog. It unifies the keyword
// lists, synonym lists, and column mappings into one structure built
// once at startup and shared read-only by every component.
type Registry struct {
	entries []Allergen
	byID    map[string]*Allergen
	prefs   map[string]bool
}

// NewRegistry builds a registry from a catalog slice. The set of IDs
// flagged as dietary preferences controls warning phrasing.
func NewRegistry(entries []Allergen, preferences []string) *Registry {
	r := &Registry{
		entries: entries,
		byID:    make(map[string]*Allergen, len(entries)),
		prefs:   make(map[string]bool, len(preferences)),
	}
	for i := range r.entries {
		r.byID[r.entries[i].ID] = &r.entries[i]
	}
	for _, id := range preferences {
		r.prefs[id] = true
	}
	return r
}

// Get returns the allergen for an ID, or false if it is not cataloged.
func (r *Registry) Get(id string) (Allergen, bool) {
	a, ok := r.byID[id]
	if !ok {
		return Allergen{}, false
	}
	return *a, true
}

// Contains reports whether the ID is in the catalog.
func (r *Registry) Contains(id string) bool {
	_, ok := r.byID[id]
	return ok
}

// Column returns the structured-data column name for an allergen ID.
func (r *Registry) Column(id string) (string, bool) {
	a, ok := r.byID[id]
	if !ok {
		return "", false
	}
	return a.Column, true
}

// Label returns the display label for an ID, falling back to the raw
// ID for anything uncataloged so callers always get something to show.
func (r *Registry) Label(id string) string {
	if a, ok := r.byID[id]; ok {
		return a.Label
	}
	return id
}

// Keywords returns the ingredient keywords indicating presence of the
// allergen. Nil for unknown IDs.
func (r *Registry) Keywords(id string) []string {
	if a, ok := r.byID[id]; ok {
		return a.Keywords
	}
	return nil
}

// IsPreference reports whether the ID is a dietary preference
// (vegetarian, vegan) rather than an allergen.
func (r *Registry) IsPreference(id string) bool {
	return r.prefs[id]
}

// All returns the catalog in declaration order.
func (r *Registry) All() []Allergen {
	out := make([]Allergen, len(r.entries))
	copy(out, r.entries)
	return out
}

// IDs returns every cataloged ID sorted alphabetically.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.entries))
	for _, a := range r.entries {
		ids = append(ids, a.ID)
	}
	sort.Strings(ids)
	return ids
}

// Default returns the built-in catalog: two dietary preferences plus
// the allergen list ordered by prevalence (Big 9 first, then specific
// nuts, then regional entries).
func Default() *Registry {
	return NewRegistry(defaultCatalog, []string{"vegetarian", "vegan"})
}

var defaultCatalog = []Allergen{
	{
		ID: "vegetarian", Label: "Vegetarian", Icon: "🥗", Column: "Vegetarian",
		Keywords: []string{"meat", "chicken", "beef", "pork", "lamb", "bacon", "ham", "sausage", "fish", "seafood"},
		Synonyms: []string{"veggie", "no meat", "meatless"},
	},
	{
		ID: "vegan", Label: "Vegan", Icon: "🥦", Column: "Vegan",
		Keywords: []string{"meat", "chicken", "beef", "pork", "lamb", "bacon", "ham", "fish", "seafood", "milk", "cheese", "butter", "cream", "yogurt", "egg", "honey"},
		Synonyms: []string{"plant-based", "plant based", "no animal"},
	},
	{
		ID: "peanuts", Label: "Peanuts", Icon: "🥜", Column: "PEANUT FREE",
		Keywords: []string{"peanut", "groundnut", "arachis", "monkey nut"},
		Synonyms: []string{"peanut", "groundnut", "groundnuts", "arachis"},
	},
	{
		ID: "treenuts", Label: "Tree Nuts", Icon: "🌰", Column: "TREE NUT FREE",
		Keywords: []string{"almond", "walnut", "cashew", "pistachio", "pecan", "hazelnut", "macadamia", "brazil nut", "chestnut", "pine nut"},
		Synonyms: []string{"tree nut", "tree nuts", "nuts", "nut allergy"},
	},
	{
		ID: "eggs", Label: "Eggs", Icon: "🥚", Column: "EGG FREE",
		Keywords: []string{"egg", "albumin", "mayonnaise", "meringue", "aioli", "hollandaise", "custard"},
		Synonyms: []string{"egg", "ova", "albumin", "mayonnaise", "mayo", "meringue"},
	},
	{
		ID: "dairy", Label: "Dairy", Icon: "🥛", Column: "DAIRY FREE",
		Keywords: []string{"milk", "cheese", "butter", "cream", "yogurt", "whey", "casein", "lactose", "ghee", "curd", "paneer", "parmesan", "mozzarella", "feta"},
		Synonyms: []string{"milk", "lactose", "cheese", "butter", "cream", "yogurt", "whey", "casein"},
	},
	{
		ID: "gluten", Label: "Gluten", Icon: "🌾", Column: "GLUTEN FREE",
		Keywords: []string{"wheat", "flour", "bread", "pasta", "barley", "rye", "oats", "semolina", "spelt", "couscous", "bulgur", "farro"},
		Synonyms: []string{"barley", "rye", "celiac", "coeliac"},
	},
	{
		ID: "soy", Label: "Soy", Icon: "🌱", Column: "SOY FREE",
		Keywords: []string{"soy", "soya", "tofu", "edamame", "miso", "tempeh", "tamari", "soybean"},
		Synonyms: []string{"soya", "soybean", "soybeans", "tofu", "edamame"},
	},
	{
		ID: "fish", Label: "Fish", Icon: "🐟", Column: "FISH FREE",
		Keywords: []string{"fish", "salmon", "tuna", "cod", "anchovy", "sardine", "mackerel", "trout", "bass", "halibut", "tilapia"},
		Synonyms: []string{"cod", "salmon", "tuna", "anchovy", "anchovies", "sardine", "sardines", "tilapia", "halibut"},
	},
	{
		ID: "shellfish", Label: "Shellfish", Icon: "🦐", Column: "SHELLFISH FREE",
		Keywords: []string{"shrimp", "crab", "lobster", "prawn", "crawfish", "scampi", "crayfish", "langoustine"},
		Synonyms: []string{"shrimp", "crab", "lobster", "prawn", "prawns", "crawfish", "crayfish", "scampi"},
	},
	{
		ID: "sesame", Label: "Sesame", Icon: "🥯", Column: "SESAME FREE",
		Keywords: []string{"sesame", "tahini", "halvah", "hummus"},
		Synonyms: []string{"tahini", "sesame seeds"},
	},
	{
		ID: "almond", Label: "Almond", Icon: "🌰", Column: "ALMOND FREE",
		Keywords: []string{"almond", "marzipan", "frangipane"},
		Synonyms: []string{"almonds"},
	},
	{
		ID: "walnut", Label: "Walnut", Icon: "🌰", Column: "WALNUT FREE",
		Keywords: []string{"walnut"},
		Synonyms: []string{"walnuts"},
	},
	{
		ID: "pistachio", Label: "Pistachio", Icon: "🥜", Column: "PISTACHIO FREE",
		Keywords: []string{"pistachio"},
		Synonyms: []string{"pistachios"},
	},
	{
		ID: "wheat", Label: "Wheat", Icon: "🌾", Column: "WHEAT FREE",
		Keywords: []string{"wheat", "flour", "bread", "pasta", "semolina", "couscous", "bulgur", "farro", "seitan"},
		Synonyms: []string{"semolina", "durum", "spelt", "farina", "farro", "bulgur"},
	},
	{
		ID: "mustard", Label: "Mustard", Icon: "🟡", Column: "MUSTARD FREE",
		Keywords: []string{"mustard", "dijon"},
		Synonyms: []string{"dijon"},
	},
	{
		ID: "sulfites", Label: "Sulfites", Icon: "🧪", Column: "SULFITE FREE",
		Keywords: []string{"sulfite", "sulphite", "wine", "dried fruit"},
		Synonyms: []string{"sulfite", "sulphite", "sulphites", "so2", "preservatives"},
	},
	{
		ID: "garlic", Label: "Garlic", Icon: "🧄", Column: "GARLIC FREE",
		Keywords: []string{"garlic", "aioli"},
	},
	{
		ID: "onion", Label: "Onion", Icon: "🧅", Column: "ONION FREE",
		Keywords: []string{"onion", "shallot", "leek", "scallion", "chive"},
		Synonyms: []string{"onions", "shallot", "shallots", "leek", "leeks"},
	},
	{
		ID: "celery", Label: "Celery", Icon: "🥬", Column: "CELERY FREE",
		Keywords: []string{"celery", "celeriac"},
		Synonyms: []string{"celeriac"},
	},
	{
		ID: "chili", Label: "Chili", Icon: "🔥", Column: "CHILI FREE",
		Keywords: []string{"chili", "chilli", "jalapeno", "cayenne", "sriracha", "hot sauce", "tabasco"},
		Synonyms: []string{"chilli", "chillies", "chilies", "spicy", "hot pepper"},
	},
	{
		ID: "capsicum", Label: "Capsicum", Icon: "🌶️", Column: "CAPSICUM FREE",
		Keywords: []string{"capsicum", "bell pepper", "pepper", "paprika", "pimento"},
		Synonyms: []string{"bell pepper", "bell peppers", "peppers"},
	},
	{
		ID: "lupin", Label: "Lupin", Icon: "🌸", Column: "LUPIN FREE",
		Keywords: []string{"lupin", "lupini"},
		Synonyms: []string{"lupine", "lupini", "lupin beans"},
	},
	{
		ID: "molluscs", Label: "Molluscs", Icon: "🦑", Column: "MOLLUSC FREE",
		Keywords: []string{"squid", "octopus", "calamari", "clam", "mussel", "oyster", "scallop", "snail", "escargot"},
		Synonyms: []string{"mollusk", "mollusks", "squid", "octopus", "clam", "clams", "mussel", "mussels", "oyster", "oysters", "scallop", "scallops", "snail", "snails"},
	},
}
