package search

const (
	DefaultIndexUID = "umkm"
	PrimaryKey      = "id"

	FieldName        = "name"
	FieldDescription = "description"
	FieldAddress     = "address"
	FieldCategory    = "category"
	FieldStatus      = "status"
	FieldOwnerID     = "owner_id"
	FieldDistrict    = "district"
	FieldCreatedAt   = "created_at"
	FieldViews       = "views"

	// MaxTotalHits bounds how deep any search can page.
	MaxTotalHits = 1000
)

// Settings is the full, fixed configuration of the listing index.
type Settings struct {
	SearchableAttributes []string
	FilterableAttributes []string
	SortableAttributes   []string
	DisplayedAttributes  []string
	RankingRules         []string
	StopWords            []string
	Synonyms             map[string][]string
	TypoTolerance        TypoTolerance
	MaxTotalHits         int64
}

type TypoTolerance struct {
	Enabled         bool
	OneTypoMinSize  int64
	TwoTyposMinSize int64
}

var sortableAttributes = []string{FieldCreatedAt, FieldName, FieldViews}

// IndexSettings returns the settings applied on every provisioning.
func IndexSettings() Settings {
	return Settings{
		SearchableAttributes: []string{FieldName},
		FilterableAttributes: []string{FieldCategory, FieldStatus, FieldOwnerID, FieldDistrict},
		SortableAttributes:   append([]string(nil), sortableAttributes...),
		DisplayedAttributes: []string{
			"id", FieldName, FieldDescription, FieldCategory, FieldAddress, FieldDistrict,
			"maps_url", "location", "operating_hours", "contact", "photos", "payments",
			FieldStatus, FieldOwnerID, "owner_name", FieldViews, FieldCreatedAt, "updated_at",
		},
		RankingRules: []string{"words", "typo", "proximity", "attribute", "sort", "exactness"},
		StopWords: []string{
			"dan", "atau", "yang", "di", "ke", "dari", "untuk", "dengan",
			"adalah", "ini", "itu", "juga", "sudah", "saya", "anda",
			"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		},
		Synonyms: map[string][]string{
			"kuliner":    {"makanan", "minuman", "food", "beverages", "makan", "minum", "resto", "restoran", "warung", "cafe", "kafe"},
			"makanan":    {"kuliner", "food", "makan"},
			"fashion":    {"pakaian", "baju", "clothing", "busana", "konveksi", "garment"},
			"pakaian":    {"fashion", "baju", "clothing"},
			"kerajinan":  {"craft", "handmade", "handcraft", "kriya", "seni"},
			"jasa":       {"service", "layanan", "servis"},
			"agribisnis": {"pertanian", "agriculture", "tani", "farm", "agro"},
			"pertanian":  {"agribisnis", "agriculture", "tani"},
			"toko":       {"kelontong", "warung", "shop", "store", "retail"},
			"kelontong":  {"toko", "warung", "sembako"},

			"nasi":  {"nasgor", "nasgore"},
			"ayam":  {"aym"},
			"bakso": {"baso", "bakmi"},
			"mie":   {"mi", "mie ayam", "miayam"},
			"sate":  {"satai", "sati"},
			"kopi":  {"coffee", "kofe", "kofee"},
			"es":    {"ice", "ais"},

			"solo":        {"surakarta", "sala"},
			"surakarta":   {"solo", "sala"},
			"klaten":      {"kltn"},
			"boyolali":    {"boyolal"},
			"sukoharjo":   {"skh", "skoharjo"},
			"karanganyar": {"kra"},
			"sragen":      {"srgn"},
			"wonogiri":    {"wng", "wonogri"},
		},
		TypoTolerance: TypoTolerance{
			Enabled:         true,
			OneTypoMinSize:  3,
			TwoTyposMinSize: 6,
		},
		MaxTotalHits: MaxTotalHits,
	}
}

// IsSortable reports whether field can be used in a sort expression.
func IsSortable(field string) bool {
	for _, f := range sortableAttributes {
		if f == field {
			return true
		}
	}
	return false
}
