package domain

const (
	// Uncategorised is the required fallback category name.
	Uncategorised = "Uncategorised"
	// UncategorisedID is the backend id used when no other mapping exists.
	UncategorisedID = 1
)

// CategoryMap translates category names into backend category ids.
type CategoryMap map[string]int

// DefaultCategories returns the category table configured on the blog.
func DefaultCategories() CategoryMap {
	return CategoryMap{
		"History":              18,
		"Astronomy":            17,
		"Consumer Products":    15,
		"Consumer Electronics": 14,
		"Medicine":             13,
		"Paleontology":         12,
		"Sociology":            11,
		"Anthropology":         10,
		"Awards":               9,
		"Events":               8,
		"Environment":          7,
		"Mathematics":          6,
		"Physics":              5,
		"Chemistry":            4,
		"Biology":              3,
		"Technology":           2,
		Uncategorised:          UncategorisedID,
	}
}

// Resolve returns the id for name, or the Uncategorised id when name is unknown.
func (m CategoryMap) Resolve(name string) int {
	if id, ok := m[name]; ok {
		return id
	}
	if id, ok := m[Uncategorised]; ok {
		return id
	}
	return UncategorisedID
}

// WithFallback returns a copy of m that is guaranteed to contain Uncategorised.
func (m CategoryMap) WithFallback() CategoryMap {
	out := make(CategoryMap, len(m)+1)
	for name, id := range m {
		out[name] = id
	}
	if _, ok := out[Uncategorised]; !ok {
		out[Uncategorised] = UncategorisedID
	}
	return out
}
