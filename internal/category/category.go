// Package category holds the fixed vocabulary of claim categories. The set is
// seeded at construction and read-only thereafter; experiences and badge
// classes reference categories by index.
package category

// Category is a fixed classification tag.
type Category struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Registry is the seeded, immutable category vocabulary.
type Registry struct {
	categories []Category
}

// DefaultLabels is the vocabulary seeded by a standard deployment.
var DefaultLabels = []string{
	"education",
	"professional-experience",
	"volunteering",
	"achievement",
}

// NewRegistry seeds a registry with the given labels, or the default set when
// none are given.
func NewRegistry(labels ...string) *Registry {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	categories := make([]Category, len(labels))
	for i, label := range labels {
		categories[i] = Category{Index: i, Label: label}
	}
	return &Registry{categories: categories}
}

// Categories returns the full ordered set.
func (r *Registry) Categories() []Category {
	return append([]Category{}, r.categories...)
}

// Exists reports whether the index references a seeded category.
func (r *Registry) Exists(index int) bool {
	return index >= 0 && index < len(r.categories)
}
