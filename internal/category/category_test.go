package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRegistry(t *testing.T) {
	registry := NewRegistry()

	categories := registry.Categories()
	assert.Len(t, categories, 4)
	assert.Equal(t, Category{Index: 0, Label: "education"}, categories[0])
	assert.Equal(t, Category{Index: 3, Label: "achievement"}, categories[3])
}

func TestExists(t *testing.T) {
	registry := NewRegistry("one", "two")

	assert.True(t, registry.Exists(0))
	assert.True(t, registry.Exists(1))
	assert.False(t, registry.Exists(2))
	assert.False(t, registry.Exists(-1))
}

func TestCategoriesReturnsCopy(t *testing.T) {
	registry := NewRegistry()

	first := registry.Categories()
	first[0].Label = "mutated"

	assert.Equal(t, "education", registry.Categories()[0].Label)
}
