package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"openbadges/internal/category"
)

// CategoryLister exposes the ordered category read.
type CategoryLister interface {
	Categories() []category.Category
}

// CategoryHandler exposes the category registry. The read is public: clients
// need the category indexes before authenticating.
type CategoryHandler struct {
	categories CategoryLister
}

func NewCategoryHandler(categories CategoryLister) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

func (h *CategoryHandler) Register(r chi.Router) {
	r.Get("/categories", h.handleList)
}

func (h *CategoryHandler) handleList(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.categories.Categories())
}
