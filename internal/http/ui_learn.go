package httpx

import (
	"net/http"
	"strings"
)

// Learn lists vocabulary categories.
func (h *UIHandlers) Learn(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Learn", Page: PageLearn}
	cats, err := h.Catalog.Categories(r.Context(), accessToken(r))
	if err != nil {
		h.fail(w, r, meta, err)
		return
	}
	data := h.page(r, meta)
	data.Data = map[string]any{"Categories": cats}
	h.render(w, r, http.StatusOK, data)
}

// LearnTopics lists the topics of one category.
func (h *UIHandlers) LearnTopics(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Topics", Page: PageTopics}
	id := strings.TrimSpace(r.PathValue("id"))
	topics, err := h.Catalog.Topics(r.Context(), accessToken(r), id)
	if err != nil {
		h.fail(w, r, meta, err)
		return
	}
	data := h.page(r, meta)
	data.Data = map[string]any{"CategoryID": id, "Topics": topics}
	h.render(w, r, http.StatusOK, data)
}

// Vocabulary is the learner home page.
func (h *UIHandlers) Vocabulary(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Vocabulary", Page: PageVocabulary}
	cats, err := h.Catalog.Categories(r.Context(), accessToken(r))
	if err != nil {
		h.fail(w, r, meta, err)
		return
	}
	data := h.page(r, meta)
	data.Data = map[string]any{"Categories": cats}
	h.render(w, r, http.StatusOK, data)
}

// LearnerDashboard lists the exams available to the learner.
func (h *UIHandlers) LearnerDashboard(w http.ResponseWriter, r *http.Request) {
	meta := PageMeta{Title: "Dashboard", Page: PageDashboard}
	exams, err := h.Exams.List(r.Context(), accessToken(r), listOptionsFrom(r))
	if err != nil {
		h.fail(w, r, meta, err)
		return
	}
	data := h.page(r, meta)
	data.Data = map[string]any{"Exams": exams.Items}
	data.Pagination = paginationFor(r, exams)
	h.render(w, r, http.StatusOK, data)
}

// Profile shows the signed-in account.
func (h *UIHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.page(r, PageMeta{Title: "Profile", Page: PageProfile}))
}

// Settings renders account settings. Changes are submitted to the backend
// through the /api proxy.
func (h *UIHandlers) Settings(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, h.page(r, PageMeta{Title: "Settings", Page: PageSettings}))
}
