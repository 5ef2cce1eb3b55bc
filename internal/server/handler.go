package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/emrgen/glossary/internal/errs"
	"github.com/emrgen/glossary/internal/service"
	"github.com/emrgen/glossary/internal/store"
)

// identityHeader carries the authenticated user's email, set by the reverse
// proxy in front of the service.
const identityHeader = "x-authenticated-user-email"

const requestTimeout = 15 * time.Second

func newHandler(glossaries *service.GlossaryService, likes *service.LikeService, store store.Store) *handler {
	return &handler{
		glossaries: glossaries,
		likes:      likes,
		store:      store,
	}
}

type handler struct {
	glossaries *service.GlossaryService
	likes      *service.LikeService
	store      store.Store
}

func (h *handler) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(requestLogger)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("Hello world!"))
	})
	r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/health", h.health)
	r.Get("/ready", h.ready)
	r.Get("/live", h.live)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/glossary", h.listGlossaries)
		r.Post("/glossary", h.createGlossary)
		r.Get("/glossary-popular", h.popularGlossaries)
		r.Get("/glossary-search", h.searchGlossaries)

		r.Route("/glossary/{id}", func(r chi.Router) {
			r.Get("/", h.getGlossary)
			r.Put("/", h.updateGlossary)
			r.Delete("/", h.deleteGlossary)
			r.Get("/likes", h.listLikes)
			r.Post("/likes", h.addLike)
			r.Delete("/likes", h.removeLike)
			r.Get("/history", h.listHistory)
		})
	})

	return r
}

// who extracts the optional identity of the caller.
func who(r *http.Request) *string {
	email := r.Header.Get(identityHeader)
	if email == "" {
		return nil
	}
	return &email
}

func (h *handler) createGlossary(w http.ResponseWriter, r *http.Request) {
	var in service.GlossaryInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, errs.Invalid("invalid request body"))
		return
	}

	glossary, err := h.glossaries.Create(r.Context(), in, who(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, glossary)
}

func (h *handler) getGlossary(w http.ResponseWriter, r *http.Request) {
	glossary, err := h.glossaries.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, glossary)
}

func (h *handler) listGlossaries(w http.ResponseWriter, r *http.Request) {
	groups, total, err := h.glossaries.ListGrouped(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[*service.GlossaryGroup]{Results: groups, Count: total})
}

func (h *handler) searchGlossaries(w http.ResponseWriter, r *http.Request) {
	result, err := h.glossaries.Search(r.Context(), r.URL.Query().Get("q"), intQuery(r, "limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[*service.Glossary]{Results: result.Glossaries, Count: int(result.Total)})
}

func (h *handler) popularGlossaries(w http.ResponseWriter, r *http.Request) {
	glossaries, err := h.glossaries.Popular(r.Context(), intQuery(r, "limit"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[*service.Glossary]{Results: glossaries, Count: len(glossaries)})
}

type updateGlossaryRequest struct {
	service.GlossaryInput
	// Revision, when set, must match the entry's current revision for the
	// update to apply.
	Revision *int `json:"revision"`
}

func (h *handler) updateGlossary(w http.ResponseWriter, r *http.Request) {
	var req updateGlossaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errs.Invalid("invalid request body"))
		return
	}

	glossary, err := h.glossaries.Update(r.Context(), chi.URLParam(r, "id"), req.Revision, req.GlossaryInput, who(r))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, glossary)
}

func (h *handler) deleteGlossary(w http.ResponseWriter, r *http.Request) {
	if err := h.glossaries.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message{Message: "deleted"})
}

func (h *handler) listLikes(w http.ResponseWriter, r *http.Request) {
	likes, err := h.likes.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[*service.Like]{Results: likes, Count: len(likes)})
}

func (h *handler) addLike(w http.ResponseWriter, r *http.Request) {
	like, err := h.likes.Add(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, like)
}

func (h *handler) removeLike(w http.ResponseWriter, r *http.Request) {
	if err := h.likes.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, message{Message: "ok"})
}

func (h *handler) listHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.glossaries.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse[*service.HistoryRecord]{Results: history, Count: len(history)})
}

func intQuery(r *http.Request, key string) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return 0
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}

	return n
}
