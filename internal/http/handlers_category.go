package http

import (
	"net/http"

	"focolare/internal/core"
)

type categoryRequest struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	category := &core.Category{
		GroupID: r.PathValue("id"),
		Name:    req.Name,
		Kind:    core.CategoryKind(req.Kind),
	}
	created, err := s.services.Categories.Create(r.Context(), userIDFrom(r.Context()), category)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.services.Categories.List(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]categoryResponse, len(categories))
	for i := range categories {
		out[i] = toCategoryResponse(&categories[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.services.Categories.Update(r.Context(), userIDFrom(r.Context()),
		r.PathValue("id"), req.Name, core.CategoryKind(req.Kind))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCategoryResponse(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.services.Categories.Delete(r.Context(), userIDFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

type assetSourceRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) handleCreateAssetSource(w http.ResponseWriter, r *http.Request) {
	var req assetSourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	source := &core.AssetSource{
		GroupID: r.PathValue("id"),
		Name:    req.Name,
		Color:   req.Color,
	}
	created, err := s.services.AssetSources.Create(r.Context(), userIDFrom(r.Context()), source)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAssetSourceResponse(created))
}

func (s *Server) handleListAssetSources(w http.ResponseWriter, r *http.Request) {
	sources, err := s.services.AssetSources.List(r.Context(), userIDFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]assetSourceResponse, len(sources))
	for i := range sources {
		out[i] = toAssetSourceResponse(&sources[i])
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdateAssetSource(w http.ResponseWriter, r *http.Request) {
	var req assetSourceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := s.services.AssetSources.Update(r.Context(), userIDFrom(r.Context()),
		r.PathValue("id"), req.Name, req.Color)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAssetSourceResponse(updated))
}

func (s *Server) handleDeleteAssetSource(w http.ResponseWriter, r *http.Request) {
	if err := s.services.AssetSources.Delete(r.Context(), userIDFrom(r.Context()), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}
