package server

import (
	"net/http"

	"github.com/chatkeep/chatkeep-server/folders"
	"github.com/google/uuid"
)

func newID() string { return uuid.New().String() }

type createFolderRequest struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
}

func (s *Server) CreateFolderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createFolderRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}
		if req.UserID != userIDFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "user is not matched")
			return
		}

		folder := &folders.Folder{
			ID:     newID(),
			UserID: req.UserID,
			Name:   req.Name,
		}
		if err := s.repos.Folders.Create(r.Context(), folder); err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, folder)
	}
}

func (s *Server) ListFoldersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.repos.Folders.ListAll(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
	}
}

func (s *Server) ListFoldersByUserHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.repos.Folders.ListByUserID(r.Context(), r.PathValue("userID"))
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
	}
}
