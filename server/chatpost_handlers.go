package server

import (
	"net/http"

	"github.com/chatkeep/chatkeep-server/chatposts"
	"github.com/pkg/errors"
)

type createChatPostRequest struct {
	Title    string  `json:"title"`
	FolderID *string `json:"folder_id,omitempty"`
	Pairs    []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"pairs"`
}

type updateChatPostRequest struct {
	Title    string  `json:"title"`
	FolderID *string `json:"folder_id,omitempty"`
}

func (s *Server) CreateChatPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createChatPostRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Title == "" {
			writeError(w, http.StatusBadRequest, "title is required")
			return
		}

		post := &chatposts.ChatPost{
			ID:       newID(),
			UserID:   userIDFromContext(r.Context()),
			FolderID: req.FolderID,
			Title:    req.Title,
		}
		for i, pair := range req.Pairs {
			post.Pairs = append(post.Pairs, chatposts.ChatPair{
				ID:         newID(),
				ChatPostID: post.ID,
				Question:   pair.Question,
				Answer:     pair.Answer,
				Seq:        i,
			})
		}

		if err := s.repos.ChatPosts.Create(r.Context(), post); err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, post)
	}
}

func (s *Server) ListChatPostsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.repos.ChatPosts.ListAll(r.Context())
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
	}
}

func (s *Server) MyChatPostsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := s.repos.ChatPosts.ListByUserID(r.Context(), userIDFromContext(r.Context()))
		if err != nil {
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, all)
	}
}

func (s *Server) GetChatPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, err := s.repos.ChatPosts.GetByID(r.Context(), r.PathValue("id"))
		if err != nil {
			if errors.Is(err, chatposts.ErrNotFound) {
				writeError(w, http.StatusNotFound, "chat post not found")
				return
			}
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, post)
	}
}

func (s *Server) UpdateChatPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := s.ownedChatPost(w, r)
		if !ok {
			return
		}

		var req updateChatPostRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Title == "" {
			req.Title = post.Title
		}

		if err := s.repos.ChatPosts.UpdateMeta(r.Context(), post.ID, req.Title, req.FolderID); err != nil {
			internalError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func (s *Server) DeleteChatPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := s.ownedChatPost(w, r)
		if !ok {
			return
		}

		if err := s.repos.ChatPosts.Delete(r.Context(), post.ID); err != nil {
			internalError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ownedChatPost loads the post from the path id and rejects callers that do
// not own it. On failure the response has already been written.
func (s *Server) ownedChatPost(w http.ResponseWriter, r *http.Request) (*chatposts.ChatPost, bool) {
	post, err := s.repos.ChatPosts.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, chatposts.ErrNotFound) {
			writeError(w, http.StatusNotFound, "chat post not found")
			return nil, false
		}
		internalError(w, r, err)
		return nil, false
	}
	if post.UserID != userIDFromContext(r.Context()) {
		writeError(w, http.StatusForbidden, "user is not matched")
		return nil, false
	}
	return post, true
}
