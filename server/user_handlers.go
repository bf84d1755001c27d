package server

import (
	"net/http"

	"github.com/chatkeep/chatkeep-server/auth"
	"github.com/chatkeep/chatkeep-server/chatposts"
	"github.com/chatkeep/chatkeep-server/folders"
	"github.com/chatkeep/chatkeep-server/internal/utils"
	"github.com/chatkeep/chatkeep-server/users"
	"github.com/pkg/errors"
)

type registerRequest struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Nickname  string `json:"nickname"`
	Gender    string `json:"gender,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
}

// FolderWithPosts is the folder tree view: a folder plus the basic info of
// the posts filed into it.
type FolderWithPosts struct {
	folders.Folder
	Posts []*chatposts.ChatPost `json:"posts"`
}

func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		user, err := s.auth.Register(r.Context(), auth.RegisterParams{
			Username:  req.Username,
			Password:  req.Password,
			Nickname:  req.Nickname,
			Gender:    req.Gender,
			BirthDate: req.BirthDate,
		})
		if err != nil {
			if errors.Is(err, users.ErrAlreadyExists) {
				writeError(w, http.StatusConflict, "username already taken")
				return
			}
			// Password strength failures carry a user-facing message.
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		writeJSON(w, http.StatusCreated, user)
	}
}

// MyPageHandler returns the caller's own profile.
func (s *Server) MyPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("userID")
		if userID != userIDFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "user is not matched")
			return
		}

		user, err := s.repos.Users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, users.ErrNotFound) {
				writeError(w, http.StatusNotFound, "user not found")
				return
			}
			internalError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

// UserFoldersHandler returns the user's folders with the posts filed into
// each. Posts without a folder come last under a nil-ID pseudo folder.
func (s *Server) UserFoldersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("userID")

		userFolders, err := s.repos.Folders.ListByUserID(r.Context(), userID)
		if err != nil {
			internalError(w, r, err)
			return
		}
		posts, err := s.repos.ChatPosts.ListByUserID(r.Context(), userID)
		if err != nil {
			internalError(w, r, err)
			return
		}

		byFolder := make(map[string][]*chatposts.ChatPost)
		var unfiled []*chatposts.ChatPost
		for _, post := range posts {
			if post.FolderID == nil {
				unfiled = append(unfiled, post)
				continue
			}
			byFolder[*post.FolderID] = append(byFolder[*post.FolderID], post)
		}

		view := make([]FolderWithPosts, 0, len(userFolders)+1)
		for _, folder := range userFolders {
			view = append(view, FolderWithPosts{Folder: *folder, Posts: byFolder[folder.ID]})
		}
		if len(unfiled) > 0 {
			view = append(view, FolderWithPosts{Posts: unfiled})
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// OverwriteUserFoldersHandler replaces the user's folder tree: renames or
// creates the submitted folders and refiles the referenced posts.
func (s *Server) OverwriteUserFoldersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := r.PathValue("userID")
		if userID != userIDFromContext(r.Context()) {
			writeError(w, http.StatusForbidden, "user is not matched")
			return
		}

		var submitted []FolderWithPosts
		if err := decodeJSON(r, &submitted); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		for i := range submitted {
			folder := &submitted[i].Folder
			folder.UserID = userID

			if folder.ID == "" {
				folder.ID = newID()
				if err := s.repos.Folders.Create(r.Context(), folder); err != nil {
					internalError(w, r, err)
					return
				}
			} else if err := s.repos.Folders.Update(r.Context(), folder.ID, folder.Name); err != nil {
				if errors.Is(err, folders.ErrNotFound) {
					writeError(w, http.StatusNotFound, "folder not found")
					return
				}
				internalError(w, r, err)
				return
			}

			for _, post := range submitted[i].Posts {
				title := post.Title
				if title == "" {
					// The folder tree payload may carry bare post ids; keep
					// the stored title rather than blanking it.
					stored, err := s.repos.ChatPosts.GetByID(r.Context(), post.ID)
					if err != nil {
						if errors.Is(err, chatposts.ErrNotFound) {
							writeError(w, http.StatusNotFound, "chat post not found")
							return
						}
						internalError(w, r, err)
						return
					}
					title = stored.Title
				}

				err := s.repos.ChatPosts.UpdateMeta(r.Context(), post.ID, title, utils.Ptr(folder.ID))
				if err != nil {
					if errors.Is(err, chatposts.ErrNotFound) {
						writeError(w, http.StatusNotFound, "chat post not found")
						return
					}
					internalError(w, r, err)
					return
				}
			}
		}

		writeJSON(w, http.StatusOK, submitted)
	}
}
