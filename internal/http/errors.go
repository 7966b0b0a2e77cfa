package httpx

import (
	"errors"
	"net/http"

	"github.com/blogartigo/api/internal/repository"
	"github.com/blogartigo/api/internal/service/article"
	"github.com/blogartigo/api/internal/service/auth"
	"github.com/blogartigo/api/internal/service/user"
	"github.com/blogartigo/api/internal/storage"
	"github.com/blogartigo/api/internal/validate"
)

// writeServiceError maps service failures to status codes at the outermost
// boundary. Internal detail is logged, never sent to the client.
func (r *Router) writeServiceError(w http.ResponseWriter, req *http.Request, err error) {
	var verr validate.Error
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, auth.ErrEmailTaken), errors.Is(err, user.ErrEmailTaken):
		writeError(w, http.StatusBadRequest, "email already registered")
	case errors.Is(err, storage.ErrFileTooLarge), errors.Is(err, storage.ErrUnsupportedType):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, article.ErrNotOwner):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusBadRequest, "resource already exists")
	default:
		r.logger.Error("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
