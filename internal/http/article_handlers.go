package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/blogartigo/api/internal/service/article"
	"github.com/blogartigo/api/internal/storage"
)

// multipartMemoryLimit bounds the in-memory portion of multipart parsing;
// the upload itself is capped separately by the banner store.
const multipartMemoryLimit = 1 << 20

func (r *Router) handleArticles(w http.ResponseWriter, req *http.Request) {
	switch req.Method {
	case http.MethodGet:
		r.withRateLimit("articles", rateLimitPublicRead, rateWindowDefault, rateLimitKeyIP, r.handleArticleList)(w, req)
	case http.MethodPost:
		r.handlerAuthRate("articles", rateLimitUserWrite, rateWindowDefault, r.handleArticleCreate)(w, req)
	default:
		r.methodNotAllowed(w)
	}
}

func (r *Router) handleArticleSubroutes(w http.ResponseWriter, req *http.Request) {
	trimmed := strings.TrimPrefix(req.URL.Path, "/api/articles/")
	switch {
	case trimmed == "":
		r.notFound(w)
	case trimmed == "recent":
		if req.Method != http.MethodGet {
			r.methodNotAllowed(w)
			return
		}
		r.withRateLimit("articles", rateLimitPublicRead, rateWindowDefault, rateLimitKeyIP, r.handleArticleRecent)(w, req)
	case trimmed == "search":
		if req.Method != http.MethodGet {
			r.methodNotAllowed(w)
			return
		}
		r.withRateLimit("articles", rateLimitPublicRead, rateWindowDefault, rateLimitKeyIP, r.handleArticleList)(w, req)
	case trimmed == "my/articles":
		if req.Method != http.MethodGet {
			r.methodNotAllowed(w)
			return
		}
		r.handlerAuthRate("articles", rateLimitPublicRead, rateWindowDefault, r.handleMyArticles)(w, req)
	case strings.HasPrefix(trimmed, "author/"):
		if req.Method != http.MethodGet {
			r.methodNotAllowed(w)
			return
		}
		r.withRateLimit("articles", rateLimitPublicRead, rateWindowDefault, rateLimitKeyIP, func(w http.ResponseWriter, req *http.Request) {
			r.handleArticlesByAuthor(w, req, strings.TrimPrefix(trimmed, "author/"))
		})(w, req)
	default:
		id, err := strconv.ParseInt(trimmed, 10, 64)
		if err != nil || id <= 0 {
			writeError(w, http.StatusBadRequest, "invalid id")
			return
		}
		switch req.Method {
		case http.MethodGet:
			r.withRateLimit("articles", rateLimitPublicRead, rateWindowDefault, rateLimitKeyIP, func(w http.ResponseWriter, req *http.Request) {
				r.handleArticleGet(w, req, id)
			})(w, req)
		case http.MethodPut:
			r.handlerAuthRate("articles", rateLimitUserWrite, rateWindowDefault, func(w http.ResponseWriter, req *http.Request) {
				r.handleArticleUpdate(w, req, id)
			})(w, req)
		case http.MethodDelete:
			r.handlerAuthRate("articles", rateLimitUserWrite, rateWindowDefault, func(w http.ResponseWriter, req *http.Request) {
				r.handleArticleDelete(w, req, id)
			})(w, req)
		default:
			r.methodNotAllowed(w)
		}
	}
}

func (r *Router) handleArticleList(w http.ResponseWriter, req *http.Request) {
	query := req.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	limit, _ := strconv.Atoi(query.Get("limit"))
	search := strings.TrimSpace(query.Get("search"))

	articles, pagination, err := r.articles.List(req.Context(), page, limit, search)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"articles":   articles,
		"pagination": pagination,
	})
}

func (r *Router) handleArticleRecent(w http.ResponseWriter, req *http.Request) {
	limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
	articles, err := r.articles.Recent(req.Context(), limit)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (r *Router) handleArticlesByAuthor(w http.ResponseWriter, req *http.Request, idStr string) {
	authorID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || authorID <= 0 {
		writeError(w, http.StatusBadRequest, "invalid author id")
		return
	}
	articles, err := r.articles.ByAuthor(req.Context(), authorID)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (r *Router) handleMyArticles(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for my articles", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	articles, err := r.articles.ByAuthor(req.Context(), info.UserID)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

func (r *Router) handleArticleGet(w http.ResponseWriter, req *http.Request, id int64) {
	found, err := r.articles.Get(req.Context(), id)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (r *Router) handleArticleCreate(w http.ResponseWriter, req *http.Request) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for article creation", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}

	input := article.CreateInput{AuthorID: info.UserID}
	if isMultipart(req) {
		if err := req.ParseMultipartForm(multipartMemoryLimit); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse multipart form")
			return
		}
		input.Title = req.FormValue("title")
		input.Content = req.FormValue("content")
		bannerURL, err := r.saveBannerUpload(w, req)
		if err != nil {
			return
		}
		input.BannerURL = bannerURL
	} else {
		var payload struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		input.Title = payload.Title
		input.Content = payload.Content
	}

	created, err := r.articles.Create(req.Context(), input)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "article created",
		"article": created,
	})
}

func (r *Router) handleArticleUpdate(w http.ResponseWriter, req *http.Request, id int64) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for article update", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}

	var input article.UpdateInput
	if isMultipart(req) {
		if err := req.ParseMultipartForm(multipartMemoryLimit); err != nil {
			writeError(w, http.StatusBadRequest, "could not parse multipart form")
			return
		}
		if form := req.MultipartForm; form != nil {
			if values, present := form.Value["title"]; present && len(values) > 0 {
				input.Title = &values[0]
			}
			if values, present := form.Value["content"]; present && len(values) > 0 {
				input.Content = &values[0]
			}
		}
		bannerURL, err := r.saveBannerUpload(w, req)
		if err != nil {
			return
		}
		input.BannerURL = bannerURL
	} else {
		var payload struct {
			Title   *string `json:"title"`
			Content *string `json:"content"`
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		input.Title = payload.Title
		input.Content = payload.Content
	}

	updated, err := r.articles.Update(req.Context(), info.UserID, id, input)
	if err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "article updated",
		"article": updated,
	})
}

func (r *Router) handleArticleDelete(w http.ResponseWriter, req *http.Request, id int64) {
	info, ok := authInfoFromContext(req.Context())
	if !ok {
		r.logger.Error("auth context missing for article delete", "path", req.URL.Path)
		writeError(w, http.StatusInternalServerError, "authorization context missing")
		return
	}
	if err := r.articles.Delete(req.Context(), info.UserID, id); err != nil {
		r.writeServiceError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "article deleted"})
}

func isMultipart(req *http.Request) bool {
	return strings.HasPrefix(req.Header.Get("Content-Type"), "multipart/form-data")
}

// saveBannerUpload stores an optional "banner" file part, writing the
// client error itself when the upload is rejected. A nil url with nil
// error means no file was sent.
func (r *Router) saveBannerUpload(w http.ResponseWriter, req *http.Request) (*string, error) {
	file, header, err := req.FormFile("banner")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		writeError(w, http.StatusBadRequest, "could not read banner upload")
		return nil, err
	}
	defer file.Close()

	if r.banners == nil {
		writeError(w, http.StatusInternalServerError, "banner storage unavailable")
		return nil, errors.New("banner store not configured")
	}
	url, err := r.banners.Save(req.Context(), storage.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		r.writeServiceError(w, req, err)
		return nil, err
	}
	return &url, nil
}
