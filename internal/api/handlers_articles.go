package api

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ArticleEnhancer/internal/domain"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type createArticleRequest struct {
	Title           string             `json:"title"`
	Slug            string             `json:"slug"`
	PublishedDate   time.Time          `json:"publishedDate"`
	Author          string             `json:"author"`
	ContentHTML     string             `json:"contentHtml"`
	ContentText     string             `json:"contentText"`
	VersionType     domain.VersionType `json:"versionType"`
	ParentArticleID string             `json:"parentArticleId"`
	References      []domain.Reference `json:"references"`
	SourceURL       string             `json:"sourceUrl"`
}

func (req createArticleRequest) article() domain.Article {
	version := req.VersionType
	if version == "" {
		version = domain.VersionOriginal
	}
	return domain.Article{
		Title:           req.Title,
		Slug:            req.Slug,
		PublishedDate:   req.PublishedDate,
		Author:          req.Author,
		ContentHTML:     req.ContentHTML,
		ContentText:     req.ContentText,
		VersionType:     version,
		ParentArticleID: req.ParentArticleID,
		References:      req.References,
		SourceURL:       req.SourceURL,
	}
}

func (s *Server) handleCreateArticle(w http.ResponseWriter, r *http.Request) {
	var req createArticleRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	article, err := s.store.Create(r.Context(), req.article())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	writeData(w, http.StatusCreated, article)
}

func (s *Server) handleListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := domain.ArticleFilter{
		VersionType: domain.VersionType(q.Get("versionType")),
		Limit:       queryInt(q.Get("limit"), defaultPageSize),
		Page:        queryInt(q.Get("page"), 1),
	}
	if filter.VersionType != "" && !filter.VersionType.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "versionType must be original or enhanced",
			"kind":    "Validation",
		})
		return
	}
	if filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}

	articles, total, err := s.store.List(r.Context(), filter)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    articles,
		"pagination": map[string]int{
			"total": total,
			"page":  filter.Page,
			"pages": int(math.Ceil(float64(total) / float64(filter.Limit))),
		},
	})
}

func (s *Server) handleGetArticle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	article, err := s.store.Get(r.Context(), id)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	var enhanced *domain.Article
	if article.IsOriginal() {
		enhanced, err = s.store.FindByParent(r.Context(), id)
		if err != nil {
			writeError(w, err, http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"data":            article,
		"enhancedVersion": enhanced,
	})
}

func (s *Server) handleUpdateArticle(w http.ResponseWriter, r *http.Request) {
	var update domain.ArticleUpdate
	if err := decodeBody(w, r, &update); err != nil {
		writeError(w, err, http.StatusBadRequest)
		return
	}

	article, err := s.store.Update(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	writeData(w, http.StatusOK, article)
}

func (s *Server) handleDeleteArticle(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Article deleted successfully",
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		writeError(w, err, http.StatusInternalServerError)
		return
	}
	writeData(w, http.StatusOK, stats)
}

func queryInt(raw string, fallback int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
