package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/karthi209/notkarthik/internal/models"
)

type PostsHandler struct {
	store PostStore
}

func NewPostsHandler(store PostStore) *PostsHandler {
	return &PostsHandler{store: store}
}

// TagList accepts tags as a JSON array or a comma-separated string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = cleanTags(list)
		return nil
	}
	var csv string
	if err := json.Unmarshal(data, &csv); err != nil {
		return err
	}
	*t = cleanTags(strings.Split(csv, ","))
	return nil
}

func cleanTags(in []string) TagList {
	if in == nil {
		return nil
	}
	out := make(TagList, 0, len(in))
	for _, tag := range in {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

type PostRequest struct {
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Category string  `json:"category"`
	Tags     TagList `json:"tags"`
}

func (req PostRequest) post() models.Post {
	return models.Post{
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Category: strings.TrimSpace(req.Category),
		Tags:     req.Tags,
	}
}

type CreatePostResponse struct {
	Message string       `json:"message"`
	Blog    *models.Post `json:"blog"`
}

type DeletePostResponse struct {
	Message string       `json:"message"`
	Blog    *models.Post `json:"blog"`
}

func (h *PostsHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := models.PostFilter{
		Category: q.Get("category"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	}

	if v := q.Get("startDate"); v != "" {
		start, _, err := parseDateBound(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid startDate")
			return
		}
		filter.Start = &start
	}
	if v := q.Get("endDate"); v != "" {
		_, end, err := parseDateBound(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "invalid endDate")
			return
		}
		filter.End = &end
	}

	posts, err := h.store.ListPosts(r.Context(), filter)
	if err != nil {
		respondStoreError(w, r, err, "", "failed to load posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	posts, err := h.store.ListPosts(r.Context(), models.PostFilter{Category: chi.URLParam(r, "category")})
	if err != nil {
		respondStoreError(w, r, err, "", "failed to load posts")
		return
	}
	respondJSON(w, http.StatusOK, posts)
}

func (h *PostsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "", "failed to load categories")
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *PostsHandler) Archives(w http.ResponseWriter, r *http.Request) {
	archives, err := h.store.ListArchives(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "", "failed to load archives")
		return
	}
	respondJSON(w, http.StatusOK, archives)
}

func (h *PostsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid blog ID format")
		return
	}
	post, err := h.store.GetPost(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "Blog post not found", "failed to load post")
		return
	}
	respondJSON(w, http.StatusOK, post)
}

func (h *PostsHandler) create(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	var req PostRequest
	if !decodeBody(w, r, &req, false) {
		return nil, false
	}
	post := req.post()
	if err := post.Validate(); err != nil {
		respondStoreError(w, r, err, "", "")
		return nil, false
	}
	created, err := h.store.CreatePost(r.Context(), post)
	if err != nil {
		respondStoreError(w, r, err, "", "failed to create post")
		return nil, false
	}
	return created, true
}

// Create answers with the bare post.
func (h *PostsHandler) Create(w http.ResponseWriter, r *http.Request) {
	if created, ok := h.create(w, r); ok {
		respondJSON(w, http.StatusCreated, created)
	}
}

// CreateWrapped answers with {message, blog}, the shape the CLI reads.
func (h *PostsHandler) CreateWrapped(w http.ResponseWriter, r *http.Request) {
	if created, ok := h.create(w, r); ok {
		respondJSON(w, http.StatusCreated, CreatePostResponse{Message: "Blog created successfully", Blog: created})
	}
}

func (h *PostsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid blog ID format")
		return
	}
	var req PostRequest
	if !decodeBody(w, r, &req, false) {
		return
	}
	post := req.post()
	if err := post.Validate(); err != nil {
		respondStoreError(w, r, err, "", "")
		return
	}
	updated, err := h.store.UpdatePost(r.Context(), id, post)
	if err != nil {
		respondStoreError(w, r, err, "Blog post not found", "failed to update post")
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

func (h *PostsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r, "id")
	if !ok {
		respondError(w, http.StatusBadRequest, "Invalid blog ID format")
		return
	}
	deleted, err := h.store.DeletePost(r.Context(), id)
	if err != nil {
		respondStoreError(w, r, err, "Blog post not found", "failed to delete post")
		return
	}
	respondJSON(w, http.StatusOK, DeletePostResponse{Message: "Blog post deleted successfully", Blog: deleted})
}

// parseDateBound returns the first and last instant covered by v, which
// may be an RFC 3339 timestamp, a day (2006-01-02) or a month (2006-01).
func parseDateBound(v string) (time.Time, time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, t, nil
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, t.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	t, err := time.Parse("2006-01", v)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return t, t.AddDate(0, 1, 0).Add(-time.Nanosecond), nil
}
