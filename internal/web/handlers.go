package web

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/strlens/strlens/internal/config"
	"github.com/strlens/strlens/internal/errors"
	"github.com/strlens/strlens/internal/filter"
	"github.com/strlens/strlens/internal/ops"
	"github.com/strlens/strlens/internal/store"
)

// Handlers contains HTTP route handlers for the JSON API.
type Handlers struct {
	db      *sql.DB
	cfg     *config.Config
	version string
}

// createRequest is the body of POST /strings. Value is a pointer so a
// missing field can be told apart from an explicit empty string, which is
// a legal input.
type createRequest struct {
	Value *string `json:"value"`
}

// listResponse is the body of GET /strings.
type listResponse struct {
	Data           []store.Entry     `json:"data"`
	Count          int               `json:"count"`
	Returned       int               `json:"returned"`
	FiltersApplied filter.Predicates `json:"filters_applied"`
	Pagination     ops.Pagination    `json:"pagination"`
}

// queryResponse is the body of GET /strings/filter-by-natural-language.
type queryResponse struct {
	Data             []store.Entry      `json:"data"`
	Count            int                `json:"count"`
	Returned         int                `json:"returned"`
	InterpretedQuery ops.Interpretation `json:"interpreted_query"`
	Pagination       ops.Pagination     `json:"pagination"`
}

// HandleCreate handles POST /strings — analyze and store a string.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.NewInvalidRequest("invalid JSON body"))
		return
	}
	if req.Value == nil {
		writeError(w, errors.NewInvalidRequest("missing 'value' field"))
		return
	}

	result, err := ops.Store(r.Context(), h.db, h.cfg, ops.StoreInput{Value: *req.Value})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// HandleGet handles GET /strings/{id} — fetch by content hash or exact value.
func (h *Handlers) HandleGet(w http.ResponseWriter, r *http.Request) {
	result, err := ops.Fetch(r.Context(), h.db, ops.FetchInput{
		Identifier: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result.Entry)
}

// HandleDelete handles DELETE /strings/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, err := ops.Delete(r.Context(), h.db, ops.DeleteInput{
		ID: r.PathValue("id"),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleList handles GET /strings — structured predicate filtering.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	preds, err := predicatesFromQuery(r)
	if err != nil {
		writeError(w, err)
		return
	}
	limit, offset, err := paginationParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := ops.List(r.Context(), h.db, ops.ListInput{
		Predicates: preds,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data:           result.Items,
		Count:          result.Pagination.Total,
		Returned:       len(result.Items),
		FiltersApplied: result.Filters,
		Pagination:     result.Pagination,
	})
}

// HandleQuery handles GET /strings/filter-by-natural-language.
func (h *Handlers) HandleQuery(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := paginationParams(r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := ops.Query(r.Context(), h.db, ops.QueryInput{
		Query:  r.URL.Query().Get("query"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Data:             result.Items,
		Count:            result.Pagination.Total,
		Returned:         len(result.Items),
		InterpretedQuery: result.Interpreted,
		Pagination:       result.Pagination,
	})
}

// predicatesFromQuery builds filter predicates from URL query parameters.
// Malformed parameter values are construction errors, surfaced before any
// filtering runs; value validation itself lives in Predicates.Validate.
func predicatesFromQuery(r *http.Request) (filter.Predicates, error) {
	var preds filter.Predicates
	q := r.URL.Query()

	if s := q.Get("is_palindrome"); s != "" {
		switch s {
		case "true", "1":
			v := true
			preds.IsPalindrome = &v
		case "false", "0":
			v := false
			preds.IsPalindrome = &v
		default:
			return preds, errors.NewInvalidRequest("is_palindrome must be true or false")
		}
	}

	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"min_length", &preds.MinLength},
		{"max_length", &preds.MaxLength},
		{"word_count", &preds.WordCount},
		{"min_word_count", &preds.MinWordCount},
	} {
		s := q.Get(p.name)
		if s == "" {
			continue
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return preds, errors.NewInvalidRequest(p.name + " must be an integer")
		}
		*p.dst = &v
	}

	if s := q.Get("contains_character"); s != "" {
		preds.ContainsCharacter = &s
	}

	return preds, nil
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a structured error to its HTTP status and a JSON body.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	payload := map[string]any{
		"code":    string(errors.ErrInternal),
		"message": "an internal error occurred",
	}

	if sErr, ok := err.(*errors.StrlensError); ok {
		status = sErr.Status
		payload["code"] = string(sErr.Code)
		payload["message"] = sErr.Message
		// Internal details can leak file paths or SQL errors
		if sErr.Code != errors.ErrInternal && sErr.Details != nil {
			payload["details"] = sErr.Details
		}
	}

	writeJSON(w, status, map[string]any{"error": payload})
}

// paginationParams reads the shared limit/offset parameters.
func paginationParams(r *http.Request) (limit, offset int, err error) {
	if limit, err = parseIntParam(r, "limit", 0); err != nil {
		return 0, 0, err
	}
	if offset, err = parseIntParam(r, "offset", 0); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

// parseIntParam parses an integer query parameter, defaulting when absent.
// A present but malformed value is the caller's mistake, not a default.
func parseIntParam(r *http.Request, name string, defaultVal int) (int, error) {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.NewInvalidRequest(name + " must be an integer")
	}
	return v, nil
}
