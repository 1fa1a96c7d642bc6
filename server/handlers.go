package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/teranos/larder/errors"
	"github.com/teranos/larder/icon"
	"github.com/teranos/larder/logger"
	"github.com/teranos/larder/match"
	"github.com/teranos/larder/quantity"
	"github.com/teranos/larder/version"
)

// HandleHealth reports liveness and a few counters
func (s *LarderServer) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	cur := s.current()
	info := version.Get()
	resp := HealthResponse{
		Status:        "ok",
		Version:       info.Version,
		Commit:        info.Short(),
		ServerState:   s.getState().String(),
		Clients:       s.ClientCount(),
		IconTable:     cur.resolver.Table().Version().String(),
		EmptyQuery:    cur.engine.Mode().String(),
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
	}

	count, err := s.store.Count(r.Context())
	if err != nil {
		s.logger.Errorw("Health check could not count ingredients", logger.FieldError, err)
		resp.Status = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Ingredients = count

	writeJSON(w, http.StatusOK, resp)
}

// HandleQuantityParse parses quantity text. Invalid text is a normal outcome
// reported with valid=false, not an HTTP error.
func (s *LarderServer) HandleQuantityParse(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req ParseQuantityRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	formatter := s.current().formatter
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusOK, ParseQuantityResponse{
			Absent:  true,
			Display: formatter.Format(nil),
		})
		return
	}

	q, err := quantity.Parse(req.Text)
	if err != nil {
		err = errors.WithHint(err, "quantities look like "+quantity.AcceptedForms)
		s.logger.Debugw("Quantity rejected", logger.FieldQuantity, req.Text, logger.FieldError, err)
		writeJSON(w, http.StatusOK, ParseQuantityResponse{
			Error: err.Error(),
			Hints: errors.GetAllHints(err),
		})
		return
	}

	writeJSON(w, http.StatusOK, ParseQuantityResponse{
		Valid:       true,
		Numerator:   q.Num(),
		Denominator: q.Den(),
		Display:     formatter.Format(&q),
	})
}

// HandleQuantityFormat renders a fraction in canonical form
func (s *LarderServer) HandleQuantityFormat(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	var req FormatQuantityRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}

	formatter := s.current().formatter
	if req.Numerator == nil {
		writeJSON(w, http.StatusOK, FormatQuantityResponse{Text: formatter.Format(nil)})
		return
	}

	den := int64(1)
	if req.Denominator != nil {
		den = *req.Denominator
	}
	q, err := quantity.New(*req.Numerator, den)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, FormatQuantityResponse{Text: formatter.Format(&q)})
}

// HandleIcon resolves the icon for ?name= and optional ?category=
func (s *LarderServer) HandleIcon(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	name := r.URL.Query().Get("name")
	category := r.URL.Query().Get("category")

	tok := s.current().resolver.Resolve(name, category)
	s.logger.Debugw("Icon resolved",
		logger.FieldIngredient, name,
		logger.FieldCategory, category,
		logger.FieldToken, tok.Value,
	)
	writeJSON(w, http.StatusOK, IconResponse{
		Kind:     tok.Kind.String(),
		Value:    tok.Value,
		Fallback: icon.FallbackGlyph,
	})
}

// HandleIngredients lists (GET) or creates (POST) ingredients
func (s *LarderServer) HandleIngredients(w http.ResponseWriter, r *http.Request) {
	if !requireMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}

	if r.Method == http.MethodGet {
		ingredients, err := s.store.List(r.Context())
		if err != nil {
			s.logger.Errorw("Failed to list ingredients", logger.FieldError, err)
			writeErrorFrom(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ingredients)
		return
	}

	var req CreateIngredientRequest
	if err := readJSON(w, r, &req); err != nil {
		return
	}
	ing, err := s.store.Create(r.Context(), req.Name, req.Category)
	if err != nil {
		writeErrorFrom(w, err)
		return
	}
	s.catalogChanged()
	writeJSON(w, http.StatusCreated, ing)
}

// HandleIngredient reads (GET) or deletes (DELETE) /api/ingredients/{id}
func (s *LarderServer) HandleIngredient(w http.ResponseWriter, r *http.Request) {
	if !requireMethods(w, r, http.MethodGet, http.MethodDelete) {
		return
	}
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "ingredient id must be an integer")
		return
	}

	if r.Method == http.MethodGet {
		ing, err := s.store.Get(r.Context(), id)
		if err != nil {
			writeErrorFrom(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ing)
		return
	}

	if err := s.store.Delete(r.Context(), id); err != nil {
		writeErrorFrom(w, err)
		return
	}
	s.catalogChanged()
	w.WriteHeader(http.StatusNoContent)
}

// HandleSuggest runs one stateless query: ?q= is the typed text and the
// optional ?empty=all|none overrides the configured empty-query mode.
func (s *LarderServer) HandleSuggest(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	cur := s.current()

	engine := cur.engine
	if raw := r.URL.Query().Get("empty"); raw != "" {
		mode, err := match.ParseEmptyQueryMode(raw)
		if err != nil {
			writeErrorFrom(w, err)
			return
		}
		engine, err = match.NewEngine(mode, match.WithMaxResults(cur.engine.MaxResults()))
		if err != nil {
			writeErrorFrom(w, err)
			return
		}
	}

	candidates, err := s.store.Candidates(r.Context())
	if err != nil {
		s.logger.Errorw("Failed to load candidates", logger.FieldError, err)
		writeErrorFrom(w, err)
		return
	}

	result := engine.Query(candidates, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, SuggestResponse{
		Query:       result.Query,
		Items:       itemPayloads(cur.resolver, result.Items),
		Highlighted: result.Highlighted,
		Exact:       result.Exact,
	})
}

// itemPayloads converts result rows to their wire form with icons attached
func itemPayloads(resolver *icon.Resolver, items []match.Item) []ItemPayload {
	out := make([]ItemPayload, 0, len(items))
	for _, it := range items {
		p := ItemPayload{Kind: it.Kind.String(), Name: it.Label()}
		if it.Kind == match.ItemExisting {
			p.ID = it.Candidate.ID
			p.Category = it.Candidate.Category
		}
		p.Icon = resolver.Resolve(p.Name, p.Category)
		out = append(out, p)
	}
	return out
}
