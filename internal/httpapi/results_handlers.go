package httpapi

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"carhunt-engine/internal/store"
)

type ResultsHandler struct {
	DB *sql.DB
}

func (h ResultsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	searches, err := store.ListSearches(r.Context(), h.DB, limit)
	if err != nil {
		WriteError(w, r, http.StatusInternalServerError, "store_failed", err.Error())
		return
	}
	if searches == nil {
		searches = []store.Search{}
	}
	writeJSON(w, searches)
}

// GetByPath serves /searches/{id}/ads and /searches/{id}/csv.
func (h ResultsHandler) GetByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/searches/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 {
		WriteError(w, r, http.StatusNotFound, "not_found", "expected /searches/{id}/ads or /searches/{id}/csv")
		return
	}
	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "bad_id", "search id must be numeric")
		return
	}

	switch parts[1] {
	case "ads":
		ads, err := store.ListAds(r.Context(), h.DB, id)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "store_failed", err.Error())
			return
		}
		if ads == nil {
			ads = []store.AdRow{}
		}
		writeJSON(w, ads)

	case "csv":
		s, err := store.GetSearch(r.Context(), h.DB, id)
		if errors.Is(err, sql.ErrNoRows) {
			WriteError(w, r, http.StatusNotFound, "not_found", "no such search")
			return
		}
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "store_failed", err.Error())
			return
		}
		ads, err := store.ListAds(r.Context(), h.DB, id)
		if err != nil {
			WriteError(w, r, http.StatusInternalServerError, "store_failed", err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=carhunt_search_%d.csv", id))
		_ = store.WriteCSV(w, s, ads)

	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "expected /searches/{id}/ads or /searches/{id}/csv")
	}
}
