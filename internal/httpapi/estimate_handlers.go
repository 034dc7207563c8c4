package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
)

type EstimateHandler struct {
	Estimate func(ctx context.Context, brandText, modelText, yearText string) *int
}

type estimateRequest struct {
	Brand string `json:"brand"`
	Model string `json:"model"`
	Year  string `json:"year"`
}

type estimateResponse struct {
	// ReferencePrice is null when no estimate could be made; that is a
	// normal outcome, not an error status.
	ReferencePrice *int `json:"reference_price"`
}

func (h EstimateHandler) Post(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	ref := h.Estimate(r.Context(), req.Brand, req.Model, req.Year)
	writeJSON(w, estimateResponse{ReferencePrice: ref})
}
