package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/akshayds23/Whizrobo/internal/controller/common"
)

// HandleRecommend serves GET /recommend?query=...&org_id=...
func (h *Handlers) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()

	var orgID *int64
	if raw := params.Get("org_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			h.fail(w, r, fmt.Errorf("%w: org_id must be a positive integer", common.ErrBadRequest))
			return
		}
		orgID = &id
	}

	rec, err := h.recommender.Recommend(r.Context(), params.Get("query"), orgID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, rec)
}
