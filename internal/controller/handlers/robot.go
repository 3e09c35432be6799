package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/akshayds23/Whizrobo/internal/controller/common"
)

// HandleSync serves GET /robot/sync
func (h *Handlers) HandleSync(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp, err := h.sync.Sync(r.Context(), caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, resp)
}

// HandleRefresh serves POST /robot/refresh
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	resp, err := h.sync.Refresh(r.Context(), caller)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, resp)
}

// HandleUsageLogs serves POST /robot/logs. The body goes to the service untouched,
// shape validation belongs to ingestion.
func (h *Handlers) HandleUsageLogs(w http.ResponseWriter, r *http.Request) {
	caller, err := requireCaller(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.fail(w, r, fmt.Errorf("%w: payload exceeds %d bytes", common.ErrBadRequest, tooLarge.Limit))
			return
		}
		h.fail(w, r, fmt.Errorf("%w: unreadable body", common.ErrBadRequest))
		return
	}

	result, err := h.usage.IngestLogs(r.Context(), caller, json.RawMessage(body))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.respond(w, r, http.StatusOK, result)
}
