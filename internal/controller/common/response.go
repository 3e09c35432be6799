package common

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

type ErrorBody struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

func WriteJSON(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	WriteJSON(w, r, ErrorStatus(err), ErrorResponse{
		Error: ErrorBody{
			Code:      ErrorCode(err),
			Message:   ErrorMessage(err),
			RequestID: middleware.GetReqID(r.Context()),
		},
	})
}
