package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/akshayds23/Whizrobo/internal/controller/common"
	"github.com/akshayds23/Whizrobo/internal/controller/middleware"
	"github.com/akshayds23/Whizrobo/internal/model"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func newValidator() *validator.Validate {
	v := validator.New()

	// report json field names in validation errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// decodeAndValidate reads a JSON body into dst and runs the struct validation tags
func (h *Handlers) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := render.DecodeJSON(r.Body, dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", common.ErrBadRequest)
	}

	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return fmt.Errorf("%w: %s failed on %s", common.ErrBadRequest, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %s", common.ErrBadRequest, err.Error())
	}

	return nil
}

// pathID parses a positive integer URL parameter
func pathID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", common.ErrBadRequest, name)
	}
	return id, nil
}

// requireCaller returns the authenticated caller; the auth middleware guarantees one on every API route
func requireCaller(r *http.Request) (*model.Caller, error) {
	caller, ok := middleware.CallerFromContext(r.Context())
	if !ok {
		return nil, common.ErrUnauthorized
	}
	return caller, nil
}

// requireOrg checks that the caller may act on the organization's resources
func requireOrg(caller *model.Caller, orgID int64) error {
	if !caller.CanManageOrg(orgID) {
		return fmt.Errorf("%w: organization %d is outside your scope", common.ErrForbidden, orgID)
	}
	return nil
}

func (h *Handlers) respond(w http.ResponseWriter, r *http.Request, status int, v interface{}) {
	common.WriteJSON(w, r, status, v)
}

// fail writes the error response; unexpected errors are logged with the request id
func (h *Handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if common.ErrorStatus(err) == http.StatusInternalServerError {
		h.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", chimw.GetReqID(r.Context())),
			zap.Error(err),
		)
	}
	common.WriteError(w, r, err)
}
