package handler

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/srgjo27/hotel_booking/internal/core/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

type errorResponse struct {
	Error   domain.Kind         `json:"error"`
	Message string              `json:"message"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindRoomUnavailable, domain.KindInvalidTransition, domain.KindConflict, domain.KindDeleteNotAllowed:
		return http.StatusConflict
	case domain.KindInvalidPromotion, domain.KindPromotionExhausted:
		return http.StatusUnprocessableEntity
	case domain.KindTimeout:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if body == nil {
		return
	}

	_ = json.NewEncoder(w).Encode(body)
}

// writeError renders err as the error body. Internal failures never leak their text.
func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Error: domain.KindInternal, Message: "internal server error"}

	if domainErr, ok := domain.AsError(err); ok && domainErr.Kind != domain.KindInternal {
		resp.Error = domainErr.Kind
		resp.Message = domainErr.Message
		resp.Fields = domainErr.Fields

		if resp.Message == "" {
			resp.Message = domainErr.Error()
		}
	}

	if resp.Error == domain.KindTimeout {
		w.Header().Set("Retry-After", "1")
	}

	writeJSON(w, statusFor(resp.Error), resp)
}

// decode reads a JSON body into dst and runs its validate tags. An empty body
// is accepted when optional is set.
func decode(r *http.Request, dst any, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(dst)

	switch {
	case errors.Is(err, io.EOF) && optional:
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("request body is required")
	case err != nil:
		return domain.NewValidationError("invalid json body: %s", err.Error())
	}

	return validateStruct(dst)
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.NewValidationError("%s", err.Error())
	}

	fields := domain.FieldErrors{}

	for _, fe := range verrs {
		fields.Add(fieldPath(fe), describe(fe))
	}

	return fields.Err()
}

// fieldPath drops the top-level struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}

	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " long"
	case "min":
		return "must contain at least " + fe.Param()
	case "oneof":
		return "must be one of " + fe.Param()
	default:
		return "failed " + fe.Tag()
	}
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewValidationError("invalid id %q", mux.Vars(r)["id"])
	}

	return id, nil
}

// query reads optional typed query parameters and collects every parse failure.
type query struct {
	values url.Values
	fields domain.FieldErrors
}

func newQuery(r *http.Request) *query {
	return &query{values: r.URL.Query(), fields: domain.FieldErrors{}}
}

func (q *query) optInt64(key string) *int64 {
	raw := q.values.Get(key)
	if raw == "" {
		return nil
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		q.fields.Add(key, "must be an integer")
		return nil
	}

	return &v
}

func (q *query) optInt(key string) *int {
	v := q.optInt64(key)
	if v == nil {
		return nil
	}

	i := int(*v)

	return &i
}

func (q *query) optDate(key string) *domain.Date {
	raw := q.values.Get(key)
	if raw == "" {
		return nil
	}

	d, err := domain.ParseDate(raw)
	if err != nil {
		q.fields.Add(key, "must be a YYYY-MM-DD date")
		return nil
	}

	return &d
}

func (q *query) requiredDate(key string) domain.Date {
	if q.values.Get(key) == "" {
		q.fields.Add(key, "is required")
		return domain.Date{}
	}

	if d := q.optDate(key); d != nil {
		return *d
	}

	return domain.Date{}
}

func (q *query) text(key string) string {
	return strings.TrimSpace(q.values.Get(key))
}

func (q *query) err() error {
	return q.fields.Err()
}
