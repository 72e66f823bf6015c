package controller

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/jbweber/homelab/restkit/internal/apperror"
)

// NewValidator returns a validator that reports fields by their JSON names
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// pathID parses the {id} URL parameter. Zero, negative and non-numeric ids
// are rejected with 400 request.invalidId before any lookup; only positive
// ids that are absent from storage produce the resource's not found error.
func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &apperror.ValidationError{
			Code:    apperror.CodeInvalidID,
			Message: fmt.Sprintf("Invalid id %q", raw),
		}
	}
	return id, nil
}

// decodeBody reads exactly one JSON value from the body into dst
func decodeBody(r *http.Request, dst any) error {
	malformed := &apperror.ValidationError{
		Code:    apperror.CodeMalformedRequest,
		Message: "Malformed request body",
	}

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return malformed
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return malformed
	}
	return nil
}

// validateBody checks the validate tags of body
func validateBody(ctx context.Context, v *validator.Validate, body any) error {
	err := v.StructCtx(ctx, body)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fieldErrors := make([]apperror.FieldError, len(verrs))
	for i, fe := range verrs {
		fieldErrors[i] = apperror.FieldError{
			Field:   fe.Field(),
			Code:    fe.Tag(),
			Message: fieldMessage(fe),
		}
	}

	return &apperror.ValidationError{
		Code:        apperror.CodeInvalidRequest,
		Message:     "Request validation failed",
		FieldErrors: fieldErrors,
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	default:
		return fmt.Sprintf("%s failed the %s rule", fe.Field(), fe.Tag())
	}
}
