package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
)

// parseInstant accepts RFC 3339 instants, or a bare YYYY-MM-DD taken as
// local midnight in the business timezone.
func parseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return timezone.ParseDate(s, timezone.Location(""))
}

// parseStart reads a booking start. Without an offset the value is wall-clock
// time at the booked location, reported by local.
func parseStart(s string) (t time.Time, local bool, err error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	t, err = timezone.ParseLocal(s, time.UTC)
	if err != nil {
		return time.Time{}, false, err
	}
	return t, true, nil
}

// optionalInstant reads an optional query instant.
func optionalInstant(c *gin.Context, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	t, err := parseInstant(raw)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_" + key)
	}
	return &t, nil
}

// bindError turns a binding failure into a validation error naming the first
// failing field, e.g. barberId_required.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return httperr.ErrBusiness(fmt.Sprintf("%s_%s", lowerFirst(fe.Field()), fe.Tag()))
	}
	return httperr.ErrBusiness("invalid_request")
}

// UseJSONFieldNames makes validation errors report json field names.
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
