package middleware

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sabstore/backend/internal/domain/order"
)

// SetupValidator configures the validator with JSON field names and custom
// tags. Call once during startup, before the first request is bound.
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation("fulfillment_status", validFulfillmentStatus)
}

// validFulfillmentStatus accepts only the known fulfillment pipeline values
func validFulfillmentStatus(fl validator.FieldLevel) bool {
	return order.IsValidFulfillmentStatus(order.FulfillmentStatus(fl.Field().String()))
}
