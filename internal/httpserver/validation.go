package httpserver

import (
	"errors"
	"net/http"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// registerValidations teaches gin's validator to treat decimal amounts as
// numbers so tags like gt=0 apply to them.
func registerValidations() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			v.RegisterCustomTypeFunc(decimalAsFloat, decimal.Decimal{})
		}
	})
}

func decimalAsFloat(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

// bindJSON binds and validates the request body, answering a 400 with
// field-level messages when it fails.
func bindJSON(c *gin.Context, out interface{}) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		respond(c, http.StatusBadRequest, false, gin.H{"fields": fieldErrors(err)}, validationMessage(err))
		return false
	}
	return true
}

func fieldErrors(err error) map[string]string {
	out := map[string]string{}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[fe.Field()] = "failed on " + fe.Tag()
		}
		return out
	}
	out["body"] = err.Error()
	return out
}

func validationMessage(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		fe := ve[0]
		if fe.Field() == "Amount" {
			return "Invalid amount. Amount must be a positive number."
		}
		return fe.Field() + " is required"
	}
	return "invalid request body"
}
