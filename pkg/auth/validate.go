package auth

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorInstance *validator.Validate
	validatorOnce     sync.Once
)

func getValidator() *validator.Validate {
	validatorOnce.Do(func() {
		validatorInstance = validator.New()
		validatorInstance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validatorInstance
}

var tagMessages = map[string]string{
	"required": "is required",
	"email":    "must be a valid email address",
	"min":      "is too short",
}

// validateRequest checks a request struct and turns the first failure into
// a user-facing message.
func validateRequest(op string, input any) error {
	err := getValidator().Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &Error{Kind: KindInvalid, Op: op, Message: "invalid request", Err: err}
	}
	first := verrs[0]
	detail, ok := tagMessages[first.Tag()]
	if !ok {
		detail = "is invalid"
	}
	return &Error{
		Kind:    KindInvalid,
		Op:      op,
		Message: fmt.Sprintf("%s %s", first.Field(), detail),
	}
}
