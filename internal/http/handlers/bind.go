package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/geocoder89/userhub/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message,omitempty"`
}

// ConfigureValidator makes gin's validator report json field names and know
// the username/password rules. Call once before serving.
func ConfigureValidator() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}

	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return validation.RegisterRules(v)
}

// BindJSON decodes the body into out. An absent body counts as "{}", so required
// fields report missingMsg rather than a decode failure.
func BindJSON(ctx *gin.Context, out interface{}, missingMsg string) bool {
	err := ctx.ShouldBindJSON(out)

	if errors.Is(err, io.EOF) {
		err = binding.Validator.ValidateStruct(out)
	}

	if err == nil {
		return true
	}

	var validatorError validator.ValidationErrors

	if errors.As(err, &validatorError) {
		msg := missingMsg
		if hasRule(validatorError, "nonul") {
			msg = msgInvalidBody
		}
		RespondError(ctx, http.StatusBadRequest, msg, parseValidationErrors(validatorError))
		return false
	}

	RespondError(ctx, http.StatusBadRequest, msgInvalidBody, parseDecodeError(err))
	return false
}

func parseValidationErrors(errs validator.ValidationErrors) gin.H {
	fields := make([]FieldError, 0, len(errs))

	for _, fieldError := range errs {
		fields = append(fields, FieldError{
			Field:   fieldError.Field(),
			Rule:    fieldError.Tag(),
			Message: validationMessage(fieldError.Tag()),
		})
	}

	return gin.H{"fields": fields}
}

func hasRule(errs validator.ValidationErrors, rule string) bool {
	for _, fieldError := range errs {
		if fieldError.Tag() == rule {
			return true
		}
	}
	return false
}

func parseDecodeError(err error) gin.H {
	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return gin.H{"json": "invalid_json_syntax"}
	}

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		return gin.H{
			"json": "invalid_json_type",
			"fields": []FieldError{
				{
					Field:   unmatchedTypeError.Field,
					Rule:    "type",
					Message: fmt.Sprintf("must be of type %s", unmatchedTypeError.Type.String()),
				},
			},
		}
	}

	return gin.H{"reason": err.Error()}
}

func validationMessage(rule string) string {
	switch rule {
	case "required":
		return "is required"
	case "username":
		return "must be at least 4 lower case letters or digits"
	case "nonul":
		return "must not contain NUL characters"
	case "password":
		return "must mix lower case, upper case, digit and one of $@!%*?&+-_ (6+ characters)"
	default:
		return "failed " + rule + " validation"
	}
}
