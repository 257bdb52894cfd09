package domain

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	if err := Validator.RegisterValidation("maxbytes", maxBytes); err != nil {
		panic(err)
	}

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	addTranslations()
}

// maxBytes is len() based, unlike the builtin max tag which counts runes.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())

	if err != nil {
		panic(fmt.Sprintf("maxbytes: bad parameter %q", fl.Param()))
	}

	return len(fl.Field().String()) <= limit
}

func addTranslations() {
	messages := map[string]string{
		"required": "{0} is empty or insecure",
		"maxbytes": "{0} is longer than {1} bytes",
	}

	for tag, text := range messages {
		if err := Translator.Add(tag, text, true); err != nil {
			panic(err)
		}
	}
}

// checkField runs the required and maxbytes rules against an already
// sanitized value. A maxbytes failure is ErrOutOfRange, anything else
// ErrInvalidInput.
func checkField(field, value string, max int) error {
	err := Validator.Var(value, "required,maxbytes="+strconv.Itoa(max))

	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors

	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return invalidInput(field, err.Error())
	}

	fieldError := validationErrors[0]

	kind := ErrInvalidInput
	if fieldError.Tag() == "maxbytes" {
		kind = ErrOutOfRange
	}

	message, terr := Translator.T(fieldError.Tag(), field, fieldError.Param())

	if terr != nil {
		message = fieldError.Error()
	}

	return &FieldError{Field: field, Kind: kind, Message: message}
}
