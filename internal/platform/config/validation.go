package config

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"
	_ "time/tzdata" // zone names resolve in images without a zoneinfo database

	"github.com/go-playground/validator/v10"
)

// sqlIdentifier matches table names that are safe to splice into SQL.
var sqlIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their config key so errors read "server.read_timeout".
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})

	must(v.RegisterValidation("sqlident", func(fl validator.FieldLevel) bool {
		return sqlIdentifier.MatchString(fl.Field().String())
	}))

	must(v.RegisterValidation("timezone", func(fl validator.FieldLevel) bool {
		_, err := time.LoadLocation(fl.Field().String())
		return err == nil
	}))

	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	lines := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		lines[i] = describeField(fe)
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(lines, "\n  "))
}

func describeField(fe validator.FieldError) string {
	key := configKey(fe.Namespace())
	p := fe.Param()

	switch fe.Tag() {
	case "required":
		return key + " is required"
	case "required_if":
		return key + " is required when " + p
	case "min":
		return key + " must be at least " + p
	case "max":
		return key + " must be at most " + p
	case "oneof":
		return key + " must be one of: " + p
	case "url":
		return key + " must be a valid URL"
	case "sqlident":
		return key + " must be a plain SQL identifier"
	case "timezone":
		return key + " must be an IANA time zone name"
	default:
		return key + " failed validation: " + fe.Tag()
	}
}

// configKey drops the root struct from a namespace such as "Config.server.port".
func configKey(namespace string) string {
	_, key, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return key
}
