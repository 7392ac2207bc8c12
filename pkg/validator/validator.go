package validator

import (
	"unicode"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ArtifactKinds lists the downloadable document kinds
var ArtifactKinds = map[string]struct{}{
	"transcript":  {},
	"summary":     {},
	"report":      {},
	"translation": {},
}

// CustomValidator implements echo.Validator using go-playground/validator
type CustomValidator struct {
	v *validator.Validate
}

// New creates a new CustomValidator instance
func New() *CustomValidator {
	v := validator.New()
	_ = v.RegisterValidation("artifact_kind", validateArtifactKind)
	_ = v.RegisterValidation("lang_label", validateLangLabel)
	return &CustomValidator{v: v}
}

// Validate performs struct validation
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

// Var validates a single value against a tag
func (cv *CustomValidator) Var(field interface{}, tag string) error {
	return cv.v.Var(field, tag)
}

func validateArtifactKind(fl validator.FieldLevel) bool {
	_, ok := ArtifactKinds[fl.Field().String()]
	return ok
}

// lang_label accepts free-form language labels such as "English" or "zh-CN"
func validateLangLabel(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" || utf8.RuneCountInString(s) > 64 {
		return false
	}
	for _, r := range s {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
