package validator

import (
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	ierr "github.com/printstudio/docengine/internal/errors"
)

var (
	validate *validator.Validate

	colorPattern = regexp.MustCompile(`(?i)^#([0-9a-f]{3}|[0-9a-f]{6})$`)
)

// TagColor validates a 3 or 6 digit hex color such as #26D6F0
const TagColor = "doccolor"

func NewValidator() *validator.Validate {
	validate = newValidate()
	return validate
}

func GetValidator() *validator.Validate {
	if validate == nil {
		return NewValidator()
	}
	return validate
}

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json field names so issue paths match the document shape
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation(TagColor, func(fl validator.FieldLevel) bool {
		return IsColor(fl.Field().String())
	})
	return v
}

// IsColor reports whether s is a 3 or 6 digit hex color
func IsColor(s string) bool {
	return colorPattern.MatchString(s)
}

// FieldIssue is one failed rule with its json path
type FieldIssue struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// Issues runs struct validation and flattens failures into path/reason pairs.
// The root struct name is stripped from the path.
func Issues(s interface{}) []FieldIssue {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !ierr.As(err, &validateErrs) {
		return []FieldIssue{{Path: "", Reason: err.Error()}}
	}

	issues := make([]FieldIssue, 0, len(validateErrs))
	for _, fe := range validateErrs {
		path := fe.Namespace()
		if idx := strings.Index(path, "."); idx >= 0 {
			path = path[idx+1:]
		}
		issues = append(issues, FieldIssue{Path: path, Reason: reasonOf(fe)})
	}
	return issues
}

func reasonOf(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case TagColor:
		return "must be a hex color like #RGB or #RRGGBB"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "eq":
		return "must equal " + fe.Param()
	default:
		return "failed rule " + fe.Tag()
	}
}

func ValidateRequest(req interface{}) error {
	if err := GetValidator().Struct(req); err != nil {
		details := make(map[string]any)
		for _, issue := range Issues(req) {
			details[issue.Path] = issue.Reason
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}
