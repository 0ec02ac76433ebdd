package schema

import (
	"fmt"
	"strings"

	ierr "github.com/printstudio/docengine/internal/errors"
	"github.com/printstudio/docengine/internal/types"
	"github.com/printstudio/docengine/internal/validator"
	"github.com/samber/lo"
)

// Issue is one failed rule, addressed by its JSON path
type Issue = validator.FieldIssue

// ValidationError lists every rule a template or branding document broke
type ValidationError struct {
	Subject string
	Issues  []Issue
}

func (e *ValidationError) Error() string {
	parts := lo.Map(e.Issues, func(i Issue, _ int) string {
		if i.Path == "" {
			return i.Reason
		}
		return i.Path + " " + i.Reason
	})
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(parts, "; "))
}

// UnknownBlockTypeError is returned when a block's type is not one of the twelve kinds
type UnknownBlockTypeError struct {
	Path string
	Type types.BlockType
}

func (e *UnknownBlockTypeError) Error() string {
	return fmt.Sprintf("%s: unknown block type %q", e.Path, e.Type)
}

func validationFailed(subject string, issues []Issue) error {
	details := make(map[string]any, len(issues))
	for _, i := range issues {
		details[lo.Ternary(i.Path == "", "_", i.Path)] = i.Reason
	}
	return ierr.WithError(&ValidationError{Subject: subject, Issues: issues}).
		WithHintf("The %s document is invalid", subject).
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}

func unknownBlockType(path string, blockType types.BlockType) error {
	return ierr.WithError(&UnknownBlockTypeError{Path: path, Type: blockType}).
		WithHintf("Unknown block type %q", blockType).
		WithReportableDetails(map[string]any{
			"path":    path,
			"allowed": types.BlockTypes,
		}).
		Mark(ierr.ErrUnknownBlockType)
}

// AsValidationError extracts the issue list from err
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if ierr.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
