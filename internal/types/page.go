package types

import ierr "github.com/printstudio/docengine/internal/errors"

// PageSize is the nominal paper size of a template page
type PageSize string

const (
	PageSizeA4 PageSize = "A4"
)

// PageMode selects the physical page model
type PageMode string

const (
	PageModeA4      PageMode = "A4"
	PageModeThermal PageMode = "THERMAL"
)

// RenderMode distinguishes the interactive preview from isolated print output
type RenderMode string

const (
	RenderModePreview RenderMode = "preview"
	RenderModePrint   RenderMode = "print"
)

// TextAlign is the alignment knob exposed by style overrides
type TextAlign string

const (
	TextAlignLeft   TextAlign = "left"
	TextAlignCenter TextAlign = "center"
	TextAlignRight  TextAlign = "right"
)

// Validate reports an alignment outside left/center/right
func (a TextAlign) Validate() error {
	switch a {
	case TextAlignLeft, TextAlignCenter, TextAlignRight:
		return nil
	}
	return ierr.NewErrorf("invalid text align: %s", a).
		WithHint("Use left, center or right").
		Mark(ierr.ErrValidation)
}
