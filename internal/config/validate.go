package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/vovakirdan/molepuzzle/internal/apperr"
)

// Range is an inclusive numeric bound.
type Range struct {
	Min, Max float64
}

func (r Range) contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Validation ranges for every bounded field.
var (
	RangeGameDurationSec    = Range{30, 300}
	RangeGridSize           = Range{2, 6}
	RangeAppearanceInterval = Range{500, 5000} // ms
	RangeDisplayDuration    = Range{300, 3000} // ms
	RangeMoleSize           = Range{40, 120}
	RangePieceSize          = Range{50, 150}
	RangeAreaSize           = Range{400, 1920}
	RangeSpeedup            = Range{0, 0.5}
)

var hexColor = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)

// FieldError names one violated rule.
type FieldError struct {
	Field   string `json:"field" yaml:"field"`
	Message string `json:"message" yaml:"message"`
}

func (e FieldError) String() string {
	return e.Field + ": " + e.Message
}

// Result is the outcome of validating a configuration. It lists every
// violated rule, not just the first.
type Result struct {
	Valid  bool
	Errors []FieldError
}

// Has reports whether the result contains an error for field.
func (r Result) Has(field string) bool {
	for _, e := range r.Errors {
		if e.Field == field {
			return true
		}
	}
	return false
}

// Fields returns the names of all offending fields in report order.
func (r Result) Fields() []string {
	fields := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

// Err converts an invalid result into a validation error. Valid results
// return nil.
func (r Result) Err() error {
	if r.Valid {
		return nil
	}
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.String())
	}
	return apperr.Validation("config.validate", strings.Join(msgs, "; "), r.Fields()...)
}

type validator struct {
	errs []FieldError
}

func (v *validator) fail(field, format string, args ...any) {
	v.errs = append(v.errs, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) inRange(field string, value float64, r Range, unit string) {
	if !r.contains(value) {
		v.fail(field, "must be between %g and %g%s", r.Min, r.Max, unit)
	}
}

// Validate checks every field of cfg against its bounds plus the
// cross-field rules. It never returns an error; the result says it all.
func Validate(cfg Config) Result {
	var v validator

	v.inRange("gameDuration", float64(cfg.GameDurationSec), RangeGameDurationSec, " seconds")
	v.inRange("grid.rows", float64(cfg.Grid.Rows), RangeGridSize, "")
	v.inRange("grid.cols", float64(cfg.Grid.Cols), RangeGridSize, "")
	v.inRange("moleAppearanceInterval", float64(cfg.MoleAppearanceIntervalMs), RangeAppearanceInterval, " ms")
	v.inRange("moleDisplayDuration", float64(cfg.MoleDisplayDurationMs), RangeDisplayDuration, " ms")

	if cfg.Scoring.PointsPerHit <= 0 {
		v.fail("scoring.pointsPerHit", "must be a positive number")
	}

	v.inRange("visual.areaWidth", float64(cfg.Visual.AreaWidth), RangeAreaSize, " pixels")
	v.inRange("visual.areaHeight", float64(cfg.Visual.AreaHeight), RangeAreaSize, " pixels")
	v.inRange("visual.moleSize", float64(cfg.Visual.MoleSize), RangeMoleSize, " pixels")
	v.inRange("visual.pieceSize", float64(cfg.Visual.PieceSize), RangePieceSize, " pixels")
	if !hexColor.MatchString(cfg.Visual.ThemeColor) {
		v.fail("visual.themeColor", "must be a hex color code (#RGB or #RRGGBB)")
	}

	if cfg.Progression.LevelThreshold <= 0 {
		v.fail("progression.levelThreshold", "must be greater than 0")
	}
	v.inRange("progression.speedupPerLevel", cfg.Progression.SpeedupPerLevel, RangeSpeedup, "")

	if cfg.MoleAppearanceIntervalMs < cfg.MoleDisplayDurationMs {
		v.fail("moleAppearanceInterval", "must be greater than or equal to the display duration")
	}

	return Result{Valid: len(v.errs) == 0, Errors: v.errs}
}

// IsValidHexColor reports whether s is a #RGB or #RRGGBB color.
func IsValidHexColor(s string) bool {
	return hexColor.MatchString(s)
}
