// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tocxtract

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/sassoftware/toc-xtract/logger"
)

// DefaultTolerance is the maximum absolute difference allowed when
// comparing float attributes unless a filter overrides it.
const DefaultTolerance float64 = 1e-5

// Errors returned by NewToCFilter for an unusable filter record.
var (
	ErrLevelNotSet  = errors.New("filter's 'level' is not set")
	ErrLevelInvalid = errors.New("filter's 'level' must be >= 1")
)

// FontSpec declares constraints on a span's font attributes. Every field is
// optional; an absent field leaves that attribute unconstrained. A style
// flag set to false is a real constraint (the span must not carry the
// style), which is why the flags are pointers rather than plain bools.
type FontSpec struct {
	Name          string   `json:"name,omitempty"`
	Size          *float64 `json:"size,omitempty"`
	SizeTolerance *float64 `json:"size_tolerance,omitempty"`
	Color         *uint32  `json:"color,omitempty"`
	Superscript   *bool    `json:"superscript,omitempty"`
	Italic        *bool    `json:"italic,omitempty"`
	Serif         *bool    `json:"serif,omitempty"`
	Monospace     *bool    `json:"monospace,omitempty"`
	Bold          *bool    `json:"bold,omitempty"`
}

// BBoxSpec declares constraints on a span's bounding box. Each coordinate is
// independently optional; an unset coordinate always admits.
type BBoxSpec struct {
	Left      *float64 `json:"left,omitempty"`
	Top       *float64 `json:"top,omitempty"`
	Right     *float64 `json:"right,omitempty"`
	Bottom    *float64 `json:"bottom,omitempty"`
	Tolerance *float64 `json:"tolerance,omitempty"`
}

// FilterSpec is the filter record shape produced by the external
// configuration loader: a mandatory heading level plus font and bounding-box
// constraint groups.
type FilterSpec struct {
	Level *int     `json:"level"`
	Font  FontSpec `json:"font,omitempty"`
	BBox  BBoxSpec `json:"bbox,omitempty"`
}

// admitsFloat checks whether an actual float satisfies an expected bound
// within tolerance. A nil expect is unconstrained and admits anything; a
// constrained bound rejects a nil actual.
func admitsFloat(expect, actual *float64, tolerance float64) bool {
	if expect == nil {
		return true
	}
	return actual != nil && math.Abs(*expect-*actual) <= tolerance
}

// fontFilter matches a span's font attributes against a FontSpec.
//
// The five style flags form a ternary constraint per bit: must be set, must
// be clear, or don't care. Comparing bit by bit would cost one test per
// flag; instead the constrained expectations are packed into flags and the
// constrained positions into ignMask, so the whole check is
// (span ^ flags) & ignMask == 0. XOR marks differing bits, the mask clears
// the don't-care positions.
type fontFilter struct {
	name          *regexp.Regexp
	size          *float64
	sizeTolerance float64
	color         *uint32
	flags         uint32
	ignMask       uint32
}

func newFontFilter(spec FontSpec) (fontFilter, error) {
	name, err := regexp.Compile(spec.Name)
	if err != nil {
		return fontFilter{}, fmt.Errorf("invalid font name pattern %q: %w", spec.Name, err)
	}

	f := fontFilter{
		name:          name,
		size:          spec.Size,
		sizeTolerance: DefaultTolerance,
		color:         spec.Color,
	}
	if spec.SizeTolerance != nil {
		f.sizeTolerance = *spec.SizeTolerance
	}

	pack := func(bit uint32, constraint *bool) {
		if constraint == nil {
			return
		}
		f.ignMask |= bit
		if *constraint {
			f.flags |= bit
		}
	}
	pack(FlagSuperscript, spec.Superscript)
	pack(FlagItalic, spec.Italic)
	pack(FlagSerif, spec.Serif)
	pack(FlagMonospace, spec.Monospace)
	pack(FlagBold, spec.Bold)

	return f, nil
}

// admits reports whether the span's font attributes satisfy the filter.
func (f fontFilter) admits(spn *Span) bool {
	if !f.name.MatchString(spn.Font) {
		return false
	}

	if f.color != nil && (spn.Color == nil || *f.color != *spn.Color) {
		return false
	}

	if !admitsFloat(f.size, spn.Size, f.sizeTolerance) {
		return false
	}

	// A span with no flag word at all carries no style information, so
	// constrained flags must not reject it.
	if spn.Flags == nil {
		return true
	}
	return (*spn.Flags^f.flags)&f.ignMask == 0
}

// bboxFilter matches a span's bounding box against a BBoxSpec.
type bboxFilter struct {
	left      *float64
	top       *float64
	right     *float64
	bottom    *float64
	tolerance float64
}

func newBBoxFilter(spec BBoxSpec) bboxFilter {
	f := bboxFilter{
		left:      spec.Left,
		top:       spec.Top,
		right:     spec.Right,
		bottom:    spec.Bottom,
		tolerance: DefaultTolerance,
	}
	if spec.Tolerance != nil {
		f.tolerance = *spec.Tolerance
	}
	return f
}

// admits reports whether the span's bounding box satisfies the filter.
// A span with no bounding box is treated as all coordinates absent, so it
// is admitted only when every coordinate is unconstrained.
func (f bboxFilter) admits(spn *Span) bool {
	var left, top, right, bottom *float64
	if spn.BBox != nil {
		left, top = &spn.BBox.Left, &spn.BBox.Top
		right, bottom = &spn.BBox.Right, &spn.BBox.Bottom
	}
	return admitsFloat(f.left, left, f.tolerance) &&
		admitsFloat(f.top, top, f.tolerance) &&
		admitsFloat(f.right, right, f.tolerance) &&
		admitsFloat(f.bottom, bottom, f.tolerance)
}

// A ToCFilter picks out the spans that belong in the table of contents at
// one heading level. It is immutable once constructed.
type ToCFilter struct {
	// Level of the heading, strictly > 0
	Level int
	font  fontFilter
	bbox  bboxFilter
}

// NewToCFilter builds a filter from its configuration record. Construction
// fails when the level is missing or below 1, or when the font name pattern
// does not compile; these are the only fatal errors in the package.
func NewToCFilter(spec FilterSpec) (*ToCFilter, error) {
	if spec.Level == nil {
		return nil, ErrLevelNotSet
	}
	if *spec.Level < 1 {
		return nil, ErrLevelInvalid
	}

	font, err := newFontFilter(spec.Font)
	if err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("Filter built: level=%d", *spec.Level))
	return &ToCFilter{
		Level: *spec.Level,
		font:  font,
		bbox:  newBBoxFilter(spec.BBox),
	}, nil
}

// Admits reports whether the span satisfies both the font and the
// bounding-box constraints.
func (f *ToCFilter) Admits(spn *Span) bool {
	return f.font.admits(spn) && f.bbox.admits(spn)
}

// spanHit is a matched span's contribution to a title: its text and the top
// of its bounding box. In a hit sequence a nil entry marks a span the filter
// rejected; the markers delimit adjacent headings and must be preserved one
// per rejected span.
type spanHit struct {
	text string
	vpos float64
}

// extractLines flattens the lines' spans, in document order, into one hit
// sequence: a hit for every admitted span, a nil marker for every other.
func (f *ToCFilter) extractLines(lines []Line) []*spanHit {
	var hits []*spanHit
	for _, ln := range lines {
		for i := range ln.Spans {
			spn := &ln.Spans[i]
			if !f.Admits(spn) {
				hits = append(hits, nil)
				continue
			}
			hit := &spanHit{text: spn.Text}
			if spn.BBox != nil {
				hit.vpos = spn.BBox.Top
			}
			hits = append(hits, hit)
		}
	}
	return hits
}
