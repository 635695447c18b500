// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tocxtract

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sassoftware/toc-xtract/logger"
)

// Style flag bits carried in Span.Flags. The packed layout matches the
// flag word emitted by the upstream text extractor.
const (
	FlagSuperscript uint32 = 1 << 0
	FlagItalic      uint32 = 1 << 1
	FlagSerif       uint32 = 1 << 2
	FlagMonospace   uint32 = 1 << 3
	FlagBold        uint32 = 1 << 4
)

// BBox is a span's bounding rectangle in page coordinates.
// It is interchanged as a four-element [left, top, right, bottom] array.
type BBox struct {
	Left   float64
	Top    float64
	Right  float64
	Bottom float64
}

// MarshalJSON encodes the bounding box as a four-element array.
func (b BBox) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{b.Left, b.Top, b.Right, b.Bottom})
}

// UnmarshalJSON decodes a four-element array into the bounding box.
func (b *BBox) UnmarshalJSON(data []byte) error {
	var coords []float64
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("bbox must be a [left, top, right, bottom] array: %w", err)
	}
	if len(coords) != 4 {
		return fmt.Errorf("bbox must have 4 coordinates, got %d", len(coords))
	}
	b.Left, b.Top, b.Right, b.Bottom = coords[0], coords[1], coords[2], coords[3]
	return nil
}

// A Span is one run of text sharing a single set of font attributes and a
// bounding box, as produced by the upstream document parser. Every field
// besides Text may be absent; absence is never an error and is resolved by
// the filters' permissive defaults.
type Span struct {
	Text  string   `json:"text"`
	Font  string   `json:"font,omitempty"`
	Size  *float64 `json:"size,omitempty"`
	Color *uint32  `json:"color,omitempty"`
	Flags *uint32  `json:"flags,omitempty"`
	BBox  *BBox    `json:"bbox,omitempty"`
}

// A Line is an ordered sequence of spans sharing a text line.
type Line struct {
	Spans []Span `json:"spans"`
}

// A Block is an ordered sequence of lines.
type Block struct {
	Lines []Line `json:"lines"`
}

// A Page is an ordered sequence of blocks. Page numbers are not embedded;
// extraction assigns them by enumeration order, starting at 1.
type Page struct {
	Blocks []Block `json:"blocks"`
}

// A ToCEntry is one extracted heading occurrence. VPos is the vertical
// position of the heading's topmost span, used downstream for ordering
// within a page.
type ToCEntry struct {
	Level int     `json:"level"`
	Title string  `json:"title"`
	Page  int     `json:"page"`
	VPos  float64 `json:"vpos"`
}

// DecodePages reads a JSON array of page records, the interchange shape
// produced by the upstream document parser. Missing keys decode to their
// permissive defaults.
func DecodePages(r io.Reader) ([]Page, error) {
	var pages []Page
	if err := json.NewDecoder(r).Decode(&pages); err != nil {
		logger.Error("failed to decode page records", "err", err)
		return nil, fmt.Errorf("decode pages: %w", err)
	}
	logger.Debug(fmt.Sprintf("Decoded %d page records", len(pages)), true)
	return pages, nil
}
