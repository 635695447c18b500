// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tocxtract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeHits(t *testing.T) {
	hit := func(text string, vpos float64) *spanHit {
		return &spanHit{text: text, vpos: vpos}
	}

	tests := []struct {
		name string
		hits []*spanHit
		sep  string
		want []spanHit
	}{
		{
			name: "empty input",
			hits: nil,
			sep:  " ",
			want: nil,
		},
		{
			name: "all markers",
			hits: []*spanHit{nil, nil},
			sep:  " ",
			want: nil,
		},
		{
			name: "no markers fuse into one entry",
			hits: []*spanHit{hit("1", 12), hit("Section", 11), hit("One", 13)},
			sep:  " ",
			want: []spanHit{{text: "1 Section One", vpos: 11}},
		},
		{
			name: "marker splits adjacent runs",
			hits: []*spanHit{hit("1", 1), hit("Section One", 2), nil, hit("Lorem ipsum", 3)},
			sep:  " ",
			want: []spanHit{{text: "1 Section One", vpos: 1}, {text: "Lorem ipsum", vpos: 3}},
		},
		{
			name: "consecutive markers produce no empty entries",
			hits: []*spanHit{nil, hit("A", 5), nil, nil, hit("B", 7), nil},
			sep:  " ",
			want: []spanHit{{text: "A", vpos: 5}, {text: "B", vpos: 7}},
		},
		{
			name: "custom separator",
			hits: []*spanHit{hit("2", 4), hit("Background", 4)},
			sep:  "\t",
			want: []spanHit{{text: "2\tBackground", vpos: 4}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mergeHits(tt.hits, tt.sep))
		})
	}
}

func TestMergeHits_MinVPos(t *testing.T) {
	// a run keeps the topmost position regardless of span order
	got := mergeHits([]*spanHit{
		{text: "Chapter", vpos: 30},
		{text: "One", vpos: 10},
		{text: "Overview", vpos: 20},
	}, " ")
	assert.Equal(t, []spanHit{{text: "Chapter One Overview", vpos: 10}}, got)
}
