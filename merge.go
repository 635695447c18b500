// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tocxtract

import (
	"strings"
)

// mergeHits fuses a hit sequence into one entry per maximal run of
// consecutive hits. Titles within a run are joined by sep and the run's
// vertical position is the minimum vpos, so a heading split across spans
// keeps the position of its topmost piece. Runs of nil markers produce
// nothing; they only separate neighboring headings.
//
//	mergeHits([("1",1), ("Section One",2), nil, ("Lorem ipsum",3)], " ")
//	  = [("1 Section One", 1), ("Lorem ipsum", 3)]
func mergeHits(hits []*spanHit, sep string) []spanHit {
	var merged []spanHit
	var run []string
	var vpos float64

	flush := func() {
		if len(run) == 0 {
			return
		}
		merged = append(merged, spanHit{text: strings.Join(run, sep), vpos: vpos})
		run = run[:0]
	}

	for _, hit := range hits {
		if hit == nil {
			flush()
			continue
		}
		if len(run) == 0 || hit.vpos < vpos {
			vpos = hit.vpos
		}
		run = append(run, hit.text)
	}
	flush()

	return merged
}
