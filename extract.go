// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package tocxtract

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/sassoftware/toc-xtract/logger"
	"golang.org/x/sync/semaphore"
)

// DefaultTitleSeparator joins the text of adjacent matched spans that fuse
// into one heading.
const DefaultTitleSeparator = " "

// extractPageToC collects the entries one filter finds on one page.
// Hits are merged per block; a heading never fuses across block boundaries.
func extractPageToC(page Page, pagenum int, fltr *ToCFilter, sep string) []ToCEntry {
	var entries []ToCEntry
	for _, blk := range page.Blocks {
		for _, hit := range mergeHits(fltr.extractLines(blk.Lines), sep) {
			entries = append(entries, ToCEntry{
				Level: fltr.Level,
				Title: hit.text,
				Page:  pagenum,
				VPos:  hit.vpos,
			})
		}
	}
	return entries
}

// ExtractToC extracts the ToC entries the filter admits from the pages.
// Page numbers are assigned by enumeration order starting at 1, and entries
// come out in page, block, span order; no re-sorting is applied.
func ExtractToC(pages []Page, fltr *ToCFilter) []ToCEntry {
	var result []ToCEntry
	for i, page := range pages {
		result = append(result, extractPageToC(page, i+1, fltr, DefaultTitleSeparator)...)
	}
	return result
}

// Processor defines the contract for extracting a table of contents from a
// parsed document's pages.
type Processor interface {
	ExtractToC(ctx context.Context, pages []Page, spec FilterSpec) ([]ToCEntry, error)
}

// processor runs extraction over pages in parallel while keeping the output
// in page order. Pages carry no shared state, so splitting them across
// workers is safe; only the collection step has to restore order.
type processor struct {
	cfg *Config
	sem *semaphore.Weighted
}

// NewProcessor validates the config and creates a new processor.
func NewProcessor(cfg *Config) *processor {
	//Validate the config object
	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	//Set the logger function
	if cfg.Logger != nil {
		logger.SetLogger(cfg.Logger)
	}

	logger.Debug(fmt.Sprintf("Processor initialized: max_concurrent_extractions=%d, max_workers=%d",
		cfg.MaxConcurrentExtractions, cfg.MaxWorkers), true)

	return &processor{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.MaxConcurrentExtractions)),
	}
}

// ExtractToC builds a filter from the spec and applies it across the pages.
// Filter construction is the only fatal failure; once the filter exists,
// per-page extraction is a pure computation that cannot fail, so the result
// is deterministic regardless of worker count.
func (p *processor) ExtractToC(ctx context.Context, pages []Page, spec FilterSpec) ([]ToCEntry, error) {
	logger.Debug(fmt.Sprintf("Starting ToC extraction: pages=%d", len(pages)), true)

	fltr, err := NewToCFilter(spec)
	if err != nil {
		logger.Debug(fmt.Sprintf("Failed to build filter: err=%v", err), true)
		return nil, err
	}

	if err := p.acquireSlot(ctx); err != nil {
		logger.Debug(fmt.Sprintf("Failed to acquire slot: err=%v", err), true)
		return nil, err
	}
	defer p.sem.Release(1)

	total := len(pages)
	if total == 0 {
		logger.Debug("No pages to extract from", true)
		return nil, nil
	}

	numWorkers := p.adjustWorkerCount(p.cfg.MaxWorkers)
	logger.Debug(fmt.Sprintf("Starting workers: count=%d", numWorkers), true)

	jobs, results := make(chan int, total), make(chan pageResult, total)

	var wg sync.WaitGroup
	p.startWorkers(pages, fltr, jobs, results, numWorkers, &wg)
	if err := p.feedJobs(ctx, total, jobs); err != nil {
		close(jobs)
		return nil, err
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	entries := p.collectInOrder(results)
	logger.Debug(fmt.Sprintf("Extraction completed: entries=%d", len(entries)), true)
	return entries, nil
}

// collectInOrder drains per-page results and concatenates them in page
// order, buffering any page that finishes before its predecessors.
func (p *processor) collectInOrder(results chan pageResult) []ToCEntry {
	pageBuffer := make(map[int][]ToCEntry)
	nextPage := 1
	var out []ToCEntry

	for res := range results {
		pageBuffer[res.pagenum] = res.entries

		// Emit in-order pages immediately
		for {
			entries, ok := pageBuffer[nextPage]
			if !ok {
				break
			}
			out = append(out, entries...)
			delete(pageBuffer, nextPage)
			nextPage++
		}
	}
	return out
}

func (p *processor) acquireSlot(ctx context.Context) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("acquire slot: %w", err)
	}
	logger.Debug("Slot acquired successfully", true)
	return nil
}

func (p *processor) adjustWorkerCount(maxWorkers int) int {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxWorkers > runtime.NumCPU()/2 {
		maxWorkers = runtime.NumCPU()
	}
	logger.Debug(fmt.Sprintf("Adjusted worker count: workers=%d", maxWorkers), true)
	return maxWorkers
}

type pageResult struct {
	pagenum int
	entries []ToCEntry
}

func (p *processor) startWorkers(pages []Page, fltr *ToCFilter, jobs <-chan int, results chan<- pageResult, numWorkers int, wg *sync.WaitGroup) {
	logger.Debug(fmt.Sprintf("Spawning workers: num_workers=%d", numWorkers), true)
	for w := 1; w <= numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Debug(fmt.Sprintf("Worker started: id=%d", id), true)
			for pagenum := range jobs {
				entries := extractPageToC(pages[pagenum-1], pagenum, fltr, p.cfg.TitleSeparator)
				results <- pageResult{pagenum, entries}
				logger.Debug(fmt.Sprintf("Worker: page extracted: worker_id=%d page=%d entries=%d", id, pagenum, len(entries)), true)
			}
			logger.Debug(fmt.Sprintf("Worker finished: id=%d", id), true)
		}(w)
	}
}

func (p *processor) feedJobs(ctx context.Context, total int, jobs chan<- int) error {
	for i := 1; i <= total; i++ {
		select {
		case <-ctx.Done():
			logger.Debug("Context cancelled while feeding jobs", true)
			return ctx.Err()
		case jobs <- i:
		}
	}
	logger.Debug(fmt.Sprintf("All jobs queued: total_pages=%d", total), true)
	return nil
}
