// Package index lists calibration artifacts below a base directory and
// applies the two selection policies the resolver needs: unique match and
// floor match. The tree is rescanned on every call — new runs can appear at
// any time, so nothing is cached.
package index

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/divyekant/calpipe/internal/layout"
)

// ErrNotFound is returned when no artifact satisfies a query, including the
// floor case where candidates exist but all exceed the target run.
var ErrNotFound = errors.New("artifact not found")

// AmbiguousError is returned when a uniqueness-requiring query matches more
// than one file. It always carries the full candidate list so the operator
// can pick a run; the index never chooses among ambiguous candidates.
type AmbiguousError struct {
	Pattern    string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%d files match %q: %s", len(e.Candidates), e.Pattern, strings.Join(e.Candidates, ", "))
}

// Entry is one resolved artifact, parsed from a filesystem listing.
type Entry struct {
	Path    string // absolute path
	Run     int
	SubRun  int
	Version string // production version segment (parent directory name)
}

// Search returns the absolute paths below baseDir matching the glob
// pattern, lexicographically sorted. The pattern is slash-separated and
// relative to baseDir; "**" spans any number of directories, "*" and "?"
// stay within one name. Literal segments traverse symlinked directories
// (the pro pointer is one), while the "**" recursion walks real
// directories only, so a pointer back into the tree cannot loop the
// search. A missing base directory yields an empty result, not an error.
func Search(baseDir, pattern string) ([]string, error) {
	baseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	if info, statErr := os.Stat(baseDir); statErr != nil || !info.IsDir() {
		return nil, nil
	}

	var matches []string
	searchSegments(baseDir, strings.Split(pattern, "/"), &matches)
	sort.Strings(matches)
	return matches, nil
}

// searchSegments evaluates one pattern segment per directory level, the
// way the onsite tooling's recursive glob does. Unreadable directories are
// skipped, not fatal.
func searchSegments(dir string, segs []string, matches *[]string) {
	if len(segs) == 0 {
		return
	}
	seg, rest := segs[0], segs[1:]

	if seg == "**" {
		// Zero directories consumed.
		searchSegments(dir, rest, matches)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				searchSegments(filepath.Join(dir, e.Name()), segs, matches)
			}
		}
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		ok, matchErr := path.Match(seg, e.Name())
		if matchErr != nil || !ok {
			continue
		}
		p := filepath.Join(dir, e.Name())
		info, statErr := os.Stat(p) // follows symlinks
		if statErr != nil {
			continue
		}
		if len(rest) == 0 {
			if !info.IsDir() {
				*matches = append(*matches, p)
			}
			continue
		}
		if info.IsDir() {
			searchSegments(p, rest, matches)
		}
	}
}

// Unique expects the pattern to match exactly one file and returns it.
// Zero matches is ErrNotFound; two or more is an AmbiguousError — a hard
// stop, never a silent pick.
func Unique(baseDir, pattern string) (string, error) {
	matches, err := Search(baseDir, pattern)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: no file matches %q under %s", ErrNotFound, pattern, baseDir)
	case 1:
		return matches[0], nil
	}
	return "", &AmbiguousError{Pattern: pattern, Candidates: matches}
}

// Entries lists the artifacts matching the pattern, ordered by ascending
// run number (numeric comparison on the parsed run, never string order).
// Files whose names carry no parseable run number are excluded rather than
// aborting the listing.
func Entries(baseDir, pattern string) ([]Entry, error) {
	matches, err := Search(baseDir, pattern)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(matches))
	for _, p := range matches {
		info, parseErr := layout.ParseRunInfo(filepath.Base(p))
		if parseErr != nil {
			continue
		}
		entries = append(entries, Entry{
			Path:    p,
			Run:     info.Run,
			SubRun:  info.SubRun,
			Version: filepath.Base(filepath.Dir(p)),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Run != entries[j].Run {
			return entries[i].Run < entries[j].Run
		}
		return entries[i].SubRun < entries[j].SubRun
	})
	return entries, nil
}

// Floor returns the entry with the greatest run number not exceeding
// targetRun. A calibration computed at run R stays valid until a newer one
// supersedes it, so the right answer for run N is the floor of the run
// sequence at N, not an exact or nearest match. ErrNotFound when every
// candidate exceeds targetRun or nothing matches at all.
func Floor(baseDir, pattern string, targetRun int) (Entry, error) {
	entries, err := Entries(baseDir, pattern)
	if err != nil {
		return Entry{}, err
	}

	var best *Entry
	for i := range entries {
		if entries[i].Run > targetRun {
			break
		}
		best = &entries[i]
	}
	if best == nil {
		return Entry{}, fmt.Errorf("%w: no file matching %q at or before run %d", ErrNotFound, pattern, targetRun)
	}
	return *best, nil
}
