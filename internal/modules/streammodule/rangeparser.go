package streammodule

import (
	"regexp"
	"strconv"
	"strings"
)

// RangeKind classifies the outcome of parsing a Range header
type RangeKind int

const (
	// RangeNone means no Range header was present; serve the full content
	RangeNone RangeKind = iota
	// RangeSatisfiable means a single valid byte range was resolved
	RangeSatisfiable
	// RangeUnsatisfiable means the header was present but cannot be
	// satisfied against the resource length
	RangeUnsatisfiable
)

// ByteRange is an inclusive [Start, End] interval into a resource,
// 0 <= Start <= End < size
type ByteRange struct {
	Start int64
	End   int64
}

// Length returns the number of bytes the range covers
func (r ByteRange) Length() int64 {
	return r.End - r.Start + 1
}

// RangeResolution is the result of resolving a Range header against a
// resource of known length
type RangeResolution struct {
	Kind  RangeKind
	Range ByteRange // valid only when Kind == RangeSatisfiable
}

// Single-range form only. Multi-range requests (comma-separated sets) are
// rejected as unsatisfiable rather than partially honored.
var rangeSpecPattern = regexp.MustCompile(`^bytes=(\d*)-(\d*)$`)

// ParseRange resolves an HTTP Range header against a resource of size bytes.
// Supported forms: bytes=N-M, bytes=N-, bytes=-N (suffix). An absent header
// resolves to RangeNone; anything malformed, multi-range, or starting at or
// beyond the resource length resolves to RangeUnsatisfiable.
func ParseRange(header string, size int64) RangeResolution {
	header = strings.TrimSpace(header)
	if header == "" {
		return RangeResolution{Kind: RangeNone}
	}

	if size <= 0 {
		return RangeResolution{Kind: RangeUnsatisfiable}
	}

	m := rangeSpecPattern.FindStringSubmatch(header)
	if m == nil {
		return RangeResolution{Kind: RangeUnsatisfiable}
	}

	startStr, endStr := m[1], m[2]
	if startStr == "" && endStr == "" {
		return RangeResolution{Kind: RangeUnsatisfiable}
	}

	// Suffix form bytes=-N: the last N bytes
	if startStr == "" {
		n, err := strconv.ParseInt(endStr, 10, 64)
		if err != nil || n <= 0 {
			return RangeResolution{Kind: RangeUnsatisfiable}
		}
		start := size - n
		if start < 0 {
			start = 0
		}
		return RangeResolution{
			Kind:  RangeSatisfiable,
			Range: ByteRange{Start: start, End: size - 1},
		}
	}

	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil || start >= size {
		return RangeResolution{Kind: RangeUnsatisfiable}
	}

	// Open-ended form bytes=N-: from N to the end
	if endStr == "" {
		return RangeResolution{
			Kind:  RangeSatisfiable,
			Range: ByteRange{Start: start, End: size - 1},
		}
	}

	end, err := strconv.ParseInt(endStr, 10, 64)
	if err != nil || start > end {
		return RangeResolution{Kind: RangeUnsatisfiable}
	}
	if end >= size {
		end = size - 1
	}

	return RangeResolution{
		Kind:  RangeSatisfiable,
		Range: ByteRange{Start: start, End: end},
	}
}
