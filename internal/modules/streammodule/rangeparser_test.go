package streammodule

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRange(t *testing.T) {
	const size = 1000

	tests := []struct {
		name   string
		header string
		want   RangeResolution
	}{
		{
			name:   "no header serves full content",
			header: "",
			want:   RangeResolution{Kind: RangeNone},
		},
		{
			name:   "bounded range",
			header: "bytes=0-499",
			want:   RangeResolution{Kind: RangeSatisfiable, Range: ByteRange{Start: 0, End: 499}},
		},
		{
			name:   "interior range",
			header: "bytes=500-699",
			want:   RangeResolution{Kind: RangeSatisfiable, Range: ByteRange{Start: 500, End: 699}},
		},
		{
			name:   "single byte",
			header: "bytes=42-42",
			want:   RangeResolution{Kind: RangeSatisfiable, Range: ByteRange{Start: 42, End: 42}},
		},
		{
			name:   "open ended runs to last byte",
			header: "bytes=900-",
			want:   RangeResolution{Kind: RangeSatisfiable, Range: ByteRange{Start: 900, End: 999}},
		},
		{
			name:   "end clamped to resource length",
			header: "bytes=990-5000",
			want:   RangeResolution{Kind: RangeSatisfiable, Range: ByteRange{Start: 990, End: 999}},
		},
		{
			name:   "suffix range",
			header: "bytes=-100",
			want:   RangeResolution{Kind: RangeSatisfiable, Range: ByteRange{Start: 900, End: 999}},
		},
		{
			name:   "suffix longer than resource covers everything",
			header: "bytes=-5000",
			want:   RangeResolution{Kind: RangeSatisfiable, Range: ByteRange{Start: 0, End: 999}},
		},
		{
			name:   "suffix of zero bytes",
			header: "bytes=-0",
			want:   RangeResolution{Kind: RangeUnsatisfiable},
		},
		{
			name:   "start at resource length",
			header: "bytes=1000-",
			want:   RangeResolution{Kind: RangeUnsatisfiable},
		},
		{
			name:   "start beyond resource length",
			header: "bytes=2000-3000",
			want:   RangeResolution{Kind: RangeUnsatisfiable},
		},
		{
			name:   "inverted range",
			header: "bytes=500-100",
			want:   RangeResolution{Kind: RangeUnsatisfiable},
		},
		{
			name:   "multi-range set rejected",
			header: "bytes=0-99,200-299",
			want:   RangeResolution{Kind: RangeUnsatisfiable},
		},
		{
			name:   "wrong unit",
			header: "items=0-10",
			want:   RangeResolution{Kind: RangeUnsatisfiable},
		},
		{
			name:   "bare dash",
			header: "bytes=-",
			want:   RangeResolution{Kind: RangeUnsatisfiable},
		},
		{
			name:   "garbage",
			header: "bytes=abc-def",
			want:   RangeResolution{Kind: RangeUnsatisfiable},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRange(tt.header, size)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRangeEmptyResource(t *testing.T) {
	// A Range header against a zero-length resource can never be satisfied.
	got := ParseRange("bytes=0-", 0)
	assert.Equal(t, RangeUnsatisfiable, got.Kind)

	// No header still means "serve everything", even when there is nothing.
	got = ParseRange("", 0)
	assert.Equal(t, RangeNone, got.Kind)
}

func TestByteRangeLength(t *testing.T) {
	assert.Equal(t, int64(1), ByteRange{Start: 5, End: 5}.Length())
	assert.Equal(t, int64(200000), ByteRange{Start: 500000, End: 699999}.Length())
}
