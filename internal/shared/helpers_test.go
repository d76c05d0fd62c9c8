package shared

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePipName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "FFmpeg_Python", want: "ffmpeg-python"},
		{in: "ruamel.yaml", want: "ruamel-yaml"},
		{in: "Flask--RESTful", want: "flask-restful"},
		{in: "  numpy  ", want: "numpy"},
		{in: "a._-b", want: "a-b"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePipName(tc.in), "input %q", tc.in)
	}
}

func TestNormalizeDebName(t *testing.T) {
	assert.Equal(t, "libsndfile1", NormalizeDebName("LibSndFile1"))
	assert.Equal(t, "foo-bar", NormalizeDebName("foo_bar"))
}

func TestParseTimeFlexible(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{in: "2026-06-01T12:30:00Z", want: time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC)},
		{in: "2026-06-01 12:30:00", want: time.Date(2026, 6, 1, 12, 30, 0, 0, time.UTC)},
		{in: "2026-06-01", want: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{in: "", want: time.Time{}},
		{in: "not-a-date", want: time.Time{}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseTimeFlexible(tc.in), "input %q", tc.in)
	}
}
