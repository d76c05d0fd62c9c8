package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pindown/internal/types"
)

func TestFormatSortsAndDeduplicates(t *testing.T) {
	formatter := NewFormatter()
	manifest := types.Manifest{
		Comments: []types.CommentLine{{Text: "# Accent analyzer runtime dependencies.", Line: 1}},
		Requirements: []types.Requirement{
			pipReq("yt-dlp", "requirements.txt:2", types.Constraint{Op: types.ConstraintOpEq2, Version: "2023.12.30"}),
			pipReq("streamlit", "requirements.txt:3", types.Constraint{Op: types.ConstraintOpEq2, Version: "1.29.0"}),
			pipReq("streamlit", "requirements.txt:9", types.Constraint{Op: types.ConstraintOpEq2, Version: "1.29.0"}),
		},
	}
	want := "# Accent analyzer runtime dependencies.\n" +
		"streamlit==1.29.0\n" +
		"yt-dlp==2023.12.30\n"
	assert.Equal(t, want, formatter.Format(manifest))
}

func TestFormatIncludesBeforeEntries(t *testing.T) {
	formatter := NewFormatter()
	manifest := types.Manifest{
		Includes: []types.IncludeRef{
			{Path: "base.txt", Constraint: false, Line: 1},
			{Path: "constraints.txt", Constraint: true, Line: 2},
		},
		Requirements: []types.Requirement{
			pipReq("requests", "requirements.txt:3", types.Constraint{Op: types.ConstraintOpEq2, Version: "2.31.0"}),
		},
	}
	want := "-r base.txt\n-c constraints.txt\nrequests==2.31.0\n"
	assert.Equal(t, want, formatter.Format(manifest))
}

func TestFormatSkipsIncludedEntries(t *testing.T) {
	formatter := NewFormatter()
	manifest := types.Manifest{
		Path:     "project/requirements.txt",
		Includes: []types.IncludeRef{{Path: "base.txt", Constraint: false, Line: 1}},
		Requirements: []types.Requirement{
			pipReq("requests", "base.txt:1", types.Constraint{Op: types.ConstraintOpEq2, Version: "2.31.0"}),
			pipReq("numpy", "requirements.txt:2", types.Constraint{Op: types.ConstraintOpEq2, Version: "1.26.2"}),
		},
	}
	assert.Equal(t, "-r base.txt\nnumpy==1.26.2\n", formatter.Format(manifest))
}

func TestFormatEmptyManifest(t *testing.T) {
	assert.Equal(t, "", NewFormatter().Format(types.Manifest{}))
}

func TestRenderRequirement(t *testing.T) {
	cases := []struct {
		name string
		req  types.Requirement
		want string
	}{
		{
			name: "bare",
			req:  types.Requirement{Name: "ffmpeg"},
			want: "ffmpeg",
		},
		{
			name: "exact pin",
			req: types.Requirement{
				Name:        "streamlit",
				Constraints: []types.Constraint{{Op: types.ConstraintOpEq2, Version: "1.29.0"}},
			},
			want: "streamlit==1.29.0",
		},
		{
			name: "multi clause",
			req: types.Requirement{
				Name: "numpy",
				Constraints: []types.Constraint{
					{Op: types.ConstraintOpGte, Version: "1.24"},
					{Op: types.ConstraintOpLt, Version: "2.0"},
				},
			},
			want: "numpy>=1.24,<2.0",
		},
		{
			name: "extras sorted",
			req: types.Requirement{
				Name:        "transformers",
				Extras:      []string{"torch", "sentencepiece"},
				Constraints: []types.Constraint{{Op: types.ConstraintOpEq2, Version: "4.36.2"}},
			},
			want: "transformers[sentencepiece,torch]==4.36.2",
		},
		{
			name: "marker",
			req: types.Requirement{
				Name:        "soundfile",
				Constraints: []types.Constraint{{Op: types.ConstraintOpEq2, Version: "0.12.1"}},
				Marker:      `sys_platform == "linux"`,
			},
			want: `soundfile==0.12.1 ; sys_platform == "linux"`,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, RenderRequirement(tc.req))
		})
	}
}
