package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPreview(t *testing.T) {
	ch, err := GenerateChallenge(&scriptedRand{}, 2, allShapes, allColors, 0.5)
	require.NoError(t, err)

	out := RenderPreview(ch, false)
	assert.Contains(t, out, "Select every sector with:")
	assert.Contains(t, out, "triangle")
	assert.NotContains(t, out, "answers:")
	assert.Equal(t, 3, strings.Count(out, "▲"), "two marked cells plus the target line")

	out = RenderPreview(ch, true)
	assert.Contains(t, out, "answers: B1 A2")
}

func TestPreviewCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"seeded", []string{"preview", "--grid", "4", "--seed", "3", "--reveal"}, false},
		{"max grid", []string{"preview", "--grid", "16", "--seed", "1"}, false},
		{"grid too large", []string{"preview", "--grid", "100000"}, true},
		{"zero grid", []string{"preview", "--grid", "0"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := newRootCmd()
			cmd.SetOut(&out)
			cmd.SetErr(&out)
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), "Select every sector with:")
		})
	}
}
