package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseExclusions(t *testing.T) {
	types := []string{"Door", "Roof", "Wall"}

	tests := []struct {
		name   string
		line   string
		want   []string
		wantOK bool
	}{
		{name: "single index", line: "3", want: []string{"Wall"}, wantOK: true},
		{name: "multiple indices", line: "1,3", want: []string{"Door", "Wall"}, wantOK: true},
		{name: "whitespace tolerated", line: " 1 , 2 \n", want: []string{"Door", "Roof"}, wantOK: true},
		{name: "empty line selects nothing", line: "\n", want: nil, wantOK: true},
		{name: "none keyword", line: "none", want: nil, wantOK: true},
		{name: "none is case insensitive", line: "NONE", want: nil, wantOK: true},
		{name: "out of range indices skipped", line: "0,2,7", want: []string{"Roof"}, wantOK: true},
		{name: "non-integer aborts whole selection", line: "1,abc,3", want: nil, wantOK: false},
		{name: "plain garbage aborts", line: "walls please", want: nil, wantOK: false},
		{name: "trailing comma tolerated", line: "2,", want: []string{"Roof"}, wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseExclusions(tt.line, types)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMultiFlag(t *testing.T) {
	var m multiFlag
	assert.NoError(t, m.Set("Wall"))
	assert.NoError(t, m.Set("Door"))
	assert.Equal(t, multiFlag{"Wall", "Door"}, m)
	assert.Equal(t, "Wall,Door", m.String())
}
