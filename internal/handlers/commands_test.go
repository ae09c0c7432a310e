package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
		err  string
	}{
		{line: "r", want: command{name: "r", args: []int{}}},
		{line: " s 12 ", want: command{name: "s", args: []int{12}}},
		{line: "d 1 2", want: command{name: "d", args: []int{1, 2}}},
		{line: "p", want: command{name: "p", args: []int{}}},
		{line: "", err: "empty command"},
		{line: "f 1 2", err: "unknown command"},
		{line: "d 1", err: "invalid number of arguments"},
		{line: "s a", err: "arguments must be ints"},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			c, err := parseCommand(test.line)
			if test.err != "" {
				assert.EqualError(t, err, test.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.want, c)
		})
	}
}

func TestParseStepDTO(t *testing.T) {
	dto, err := ParseStepDTO(map[string][]string{"action": {"4"}})
	require.NoError(t, err)
	require.NotNil(t, dto.Action)
	assert.Equal(t, 4, *dto.Action)

	dto, err = ParseStepDTO(map[string][]string{"x": {"1"}, "y": {"2"}})
	require.NoError(t, err)
	assert.Nil(t, dto.Action)
	assert.Equal(t, 1, *dto.X)
	assert.Equal(t, 2, *dto.Y)

	_, err = ParseStepDTO(map[string][]string{"x": {"1"}})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = ParseStepDTO(map[string][]string{"action": {"1"}, "y": {"2"}})
	assert.ErrorIs(t, err, ErrBadRequest)

	_, err = ParseStepDTO(map[string][]string{"action": {"one"}})
	assert.ErrorIs(t, err, ErrBadRequest)
}
