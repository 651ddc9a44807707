package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	cases := []struct {
		in   string
		want Format
	}{
		{"", FormatJSON},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"table", FormatTable},
		{" Table ", FormatTable},
	}
	for _, c := range cases {
		got, err := ParseFormat(c.in)
		require.NoError(t, err)
		assert.Equal(t, c.want, got)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, map[string]int{"states": 2}))
	assert.Contains(t, buf.String(), "\"states\": 2")
}

func TestPrintYAML(t *testing.T) {
	data := struct {
		Name string `yaml:"name"`
	}{Name: "P"}

	var buf bytes.Buffer
	require.NoError(t, PrintYAML(&buf, data))
	assert.Contains(t, buf.String(), "name: P")
}

func TestPrintTable(t *testing.T) {
	rows := CheckTable{
		{Name: "check", Target: "P", Status: "pass", States: 2, Trans: 1},
		{Name: "refine", Model: "T", Target: "Q", Status: "fail", States: 3, Trans: 4, Reason: "trace_mismatch"},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintTable(&buf, rows))

	out := buf.String()
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "FAIL")
	assert.Contains(t, out, "trace_mismatch")
}
