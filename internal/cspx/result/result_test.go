package result_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itdojp/cspx/internal/cspx/check"
	"github.com/itdojp/cspx/internal/cspx/result"
)

func TestAggregateUsesPrecedence(t *testing.T) {
	checks := []result.Check{
		{Status: result.StatusPass},
		{Status: result.StatusUnsupported},
		{Status: result.StatusFail},
	}
	assert.Equal(t, result.StatusFail, result.Aggregate(checks))
}

func TestAggregateErrorBeatsEverything(t *testing.T) {
	checks := []result.Check{
		{Status: result.StatusOutOfMemory},
		{Status: result.StatusError},
		{Status: result.StatusFail},
	}
	assert.Equal(t, result.StatusError, result.Aggregate(checks))
}

func TestAggregateEmptyIsPass(t *testing.T) {
	assert.Equal(t, result.StatusPass, result.Aggregate(nil))
}

func TestExitCodes(t *testing.T) {
	cases := []struct {
		status result.Status
		code   int
	}{
		{result.StatusPass, 0},
		{result.StatusFail, 1},
		{result.StatusError, 2},
		{result.StatusUnsupported, 3},
		{result.StatusTimeout, 4},
		{result.StatusOutOfMemory, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.code, result.ExitCode(c.status), c.status)
	}
}

func TestStatusFromOutcome(t *testing.T) {
	assert.Equal(t, result.StatusFail, result.StatusFromOutcome(check.Fail))
	assert.Equal(t, result.StatusPass, result.StatusFromOutcome(check.Pass))
	assert.Equal(t, result.StatusError, result.StatusFromOutcome(check.Error))
}

func TestNewSummaryMapsPassToRan(t *testing.T) {
	s := result.NewSummary("cspx:serial", result.StatusPass)
	assert.Equal(t, "ran", s.Status)
	assert.Equal(t, 0, s.ExitCode)
	assert.True(t, s.Ran)
}

func TestNewSummaryMapsFailToFailed(t *testing.T) {
	s := result.NewSummary("cspx:parallel", result.StatusFail)
	assert.Equal(t, "failed", s.Status)
	assert.Equal(t, result.StatusFail, s.ResultStatus)
	assert.Equal(t, 1, s.ExitCode)
}

func TestNewSummaryNonPassKeepsStatusWord(t *testing.T) {
	s := result.NewSummary("cspx:serial", result.StatusTimeout)
	assert.Equal(t, "timeout", s.Status)
	assert.Equal(t, 4, s.ExitCode)
}

func TestDocumentRoundTripsThroughJSON(t *testing.T) {
	doc := result.Document{
		SchemaVersion: "0.1",
		Tool:          result.Tool{Name: "cspx", Version: "0.1.0", GitSHA: "unknown"},
		Status:        result.StatusFail,
		ExitCode:      1,
		Checks: []result.Check{
			{Name: "check", Target: "P", Status: result.StatusFail, Stats: result.Stats{States: 2, Transitions: 1}},
		},
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)

	var got result.Document
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, doc.Status, got.Status)
	assert.Equal(t, doc.Checks[0].Stats, got.Checks[0].Stats)
}

func TestFromCounterexampleNilIsNil(t *testing.T) {
	assert.Nil(t, result.FromCounterexample(nil))
}

// Every object in the declared schema is closed: no additionalProperties
// anywhere in the reflected document shape.
func TestSchemaClosesEveryObject(t *testing.T) {
	b, err := json.Marshal(result.Schema())
	require.NoError(t, err)

	s := string(b)
	assert.Contains(t, s, `"additionalProperties":false`)
	assert.NotContains(t, s, `"additionalProperties":true`)
	assert.Contains(t, s, `"schema_version"`)
	assert.Contains(t, s, `"counterexample"`)
}

func TestDecodeStrictRoundTripsBuiltDocument(t *testing.T) {
	doc := result.Document{
		SchemaVersion: "0.1",
		Tool:          result.Tool{Name: "cspx", Version: "0.1.0", GitSHA: "unknown"},
		Status:        result.StatusFail,
		ExitCode:      1,
		Checks: []result.Check{
			{Name: "check", Target: "P", Status: result.StatusFail, Stats: result.Stats{States: 2, Transitions: 1}},
		},
	}
	b, err := json.Marshal(doc)
	require.NoError(t, err)

	got, err := result.DecodeStrict(b)
	require.NoError(t, err)
	assert.Equal(t, doc.Status, got.Status)
	assert.Equal(t, doc.Checks[0].Stats, got.Checks[0].Stats)
}

func TestDecodeStrictRejectsUnknownFields(t *testing.T) {
	cases := map[string]string{
		"top level": `{"schema_version":"0.1","bogus":1}`,
		"nested":    `{"schema_version":"0.1","checks":[{"name":"check","target":"P","status":"pass","stats":{"states":0,"transitions":0},"bogus":1}]}`,
	}
	for name, payload := range cases {
		_, err := result.DecodeStrict([]byte(payload))
		assert.Errorf(t, err, "expected unknown field to be rejected at %s", name)
	}
}
