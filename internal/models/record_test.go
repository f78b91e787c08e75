package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordKeepsColumnOrderThroughJSON(t *testing.T) {
	raw := `{"zeta":1,"alpha":"Conway","mid":2.5,"none":null,"flag":true}`

	var r Record
	require.NoError(t, json.Unmarshal([]byte(raw), &r))

	assert.Equal(t, []string{"zeta", "alpha", "mid", "none", "flag"}, r.Keys())
	assert.Equal(t, int64(1), r.Value("zeta"))
	assert.Equal(t, 2.5, r.Value("mid"))
	assert.Nil(t, r.Value("none"))
	assert.Equal(t, true, r.Value("flag"))

	out, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
	assert.Equal(t, raw, string(out))
}

func TestRecordSetKeepsInsertionOrder(t *testing.T) {
	r := RecordOf("plan", "basic", "tenure", int64(4))
	r.Set("Predicted_Target", int64(1))
	r.Set("plan", "pro")

	assert.Equal(t, []string{"plan", "tenure", "Predicted_Target"}, r.Keys())
	assert.Equal(t, "pro", r.Value("plan"))
}

func TestPayloadRecordsDecodeInOrder(t *testing.T) {
	raw := `{"records":[{"b":1,"a":2}],"prediction_column":"Predicted_Target","class_distribution":{"0":3,"1":1},"model_used":"m","file_name":"f.csv"}`

	var p PredictionPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))

	assert.Equal(t, []string{"b", "a"}, p.Headers())
	assert.Equal(t, 4, p.ClassDistribution.Total())
	assert.Equal(t, []string{"0", "1"}, p.ClassDistribution.Labels())
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "", FormatValue(nil))
	assert.Equal(t, "1", FormatValue(int64(1)))
	assert.Equal(t, "1", FormatValue(1.0))
	assert.Equal(t, "0.25", FormatValue(0.25))
	assert.Equal(t, "true", FormatValue(true))
	assert.Equal(t, "Yes", FormatValue("Yes"))
}

func TestTruthy(t *testing.T) {
	assert.False(t, Truthy(nil))
	assert.False(t, Truthy(""))
	assert.False(t, Truthy(int64(0)))
	assert.False(t, Truthy(false))
	assert.True(t, Truthy("0"))
	assert.True(t, Truthy(0.5))
}
