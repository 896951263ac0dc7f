package refresh

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, raw string) UpstreamCountry {
	t.Helper()
	var entry UpstreamCountry
	require.NoError(t, json.Unmarshal([]byte(raw), &entry))
	return entry
}

func TestNormalizeNameVariants(t *testing.T) {
	plain := decodeEntry(t, `{"name":"France"}`)
	record, ok := Normalize(plain)
	require.True(t, ok)
	assert.Equal(t, "France", record.Name)

	nested := decodeEntry(t, `{"name":{"common":"Germany","official":"Federal Republic of Germany"}}`)
	record, ok = Normalize(nested)
	require.True(t, ok)
	assert.Equal(t, "Germany", record.Name)
}

func TestNormalizeSkipsNamelessEntries(t *testing.T) {
	for _, raw := range []string{
		`{}`,
		`{"name":""}`,
		`{"name":{"official":"no common name"}}`,
		`{"name":42}`,
	} {
		_, ok := Normalize(decodeEntry(t, raw))
		assert.False(t, ok, "entry %s should be skipped", raw)
	}
}

func TestNormalizeCapitalVariants(t *testing.T) {
	seq := decodeEntry(t, `{"name":"Peru","capital":["Lima","Cusco"]}`)
	record, _ := Normalize(seq)
	require.NotNil(t, record.Capital)
	assert.Equal(t, "Lima", *record.Capital)

	plain := decodeEntry(t, `{"name":"Peru","capital":"Lima"}`)
	record, _ = Normalize(plain)
	require.NotNil(t, record.Capital)
	assert.Equal(t, "Lima", *record.Capital)

	missing := decodeEntry(t, `{"name":"Peru"}`)
	record, _ = Normalize(missing)
	assert.Nil(t, record.Capital)
}

func TestNormalizeCurrencySequenceForm(t *testing.T) {
	entry := decodeEntry(t, `{"name":"Japan","currencies":[{"code":"JPY","name":"Yen"},{"code":"USD"}]}`)
	record, _ := Normalize(entry)
	require.NotNil(t, record.CurrencyCode)
	assert.Equal(t, "JPY", *record.CurrencyCode)
}

func TestNormalizeCurrencyMapForm(t *testing.T) {
	// Object code wins over the key.
	entry := decodeEntry(t, `{"name":"Japan","currencies":{"JPY":{"code":"JPY","name":"Yen"}}}`)
	record, _ := Normalize(entry)
	require.NotNil(t, record.CurrencyCode)
	assert.Equal(t, "JPY", *record.CurrencyCode)

	// Key is the fallback when the object has no code field.
	entry = decodeEntry(t, `{"name":"Norway","currencies":{"NOK":{"name":"Krone"}}}`)
	record, _ = Normalize(entry)
	require.NotNil(t, record.CurrencyCode)
	assert.Equal(t, "NOK", *record.CurrencyCode)
}

func TestNormalizeCurrencyUnresolvable(t *testing.T) {
	for _, raw := range []string{
		`{"name":"Atlantis"}`,
		`{"name":"Atlantis","currencies":[]}`,
		`{"name":"Atlantis","currencies":{}}`,
		`{"name":"Atlantis","currencies":[{"name":"no code"}]}`,
	} {
		record, ok := Normalize(decodeEntry(t, raw))
		require.True(t, ok)
		assert.Nil(t, record.CurrencyCode, "entry %s should have no currency", raw)
	}
}

func TestNormalizePopulationDefaultsToZero(t *testing.T) {
	for _, raw := range []string{
		`{"name":"Nauru"}`,
		`{"name":"Nauru","population":"many"}`,
		`{"name":"Nauru","population":null}`,
	} {
		record, ok := Normalize(decodeEntry(t, raw))
		require.True(t, ok)
		assert.Zero(t, record.Population, "entry %s", raw)
	}

	entry := decodeEntry(t, `{"name":"Nauru","population":12500}`)
	record, _ := Normalize(entry)
	assert.Equal(t, int64(12500), record.Population)
}

func TestNormalizeFlagFallback(t *testing.T) {
	nested := decodeEntry(t, `{"name":"Chile","flag":"https://cdn.example/cl.svg","flags":{"png":"https://cdn.example/cl.png"}}`)
	record, _ := Normalize(nested)
	require.NotNil(t, record.FlagURL)
	assert.Equal(t, "https://cdn.example/cl.png", *record.FlagURL)

	flat := decodeEntry(t, `{"name":"Chile","flag":"https://cdn.example/cl.svg"}`)
	record, _ = Normalize(flat)
	require.NotNil(t, record.FlagURL)
	assert.Equal(t, "https://cdn.example/cl.svg", *record.FlagURL)

	none := decodeEntry(t, `{"name":"Chile"}`)
	record, _ = Normalize(none)
	assert.Nil(t, record.FlagURL)
}
