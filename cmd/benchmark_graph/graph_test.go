package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// should decode the built-in scenarios
func TestDefaultScenariosDecode(t *testing.T) {
	scenarios, err := loadScenarios("")
	require.NoError(t, err)
	require.Len(t, scenarios, 6)

	assert.Equal(t, "simple component", scenarios[0].Name)
	assert.Equal(t, int64(600000), scenarios[0].Iterations)
	assert.Equal(t, 0.75, scenarios[1].StaticFraction)

	only := filterScenarios(scenarios, "DEEP")
	require.Len(t, only, 1)
	assert.Equal(t, int64(500), only[0].TotalLayers)
}

// should reject empty, invalid and malformed scenario files
func TestParseScenariosRejectsInvalid(t *testing.T) {
	_, err := parseScenarios([]byte(`title = "nothing"`))
	assert.ErrorIs(t, err, errNoScenarios)

	_, err = parseScenarios([]byte(`[[scenario]]
name = "bad"
width = 10
total_layers = 1
n_sources = 2
static_fraction = 1.0
read_fraction = 1.0
iterations = 1
`))
	assert.ErrorContains(t, err, "total_layers")

	_, err = parseScenarios([]byte(`[[scenario`))
	assert.Error(t, err)
}

// should match the closed form for static graphs: every node in layer l sums
// nSources nodes of layer l-1
func TestStaticGraphSum(t *testing.T) {
	sc := scenario{
		Name:           "tiny",
		Width:          3,
		TotalLayers:    3,
		StaticFraction: 1,
		NSources:       2,
		ReadFraction:   1,
		Iterations:     3,
	}
	counter := new(int64)
	g := makeGraph(sc, counter)

	// writes s0=0, s1=2, s2=4 leave sources [0 2 4]
	// layer 1: [2 6 4], layer 2: [8 10 6]
	sum, checksum := g.run(sc.Iterations, sc.ReadFraction)
	assert.Equal(t, 24, sum)
	assert.NotZero(t, checksum)
	assert.Positive(t, *counter)
}

// should produce the same sum and checksum on every build
func TestGraphRunIsDeterministic(t *testing.T) {
	sc := scenario{
		Name:           "dynamic",
		Width:          10,
		TotalLayers:    6,
		StaticFraction: 0.5,
		NSources:       4,
		ReadFraction:   0.5,
		Iterations:     200,
	}
	sum1, checksum1 := makeGraph(sc, new(int64)).run(sc.Iterations, sc.ReadFraction)
	sum2, checksum2 := makeGraph(sc, new(int64)).run(sc.Iterations, sc.ReadFraction)
	assert.Equal(t, sum1, sum2)
	assert.Equal(t, checksum1, checksum2)
}

// should write valid JSON
func TestWriteJSON(t *testing.T) {
	results := []result{
		{
			Scenario:   scenario{Name: `quote "me"`, Width: 1, TotalLayers: 2, NSources: 1, StaticFraction: 1, ReadFraction: 1, Iterations: 10},
			Sum:        42,
			Count:      7,
			Duration:   3 * time.Millisecond,
			Checksum:   0xdeadbeef,
			UpdateRate: 2.5,
		},
		{Scenario: scenario{Name: "second"}},
	}

	buf := &bytes.Buffer{}
	writeJSON(buf, results)

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, `quote "me"`, decoded[0]["name"])
	assert.Equal(t, float64(42), decoded[0]["sum"])
	assert.Equal(t, float64(3*time.Millisecond), decoded[0]["duration_ns"])
	assert.Equal(t, "00000000deadbeef", decoded[0]["checksum"])
	assert.Equal(t, 2.5, decoded[0]["update_rate"])
}

// should render one row per result
func TestWriteTable(t *testing.T) {
	buf := &bytes.Buffer{}
	writeTable(buf, []result{{
		Scenario: scenario{Name: "tiny", Width: 3, TotalLayers: 3, NSources: 2, StaticFraction: 1, ReadFraction: 0.5, Iterations: 1200},
		Checksum: 1,
	}})
	out := buf.String()
	assert.Contains(t, out, "tiny")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "3x3")
}

// should wrap deep graph sums deterministically
func TestDeepGraphSumWrapsDeterministically(t *testing.T) {
	sc := scenario{
		Name:           "deep",
		Width:          5,
		TotalLayers:    100,
		StaticFraction: 1,
		NSources:       3,
		ReadFraction:   1,
		Iterations:     5,
	}
	sum1, checksum1 := makeGraph(sc, new(int64)).run(sc.Iterations, sc.ReadFraction)
	sum2, checksum2 := makeGraph(sc, new(int64)).run(sc.Iterations, sc.ReadFraction)
	assert.Equal(t, sum1, sum2)
	assert.Equal(t, checksum1, checksum2)
}
