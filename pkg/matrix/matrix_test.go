package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/tsperf-matrix/pkg/models"
)

func job(name string, iterations int) models.Job {
	return models.Job{
		Kind:       models.JobKindTSC,
		Name:       models.JobName(name),
		Host:       "node@18.15.0",
		Scenario:   name,
		Iterations: iterations,
		Location:   models.LocationInternal,
	}
}

func TestBucketPutKeepsFirstPosition(t *testing.T) {
	b := newBucket()

	_, replaced := b.Put(job("b", 1))
	assert.False(t, replaced)
	b.Put(job("a", 1))

	prev, replaced := b.Put(job("b", 2))
	require.True(t, replaced)
	assert.Equal(t, 1, prev.Iterations)

	assert.Equal(t, []models.JobName{"b", "a"}, b.Names())
	assert.Equal(t, 2, b.Len())
	got, ok := b.Get("b")
	require.True(t, ok)
	assert.Equal(t, 2, got.Iterations)

	_, ok = b.Get("c")
	assert.False(t, ok)
}

func TestBucketMarshalJSONOrder(t *testing.T) {
	b := newBucket()
	b.Put(job("z", 1))
	b.Put(job("a", 1))

	data, err := b.MarshalJSON()
	require.NoError(t, err)

	want := `{"z":{"TSPERF_JOB_KIND":"tsc","TSPERF_JOB_NAME":"z","TSPERF_JOB_HOSTS":"node@18.15.0","TSPERF_JOB_SCENARIOS":"z","TSPERF_JOB_ITERATIONS":1,"TSPERF_JOB_LOCATION":"internal"},` +
		`"a":{"TSPERF_JOB_KIND":"tsc","TSPERF_JOB_NAME":"a","TSPERF_JOB_HOSTS":"node@18.15.0","TSPERF_JOB_SCENARIOS":"a","TSPERF_JOB_ITERATIONS":1,"TSPERF_JOB_LOCATION":"internal"}}`
	assert.Equal(t, want, string(data))
}

func TestEmptyBucketMarshalsToObject(t *testing.T) {
	data, err := newBucket().MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestNewMatrixBuckets(t *testing.T) {
	m := NewMatrix([]models.AgentID{"ts-perf1", "ts-perf2"})

	assert.Equal(t, []models.AgentID{models.AgentAny, "ts-perf1", "ts-perf2"}, m.Agents())
	assert.NotNil(t, m.Bucket("ts-perf2"))
	assert.Nil(t, m.Bucket("ts-perf9"))
	assert.Equal(t, 0, m.Len())

	data, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"any":{},"ts-perf1":{},"ts-perf2":{}}`, string(data))
}

func TestMatrixMarshalYAMLOrder(t *testing.T) {
	m := NewMatrix([]models.AgentID{"ts-perf1"})
	m.bucket("ts-perf1").Put(job("second", 1))
	m.bucket("ts-perf1").Put(job("first", 1))

	data, err := yaml.Marshal(m)
	require.NoError(t, err)

	var node yaml.Node
	require.NoError(t, yaml.Unmarshal(data, &node))
	root := node.Content[0]
	require.Len(t, root.Content, 4)
	assert.Equal(t, "any", root.Content[0].Value)
	assert.Equal(t, "ts-perf1", root.Content[2].Value)

	perf1 := root.Content[3]
	require.Len(t, perf1.Content, 4)
	assert.Equal(t, "second", perf1.Content[0].Value)
	assert.Equal(t, "first", perf1.Content[2].Value)
}

func TestEncodeJSONNoHTMLEscape(t *testing.T) {
	data, err := EncodeJSON("a<b>&c")
	require.NoError(t, err)
	assert.Equal(t, `"a<b>&c"`, string(data))
}
