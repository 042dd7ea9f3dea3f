package aggregate

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imishinist/nnresults/internal/format"
	"github.com/imishinist/nnresults/internal/loader"
	"github.com/imishinist/nnresults/internal/models"
)

const header = "id,fecha,modelo,dataset,accuracy,precision,recall,loss,tiempo_entrenamiento\n"

func parse(t *testing.T, rows string) []models.Record {
	t.Helper()
	records, err := loader.Parse(strings.NewReader(header + rows))
	require.NoError(t, err)
	return records
}

func num(n float64) models.Value {
	return models.Number("", n)
}

func TestZeroCoerce(t *testing.T) {
	assert.Equal(t, 0.25, ZeroCoerce(num(0.25)))
	assert.Equal(t, 0.0, ZeroCoerce(models.Null()))
	assert.Equal(t, 0.0, ZeroCoerce(models.Text("")))
	assert.Equal(t, 0.0, ZeroCoerce(models.Text("n/a")))
	assert.Equal(t, 0.0, ZeroCoerce(num(math.NaN())))
	assert.Equal(t, 0.0, ZeroCoerce(num(math.Inf(1))))
}

func TestMetricSummary_SingleRow(t *testing.T) {
	records := parse(t, "1,2024-01-01,CNN,MNIST,0.9,0.8,0.85,0.2,120\n")

	summary := MetricSummary(records)
	require.Len(t, summary, 5)

	accuracy, ok := summary.Get(models.MetricAccuracy)
	require.True(t, ok)
	assert.Equal(t, "0.900", format.MeanString(accuracy, 3))

	trainingTime, ok := summary.Get(models.MetricTrainingTime)
	require.True(t, ok)
	assert.Equal(t, 120.0, trainingTime.Value())
}

func TestMetricSummary_KeyOrder(t *testing.T) {
	for _, records := range [][]models.Record{nil, parse(t, "1,2024-01-01,CNN,MNIST,0.9,0.8,0.85,0.2,120\n")} {
		summary := MetricSummary(records)
		names := make([]models.MetricName, 0, len(summary))
		for _, e := range summary {
			names = append(names, e.Metric)
		}
		assert.Equal(t, models.MetricNames, names)
	}
}

func TestMetricSummary_EmptyIsUndefined(t *testing.T) {
	summary := MetricSummary(parse(t, ""))
	require.Len(t, summary, 5)

	for _, e := range summary {
		assert.False(t, e.Mean.Defined(), e.Metric)
		assert.True(t, math.IsNaN(e.Mean.Value()), e.Metric)
		assert.Equal(t, format.NotAvailable, format.MeanString(e.Mean, 3))
	}
}

func TestMetricSummary_BlankLossCountsAsZero(t *testing.T) {
	records := parse(t,
		"1,2024-01-01,CNN,MNIST,0.9,0.8,0.85,,120\n"+
			"2,2024-01-02,CNN,MNIST,0.7,0.6,0.65,0.4,100\n")
	require.Len(t, records, 2)

	loss, _ := MetricSummary(records).Get(models.MetricLoss)
	assert.Equal(t, 2, loss.Count)
	assert.InDelta(t, 0.2, loss.Value(), 1e-12)
}

func TestMetricSummary_MissingAndTextCountAsZero(t *testing.T) {
	records := parse(t,
		"1,2024-01-01,CNN,MNIST,abc,0.8\n"+
			"2,2024-01-02,CNN,MNIST,0.6,0.6,0.6,0.6,60\n")

	summary := MetricSummary(records)

	accuracy, _ := summary.Get(models.MetricAccuracy)
	assert.InDelta(t, 0.3, accuracy.Value(), 1e-12)

	loss, _ := summary.Get(models.MetricLoss)
	assert.False(t, math.IsNaN(loss.Value()))
	assert.InDelta(t, 0.3, loss.Value(), 1e-12)
}

func TestGroupedAverage(t *testing.T) {
	records := parse(t,
		"1,2024-01-01,CNN,MNIST,0.8,0,0,0,0\n"+
			"2,2024-01-02,RNN,IMDB,1.0,0,0,0,0\n"+
			"3,2024-01-03,CNN,MNIST,0.6,0,0,0,0\n")

	groups := GroupedAverage(records, models.MetricAccuracy)
	require.Len(t, groups, 2)

	assert.Equal(t, "CNN", groups[0].Model)
	assert.Equal(t, 0.7, format.Round(groups[0].Mean.Value(), 3))
	assert.Equal(t, 2, groups[0].Mean.Count)

	assert.Equal(t, "RNN", groups[1].Model)
	assert.Equal(t, "1.000", format.MeanString(groups[1].Mean, 3))
}

func TestGroupedAverage_FirstEncounterOrderNoDuplicates(t *testing.T) {
	records := parse(t,
		"1,d,Zeta,x,1,0,0,0,0\n"+
			"2,d,Alpha,x,1,0,0,0,0\n"+
			"3,d,Zeta,x,1,0,0,0,0\n"+
			"4,d,Mid,x,1,0,0,0,0\n"+
			"5,d,Alpha,x,1,0,0,0,0\n")

	groups := GroupedAverage(records, models.MetricAccuracy)
	labels := make([]string, 0, len(groups))
	for _, g := range groups {
		labels = append(labels, g.Model)
		assert.True(t, g.Mean.Defined())
	}
	assert.Equal(t, []string{"Zeta", "Alpha", "Mid"}, labels)
}

func TestGroupedAverage_UndefinedModelFormsGroup(t *testing.T) {
	records := parse(t,
		"1,2024-01-01,,MNIST,0.4,0,0,0.5,0\n"+
			"2,2024-01-02,CNN,MNIST,0.8,0,0,0.1,0\n"+
			"3,2024-01-03\n")

	groups := GroupedAverage(records, models.MetricLoss)
	require.Len(t, groups, 2)
	assert.Equal(t, models.UndefinedModel, groups[0].Model)
	assert.Equal(t, 2, groups[0].Mean.Count)
	assert.InDelta(t, 0.25, groups[0].Mean.Value(), 1e-12)
}

func TestGroupedAverage_Empty(t *testing.T) {
	assert.Empty(t, GroupedAverage(nil, models.MetricAccuracy))
}

func TestAggregates_Idempotent(t *testing.T) {
	records := parse(t,
		"1,2024-01-01,CNN,MNIST,0.1,0.2,0.3,0.4,10\n"+
			"2,2024-01-02,RNN,IMDB,0.7,0.3,0.1,0.9,33\n"+
			"3,2024-01-03,CNN,MNIST,0.3,0.3,0.3,0.3,7\n")

	assert.Equal(t, MetricSummary(records), MetricSummary(records))
	for _, m := range models.MetricNames {
		assert.Equal(t, GroupedAverage(records, m), GroupedAverage(records, m))
	}
}

func TestLossSeries(t *testing.T) {
	records := parse(t,
		"1,2024-01-02,CNN,MNIST,0.8,0,0,0.5,0\n"+
			"2,2024-01-01,RNN,IMDB,1.0,0,0,,0\n")

	series := LossSeries(records)
	assert.Equal(t, []models.SeriesPoint{
		{Date: "2024-01-02", Value: 0.5},
		{Date: "2024-01-01", Value: 0},
	}, series)
}
