package pipeline

import (
	"context"
	"sync"

	"github.com/imishinist/nnresults/internal/aggregate"
	"github.com/imishinist/nnresults/internal/loader"
	"github.com/imishinist/nnresults/internal/models"
)

// Report bundles one load with the aggregates computed from it.
type Report struct {
	Dataset *loader.Dataset
	Metric  models.MetricName
	Summary models.MetricSummary
	Grouped []models.ModelAverage
	Series  []models.SeriesPoint
}

// Build computes every view of a loaded dataset. Grouped averages use metric.
func Build(dataset *loader.Dataset, metric models.MetricName) *Report {
	records := dataset.Records()
	return &Report{
		Dataset: dataset,
		Metric:  metric,
		Summary: aggregate.MetricSummary(records),
		Grouped: aggregate.GroupedAverage(records, metric),
		Series:  aggregate.LossSeries(records),
	}
}

// Run loads src and builds its report.
func Run(ctx context.Context, src loader.Source, metric models.MetricName) (*Report, error) {
	dataset, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return Build(dataset, metric), nil
}

// Pipeline remembers the last successful report. Each Reload replaces it
// wholesale; a failed reload leaves it untouched.
type Pipeline struct {
	source loader.Source
	metric models.MetricName

	mu   sync.Mutex
	last *Report
}

func New(src loader.Source, metric models.MetricName) *Pipeline {
	return &Pipeline{source: src, metric: metric}
}

// Reload reads the source again and caches the new report.
func (p *Pipeline) Reload(ctx context.Context) (*Report, error) {
	report, err := Run(ctx, p.source, p.metric)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.last = report
	p.mu.Unlock()

	return report, nil
}

// Report returns the cached report, loading it first if needed.
func (p *Pipeline) Report(ctx context.Context) (*Report, error) {
	if report, ok := p.Last(); ok {
		return report, nil
	}
	return p.Reload(ctx)
}

// Last returns the cached report, if any.
func (p *Pipeline) Last() (*Report, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last, p.last != nil
}

// Invalidate drops the cached report.
func (p *Pipeline) Invalidate() {
	p.mu.Lock()
	p.last = nil
	p.mu.Unlock()
}
