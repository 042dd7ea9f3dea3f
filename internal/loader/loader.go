package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/imishinist/nnresults/internal/models"
)

// ErrSourceUnavailable matches any error returned when a source could not
// be read.
var ErrSourceUnavailable = errors.New("source unavailable")

// SourceUnavailableError carries the source and the underlying failure.
type SourceUnavailableError struct {
	Source string
	Err    error
}

func (e *SourceUnavailableError) Error() string {
	return fmt.Sprintf("source unavailable: %s: %v", e.Source, e.Err)
}

func (e *SourceUnavailableError) Unwrap() error {
	return e.Err
}

func (e *SourceUnavailableError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// Dataset is the result of one successful load.
type Dataset struct {
	source  string
	records []models.Record
}

func NewDataset(source string, records []models.Record) *Dataset {
	return &Dataset{source: source, records: slices.Clone(records)}
}

func (d *Dataset) Source() string {
	return d.source
}

// Records returns a copy of the loaded records in input order.
func (d *Dataset) Records() []models.Record {
	return slices.Clone(d.records)
}

func (d *Dataset) Len() int {
	return len(d.records)
}

// Empty reports whether the source held no usable rows.
func (d *Dataset) Empty() bool {
	return len(d.records) == 0
}

// Load reads src and parses it. A source that cannot be opened or read
// yields a *SourceUnavailableError; an empty file yields an empty Dataset.
func Load(ctx context.Context, src Source) (*Dataset, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, &SourceUnavailableError{Source: src.String(), Err: err}
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &SourceUnavailableError{Source: src.String(), Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		slog.Debug("Source is empty", "source", src.String())
		return NewDataset(src.String(), nil), nil
	}

	records, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", src.String(), err)
	}

	slog.Debug("Loaded records", "source", src.String(), "count", len(records))
	return &Dataset{source: src.String(), records: records}, nil
}
