package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/imishinist/nnresults/internal/models"
)

// Input file headers
const (
	ColumnID      = "id"
	ColumnDate    = "fecha"
	ColumnModel   = "modelo"
	ColumnDataset = "dataset"
)

// RequiredColumns lists every header a results file must carry.
var RequiredColumns = []string{
	ColumnID,
	ColumnDate,
	ColumnModel,
	ColumnDataset,
	models.MetricAccuracy.Column(),
	models.MetricPrecision.Column(),
	models.MetricRecall.Column(),
	models.MetricLoss.Column(),
	models.MetricTrainingTime.Column(),
}

var numberPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// SchemaError reports a header row missing required columns.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Coerce converts a raw field into a typed value. Numeric-looking text
// becomes a number; anything else stays text.
func Coerce(raw string) models.Value {
	if numberPattern.MatchString(raw) {
		if n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return models.Number(raw, n)
		}
	}
	return models.Text(raw)
}

// Parse reads header-plus-rows delimited text into records, preserving row
// order. Rows whose fields are all absent or empty are dropped. Rows that
// cannot be tokenized are skipped and logged; they never fail the parse.
func Parse(r io.Reader) ([]models.Record, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	reader := csv.NewReader(decoded)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, &SchemaError{Missing: RequiredColumns}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index, err := columnIndex(headers)
	if err != nil {
		return nil, err
	}

	var records []models.Record
	line := 1
	for {
		row, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				slog.Debug("Skipping malformed row", "line", parseErr.Line, "error", parseErr.Err)
				continue
			}
			return nil, fmt.Errorf("failed to read row %d: %w", line, err)
		}

		if len(row) != len(headers) {
			slog.Debug("Row field count differs from header", "line", line, "fields", len(row), "headers", len(headers))
		}

		values := make([]models.Value, len(headers))
		blank := true
		for i := range headers {
			if i < len(row) {
				values[i] = Coerce(row[i])
			} else {
				values[i] = models.Null()
			}
			if !values[i].IsBlank() {
				blank = false
			}
		}
		if blank {
			continue
		}

		records = append(records, buildRecord(values, index))
	}

	return records, nil
}

func columnIndex(headers []string) (map[string]int, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		name := strings.TrimSpace(h)
		if _, exists := index[name]; !exists {
			index[name] = i
		}
	}

	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}
	return index, nil
}

func buildRecord(values []models.Value, index map[string]int) models.Record {
	get := func(col string) models.Value {
		return values[index[col]]
	}

	model := get(ColumnModel)
	label := model.String()
	if model.IsBlank() {
		label = models.UndefinedModel
	}

	return models.Record{
		ID:           get(ColumnID),
		Date:         get(ColumnDate).String(),
		Model:        label,
		Dataset:      get(ColumnDataset).String(),
		Accuracy:     get(models.MetricAccuracy.Column()),
		Precision:    get(models.MetricPrecision.Column()),
		Recall:       get(models.MetricRecall.Column()),
		Loss:         get(models.MetricLoss.Column()),
		TrainingTime: get(models.MetricTrainingTime.Column()),
	}
}
