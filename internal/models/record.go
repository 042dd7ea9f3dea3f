package models

import (
	"encoding/json"
	"strconv"
)

type ValueKind int

const (
	// KindNull marks a field that was absent from the row.
	KindNull ValueKind = iota
	KindText
	KindNumber
)

// Value is a single coerced field of an input row.
type Value struct {
	Kind ValueKind
	Raw  string
	Num  float64
}

func Null() Value {
	return Value{Kind: KindNull}
}

func Text(s string) Value {
	return Value{Kind: KindText, Raw: s}
}

func Number(raw string, n float64) Value {
	return Value{Kind: KindNumber, Raw: raw, Num: n}
}

// IsBlank reports whether the value is absent or an empty string.
func (v Value) IsBlank() bool {
	return v.Kind == KindNull || (v.Kind == KindText && v.Raw == "")
}

func (v Value) String() string {
	if v.Kind == KindNull {
		return ""
	}
	return v.Raw
}

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindNumber:
		return []byte(strconv.FormatFloat(v.Num, 'f', -1, 64)), nil
	case KindText:
		return json.Marshal(v.Raw)
	default:
		return []byte("null"), nil
	}
}

func (v Value) MarshalYAML() (interface{}, error) {
	switch v.Kind {
	case KindNumber:
		return v.Num, nil
	case KindText:
		return v.Raw, nil
	default:
		return nil, nil
	}
}

// UndefinedModel is the grouping label used when a row carries no model.
const UndefinedModel = "undefined"

// Record is one training run observation. Records are built once by the
// loader and never modified.
type Record struct {
	ID           Value  `json:"id" yaml:"id"`
	Date         string `json:"fecha" yaml:"fecha"`
	Model        string `json:"modelo" yaml:"modelo"`
	Dataset      string `json:"dataset" yaml:"dataset"`
	Accuracy     Value  `json:"accuracy" yaml:"accuracy"`
	Precision    Value  `json:"precision" yaml:"precision"`
	Recall       Value  `json:"recall" yaml:"recall"`
	Loss         Value  `json:"loss" yaml:"loss"`
	TrainingTime Value  `json:"tiempo_entrenamiento" yaml:"tiempo_entrenamiento"`
}

// Field returns the raw coerced value of a metric.
func (r Record) Field(name MetricName) Value {
	switch name {
	case MetricAccuracy:
		return r.Accuracy
	case MetricPrecision:
		return r.Precision
	case MetricRecall:
		return r.Recall
	case MetricLoss:
		return r.Loss
	case MetricTrainingTime:
		return r.TrainingTime
	default:
		return Null()
	}
}
