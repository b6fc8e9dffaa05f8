// Package recordstore is a generic CRUD client over table-addressed records.
//
// Records are flat field maps. System fields use the store's Capitalized
// names; domain fields are snake_case. Backends: in-memory, SQL
// (postgres/sqlite) and a remote HTTP record API.
package recordstore

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

// System fields maintained by every backend.
const (
	FieldID         = "Id"
	FieldName       = "Name"
	FieldTags       = "Tags"
	FieldOwner      = "Owner"
	FieldCreatedOn  = "CreatedOn"
	FieldCreatedBy  = "CreatedBy"
	FieldModifiedOn = "ModifiedOn"
	FieldModifiedBy = "ModifiedBy"
)

// SystemFields is the prefix of every fetch field list.
var SystemFields = []string{
	FieldName, FieldTags, FieldOwner, FieldCreatedOn, FieldCreatedBy, FieldModifiedOn, FieldModifiedBy,
}

var (
	ErrMissingTable = errors.New("table name is required")
	ErrMissingID    = errors.New("record id is required")
	ErrNotFound     = errors.New("record not found")
)

// Record is a single row keyed by field name.
type Record map[string]any

type Operator string

const (
	OpEqualTo  Operator = "EqualTo"
	OpContains Operator = "Contains"
	OpIn       Operator = "In"
)

type Condition struct {
	Field    string   `json:"FieldName"`
	Operator Operator `json:"Operator"`
	Values   []any    `json:"Values"`
}

type Order struct {
	Field string `json:"fieldName"`
	Desc  bool   `json:"desc,omitempty"`
}

// Query describes a fetch: projection, filtering, ordering and paging.
type Query struct {
	Fields  []string    `json:"fields,omitempty"`
	Where   []Condition `json:"where,omitempty"`
	OrderBy []Order     `json:"orderBy,omitempty"`
	Limit   int         `json:"limit,omitempty"`
	Offset  int         `json:"offset,omitempty"`
}

type FetchResponse struct {
	Data  []Record `json:"data"`
	Total int      `json:"total"`
}

// Result is the per-record outcome of a mutation.
type Result struct {
	Success bool   `json:"success"`
	Data    Record `json:"data,omitempty"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
}

type MutationResponse struct {
	Success bool     `json:"success"`
	Results []Result `json:"results"`
}

// Succeeded returns the successful results in request order.
func (m *MutationResponse) Succeeded() []Result {
	if m == nil {
		return nil
	}
	var out []Result
	for _, r := range m.Results {
		if r.Success {
			out = append(out, r)
		}
	}
	return out
}

// Client is implemented by every backend.
type Client interface {
	FetchRecords(ctx context.Context, table string, q Query) (*FetchResponse, error)
	// GetRecordByID returns nil, nil when the record does not exist.
	GetRecordByID(ctx context.Context, table, id string, fields []string) (Record, error)
	CreateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error)
	UpdateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error)
	DeleteRecords(ctx context.Context, table string, ids []string) (*MutationResponse, error)
	Close() error
}

func (r Record) ID() string {
	return r.String(FieldID)
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the field as text; missing or null fields give "".
func (r Record) String(field string) string {
	return valueString(r[field])
}

// Float parses numeric fields stored as numbers or strings; 0 on failure.
func (r Record) Float(field string) float64 {
	switch v := r[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, _ := v.Float64()
		return f
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

// Int truncates like parseInt: "75.9" -> 75.
func (r Record) Int(field string) int {
	switch v := r[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f)
		}
		return 0
	}
	return int(r.Float(field))
}

func (r Record) Bool(field string) bool {
	switch v := r[field].(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(v)
		return b
	case float64:
		return v != 0
	case int:
		return v != 0
	}
	return false
}

// Time parses RFC3339 timestamps or plain dates. ok is false when the field
// is missing or unparsable.
func (r Record) Time(field string) (time.Time, bool) {
	switch v := r[field].(type) {
	case time.Time:
		return v, true
	case string:
		return ParseTime(v)
	}
	return time.Time{}, false
}

// ParseTime accepts RFC3339 (with or without fraction), "2006-01-02T15:04:05"
// and "2006-01-02".
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTime is the canonical timestamp encoding inside records.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func valueString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		return FormatTime(t)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}
