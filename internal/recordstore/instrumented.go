package recordstore

import (
	"context"
	"time"

	"crmdash/internal/metrics"
)

// otherTable labels every table the instrumented client was not told about.
const otherTable = "other"

type instrumented struct {
	next   Client
	tables map[string]struct{}
}

// Instrument records Prometheus counters and latencies for every call.
// Only the listed tables get their own label; table names reach the store
// from request paths, so the rest share one series.
func Instrument(next Client, tables ...string) Client {
	known := make(map[string]struct{}, len(tables))
	for _, t := range tables {
		known[t] = struct{}{}
	}
	return &instrumented{next: next, tables: known}
}

func (i *instrumented) observe(op, table string, start time.Time, err error) {
	if _, ok := i.tables[table]; !ok {
		table = otherTable
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	metrics.StoreOperations.WithLabelValues(op, table, result).Inc()
	metrics.StoreDuration.WithLabelValues(op, table).Observe(time.Since(start).Seconds())
}

func (i *instrumented) FetchRecords(ctx context.Context, table string, q Query) (*FetchResponse, error) {
	start := time.Now()
	resp, err := i.next.FetchRecords(ctx, table, q)
	i.observe("fetch", table, start, err)
	return resp, err
}

func (i *instrumented) GetRecordByID(ctx context.Context, table, id string, fields []string) (Record, error) {
	start := time.Now()
	r, err := i.next.GetRecordByID(ctx, table, id, fields)
	i.observe("get", table, start, err)
	return r, err
}

func (i *instrumented) CreateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error) {
	start := time.Now()
	resp, err := i.next.CreateRecords(ctx, table, records)
	i.observe("create", table, start, err)
	return resp, err
}

func (i *instrumented) UpdateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error) {
	start := time.Now()
	resp, err := i.next.UpdateRecords(ctx, table, records)
	i.observe("update", table, start, err)
	return resp, err
}

func (i *instrumented) DeleteRecords(ctx context.Context, table string, ids []string) (*MutationResponse, error) {
	start := time.Now()
	resp, err := i.next.DeleteRecords(ctx, table, ids)
	i.observe("delete", table, start, err)
	return resp, err
}

func (i *instrumented) Close() error { return i.next.Close() }
