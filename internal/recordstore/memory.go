package recordstore

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Memory keeps tables in process. Ids are sequential per store.
type Memory struct {
	mu     sync.RWMutex
	tables map[string]map[string]Record
	seq    int64
	now    func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		tables: make(map[string]map[string]Record),
		now:    time.Now,
	}
}

func (m *Memory) FetchRecords(ctx context.Context, table string, q Query) (*FetchResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	rows := make([]Record, 0, len(m.tables[table]))
	for _, r := range m.tables[table] {
		rows = append(rows, r)
	}
	resp := apply(rows, q)
	m.mu.RUnlock()
	return resp, nil
}

func (m *Memory) GetRecordByID(ctx context.Context, table, id string, fields []string) (Record, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.tables[table][id]
	if !ok {
		return nil, nil
	}
	return project(r, fields), nil
}

func (m *Memory) CreateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tables[table] == nil {
		m.tables[table] = make(map[string]Record)
	}

	stamp := FormatTime(m.now())
	resp := &MutationResponse{Success: true}
	for _, in := range records {
		m.seq++
		id := strconv.FormatInt(m.seq, 10)
		r := in.Clone()
		r[FieldID] = id
		r[FieldCreatedOn] = stamp
		r[FieldModifiedOn] = stamp
		m.tables[table][id] = r
		resp.Results = append(resp.Results, Result{Success: true, ID: id, Data: r.Clone()})
	}
	return resp, nil
}

func (m *Memory) UpdateRecords(ctx context.Context, table string, records []Record) (*MutationResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stamp := FormatTime(m.now())
	resp := &MutationResponse{Success: true}
	for _, in := range records {
		id := in.ID()
		if id == "" {
			resp.Results = append(resp.Results, Result{Message: ErrMissingID.Error()})
			continue
		}
		cur, ok := m.tables[table][id]
		if !ok {
			resp.Results = append(resp.Results, Result{ID: id, Message: ErrNotFound.Error()})
			continue
		}
		next := merge(cur, in)
		next[FieldModifiedOn] = stamp
		m.tables[table][id] = next
		resp.Results = append(resp.Results, Result{Success: true, ID: id, Data: next.Clone()})
	}
	return resp, nil
}

func (m *Memory) DeleteRecords(ctx context.Context, table string, ids []string) (*MutationResponse, error) {
	if table == "" {
		return nil, ErrMissingTable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	resp := &MutationResponse{Success: true}
	for _, id := range ids {
		if _, ok := m.tables[table][id]; !ok {
			resp.Results = append(resp.Results, Result{ID: id, Message: ErrNotFound.Error()})
			continue
		}
		delete(m.tables[table], id)
		resp.Results = append(resp.Results, Result{Success: true, ID: id})
	}
	return resp, nil
}

func (m *Memory) Close() error { return nil }
