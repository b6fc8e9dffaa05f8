package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"crmdash/internal/recordstore"
)

var ErrNotFound = errors.New("not found")

// Tables lists every record table the repositories use.
var Tables = []string{ContactTable, DealTable, ActivityTable, UserTable}

// ListParams is passed through to the record store query.
type ListParams struct {
	Where   []recordstore.Condition
	OrderBy []recordstore.Order
	Limit   int
	Offset  int
}

// table wraps the generic client for one backend table with a fixed field list.
type table struct {
	name   string
	fields []string
	store  recordstore.Client
	log    *zap.Logger
	tag    string // префикс логов, например "[contact]"
}

func newTable(name, tag string, domainFields []string, store recordstore.Client, log *zap.Logger) table {
	if log == nil {
		log = zap.NewNop()
	}
	fields := make([]string, 0, len(recordstore.SystemFields)+len(domainFields))
	fields = append(fields, recordstore.SystemFields...)
	fields = append(fields, domainFields...)
	return table{name: name, fields: fields, store: store, log: log, tag: tag}
}

func (t table) list(ctx context.Context, p ListParams) ([]recordstore.Record, int, error) {
	resp, err := t.store.FetchRecords(ctx, t.name, recordstore.Query{
		Fields:  t.fields,
		Where:   p.Where,
		OrderBy: p.OrderBy,
		Limit:   p.Limit,
		Offset:  p.Offset,
	})
	if err != nil {
		t.log.Error(t.tag+"[list] fetch failed", zap.String("table", t.name), zap.Error(err))
		return nil, 0, fmt.Errorf("fetch %s: %w", t.name, err)
	}
	if resp == nil || len(resp.Data) == 0 {
		return nil, 0, nil
	}
	return resp.Data, resp.Total, nil
}

func (t table) get(ctx context.Context, id string) (recordstore.Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, nil
	}
	rec, err := t.store.GetRecordByID(ctx, t.name, id, t.fields)
	if err != nil {
		t.log.Error(t.tag+"[get] fetch failed", zap.String("table", t.name), zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("get %s %s: %w", t.name, id, err)
	}
	return rec, nil
}

func (t table) create(ctx context.Context, rec recordstore.Record) (recordstore.Record, error) {
	resp, err := t.store.CreateRecords(ctx, t.name, []recordstore.Record{rec})
	if err != nil {
		t.log.Error(t.tag+"[create] store failed", zap.String("table", t.name), zap.Error(err))
		return nil, fmt.Errorf("create %s: %w", t.name, err)
	}
	ok := resp.Succeeded()
	if len(ok) == 0 {
		msg := firstMessage(resp)
		t.log.Error(t.tag+"[create] rejected", zap.String("table", t.name), zap.String("message", msg))
		return nil, fmt.Errorf("failed to create %s: %s", t.name, msg)
	}
	return withID(ok[0]), nil
}

func (t table) update(ctx context.Context, rec recordstore.Record) (recordstore.Record, error) {
	resp, err := t.store.UpdateRecords(ctx, t.name, []recordstore.Record{rec})
	if err != nil {
		t.log.Error(t.tag+"[update] store failed", zap.String("table", t.name), zap.String("id", rec.ID()), zap.Error(err))
		return nil, fmt.Errorf("update %s %s: %w", t.name, rec.ID(), err)
	}
	ok := resp.Succeeded()
	if len(ok) == 0 {
		t.log.Warn(t.tag+"[update] no record updated", zap.String("id", rec.ID()), zap.String("message", firstMessage(resp)))
		return nil, ErrNotFound
	}
	return withID(ok[0]), nil
}

func (t table) delete(ctx context.Context, id string) error {
	resp, err := t.store.DeleteRecords(ctx, t.name, []string{id})
	if err != nil {
		t.log.Error(t.tag+"[delete] store failed", zap.String("table", t.name), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("delete %s %s: %w", t.name, id, err)
	}
	if len(resp.Succeeded()) == 0 {
		return ErrNotFound
	}
	return nil
}

func withID(r recordstore.Result) recordstore.Record {
	rec := r.Data
	if rec == nil {
		rec = recordstore.Record{}
	}
	if rec.ID() == "" && r.ID != "" {
		rec[recordstore.FieldID] = r.ID
	}
	return rec
}

func firstMessage(resp *recordstore.MutationResponse) string {
	if resp != nil {
		for _, r := range resp.Results {
			if r.Message != "" {
				return r.Message
			}
		}
	}
	return "no successful results"
}

// nullable writes blank references as null.
func nullable(s string) any {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
