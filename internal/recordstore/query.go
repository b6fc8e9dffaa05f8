package recordstore

import (
	"sort"
	"strconv"
	"strings"
)

// apply filters, orders, pages and projects rows. rows are not modified.
func apply(rows []Record, q Query) *FetchResponse {
	matched := make([]Record, 0, len(rows))
	for _, r := range rows {
		if matches(r, q.Where) {
			matched = append(matched, r)
		}
	}

	orders := q.OrderBy
	if len(orders) == 0 {
		orders = []Order{{Field: FieldID}}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		for _, o := range orders {
			c := compareValues(matched[i][o.Field], matched[j][o.Field])
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	total := len(matched)
	start := q.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if q.Limit > 0 && start+q.Limit < end {
		end = start + q.Limit
	}

	page := make([]Record, 0, end-start)
	for _, r := range matched[start:end] {
		page = append(page, project(r, q.Fields))
	}
	return &FetchResponse{Data: page, Total: total}
}

// project keeps Id plus the requested fields; no fields means everything.
func project(r Record, fields []string) Record {
	if len(fields) == 0 {
		return r.Clone()
	}
	out := make(Record, len(fields)+1)
	if v, ok := r[FieldID]; ok {
		out[FieldID] = v
	}
	for _, f := range fields {
		if v, ok := r[f]; ok {
			out[f] = v
		}
	}
	return out
}

func matches(r Record, where []Condition) bool {
	for _, c := range where {
		if !matchCondition(r, c) {
			return false
		}
	}
	return true
}

func matchCondition(r Record, c Condition) bool {
	got := valueString(r[c.Field])
	switch c.Operator {
	case OpContains:
		hay := strings.ToLower(got)
		for _, v := range c.Values {
			if strings.Contains(hay, strings.ToLower(valueString(v))) {
				return true
			}
		}
		return false
	case OpEqualTo, OpIn, "":
		for _, v := range c.Values {
			if got == valueString(v) {
				return true
			}
		}
		return false
	}
	return false
}

// compareValues orders numerically when both sides parse as numbers.
func compareValues(a, b any) int {
	as, bs := valueString(a), valueString(b)
	af, aerr := strconv.ParseFloat(as, 64)
	bf, berr := strconv.ParseFloat(bs, 64)
	if aerr == nil && berr == nil {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		}
		return 0
	}
	return strings.Compare(as, bs)
}

// merge overlays patch onto base; Id and CreatedOn are preserved from base.
func merge(base, patch Record) Record {
	out := base.Clone()
	for k, v := range patch {
		if k == FieldID || k == FieldCreatedOn {
			continue
		}
		out[k] = v
	}
	return out
}
