package mock

import (
	"cmp"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tournevent/easytrans/pkg/easytrans"
)

// record is one stored entity. value is a pointer so updates apply in
// place.
type record struct {
	no    int
	value any
}

// flatten returns the JSON view of v with its attributes member, if any,
// merged into the top level. Filters and sorting work on this view.
func flatten(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if json.Unmarshal(data, &m) != nil {
		return nil
	}
	if attrs, ok := m["attributes"].(map[string]any); ok {
		for k, v := range attrs {
			m[k] = v
		}
	}
	return m
}

// nameAliases maps the filter names the backend accepts to the member
// they match in the flattened view. Aliased filters match substrings.
var nameAliases = map[string]string{
	"productName":     "name",
	"substatusName":   "name",
	"packageTypeName": "name",
	"vehicleTypeName": "name",
	"registration":    "licensePlate",
}

var filterKey = regexp.MustCompile(`^filter\[([^\]]+)\](?:\[([^\]]+)\])?$`)

// condition is one parsed filter parameter.
type condition struct {
	field string
	op    easytrans.Operator // empty for equality
	value string
}

func parseConditions(query url.Values) ([]condition, error) {
	var conds []condition
	for key, values := range query {
		m := filterKey.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		c := condition{field: m[1], op: easytrans.Operator(m[2]), value: values[0]}
		switch c.op {
		case "", easytrans.OpGTE, easytrans.OpGT, easytrans.OpLTE, easytrans.OpLT, easytrans.OpNEQ:
		default:
			return nil, fmt.Errorf("unknown operator %q on %s", c.op, c.field)
		}
		conds = append(conds, c)
	}
	return conds, nil
}

func (c condition) matches(view map[string]any) bool {
	if alias, ok := nameAliases[c.field]; ok && c.op == "" {
		s, _ := view[alias].(string)
		return strings.Contains(strings.ToLower(s), strings.ToLower(c.value))
	}

	got, ok := view[c.field]
	if !ok || got == nil {
		return c.op == easytrans.OpNEQ
	}
	n := compareTo(got, c.value)
	switch c.op {
	case "":
		return n == 0
	case easytrans.OpNEQ:
		return n != 0
	case easytrans.OpGTE:
		return n >= 0
	case easytrans.OpGT:
		return n > 0
	case easytrans.OpLTE:
		return n <= 0
	case easytrans.OpLT:
		return n < 0
	}
	return false
}

// compareTo compares a decoded JSON value with a query string value,
// numerically when both are numbers.
func compareTo(v any, s string) int {
	switch x := v.(type) {
	case float64:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return cmp.Compare(x, f)
		}
	case bool:
		return strings.Compare(strconv.FormatBool(x), s)
	case string:
		return strings.Compare(x, s)
	}
	return strings.Compare(fmt.Sprint(v), s)
}

func compareValues(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	if bs, ok := b.(string); ok {
		return compareTo(a, bs)
	}
	if bf, ok := b.(float64); ok {
		return compareTo(a, strconv.FormatFloat(bf, 'f', -1, 64))
	}
	return compareTo(a, fmt.Sprint(b))
}

func isDeleted(view map[string]any) bool {
	deleted, _ := view["isDeleted"].(bool)
	return deleted
}

// selectRecords filters and sorts records per query.
func selectRecords(records []record, query url.Values) ([]record, error) {
	conds, err := parseConditions(query)
	if err != nil {
		return nil, err
	}
	includeDeleted := query.Get("include_deleted") == "true"

	type row struct {
		rec  record
		view map[string]any
	}
	var rows []row
	for _, r := range records {
		view := flatten(r.value)
		if !includeDeleted && isDeleted(view) {
			continue
		}
		ok := true
		for _, c := range conds {
			if !c.matches(view) {
				ok = false
				break
			}
		}
		if ok {
			rows = append(rows, row{rec: r, view: view})
		}
	}

	if field := query.Get("sort"); field != "" {
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		sort.SliceStable(rows, func(i, j int) bool {
			n := compareValues(rows[i].view[field], rows[j].view[field])
			if desc {
				return n > 0
			}
			return n < 0
		})
	}

	out := make([]record, len(rows))
	for i, r := range rows {
		out[i] = r.rec
	}
	return out, nil
}

// listBody renders one page of records as the backend would.
func listBody(path string, records []record, page, perPage int, render func(record) any) ([]byte, error) {
	total := len(records)
	last := max(1, (total+perPage-1)/perPage)

	start := min((page-1)*perPage, total)
	end := min(start+perPage, total)

	data := make([]any, 0, end-start)
	for _, r := range records[start:end] {
		data = append(data, render(r))
	}

	links := map[string]any{
		"first": fmt.Sprintf("mock://%s?page=1", path),
		"last":  fmt.Sprintf("mock://%s?page=%d", path, last),
		"prev":  nil,
		"next":  nil,
	}
	if page > 1 {
		links["prev"] = fmt.Sprintf("mock://%s?page=%d", path, page-1)
	}
	if page < last {
		links["next"] = fmt.Sprintf("mock://%s?page=%d", path, page+1)
	}

	meta := map[string]any{
		"current_page": page,
		"last_page":    last,
		"per_page":     perPage,
		"total":        total,
		"from":         nil,
		"to":           nil,
	}
	if end > start {
		meta["from"] = start + 1
		meta["to"] = end
	}

	return json.Marshal(map[string]any{"data": data, "links": links, "meta": meta})
}
