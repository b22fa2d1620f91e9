package google

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"finmanager/internal/core"
)

var ErrFractionalAmount = errors.New("fractional amounts are not supported")

// table maps lower-cased header names to column indexes.
type table struct {
	cols map[string]int
	rows [][]string
}

func newTable(values [][]interface{}, required ...string) (table, error) {
	if len(values) == 0 {
		return table{}, nil
	}
	headers := toStrings(values[0])
	t := table{cols: make(map[string]int, len(headers))}
	for i, h := range headers {
		t.cols[strings.ToLower(h)] = i
	}
	var missing []string
	for _, name := range required {
		if _, ok := t.cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return table{}, fmt.Errorf("unexpected header: missing %s; got headers=%v", strings.Join(missing, ","), headers)
	}
	for _, row := range values[1:] {
		cells := toStrings(row)
		if isBlank(cells) {
			continue
		}
		t.rows = append(t.rows, cells)
	}
	return t, nil
}

func (t table) get(row []string, name string) string {
	idx, ok := t.cols[name]
	if !ok {
		return ""
	}
	return safeGet(row, idx)
}

func (t table) integer(row []string, line int, name string) (int64, error) {
	v, err := parseInteger(t.get(row, name))
	if err != nil {
		return 0, fmt.Errorf("row %d column %s: %w", line, name, err)
	}
	return v, nil
}

func parseAccounts(values [][]interface{}) ([]core.Account, error) {
	t, err := newTable(values, "id", "name", "balance", "currency")
	if err != nil {
		return nil, err
	}
	out := make([]core.Account, 0, len(t.rows))
	for i, row := range t.rows {
		balance, err := t.integer(row, i+2, "balance")
		if err != nil {
			return nil, err
		}
		out = append(out, core.Account{
			ID:       t.get(row, "id"),
			Name:     t.get(row, "name"),
			Balance:  balance,
			Currency: strings.ToUpper(t.get(row, "currency")),
		})
	}
	return out, nil
}

func parseCategories(values [][]interface{}) ([]core.Category, error) {
	t, err := newTable(values, "id", "name", "type")
	if err != nil {
		return nil, err
	}
	out := make([]core.Category, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, core.Category{
			ID:       t.get(row, "id"),
			Name:     t.get(row, "name"),
			ParentID: t.get(row, "parent_id"),
			Type:     core.CategoryType(strings.ToLower(t.get(row, "type"))),
		})
	}
	return out, nil
}

func parseTransactions(values [][]interface{}) ([]core.Transaction, error) {
	t, err := newTable(values, "id", "account_id", "cat_id", "amount", "ts")
	if err != nil {
		return nil, err
	}
	out := make([]core.Transaction, 0, len(t.rows))
	for i, row := range t.rows {
		amount, err := t.integer(row, i+2, "amount")
		if err != nil {
			return nil, err
		}
		out = append(out, core.Transaction{
			ID:         t.get(row, "id"),
			AccountID:  t.get(row, "account_id"),
			CategoryID: t.get(row, "cat_id"),
			Amount:     amount,
			TS:         t.get(row, "ts"),
			Note:       t.get(row, "note"),
		})
	}
	return out, nil
}

func parseBudgets(values [][]interface{}) ([]core.Budget, error) {
	t, err := newTable(values, "id", "cat_id", "limit")
	if err != nil {
		return nil, err
	}
	out := make([]core.Budget, 0, len(t.rows))
	for i, row := range t.rows {
		limit, err := t.integer(row, i+2, "limit")
		if err != nil {
			return nil, err
		}
		out = append(out, core.Budget{
			ID:         t.get(row, "id"),
			CategoryID: t.get(row, "cat_id"),
			Limit:      limit,
			Period:     t.get(row, "period"),
		})
	}
	return out, nil
}

// parseInteger accepts whole numbers as rendered by Sheets, including "12.0".
// An empty cell is zero.
func parseInteger(s string) (int64, error) {
	s = strings.NewReplacer(" ", "", "_", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	if !d.IsInteger() {
		return 0, fmt.Errorf("%q: %w", s, ErrFractionalAmount)
	}
	if d.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || d.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, fmt.Errorf("number %q out of range", s)
	}
	return d.IntPart(), nil
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(arr []string, idx int) string {
	if idx >= 0 && idx < len(arr) {
		return arr[idx]
	}
	return ""
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}
	return true
}
