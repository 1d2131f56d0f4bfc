package dal

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	identPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)
	orderPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*( (?i:asc|desc))?$`)
)

// Predicate renders a boolean SQL expression, appending its arguments to the
// builder.
type Predicate interface {
	build(b *argBuilder) (string, error)
}

type argBuilder struct {
	args []any
}

func (b *argBuilder) add(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

// Eq matches rows whose columns equal every given value. A nil value matches
// NULL.
type Eq map[string]any

// Ne matches rows whose columns differ from every given value.
type Ne map[string]any

type Gte map[string]any

type Lte map[string]any

type And []Predicate

type Or []Predicate

// Raw embeds a hand-written expression. Each ? in SQL is bound to the next
// value of Args.
type Raw struct {
	SQL  string
	Args []any
}

func (e Eq) build(b *argBuilder) (string, error) {
	return compare(b, e, "=", "IS NULL")
}

func (e Ne) build(b *argBuilder) (string, error) {
	return compare(b, e, "<>", "IS NOT NULL")
}

func (e Gte) build(b *argBuilder) (string, error) {
	return compare(b, e, ">=", "")
}

func (e Lte) build(b *argBuilder) (string, error) {
	return compare(b, e, "<=", "")
}

func (a And) build(b *argBuilder) (string, error) {
	return combine(b, a, " AND ", "TRUE")
}

func (o Or) build(b *argBuilder) (string, error) {
	return combine(b, o, " OR ", "FALSE")
}

func (r Raw) build(b *argBuilder) (string, error) {
	if strings.Count(r.SQL, "?") != len(r.Args) {
		return "", fmt.Errorf("raw predicate %q: placeholder count does not match %d args", r.SQL, len(r.Args))
	}
	var sb strings.Builder
	next := 0
	for _, ch := range r.SQL {
		if ch == '?' {
			sb.WriteString(b.add(r.Args[next]))
			next++
			continue
		}
		sb.WriteRune(ch)
	}
	return "(" + sb.String() + ")", nil
}

func compare(b *argBuilder, values map[string]any, op string, nullOp string) (string, error) {
	if len(values) == 0 {
		return "TRUE", nil
	}

	keys := sortedKeys(values)
	parts := make([]string, 0, len(keys))
	for _, col := range keys {
		if err := checkIdent(col); err != nil {
			return "", err
		}
		v := values[col]
		if v == nil {
			if nullOp == "" {
				return "", fmt.Errorf("column %s: nil is not comparable with %s", col, op)
			}
			parts = append(parts, col+" "+nullOp)
			continue
		}
		parts = append(parts, col+" "+op+" "+b.add(v))
	}

	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", nil
}

func combine(b *argBuilder, preds []Predicate, sep string, empty string) (string, error) {
	if len(preds) == 0 {
		return empty, nil
	}
	parts := make([]string, 0, len(preds))
	for _, p := range preds {
		if p == nil {
			continue
		}
		s, err := p.build(b)
		if err != nil {
			return "", err
		}
		parts = append(parts, s)
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return "(" + strings.Join(parts, sep) + ")", nil
}

func whereClause(b *argBuilder, where Predicate) (string, error) {
	if where == nil {
		return "", nil
	}
	expr, err := where.build(b)
	if err != nil {
		return "", err
	}
	return " WHERE " + expr, nil
}

func orderClause(order []string) (string, error) {
	if len(order) == 0 {
		return "", nil
	}
	for _, o := range order {
		if !orderPattern.MatchString(o) {
			return "", fmt.Errorf("invalid order expression %q", o)
		}
	}
	return " ORDER BY " + strings.Join(order, ", "), nil
}

func checkIdent(name string) error {
	if !identPattern.MatchString(name) {
		return fmt.Errorf("invalid identifier %q", name)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
