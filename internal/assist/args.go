package assist

import (
	"fmt"
	"strings"
	"time"

	"github.com/valyala/fastjson"

	"github.com/five82/logsift/internal/filter"
	"github.com/five82/logsift/internal/logparse"
)

func criteriaArg(v *fastjson.Value) (filter.Criteria, error) {
	var c filter.Criteria
	lists := []struct {
		key string
		dst *[]string
	}{
		{"levels", &c.Levels},
		{"daemons", &c.Daemons},
		{"hosts", &c.Hosts},
		{"modules", &c.Modules},
		{"functions", &c.Functions},
		{"sources", &c.Sources},
		{"keywords", &c.Keywords},
	}
	for _, l := range lists {
		vals, err := stringListArg(v, l.key)
		if err != nil {
			return filter.Criteria{}, err
		}
		*l.dst = vals
	}
	for _, t := range []struct {
		key string
		dst *time.Time
	}{
		{"since", &c.Since},
		{"until", &c.Until},
	} {
		if f := v.Get(t.key); f == nil || f.Type() == fastjson.TypeNull {
			continue
		}
		s, err := stringArg(v, t.key)
		if err != nil {
			return filter.Criteria{}, err
		}
		if err := setTime(t.dst, t.key, s); err != nil {
			return filter.Criteria{}, err
		}
	}
	return c, nil
}

func setTime(dst *time.Time, key, raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	ts, ok := logparse.Normalize(raw)
	if !ok {
		return fmt.Errorf("%s: unrecognised timestamp %q", key, raw)
	}
	*dst = ts
	return nil
}

// stringListArg accepts an array of strings or a single string.
func stringListArg(v *fastjson.Value, key string) ([]string, error) {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return nil, nil
	}
	switch f.Type() {
	case fastjson.TypeString:
		b, _ := f.StringBytes()
		return []string{string(b)}, nil
	case fastjson.TypeArray:
		items, _ := f.Array()
		out := make([]string, 0, len(items))
		for _, item := range items {
			b, err := item.StringBytes()
			if err != nil {
				return nil, fmt.Errorf("%s: %w", key, err)
			}
			out = append(out, string(b))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%s: expected string array, got %s", key, f.Type())
	}
}

func stringArg(v *fastjson.Value, key string) (string, error) {
	f := v.Get(key)
	if f == nil {
		return "", fmt.Errorf("missing %s", key)
	}
	b, err := f.StringBytes()
	if err != nil {
		return "", fmt.Errorf("%s: %w", key, err)
	}
	return string(b), nil
}

// intArg reads an optional integer in [1, limit].
func intArg(v *fastjson.Value, key string, def, limit int) (int, error) {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return def, nil
	}
	n, err := f.Int()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	if n > limit {
		return 0, fmt.Errorf("%s must be at most %d, got %d", key, limit, n)
	}
	return n, nil
}
