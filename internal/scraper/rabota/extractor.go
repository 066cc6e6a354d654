package rabota

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"go-vacancy-collector/internal/scraper"
)

var ErrMalformed = errors.New("rabota: malformed response")

// Extractor flattens the "response" member of an API reply into vacancies.
// Nested objects become dotted columns; arrays are kept as JSON text.
type Extractor struct {
	sentinel string
}

func NewExtractor(sentinel string) *Extractor {
	if sentinel == "" {
		sentinel = scraper.DefaultSentinel
	}
	return &Extractor{sentinel: sentinel}
}

func (e *Extractor) Extract(body []byte) ([]scraper.Vacancy, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var envelope map[string]any
	if err := dec.Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	resp, ok := envelope["response"]
	if !ok {
		if apiErr, ok := envelope["error"]; ok {
			return nil, fmt.Errorf("%w: api error %v", ErrMalformed, apiErr)
		}
		return nil, fmt.Errorf("%w: no response member", ErrMalformed)
	}

	var items []any
	switch r := resp.(type) {
	case []any:
		items = r
	case map[string]any:
		if list, ok := r["vacancies"].([]any); ok {
			items = list
		} else {
			items = []any{r}
		}
	case nil:
		return nil, fmt.Errorf("%w: response is null", ErrMalformed)
	default:
		return nil, fmt.Errorf("%w: response is %T", ErrMalformed, resp)
	}

	out := make([]scraper.Vacancy, 0, len(items))
	for _, item := range items {
		var v scraper.Vacancy
		if obj, ok := item.(map[string]any); ok {
			e.flatten("", obj, &v)
		} else {
			v = append(v, scraper.Field{Name: "value", Value: e.scalar(item)})
		}
		out = append(out, v)
	}
	return out, nil
}

func (e *Extractor) flatten(prefix string, obj map[string]any, out *scraper.Vacancy) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		name := k
		if prefix != "" {
			name = prefix + "." + k
		}
		if nested, ok := obj[k].(map[string]any); ok {
			e.flatten(name, nested, out)
			continue
		}
		*out = append(*out, scraper.Field{Name: name, Value: e.scalar(obj[k])})
	}
}

func (e *Extractor) scalar(v any) string {
	switch t := v.(type) {
	case nil:
		return e.sentinel
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
