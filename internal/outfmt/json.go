package outfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/itchyny/gojq"
)

// Compile parses a jq expression. Zsh turns ! into \! even inside single
// quotes, so that escape is undone first.
func Compile(expr string) (*gojq.Query, error) {
	q, err := gojq.Parse(strings.ReplaceAll(expr, `\!`, `!`))
	if err != nil {
		return nil, fmt.Errorf("invalid --jq expression: %w", err)
	}
	return q, nil
}

// Apply runs q over v after converting v to plain JSON values, so the query
// sees the same field names the JSON output has. One result is returned
// unwrapped, any other count as a slice.
func Apply(q *gojq.Query, v any) (any, error) {
	if q == nil {
		return v, nil
	}
	input, err := plain(v)
	if err != nil {
		return nil, err
	}

	results := []any{}
	iter := q.Run(input)
	for {
		r, ok := iter.Next()
		if !ok {
			break
		}
		if err, isErr := r.(error); isErr {
			return nil, fmt.Errorf("jq error: %w", err)
		}
		results = append(results, r)
	}
	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// WriteJSON writes v indented by two spaces.
func WriteJSON(w io.Writer, v any) error {
	return encode(w, v, false)
}

// Write renders v according to opts. Text mode writes nothing.
func Write(w io.Writer, v any, opts Options) error {
	switch opts.Mode {
	case JSON:
		result, err := Apply(opts.Query, v)
		if err != nil {
			return err
		}
		return encode(w, result, opts.Compact)
	case JSONL:
		return writeLines(w, v, opts.Query)
	default:
		return nil
	}
}

// writeLines writes one compact value per line. Arrays are split into their
// elements; without a query, so is the "data" array of an API envelope.
func writeLines(w io.Writer, v any, q *gojq.Query) error {
	result, err := Apply(q, v)
	if err != nil {
		return err
	}
	result, err = plain(result)
	if err != nil {
		return err
	}

	items, isList := result.([]any)
	if obj, isObj := result.(map[string]any); isObj && q == nil {
		items, isList = obj["data"].([]any)
	}
	if !isList {
		return encode(w, result, true)
	}
	for _, item := range items {
		if err := encode(w, item, true); err != nil {
			return err
		}
	}
	return nil
}

func encode(w io.Writer, v any, compact bool) error {
	enc := json.NewEncoder(w)
	if !compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// plain converts v to the maps, slices and scalars encoding/json decodes into.
func plain(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}
