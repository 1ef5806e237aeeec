package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Encode maps a typed value to wire JSON.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Decode maps wire JSON to T. Unknown fields are ignored. A null body is
// rejected, fields tagged wire:"required" must be present and non-null, and
// validate tags constrain their values.
func Decode[T any](body []byte) (T, error) {
	var out T
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return out, &DecodeError{Target: typeName[T](), Err: errEmptyBody}
	}
	if isNull(trimmed) {
		return out, &DecodeError{Target: typeName[T](), Err: errNullValue}
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, &DecodeError{Target: typeName[T](), Err: err}
	}
	key, err := missingRequired(reflect.TypeFor[T](), trimmed)
	if err != nil {
		return out, &DecodeError{Target: typeName[T](), Err: err}
	}
	if key != "" {
		return out, &DecodeError{Target: typeName[T](), Field: key, Err: errMissingField}
	}
	if err := validateRecord(out); err != nil {
		return out, &DecodeError{Target: typeName[T](), Field: fieldFromValidation(err), Err: err}
	}
	return out, nil
}

// DecodeObject decodes the object found under key in a JSON object body.
func DecodeObject[T any](body []byte, key string) (T, error) {
	var zero T
	var obj map[string]json.RawMessage
	if len(bytes.TrimSpace(body)) == 0 {
		return zero, &DecodeError{Target: typeName[T](), Err: errEmptyBody}
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return zero, &DecodeError{Target: typeName[T](), Err: err}
	}
	inner, ok := obj[key]
	if !ok || isNull(bytes.TrimSpace(inner)) {
		return zero, &DecodeError{Target: typeName[T](), Field: key, Err: errMissingKey}
	}
	return Decode[T](inner)
}

// DecodeList extracts an array of T from body. The array may be the whole
// body or sit under key in a JSON object. Elements decode independently and
// any failing element fails the whole list.
func DecodeList[T any](body []byte, key string) ([]T, error) {
	raw, err := listElements(body, key)
	if err != nil {
		return nil, &DecodeError{Target: "[]" + typeName[T](), Err: err}
	}
	out := make([]T, 0, len(raw))
	for i, elem := range raw {
		v, err := Decode[T](elem)
		if err != nil {
			var decErr *DecodeError
			if errors.As(err, &decErr) {
				decErr.Index = i
				decErr.InList = true
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// DecodePaginated decodes an object carrying a "data" array and a "pagination" object.
func DecodePaginated[T any](body []byte) (*PaginatedResponse[T], error) {
	var envelope struct {
		Data       json.RawMessage `json:"data"`
		Pagination json.RawMessage `json:"pagination"`
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, &DecodeError{Target: "paginated " + typeName[T](), Err: errEmptyBody}
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &DecodeError{Target: "paginated " + typeName[T](), Err: err}
	}
	if len(envelope.Pagination) == 0 || isNull(envelope.Pagination) {
		return nil, &DecodeError{Target: "paginated " + typeName[T](), Field: "pagination", Err: errMissingKey}
	}
	pagination, err := Decode[Pagination](envelope.Pagination)
	if err != nil {
		return nil, err
	}
	items, err := DecodeList[T](envelope.Data, "")
	if err != nil {
		return nil, err
	}
	return &PaginatedResponse[T]{Data: items, Pagination: pagination}, nil
}

var (
	errEmptyBody    = errors.New("empty response body")
	errMissingKey   = errors.New("missing envelope key")
	errMissingField = errors.New("missing required field")
	errNotArray     = errors.New("expected a JSON array")
	errNullValue    = errors.New("unexpected null")
)

func isNull(b []byte) bool {
	return bytes.Equal(b, []byte("null"))
}

func listElements(body []byte, key string) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, errEmptyBody
	}

	if trimmed[0] == '[' {
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
		return raw, nil
	}
	if isNull(trimmed) {
		return nil, errNotArray
	}
	if key == "" {
		return nil, errNotArray
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, err
	}
	inner, ok := obj[key]
	if !ok {
		return nil, fmt.Errorf("%w %q", errMissingKey, key)
	}
	inner = bytes.TrimSpace(inner)
	if len(inner) == 0 || inner[0] != '[' {
		return nil, fmt.Errorf("%w under %q", errNotArray, key)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(inner, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// validateRecord runs struct validation on records; scalars pass through.
func validateRecord(v any) error {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	return validate.Struct(v)
}

// requiredField is a wire key tagged wire:"required". Nested marks a record
// field whose own required keys are checked when it is present.
type requiredField struct {
	key      string
	required bool
	nested   reflect.Type
}

var requiredFields sync.Map // reflect.Type -> []requiredField

// missingRequired returns the dotted wire key of the first required field
// absent or null in body, descending into nested records that are present.
func missingRequired(t reflect.Type, body []byte) (string, error) {
	fields := requiredFieldsOf(t)
	if len(fields) == 0 {
		return "", nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return "", err
	}
	for _, f := range fields {
		raw, ok := obj[f.key]
		present := ok && !isNull(bytes.TrimSpace(raw))
		if f.required && !present {
			return f.key, nil
		}
		if f.nested == nil || !present {
			continue
		}
		key, err := missingRequired(f.nested, raw)
		if err != nil || key != "" {
			return joinKey(f.key, key), err
		}
	}
	return "", nil
}

func joinKey(parent, child string) string {
	if child == "" {
		return ""
	}
	return parent + "." + child
}

func requiredFieldsOf(t reflect.Type) []requiredField {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	if cached, ok := requiredFields.Load(t); ok {
		return cached.([]requiredField)
	}
	var fields []requiredField
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		key, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
		if key == "-" {
			continue
		}
		if key == "" {
			key = sf.Name
		}
		f := requiredField{key: key, required: sf.Tag.Get("wire") == "required"}
		if len(requiredFieldsOf(sf.Type)) > 0 {
			f.nested = sf.Type
		}
		if f.required || f.nested != nil {
			fields = append(fields, f)
		}
	}
	requiredFields.Store(t, fields)
	return fields
}

// fieldFromValidation returns the wire name of the first failing field.
func fieldFromValidation(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return WireName(verrs[0].StructField())
	}
	return ""
}

func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	if t.Name() != "" {
		return t.Name()
	}
	return t.String()
}
