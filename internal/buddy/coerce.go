package buddy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Shape describes one response record: its name and the JSON schema a raw
// value must satisfy before it is mapped onto the record.
type Shape struct {
	name   string
	schema *jsonschema.Schema
}

// Name returns the record name, e.g. "HostInfo".
func (s *Shape) Name() string { return s.name }

var (
	APIVersionShape = mustShape("ApiVersion", object(
		[]string{"version"},
		map[string]any{"version": integer()},
	))
	PairingStateShape = mustShape("PairingState", object(
		[]string{"state"},
		map[string]any{"state": enum(enumWireValues(pairingStateNames))},
	))
	PcStateShape = mustShape("PcState", object(
		[]string{"state"},
		map[string]any{"state": enum(enumWireValues(pcStateNames))},
	))
	ResultLikeShape = mustShape("ResultLike", object(
		[]string{"result"},
		map[string]any{"result": map[string]any{"type": "boolean"}},
	))
	GamestreamAppNamesShape = mustShape("GamestreamAppNames", object(
		nil,
		map[string]any{"appNames": map[string]any{
			"type":  []string{"array", "null"},
			"items": map[string]any{"type": "string"},
		}},
	))
	HostInfoShape = mustShape("HostInfo", object(
		[]string{"steamIsRunning", "steamRunningAppId", "streamState"},
		map[string]any{
			"steamIsRunning":            map[string]any{"type": "boolean"},
			"steamRunningAppId":         integer(),
			"steamTrackedUpdatingAppId": map[string]any{"type": []string{"integer", "null"}},
			"streamState":               enum(enumWireValues(streamStateNames)),
		},
	))
)

func object(required []string, properties map[string]any) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func integer() map[string]any { return map[string]any{"type": "integer"} }

func enum(values []any) map[string]any { return map[string]any{"enum": values} }

func mustShape(name string, schema map[string]any) *Shape {
	data, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("buddy: marshal %s schema: %v", name, err))
	}
	url := "inline://buddy/" + name
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		panic(fmt.Sprintf("buddy: add %s schema: %v", name, err))
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		panic(fmt.Sprintf("buddy: compile %s schema: %v", name, err))
	}
	return &Shape{name: name, schema: compiled}
}

// Coerce parses raw as JSON and maps it onto dest, which must point to the
// record type described by shape.
func Coerce(shape *Shape, raw []byte, dest any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		return &DecodeError{Shape: shape.name, Err: fmt.Errorf("invalid json: %w", err)}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return &DecodeError{Shape: shape.name, Err: errors.New("invalid json: trailing data after value")}
	}
	return CoerceValue(shape, value, dest)
}

// CoerceValue validates an already parsed JSON value against shape and maps
// it onto dest. Nothing is written to dest unless the whole value is valid.
func CoerceValue(shape *Shape, value any, dest any) error {
	if err := shape.schema.Validate(value); err != nil {
		return &DecodeError{Shape: shape.name, Err: err}
	}

	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Pointer || target.IsNil() {
		return &DecodeError{Shape: shape.name, Err: fmt.Errorf("destination %T is not a non-nil pointer", dest)}
	}
	out := reflect.New(target.Type().Elem())
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(decodeEnumHook, wholeNumberHook),
		Result:     out.Interface(),
		TagName:    "json",
	})
	if err != nil {
		return &DecodeError{Shape: shape.name, Err: err}
	}
	if err := decoder.Decode(value); err != nil {
		return &DecodeError{Shape: shape.name, Err: err}
	}
	target.Elem().Set(out.Elem())
	return nil
}

var wireEnumType = reflect.TypeOf((*wireEnum)(nil)).Elem()

func decodeEnumHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	if !reflect.PointerTo(to).Implements(wireEnumType) {
		return data, nil
	}
	member := reflect.New(to)
	if err := member.Interface().(wireEnum).decodeWire(data); err != nil {
		return nil, err
	}
	return member.Elem().Interface(), nil
}

// wholeNumberHook lets integer fields take whole floats such as 2.0, the
// same values the integer schema and the enum ordinals accept.
func wholeNumberHook(_ reflect.Type, to reflect.Type, data any) (any, error) {
	n, ok := data.(json.Number)
	if !ok {
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return data, nil
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > 1<<53 {
		return nil, fmt.Errorf("%s is not a whole number", n)
	}
	return int64(f), nil
}
