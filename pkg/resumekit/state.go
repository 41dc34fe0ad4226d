package resumekit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
)

// State is the captured progress of a Resumable.
// It only holds plain data, so any codec that understands maps, strings, numbers and booleans can persist it.
type State struct {
	// Kind names the iterator the State was captured from.
	Kind string `json:"kind" yaml:"kind"`
	// Values holds the captured fields in their JSON normalised form.
	Values map[string]any `json:"values,omitempty" yaml:"values,omitempty"`
	// Children holds the states of the captured Resumable fields, like a wrapped source.
	Children map[string]State `json:"children,omitempty" yaml:"children,omitempty"`
}

const tagKey = "resume"

var resumableType = reflect.TypeOf((*Resumable)(nil)).Elem()

// Capture builds a State from the `resume` tagged fields of the struct that ptr points to.
//
// Tagged fields that implement Resumable are captured through their own Checkpoint as a child state.
// Every other tagged field is copied through a JSON round trip,
// which means the captured State never shares memory with the iterator.
func Capture(kind string, ptr any) (State, error) {
	rStruct, err := structOf(ptr)
	if err != nil {
		return State{}, err
	}
	st := State{Kind: kind}
	err = visitTagged(rStruct, func(name string, sf reflect.StructField, field reflect.Value) error {
		if sf.Type.Implements(resumableType) {
			if isNil(field) {
				return ErrNotCapturable.F("%s.%s is nil", rStruct.Type(), sf.Name)
			}
			child, err := field.Interface().(Resumable).Checkpoint()
			if err != nil {
				return err
			}
			if st.Children == nil {
				st.Children = make(map[string]State)
			}
			st.Children[name] = child
			return nil
		}
		val, err := normalise(field.Interface())
		if err != nil {
			return ErrNotCapturable.Wrap(fmt.Errorf("%s.%s: %w", rStruct.Type(), sf.Name, err))
		}
		if st.Values == nil {
			st.Values = make(map[string]any)
		}
		st.Values[name] = val
		return nil
	})
	if err != nil {
		return State{}, err
	}
	return st, nil
}

// Restore is the inverse of Capture.
// Every captured value is decoded first, and nothing is touched if any of them fails to decode.
// Then the child states are restored into the already present Resumable fields,
// and the values are assigned only when all the children resumed successfully.
func Restore(kind string, ptr any, st State) error {
	if st.Kind != kind {
		return ErrKindMismatch.F("expected %q, got %q", kind, st.Kind)
	}
	rStruct, err := structOf(ptr)
	if err != nil {
		return err
	}
	var (
		resume []func() error
		assign []func()
	)
	err = visitTagged(rStruct, func(name string, sf reflect.StructField, field reflect.Value) error {
		if sf.Type.Implements(resumableType) {
			child, ok := st.Children[name]
			if !ok {
				return ErrStateMismatch.F("missing %q child state", name)
			}
			if isNil(field) {
				return ErrStateMismatch.F("%s.%s is nil", rStruct.Type(), sf.Name)
			}
			r := field.Interface().(Resumable)
			resume = append(resume, func() error { return r.Resume(child) })
			return nil
		}
		raw, ok := st.Values[name]
		if !ok {
			return ErrStateMismatch.F("missing %q value", name)
		}
		val := reflect.New(sf.Type)
		if err := denormalise(raw, val.Interface()); err != nil {
			return ErrStateMismatch.Wrap(fmt.Errorf("%q value: %w", name, err))
		}
		assign = append(assign, func() { field.Set(val.Elem()) })
		return nil
	})
	if err != nil {
		return err
	}
	for _, fn := range resume {
		if err := fn(); err != nil {
			return err
		}
	}
	for _, set := range assign {
		set()
	}
	return nil
}

func structOf(ptr any) (reflect.Value, error) {
	rv := reflect.ValueOf(ptr)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return reflect.Value{}, ErrNotCapturable.F("non-nil struct pointer expected, got %T", ptr)
	}
	rv = rv.Elem()
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, ErrNotCapturable.F("non-nil struct pointer expected, got %T", ptr)
	}
	return rv, nil
}

func visitTagged(rStruct reflect.Value, visit func(name string, sf reflect.StructField, field reflect.Value) error) error {
	rType := rStruct.Type()
	for i, numField := 0, rStruct.NumField(); i < numField; i++ {
		sf := rType.Field(i)
		name, ok := sf.Tag.Lookup(tagKey)
		if !ok || name == "-" {
			continue
		}
		if !sf.IsExported() {
			return ErrNotCapturable.F("%s.%s is tagged as %q but it is not exported", rType, sf.Name, name)
		}
		if err := visit(name, sf, rStruct.Field(i)); err != nil {
			return err
		}
	}
	return nil
}

func isNil(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}

func normalise(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func denormalise(raw any, ptr any) error {
	data, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, ptr)
}
