package checkpoint

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/pierrec/lz4"
	"go.llib.dev/frameless/pkg/errorkit"
	"gopkg.in/yaml.v3"

	"go.llib.dev/resumable/pkg/resumekit"
)

// Codec encodes snapshots for a Store.
type Codec interface {
	Marshal(Snapshot) ([]byte, error)
	Unmarshal(data []byte, ptr *Snapshot) error
}

// JSONCodec keeps numbers in their exact textual form when decoding,
// so large integers in a State are not rounded through float64.
type JSONCodec struct{}

func (JSONCodec) Marshal(s Snapshot) ([]byte, error) {
	return json.Marshal(s)
}

func (JSONCodec) Unmarshal(data []byte, ptr *Snapshot) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(ptr); err != nil {
		return ErrMalformed.Wrap(err)
	}
	return nil
}

type YAMLCodec struct{}

func (YAMLCodec) Marshal(s Snapshot) ([]byte, error) {
	s.State = plainState(s.State)
	return yaml.Marshal(s)
}

func (YAMLCodec) Unmarshal(data []byte, ptr *Snapshot) error {
	if err := yaml.Unmarshal(data, ptr); err != nil {
		return ErrMalformed.Wrap(err)
	}
	return nil
}

// plainState turns the json.Number values of a State into int64 or float64,
// otherwise yaml would encode them as quoted strings.
func plainState(st resumekit.State) resumekit.State {
	out := resumekit.State{Kind: st.Kind}
	if st.Values != nil {
		out.Values = make(map[string]any, len(st.Values))
		for k, v := range st.Values {
			out.Values[k] = plainValue(v)
		}
	}
	if st.Children != nil {
		out.Children = make(map[string]resumekit.State, len(st.Children))
		for k, child := range st.Children {
			out.Children[k] = plainState(child)
		}
	}
	return out
}

func plainValue(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = plainValue(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = plainValue(e)
		}
		return out
	default:
		return v
	}
}

// LZ4Codec compresses the output of the wrapped Codec.
type LZ4Codec struct {
	Codec Codec
}

func (c LZ4Codec) Marshal(s Snapshot) ([]byte, error) {
	data, err := c.Codec.Marshal(s)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		return nil, errorkit.Merge(err, w.Close())
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c LZ4Codec) Unmarshal(data []byte, ptr *Snapshot) error {
	raw, err := io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	if err != nil {
		return ErrMalformed.Wrap(err)
	}
	return c.Codec.Unmarshal(raw, ptr)
}
