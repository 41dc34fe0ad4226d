package checkpoint

import (
	"time"

	"github.com/tidwall/gjson"
)

// Header is the metadata part of a Snapshot.
type Header struct {
	ID        string
	Name      string
	Kind      string
	CreatedAt time.Time
}

// Peek reads the Header of a JSONCodec encoded Snapshot,
// without decoding its state.
func Peek(data []byte) (Header, error) {
	if !gjson.ValidBytes(data) {
		return Header{}, ErrMalformed.F("invalid JSON")
	}
	rs := gjson.GetManyBytes(data, "id", "name", "kind", "created_at")
	for i, path := range []string{"id", "name", "kind"} {
		if rs[i].Type != gjson.String {
			return Header{}, ErrMalformed.F("%s is missing", path)
		}
	}
	return Header{
		ID:        rs[0].String(),
		Name:      rs[1].String(),
		Kind:      rs[2].String(),
		CreatedAt: rs[3].Time(),
	}, nil
}
