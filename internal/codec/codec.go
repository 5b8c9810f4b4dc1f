// Package codec implements the Codec component of spec.md §4.2: a total
// encode and a decode that can fail, operating on the textual payload
// stored per GameId. The only externally-visible requirement is round-trip
// identity; the concrete grammar (JSON here) is otherwise private to this
// package.
package codec

import (
	"encoding/json"
	"fmt"

	"github.com/msyu/cambia-arena/internal/module"
)

// StateCodec maps a GameModel to and from its stored string payload.
type StateCodec interface {
	Encode(state module.GameModel) (string, error)
	// Decode unmarshals payload into empty (a freshly allocated, concrete
	// GameModel obtained from the owning Bundle's EmptyState) and returns
	// it. A malformed payload yields a DecodeError, never a panic.
	Decode(payload string, empty module.GameModel) (module.GameModel, error)
}

// DecodeError carries a human-readable message for a failed decode,
// spec.md §4.2.
type DecodeError struct {
	msg string
	err error
}

func (e *DecodeError) Error() string { return e.msg }
func (e *DecodeError) Unwrap() error { return e.err }

// JSON is the reference codec: any self-describing textual format would
// satisfy the contract, and JSON is what the teacher's snapshot tables use.
type JSON struct{}

func (JSON) Encode(state module.GameModel) (string, error) {
	b, err := json.Marshal(state)
	if err != nil {
		return "", fmt.Errorf("encode state: %w", err)
	}
	return string(b), nil
}

func (JSON) Decode(payload string, empty module.GameModel) (module.GameModel, error) {
	if err := json.Unmarshal([]byte(payload), empty); err != nil {
		return nil, &DecodeError{msg: fmt.Sprintf("decode state: %v", err), err: err}
	}
	return empty, nil
}
