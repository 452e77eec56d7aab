// Package hydrate turns loosely typed JSON payloads from the remote catalog
// into typed values. Rewrites run on the raw map, checks on the typed result.
package hydrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Location names the payload being decoded, as in product[3].
type Location struct {
	Resource string
	// Index is the position within a list, or -1 for a single payload.
	Index int
}

func (l Location) String() string {
	if l.Index < 0 {
		return l.Resource
	}
	return fmt.Sprintf("%s[%d]", l.Resource, l.Index)
}

// Rewrite edits a payload copy in place before decoding.
type Rewrite func(Location, map[string]any) error

// Check validates or adjusts a decoded value.
type Check[T any] func(Location, *T) error

// Stage tells which step of Decode failed.
type Stage string

const (
	StageRewrite Stage = "rewrite"
	StageDecode  Stage = "decode"
	StageCheck   Stage = "check"
)

var errNilPayload = errors.New("payload is nil")

// Error reports a failed decode.
type Error struct {
	At    Location
	Stage Stage
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("hydrate: %s: %s: %v", e.At, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Decoder converts payload maps into T. Configure it with the chained
// methods before first use; it is safe for concurrent Decode calls after.
type Decoder[T any] struct {
	rewrites  []Rewrite
	checks    []Check[T]
	useNumber bool
	strict    bool
}

func New[T any]() *Decoder[T] {
	return &Decoder[T]{}
}

// Rewrite appends fn to the rewrites run before decoding.
func (d *Decoder[T]) Rewrite(fn Rewrite) *Decoder[T] {
	if fn != nil {
		d.rewrites = append(d.rewrites, fn)
	}
	return d
}

// Check appends fn to the checks run after decoding.
func (d *Decoder[T]) Check(fn Check[T]) *Decoder[T] {
	if fn != nil {
		d.checks = append(d.checks, fn)
	}
	return d
}

// Numbers decodes JSON numbers into json.Number or any type that parses
// from one, keeping prices exact.
func (d *Decoder[T]) Numbers() *Decoder[T] {
	d.useNumber = true
	return d
}

// Strict rejects payload keys T does not declare.
func (d *Decoder[T]) Strict() *Decoder[T] {
	d.strict = true
	return d
}

// Decode copies payload, applies the rewrites, decodes into T and applies
// the checks. The caller's map is never modified.
func (d *Decoder[T]) Decode(at Location, payload map[string]any) (T, error) {
	var out T
	if payload == nil {
		return out, &Error{At: at, Stage: StageDecode, Err: errNilPayload}
	}

	working := deepCopy(payload).(map[string]any)
	for _, rewrite := range d.rewrites {
		if err := rewrite(at, working); err != nil {
			return out, &Error{At: at, Stage: StageRewrite, Err: err}
		}
	}

	if err := d.unmarshal(working, &out); err != nil {
		return out, &Error{At: at, Stage: StageDecode, Err: err}
	}

	for _, check := range d.checks {
		if err := check(at, &out); err != nil {
			return out, &Error{At: at, Stage: StageCheck, Err: err}
		}
	}
	return out, nil
}

func (d *Decoder[T]) unmarshal(payload map[string]any, out *T) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	if d.useNumber {
		dec.UseNumber()
	}
	if d.strict {
		dec.DisallowUnknownFields()
	}
	return dec.Decode(out)
}

// deepCopy duplicates nested maps and slices so rewrites cannot reach the
// caller's payload.
func deepCopy(value any) any {
	switch v := value.(type) {
	case map[string]any:
		dup := make(map[string]any, len(v))
		for key, item := range v {
			dup[key] = deepCopy(item)
		}
		return dup
	case []any:
		dup := make([]any, len(v))
		for i, item := range v {
			dup[i] = deepCopy(item)
		}
		return dup
	}
	return value
}
