package domain

import "encoding/json"

// ValueUpdate is the body published on signals.<id>.value whenever a
// signal's value changes.
type ValueUpdate struct {
	Value int64        `json:"value"`
	Chain *SignalChain `json:"chain"`
}

// MarshalValueUpdate encodes a ValueUpdate to its wire form.
func MarshalValueUpdate(v int64, chain *SignalChain) ([]byte, error) {
	if chain == nil {
		chain = &SignalChain{}
	}
	return json.Marshal(ValueUpdate{Value: v, Chain: chain})
}

// UnmarshalValueUpdate decodes a value-update body. A malformed payload
// returns ErrMalformedMessage wrapping the underlying decode error.
func UnmarshalValueUpdate(data []byte) (ValueUpdate, error) {
	var v ValueUpdate
	if err := json.Unmarshal(data, &v); err != nil {
		return ValueUpdate{}, wrapMalformed(err)
	}
	if v.Chain == nil {
		v.Chain = &SignalChain{}
	}
	return v, nil
}

// BoolBody decodes a boolean body used by the block and glitches channels.
func BoolBody(data []byte) (bool, error) {
	var b bool
	if err := json.Unmarshal(data, &b); err != nil {
		return false, wrapMalformed(err)
	}
	return b, nil
}

// MarshalBool encodes a boolean body.
func MarshalBool(b bool) ([]byte, error) {
	return json.Marshal(b)
}

func wrapMalformed(err error) error {
	return &malformedError{cause: err}
}

type malformedError struct {
	cause error
}

func (e *malformedError) Error() string {
	return ErrMalformedMessage.Error() + ": " + e.cause.Error()
}

func (e *malformedError) Unwrap() error {
	return ErrMalformedMessage
}
