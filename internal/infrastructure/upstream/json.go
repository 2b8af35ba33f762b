package upstream

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const maxEnvelopeDepth = 8

var ErrUnexpectedShape = errors.New("unexpected response shape")

// unwrapData peels any number of {"data": ...} envelopes. Anything that is not
// an object with a "data" key is returned unchanged.
func unwrapData(raw []byte) ([]byte, error) {
	for depth := 0; depth < maxEnvelopeDepth; depth++ {
		if json.Get(raw).ValueType() != jsoniter.ObjectValue {
			return raw, nil
		}

		var envelope map[string]jsoniter.RawMessage
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}

		inner, ok := envelope["data"]
		if !ok {
			return raw, nil
		}

		raw = inner
	}

	return nil, fmt.Errorf("envelope deeper than %d: %w", maxEnvelopeDepth, ErrUnexpectedShape)
}
