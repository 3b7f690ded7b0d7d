package indexer

import (
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Persisted values are cbor encoded. Decoding failure means the stored data
// no longer matches what the codec wrote, so it is classified fatal.

func MarshalValue(value interface{}) ([]byte, error) {
	data, err := cbor.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("could not marshal value: %w", err)
	}

	return data, nil
}

func UnmarshalValue(data []byte, value interface{}) error {
	if err := cbor.Unmarshal(data, value); err != nil {
		return errors.Join(ErrIndexerFatal, fmt.Errorf("could not unmarshal value: %w", err))
	}

	return nil
}
