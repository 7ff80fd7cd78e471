package postgrest

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Result is the outcome of an executed request. Exactly one of Data and Err
// is set: Data is nil when Err is non-nil, and vice versa. Delete resolves
// with both nil.
type Result struct {
	Data any
	Err  error
}

// DecodeInto decodes Data into dest, honoring `json` struct tags. dest must
// be a pointer; pass a pointer to a slice for row sets.
func (r Result) DecodeInto(dest any) error {
	if r.Err != nil {
		return r.Err
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  dest,
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(r.Data); err != nil {
		return fmt.Errorf("failed to decode result: %w", err)
	}
	return nil
}

func errResult(err error) Result {
	return Result{Err: err}
}
