package signal

import (
	"github.com/go-viper/mapstructure/v2"

	"github.com/loicalleyne/lilac/internal/lilacerr"
)

// DecodeParams decodes a signal's raw parameter map into its concrete
// options struct, the same loose map[string]any-to-struct decode the
// teacher uses for InputMap (reader/input.go), generalized from "any Go
// value to map[string]any" to "map[string]any to any Go struct".
func DecodeParams(params map[string]any, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	})
	if err != nil {
		return lilacerr.InvalidQuery("building param decoder: %v", err)
	}
	if err := dec.Decode(params); err != nil {
		return lilacerr.InvalidQuery("decoding signal params: %v", err)
	}
	return nil
}
