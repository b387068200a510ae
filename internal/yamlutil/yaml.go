// Package yamlutil isolates the YAML library behind the two calls the
// configuration layer needs: decoding a book file and dumping the effective one.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize caps decoded documents (1MB). Book configs are a few hundred bytes.
var MaxInputSize = 1 << 20

var (
	ErrEmptyInput = errors.New("yamlutil: empty input")
	ErrNilTarget  = errors.New("yamlutil: nil decode target")
	ErrTooLarge   = errors.New("yamlutil: input exceeds maximum size")
)

// DecodeOption tunes Decode.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	strict bool
}

// Strict makes Decode reject keys that do not map to a struct field.
func Strict() DecodeOption {
	return func(o *decodeOptions) { o.strict = true }
}

// Decode parses data into v.
func Decode(data []byte, v any, opts ...DecodeOption) error {
	switch {
	case len(data) == 0:
		return ErrEmptyInput
	case len(data) > MaxInputSize:
		return fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(data), MaxInputSize)
	case v == nil:
		return ErrNilTarget
	}

	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	var yopts []yaml.DecodeOption
	if o.strict {
		yopts = append(yopts, yaml.Strict())
	}
	if err := yaml.UnmarshalWithOptions(data, v, yopts...); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// Encode renders v as YAML with two-space indentation.
func Encode(v any) ([]byte, error) {
	out, err := yaml.MarshalWithOptions(v, yaml.Indent(2), yaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return out, nil
}
