package ivory

import (
	"github.com/hupe1980/ivory/codec"
	"github.com/hupe1980/ivory/persistence"
)

type options struct {
	codec       codec.Codec
	compression persistence.CompressionType
	logger      *Logger
}

func defaultOptions() options {
	return options{
		codec:       codec.Default,
		compression: persistence.CompressionNone,
		logger:      NewLogger(nil),
	}
}

// Option configures store construction and load behavior.
type Option func(*options)

// WithCodec configures the codec used for snapshot metadata sections.
//
// This affects newly-written snapshots only; existing files record their
// codec name and decode with whatever wrote them. If nil is passed,
// codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithCompression configures snapshot payload compression.
// The default is no compression; LZ4 favors speed, ZSTD favors size.
func WithCompression(t persistence.CompressionType) Option {
	return func(o *options) {
		o.compression = t
	}
}

// WithLogger configures the logger. If nil is passed, logging falls back to
// the default text handler on stderr; use NoopLogger to silence it.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NewLogger(nil)
		}
		o.logger = l
	}
}
