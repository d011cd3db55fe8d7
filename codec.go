package rollupcodec

import (
	"encoding/hex"
	"runtime"

	"github.com/wippyai/rollup-codec/schema"
	"github.com/wippyai/rollup-codec/transcoder"
	"go.uber.org/zap"
)

// Codec encodes values against one schema. It is stateless beyond the
// read-only schema and safe for concurrent use.
type Codec struct {
	schema *schema.Schema
	enc    *transcoder.Encoder
	log    *zap.Logger
	limit  int
}

type config struct {
	log      *zap.Logger
	maxDepth int
	limit    int
}

// Option configures a Codec.
type Option func(*config)

// WithMaxDepth sets the maximum type nesting depth followed before encoding
// fails with recursion_limit.
func WithMaxDepth(depth int) Option {
	return func(c *config) { c.maxDepth = depth }
}

// WithLogger sets the logger used by the codec. The default is the package
// logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.log = l }
}

// WithConcurrency bounds the number of goroutines EncodeBatch uses.
func WithConcurrency(n int) Option {
	return func(c *config) { c.limit = n }
}

// New creates a Codec over s.
func New(s *schema.Schema, opts ...Option) *Codec {
	cfg := config{
		maxDepth: transcoder.DefaultMaxDepth,
		limit:    runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.log == nil {
		cfg.log = Logger()
	}
	if cfg.limit <= 0 {
		cfg.limit = 1
	}

	return &Codec{
		schema: s,
		enc:    transcoder.NewEncoder(s, transcoder.Options{MaxDepth: cfg.maxDepth}),
		log:    cfg.log,
		limit:  cfg.limit,
	}
}

// Load reads the schema descriptor at path and creates a Codec over it.
func Load(path string, opts ...Option) (*Codec, error) {
	s, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return New(s, opts...), nil
}

// Schema returns the codec's schema.
func (c *Codec) Schema() *schema.Schema {
	return c.schema
}

// Encode encodes value against the type at index.
func (c *Codec) Encode(index int, value any) ([]byte, error) {
	return c.enc.Encode(index, value)
}

// EncodeRole encodes value against the type the schema assigns to role.
func (c *Codec) EncodeRole(role schema.Role, value any) ([]byte, error) {
	index, err := c.schema.RoleIndex(role)
	if err != nil {
		c.log.Debug("role not defined by schema", zap.Stringer("role", role))
		return nil, err
	}
	return c.enc.Encode(index, value)
}

// EncodeRuntimeCall encodes a runtime call.
func (c *Codec) EncodeRuntimeCall(value any) ([]byte, error) {
	return c.EncodeRole(schema.RoleRuntimeCall, value)
}

// EncodeUnsignedTransaction encodes an unsigned transaction.
func (c *Codec) EncodeUnsignedTransaction(value any) ([]byte, error) {
	return c.EncodeRole(schema.RoleUnsignedTransaction, value)
}

// EncodeTransaction encodes a fully signed transaction.
func (c *Codec) EncodeTransaction(value any) ([]byte, error) {
	return c.EncodeRole(schema.RoleTransaction, value)
}

// EncodeHex is Encode with lowercase hex output and no prefix.
func (c *Codec) EncodeHex(index int, value any) (string, error) {
	b, err := c.Encode(index, value)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// EncodeRoleHex is EncodeRole with lowercase hex output and no prefix.
func (c *Codec) EncodeRoleHex(role schema.Role, value any) (string, error) {
	b, err := c.EncodeRole(role, value)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
