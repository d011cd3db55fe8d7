package rollupcodec

import (
	"context"
	"fmt"

	"github.com/wippyai/rollup-codec/schema"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Request is one entry of a batch. When Role is set it takes precedence
// over Index.
type Request struct {
	Value any
	Role  *schema.Role
	Index int
}

// RoleRequest builds a Request addressed by role.
func RoleRequest(role schema.Role, value any) Request {
	return Request{Role: &role, Value: value}
}

// EncodeBatch encodes independent requests concurrently. Results are in
// request order. The first failure cancels the remaining work and is
// returned with the failing request's position.
func (c *Codec) EncodeBatch(ctx context.Context, reqs []Request) ([][]byte, error) {
	out := make([][]byte, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit)

	for i := range reqs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var (
				b   []byte
				err error
			)
			if reqs[i].Role != nil {
				b, err = c.EncodeRole(*reqs[i].Role, reqs[i].Value)
			} else {
				b, err = c.Encode(reqs[i].Index, reqs[i].Value)
			}
			if err != nil {
				return fmt.Errorf("batch request %d: %w", i, err)
			}
			out[i] = b
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.log.Debug("batch encode failed", zap.Int("requests", len(reqs)), zap.Error(err))
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
