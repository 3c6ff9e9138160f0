package safe_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/projectpilot/pkg/utils/safe"
)

type trackingCloser struct {
	io.Reader
	closed bool
	err    error
}

func (c *trackingCloser) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	ctx := context.Background()
	safe.Close(ctx, nil)

	c := &trackingCloser{err: errors.New("boom")}
	safe.Close(ctx, c)
	gt.Bool(t, c.closed).True()
}

func TestDrain(t *testing.T) {
	r := &trackingCloser{Reader: strings.NewReader("remaining body")}
	safe.Drain(context.Background(), r)
	gt.Bool(t, r.closed).True()

	rest, err := io.ReadAll(r.Reader)
	gt.NoError(t, err)
	gt.Number(t, len(rest)).Equal(0)
}
