package server

import (
	"context"
	"encoding/json"
	"net"

	"go.trai.ch/zerr"

	"go.trai.ch/stratum/internal/core/domain"
)

// Client sends build requests to a running request service.
type Client struct {
	addr   string
	dialer net.Dialer
}

// NewClient returns a client for the service listening on addr.
func NewClient(addr string) *Client {
	return &Client{addr: addr}
}

// Send submits req and waits for the build outcome. The returned error covers
// transport failures only; a failed build is reported through the Response.
func (c *Client) Send(ctx context.Context, req domain.BuildRequest) (*Response, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to connect to build server"), "addr", c.addr)
	}
	defer func() { _ = conn.Close() }()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() {
		_ = conn.Close()
	})
	defer stop()

	if err := json.NewEncoder(conn).Encode(NewRequest(req)); err != nil {
		return nil, zerr.Wrap(err, "failed to send build request")
	}
	if tcp, ok := conn.(*net.TCPConn); ok {
		_ = tcp.CloseWrite()
	}

	var resp Response
	if err := json.NewDecoder(conn).Decode(&resp); err != nil {
		if ctx.Err() != nil {
			return nil, zerr.Wrap(ctx.Err(), "build request cancelled")
		}
		return nil, zerr.Wrap(err, "failed to read build response")
	}
	return &resp, nil
}
