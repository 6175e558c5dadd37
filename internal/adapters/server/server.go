package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"go.trai.ch/zerr"

	"go.trai.ch/stratum/internal/core/domain"
	"go.trai.ch/stratum/internal/core/ports"
)

// maxRequestBytes bounds a single request payload.
const maxRequestBytes = 64 << 10

// Server accepts build requests over TCP and runs each one synchronously on its
// own connection goroutine.
type Server struct {
	builder     ports.Builder
	logger      ports.Logger
	readTimeout time.Duration

	wg sync.WaitGroup
}

// NewServer creates a request service backed by builder.
// A zero readTimeout disables the per-connection read deadline.
func NewServer(builder ports.Builder, logger ports.Logger, readTimeout time.Duration) *Server {
	return &Server{
		builder:     builder,
		logger:      logger,
		readTimeout: readTimeout,
	}
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	lis, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to listen"), "addr", addr)
	}
	return s.Serve(ctx, lis)
}

// Serve accepts connections on lis until ctx is cancelled, then waits for in-flight
// requests to finish. Builds already accepted are not cancelled by ctx.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	s.logger.Info(fmt.Sprintf("build server listening on %s", lis.Addr()))

	stop := context.AfterFunc(ctx, func() {
		_ = lis.Close()
	})
	defer stop()

	buildCtx := context.WithoutCancel(ctx)
	var serveErr error
	for {
		conn, err := lis.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			serveErr = zerr.Wrap(err, "failed to accept connection")
			break
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handle(buildCtx, conn)
		}()
	}

	s.wg.Wait()
	return serveErr
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer func() { _ = conn.Close() }()

	var resp Response
	defer func() {
		if r := recover(); r != nil {
			err := zerr.With(zerr.New("build handler panicked"), "panic", fmt.Sprint(r))
			s.logger.Error(err)
			resp = NewResponse(nil, err)
		}
		s.reply(conn, resp)
	}()

	if s.readTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	}

	req, err := decodeRequest(conn)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("rejected request from %s: %s", conn.RemoteAddr(), domain.OneLine(err)))
		resp = NewResponse(nil, err)
		return
	}
	_ = conn.SetReadDeadline(time.Time{})

	s.logger.Info(fmt.Sprintf("build request: target=%s dynamic=%t release=%t nocache=%t output=%s",
		req.Target, req.Dynamic, req.Release, req.NoCache, req.OutputName))

	result, err := s.builder.Build(ctx, req)
	if err != nil {
		s.logger.Error(err)
	}
	resp = NewResponse(result, err)
}

// decodeRequest reads exactly one JSON value. The value may end with a newline or
// with the client half-closing its side. Only an object is a request; null, arrays
// and scalars are rejected before any field defaults apply.
func decodeRequest(conn net.Conn) (domain.BuildRequest, error) {
	var raw json.RawMessage
	dec := json.NewDecoder(io.LimitReader(conn, maxRequestBytes))
	if err := dec.Decode(&raw); err != nil {
		return domain.BuildRequest{}, domain.PhaseError(domain.ErrMalformedRequest, err)
	}
	raw = bytes.TrimLeft(raw, " \t\r\n")
	if len(raw) == 0 || raw[0] != '{' {
		return domain.BuildRequest{}, domain.PhaseError(domain.ErrMalformedRequest, zerr.New("request must be a JSON object"))
	}

	var wire Request
	if err := json.Unmarshal(raw, &wire); err != nil {
		return domain.BuildRequest{}, domain.PhaseError(domain.ErrMalformedRequest, err)
	}
	req, err := wire.BuildRequest()
	if err != nil {
		return domain.BuildRequest{}, domain.PhaseError(domain.ErrMalformedRequest, err)
	}
	return req, nil
}

func (s *Server) reply(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error(zerr.Wrap(err, "failed to encode response"))
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Warn(fmt.Sprintf("failed to write response to %s: %v", conn.RemoteAddr(), err))
	}
}
