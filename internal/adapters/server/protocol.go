// Package server implements the TCP build request service and its client.
//
// The protocol is one JSON request per connection, answered by exactly one JSON line.
package server

import (
	"go.trai.ch/stratum/internal/core/domain"
)

// Request is the wire form of a build request. Missing fields take their defaults.
type Request struct {
	Dynamic    bool   `json:"dynamic"`
	NoCache    bool   `json:"nocache"`
	Target     string `json:"target,omitempty"`
	Release    bool   `json:"release"`
	OutputName string `json:"output_name,omitempty"`
}

// Response is the wire form of a build outcome.
type Response struct {
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	Kind         string `json:"kind,omitempty"`
	ArtifactPath string `json:"artifact_path,omitempty"`
	ElapsedMS    int64  `json:"elapsed_ms,omitempty"`
}

// NewRequest converts a domain request to its wire form.
func NewRequest(req domain.BuildRequest) Request {
	return Request{
		Dynamic:    req.Dynamic,
		NoCache:    req.NoCache,
		Target:     req.Target.String(),
		Release:    req.Release,
		OutputName: req.OutputName,
	}
}

// BuildRequest parses and validates the wire request.
func (r Request) BuildRequest() (domain.BuildRequest, error) {
	target, err := domain.ParseTarget(r.Target)
	if err != nil {
		return domain.BuildRequest{}, err
	}
	req := domain.BuildRequest{
		Dynamic:    r.Dynamic,
		NoCache:    r.NoCache,
		Target:     target,
		Release:    r.Release,
		OutputName: r.OutputName,
	}.Normalize()
	if err := req.Validate(); err != nil {
		return domain.BuildRequest{}, err
	}
	return req, nil
}

// NewResponse builds the wire response for a build outcome.
func NewResponse(result *domain.Result, err error) Response {
	var resp Response
	if result != nil {
		resp.ArtifactPath = result.ArtifactPath
		resp.ElapsedMS = result.Elapsed.Milliseconds()
		resp.Success = result.Success
	}
	if err != nil {
		resp.Success = false
		resp.Error = domain.OneLine(err)
		resp.Kind = string(domain.KindOf(err))
		resp.ArtifactPath = ""
	}
	return resp
}
