package driver

import (
	"context"
	"sync"
)

// Nop implements Driver without running anything. It records the requests
// it receives and answers each with Resp.
type Nop struct {
	Resp ExecResp

	mu   sync.Mutex
	reqs []ExecReq
}

func (n *Nop) Execute(ctx context.Context, req ExecReq) (ExecResp, error) {
	if len(req.Command) == 0 {
		return ExecResp{}, ErrEmptyCommand
	}
	n.mu.Lock()
	n.reqs = append(n.reqs, req)
	n.mu.Unlock()
	return n.Resp, nil
}

// Requests returns the requests seen so far.
func (n *Nop) Requests() []ExecReq {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]ExecReq(nil), n.reqs...)
}
