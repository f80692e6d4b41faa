package csg

import (
	"context"
	"runtime"
	"sync"
)

// Pool runs boolean operations on background goroutines so interactive
// callers are not blocked while large meshes combine. Jobs honor context
// cancellation while queued; once a worker picks a job up it runs to
// completion and the result is discarded if the caller already left.
type Pool struct {
	jobs chan poolJob
	wg   sync.WaitGroup
	once sync.Once
}

type poolJob struct {
	a, b *Mesh
	op   Op
	opt  OpOptions
	done chan poolResult
}

type poolResult struct {
	mesh *Mesh
	err  error
}

// NewPool starts a pool with the given number of workers; values below 1
// select GOMAXPROCS.
func NewPool(workers int) *Pool {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}
	p := &Pool{jobs: make(chan poolJob)}
	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}
	return p
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		m, err := OperateOpts(job.a, job.b, job.op, job.opt)
		job.done <- poolResult{mesh: m, err: err}
	}
}

// Operate submits a boolean operation and waits for its result.
func (p *Pool) Operate(ctx context.Context, a, b *Mesh, op Op) (*Mesh, error) {
	return p.OperateOpts(ctx, a, b, op, OpOptions{})
}

// OperateOpts is Operate with options. ctx aborts the wait while the job
// is still queued or running; a running job itself is never interrupted,
// its result lands in the buffered channel and is dropped.
func (p *Pool) OperateOpts(ctx context.Context, a, b *Mesh, op Op, opt OpOptions) (*Mesh, error) {
	done := make(chan poolResult, 1)
	select {
	case p.jobs <- poolJob{a: a, b: b, op: op, opt: opt, done: done}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	select {
	case res := <-done:
		return res.mesh, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops accepting jobs and waits for in flight operations to
// finish. Submitting after Close panics.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}
