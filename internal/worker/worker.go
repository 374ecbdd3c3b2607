package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Task is a function that represents a background job
type Task func(ctx context.Context) error

// Pool runs fire-and-forget tasks (activity log writes, interactive email
// dispatch) off the request path. The recurring job does not use it; that
// batch is strictly sequential.
type Pool struct {
	taskQueue chan Task
	wg        sync.WaitGroup
	isClosing atomic.Bool
	log       zerolog.Logger
}

func NewPool(size int, log zerolog.Logger) *Pool {
	p := &Pool{
		taskQueue: make(chan Task, 1000),
		log:       log,
	}

	for range size {
		p.wg.Add(1)
		go p.startWorker()
	}

	return p
}

func (p *Pool) startWorker() {
	defer p.wg.Done()
	for task := range p.taskQueue {
		if err := task(context.Background()); err != nil {
			p.log.Error().Err(err).Msg("worker task failed")
		}
	}
}

func (p *Pool) Submit(t Task) {
	if p.isClosing.Load() {
		p.log.Warn().Msg("task submitted during shutdown, dropping")
		return
	}
	select {
	case p.taskQueue <- t:
	default:
		p.log.Warn().Msg("task queue full, dropping task")
	}
}

// Shutdown closes the queue and waits for workers to finish
func (p *Pool) Shutdown() {
	p.isClosing.Store(true)
	close(p.taskQueue)
	p.wg.Wait()
}
