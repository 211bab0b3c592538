package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/go-dogpic/pkg/pipeline/model"
)

type stepFn func(ctx context.Context) error

// Pipeline is a pipeline of steps.
type Pipeline struct {
	ctx       context.Context
	opts      []model.PipelineOption
	startTime time.Time

	mu    sync.Mutex
	steps []stepFn
	ran   bool
}

// New creates a new pipeline.
func New(ctx context.Context, opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		ctx:       ctx,
		startTime: time.Now(),
		opts:      opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

func (p *Pipeline) add(name string, fn stepFn) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.steps = append(p.steps, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil {
			return errors.Wrap(err, name)
		}

		return nil
	})
}

// Run starts every step and waits for them to finish.
// It returns the first error and cancels the other steps.
func (p *Pipeline) Run() error {
	p.mu.Lock()
	if p.ran {
		p.mu.Unlock()

		return ErrAlreadyRun
	}
	p.ran = true
	steps := p.steps
	p.mu.Unlock()

	grp, gCtx := errgroup.WithContext(p.ctx)
	for _, fn := range steps {
		fn := fn
		grp.Go(func() error {
			return fn(gCtx)
		})
	}

	err := grp.Wait()
	if err != nil {
		return err
	}

	return p.finishRun()
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
