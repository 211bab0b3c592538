package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-dogpic/pkg/pipeline/model"
)

// AddRootStep adds the first step of the pipeline. rootFn runs once and its result is the only value
// pushed to the step output.
func AddRootStep[O any](p *Pipeline, name string, rootFn func(ctx context.Context) (O, error)) (*model.Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}

	step := &model.Step[O]{
		Output: make(chan O),
		Details: &model.StepInfo{
			Type: model.RootStepType,
			Name: name,
		},
	}
	for _, opt := range p.opts {
		err := opt.PrepareStep(model.StartStep, step.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare step function")
		}
	}

	p.add(name, func(ctx context.Context) error {
		defer close(step.Output)

		startFn := time.Now()
		out, err := rootFn(ctx)
		if err != nil {
			return err
		}
		endFn := time.Since(startFn)

		startSend := time.Now()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case step.Output <- out:
		}

		for _, opt := range p.opts {
			err := opt.OnStepOutput(model.StartStep, step.Details, time.Since(startSend), endFn)
			if err != nil {
				return errors.Wrap(err, "unable to run on step output function")
			}
		}

		return nil
	})

	return step, nil
}
