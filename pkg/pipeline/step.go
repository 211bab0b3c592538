package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-dogpic/pkg/pipeline/model"
)

func oneToOne[I any, O any](ctx context.Context, p *Pipeline, input *model.Step[I], output *model.Step[O], oneToOneFn func(context.Context, I) (O, error)) error {
outer:
	for {
		start := time.Now()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case in, ok := <-input.Output:
			if !ok {
				break outer
			}
			startFn := time.Now()
			out, err := oneToOneFn(ctx, in)
			if err != nil {
				return err
			}
			endFn := time.Since(startFn)

			// the context is checked again so a cancelled pipeline stops pushing values
			select {
			case <-ctx.Done():
				return ctx.Err()
			case output.Output <- out:
			}

			for _, opt := range p.opts {
				err := opt.OnStepOutput(input.Details, output.Details, time.Since(start)-endFn, endFn)
				if err != nil {
					return errors.Wrap(err, "unable to run on step output function")
				}
			}
		}
	}

	return nil
}

// AddStep adds a step consuming the output of input. oneToOneFn runs once per value received, and only after
// the parent step has produced it.
func AddStep[I any, O any](p *Pipeline, name string, input *model.Step[I], oneToOneFn func(context.Context, I) (O, error)) (*model.Step[O], error) {
	if p == nil {
		return nil, ErrPipelineMustBeSet
	}
	if input == nil {
		return nil, ErrInputMustBeSet
	}

	step := &model.Step[O]{
		Output: make(chan O),
		Details: &model.StepInfo{
			Type: model.NormalStepType,
			Name: name,
		},
	}
	for _, opt := range p.opts {
		err := opt.PrepareStep(input.Details, step.Details)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare step function")
		}
	}

	p.add(name, func(ctx context.Context) error {
		defer close(step.Output)

		return oneToOne(ctx, p, input, step, oneToOneFn)
	})

	return step, nil
}
