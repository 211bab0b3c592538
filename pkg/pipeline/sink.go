package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-dogpic/pkg/pipeline/model"
)

// AddSink adds the last step of the pipeline. sinkFn runs once per value received from input.
func AddSink[I any](pipe *Pipeline, name string, input *model.Step[I], sinkFn func(ctx context.Context, input I) error) error {
	if pipe == nil {
		return ErrPipelineMustBeSet
	}
	if input == nil {
		return ErrInputMustBeSet
	}

	details := &model.StepInfo{
		Type: model.SinkStepType,
		Name: name,
	}
	for _, opt := range pipe.opts {
		err := opt.PrepareSink(input.Details, details)
		if err != nil {
			return errors.Wrap(err, "unable to run prepare sink function")
		}
	}

	pipe.add(name, func(ctx context.Context) error {
	outer:
		for {
			startInputChan := time.Now()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case in, ok := <-input.Output:
				if !ok {
					break outer
				}
				endInputChan := time.Since(startInputChan)

				startFn := time.Now()
				err := sinkFn(ctx, in)
				if err != nil {
					return err
				}
				endFn := time.Since(startFn)

				for _, opt := range pipe.opts {
					err := opt.OnSinkOutput(input.Details, details, endInputChan, endFn)
					if err != nil {
						return errors.Wrap(err, "unable to run on sink output function")
					}
				}
			}
		}

		for _, opt := range pipe.opts {
			err := opt.AfterSink(details, time.Since(pipe.startTime))
			if err != nil {
				return errors.Wrap(err, "unable to run after sink function")
			}
		}

		return nil
	})

	return nil
}
