package dogpic

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/askiada/go-dogpic/pkg/pipeline"
	"github.com/askiada/go-dogpic/pkg/pipeline/drawer"
	"github.com/askiada/go-dogpic/pkg/pipeline/measure"
	"github.com/askiada/go-dogpic/pkg/pipeline/model"
)

// Style is the way the pipeline waits for a stage before starting the next one.
type Style string

const (
	// StyleAwait calls the stages one after the other on the caller goroutine.
	StyleAwait Style = "await"
	// StyleChain links the stages with channels, each stage running on its own goroutine and waiting for the
	// value of its parent.
	StyleChain Style = "chain"
	// StyleCallback starts every stage on a new goroutine and hands its result to a continuation that starts
	// the next stage.
	StyleCallback Style = "callback"
)

// Styles lists every supported style.
var Styles = []Style{StyleAwait, StyleChain, StyleCallback}

// ParseStyle returns the style named name.
func ParseStyle(name string) (Style, error) {
	for _, style := range Styles {
		if string(style) == name {
			return style, nil
		}
	}

	return "", errors.Wrapf(ErrUnknownStyle, "%q", name)
}

func (p *Pipeline) runAwait(ctx context.Context, r *run) error {
	breed, err := p.read(ctx, r)
	if err != nil {
		return err
	}

	imageURL, err := p.fetch(ctx, r, breed)
	if err != nil {
		return err
	}

	return p.write(ctx, r, imageURL)
}

func (p *Pipeline) runChain(ctx context.Context, r *run) error {
	var (
		opts []model.PipelineOption
		msr  *measure.DefaultMeasure
	)
	if p.measure || p.graphFile != "" {
		msr = measure.NewDefaultMeasure()
		opts = append(opts, measure.PipelineMeasure(msr))
	}
	if p.graphFile != "" {
		opts = append(opts, drawer.PipelineDrawer(drawer.NewDOTDrawer(p.graphFs, p.graphFile), msr))
	}

	pipe, err := pipeline.New(ctx, opts...)
	if err != nil {
		return errors.Wrap(err, "unable to create pipeline")
	}

	readStep, err := pipeline.AddRootStep(pipe, string(StageRead), func(ctx context.Context) (string, error) {
		return p.read(ctx, r)
	})
	if err != nil {
		return errors.Wrap(err, "unable to add read step")
	}

	fetchStep, err := pipeline.AddStep(pipe, string(StageFetch), readStep, func(ctx context.Context, breed string) (string, error) {
		return p.fetch(ctx, r, breed)
	})
	if err != nil {
		return errors.Wrap(err, "unable to add fetch step")
	}

	err = pipeline.AddSink(pipe, string(StageWrite), fetchStep, func(ctx context.Context, imageURL string) error {
		return p.write(ctx, r, imageURL)
	})
	if err != nil {
		return errors.Wrap(err, "unable to add write step")
	}

	err = pipe.Run()
	if p.measure && msr != nil {
		p.logMeasure(msr)
	}

	return err
}

func (p *Pipeline) logMeasure(msr measure.Measure) {
	for _, step := range measure.Report(msr) {
		fields := []zap.Field{
			zap.String("step", step.Name),
			zap.Duration("avg", step.Average),
		}
		if step.Total > 0 {
			fields = append(fields, zap.Duration("total", step.Total))
		}
		for input, elapsed := range step.Transport {
			fields = append(fields, zap.Duration("from_"+input, elapsed))
		}
		p.logger.Info("step measure", fields...)
	}
}

func (p *Pipeline) runCallback(ctx context.Context, r *run) error {
	done := make(chan error, 1)

	p.readAsync(ctx, r, func(breed string, err error) {
		if err != nil {
			done <- err

			return
		}
		p.fetchAsync(ctx, r, breed, func(imageURL string, err error) {
			if err != nil {
				done <- err

				return
			}
			p.writeAsync(ctx, r, imageURL, func(err error) {
				done <- err
			})
		})
	})

	start := time.Now()
	err := <-done
	p.logger.Debug("callbacks completed", zap.Duration("elapsed", time.Since(start)))

	return err
}

func (p *Pipeline) readAsync(ctx context.Context, r *run, callback func(breed string, err error)) {
	go func() {
		callback(p.read(ctx, r))
	}()
}

func (p *Pipeline) fetchAsync(ctx context.Context, r *run, breed string, callback func(imageURL string, err error)) {
	go func() {
		callback(p.fetch(ctx, r, breed))
	}()
}

func (p *Pipeline) writeAsync(ctx context.Context, r *run, imageURL string, callback func(err error)) {
	go func() {
		callback(p.write(ctx, r, imageURL))
	}()
}
