package dogpic

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const (
	DefaultSource      = "dog.txt"
	DefaultDestination = "dog-img.txt"
)

var ErrInvalidTransition = errors.New("invalid state transition")

// Pipeline reads a breed, fetches an image URL for it and writes the URL.
type Pipeline struct {
	reader  Reader
	fetcher Fetcher
	writer  Writer

	source      string
	destination string
	style       Style
	trimBreed   bool
	logger      *zap.Logger

	measure   bool
	graphFs   afero.Fs
	graphFile string
}

type PipelineOption func(p *Pipeline)

// PipelinePaths sets the breed file and the image file.
func PipelinePaths(source, destination string) PipelineOption {
	return func(p *Pipeline) {
		p.source = source
		p.destination = destination
	}
}

func PipelineStyle(style Style) PipelineOption {
	return func(p *Pipeline) {
		p.style = style
	}
}

func PipelineLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// PipelineTrimBreed controls whether surrounding whitespace is removed from the breed before it is fetched.
// It is enabled by default. When disabled the file content is used verbatim.
func PipelineTrimBreed(trim bool) PipelineOption {
	return func(p *Pipeline) {
		p.trimBreed = trim
	}
}

// PipelineMeasure logs the duration of every stage at the end of a run. Only the chain style is measured.
func PipelineMeasure() PipelineOption {
	return func(p *Pipeline) {
		p.measure = true
	}
}

// PipelineGraph writes a DOT graph of the stages to fileName on fs after every successful run. Only the chain
// style is drawn.
func PipelineGraph(fs afero.Fs, fileName string) PipelineOption {
	return func(p *Pipeline) {
		p.graphFs = fs
		p.graphFile = fileName
	}
}

// New creates a pipeline from its three stages.
func New(reader Reader, fetcher Fetcher, writer Writer, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		reader:      reader,
		fetcher:     fetcher,
		writer:      writer,
		source:      DefaultSource,
		destination: DefaultDestination,
		style:       StyleAwait,
		trimBreed:   true,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes the three stages once. On failure the returned error is the ReadError, FetchError or WriteError
// raised by the failing stage, and Result.FailedStage names it.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	r := &run{}

	var err error
	switch p.style {
	case StyleChain:
		err = p.runChain(ctx, r)
	case StyleCallback:
		err = p.runCallback(ctx, r)
	case StyleAwait:
		err = p.runAwait(ctx, r)
	default:
		err = errors.Wrapf(ErrUnknownStyle, "%q", p.style)
	}

	res, stageErr := r.snapshot()
	switch {
	case stageErr != nil:
		err = stageErr
	case err != nil && res.State == StateSucceeded:
		p.logger.Warn("unable to report pipeline", zap.Error(err))
		err = nil
	case err != nil:
		err = r.fail(StageNone, err)
		res, _ = r.snapshot()
	}

	if err != nil {
		p.logger.Error("pipeline failed",
			zap.String("style", string(p.style)),
			zap.String("stage", string(res.FailedStage)),
			zap.Error(err),
		)

		return res, err
	}

	return res, nil
}

func (p *Pipeline) read(ctx context.Context, r *run) (string, error) {
	if !r.advance(StateIdle, StateReading) {
		return "", errors.Wrap(ErrInvalidTransition, "read")
	}

	raw, err := p.reader.Read(ctx, p.source)
	if err != nil {
		var readErr *ReadError
		if !errors.As(err, &readErr) {
			p.logger.Debug("read failed", zap.String("path", p.source), zap.Error(err))
			err = &ReadError{Path: p.source}
		}

		return "", r.fail(StageRead, err)
	}

	breed := raw
	if p.trimBreed {
		breed = strings.TrimSpace(raw)
	}
	r.setBreed(breed)
	p.logger.Info("breed read", zap.String("breed", breed))

	return breed, nil
}

func (p *Pipeline) fetch(ctx context.Context, r *run, breed string) (string, error) {
	if !r.advance(StateReading, StateFetching) {
		return "", errors.Wrap(ErrInvalidTransition, "fetch")
	}

	imageURL, err := p.fetcher.Fetch(ctx, breed)
	if err != nil {
		var fetchErr *FetchError
		if !errors.As(err, &fetchErr) {
			err = &FetchError{Err: err}
		}

		return "", r.fail(StageFetch, err)
	}
	r.setImageURL(imageURL)
	p.logger.Info("image found", zap.String("image_url", imageURL))

	return imageURL, nil
}

func (p *Pipeline) write(ctx context.Context, r *run, imageURL string) error {
	if !r.advance(StateFetching, StateWriting) {
		return errors.Wrap(ErrInvalidTransition, "write")
	}

	err := p.writer.Write(ctx, p.destination, imageURL)
	if err != nil {
		var writeErr *WriteError
		if !errors.As(err, &writeErr) {
			p.logger.Debug("write failed", zap.String("path", p.destination), zap.Error(err))
			err = &WriteError{Path: p.destination}
		}

		return r.fail(StageWrite, err)
	}
	r.succeed()
	p.logger.Info("image of random dog written to file", zap.String("path", p.destination))

	return nil
}
