package dogpic_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/askiada/go-dogpic/pkg/dogpic"
)

const (
	testBreed    = "labrador"
	testImageURL = "http://example.com/img.jpg"
)

func TestPipelineSuccess(t *testing.T) {
	t.Parallel()

	for _, style := range dogpic.Styles {
		style := style
		t.Run(string(style), func(t *testing.T) {
			t.Parallel()

			reader := &stubReader{content: testBreed}
			fetcher := &stubFetcher{imageURL: testImageURL}
			writer := &spyWriter{}

			pipe := dogpic.New(reader, fetcher, writer, dogpic.PipelineStyle(style))
			res, err := pipe.Run(context.Background())
			require.NoError(t, err)

			assert.Equal(t, dogpic.StateSucceeded, res.State)
			assert.Equal(t, dogpic.StageNone, res.FailedStage)
			assert.Equal(t, testBreed, res.Breed)
			assert.Equal(t, testImageURL, res.ImageURL)

			assert.Equal(t, []string{dogpic.DefaultSource}, reader.paths)
			assert.Equal(t, []string{testBreed}, fetcher.breeds)
			require.Equal(t, 1, writer.calls())
			assert.Equal(t, []string{dogpic.DefaultDestination}, writer.paths)
			assert.Equal(t, []string{testImageURL}, writer.contents)
		})
	}
}

func TestPipelineReadError(t *testing.T) {
	t.Parallel()

	for _, style := range dogpic.Styles {
		style := style
		t.Run(string(style), func(t *testing.T) {
			t.Parallel()

			reader := &stubReader{err: os.ErrNotExist}
			fetcher := &stubFetcher{imageURL: testImageURL}
			writer := &spyWriter{}

			pipe := dogpic.New(reader, fetcher, writer, dogpic.PipelineStyle(style))
			res, err := pipe.Run(context.Background())

			var readErr *dogpic.ReadError
			require.ErrorAs(t, err, &readErr)
			assert.Equal(t, "I could not find that file", err.Error())
			assert.NotErrorIs(t, err, os.ErrNotExist)
			assert.Equal(t, dogpic.DefaultSource, readErr.Path)

			assert.Equal(t, dogpic.StateFailed, res.State)
			assert.Equal(t, dogpic.StageRead, res.FailedStage)
			assert.Equal(t, dogpic.StageRead, dogpic.StageOf(err))
			assert.Zero(t, fetcher.calls())
			assert.Zero(t, writer.calls())
		})
	}
}

func TestPipelineFetchError(t *testing.T) {
	t.Parallel()

	cause := errors.New("dial tcp: i/o timeout")

	for _, style := range dogpic.Styles {
		style := style
		t.Run(string(style), func(t *testing.T) {
			t.Parallel()

			reader := &stubReader{content: testBreed}
			fetcher := &stubFetcher{err: cause}
			writer := &spyWriter{}

			pipe := dogpic.New(reader, fetcher, writer, dogpic.PipelineStyle(style))
			res, err := pipe.Run(context.Background())

			var fetchErr *dogpic.FetchError
			require.ErrorAs(t, err, &fetchErr)
			require.ErrorIs(t, err, cause)

			assert.Equal(t, dogpic.StateFailed, res.State)
			assert.Equal(t, dogpic.StageFetch, res.FailedStage)
			assert.Equal(t, testBreed, res.Breed)
			assert.Equal(t, 1, fetcher.calls())
			assert.Zero(t, writer.calls())
		})
	}
}

func TestPipelineFetchHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	variant := dogpic.VariantAPI
	variant.BaseURL = server.URL

	for _, style := range dogpic.Styles {
		style := style
		t.Run(string(style), func(t *testing.T) {
			t.Parallel()

			writer := &spyWriter{}
			pipe := dogpic.New(&stubReader{content: testBreed}, dogpic.NewHTTPFetcher(variant), writer, dogpic.PipelineStyle(style))
			res, err := pipe.Run(context.Background())

			var fetchErr *dogpic.FetchError
			require.ErrorAs(t, err, &fetchErr)
			require.ErrorIs(t, err, dogpic.ErrUnexpectedStatus)
			assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
			assert.Equal(t, dogpic.StageFetch, res.FailedStage)
			assert.Zero(t, writer.calls())
		})
	}
}

func TestPipelineWriteError(t *testing.T) {
	t.Parallel()

	for _, style := range dogpic.Styles {
		style := style
		t.Run(string(style), func(t *testing.T) {
			t.Parallel()

			reader := &stubReader{content: testBreed}
			fetcher := &stubFetcher{imageURL: testImageURL}
			writer := &spyWriter{err: os.ErrPermission}

			pipe := dogpic.New(reader, fetcher, writer, dogpic.PipelineStyle(style))
			res, err := pipe.Run(context.Background())

			var writeErr *dogpic.WriteError
			require.ErrorAs(t, err, &writeErr)
			assert.Equal(t, "I could not write that file", err.Error())
			assert.NotErrorIs(t, err, os.ErrPermission)

			assert.Equal(t, dogpic.StateFailed, res.State)
			assert.Equal(t, dogpic.StageWrite, res.FailedStage)
			assert.Equal(t, testImageURL, res.ImageURL)
			assert.Equal(t, 1, fetcher.calls())
			assert.Equal(t, 1, writer.calls())
		})
	}
}

func TestPipelineReadOnlyFileSystem(t *testing.T) {
	t.Parallel()

	base := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(base, dogpic.DefaultSource, []byte(testBreed), 0o644))
	store := dogpic.NewFileStore(afero.NewReadOnlyFs(base), nil)
	fetcher := &stubFetcher{imageURL: testImageURL}

	_, err := dogpic.New(store, fetcher, store).Run(context.Background())

	var writeErr *dogpic.WriteError
	require.ErrorAs(t, err, &writeErr)
	assert.Equal(t, 1, fetcher.calls())

	exists, err := afero.Exists(base, dogpic.DefaultDestination)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPipelineIdempotent(t *testing.T) {
	t.Parallel()

	for _, style := range dogpic.Styles {
		style := style
		t.Run(string(style), func(t *testing.T) {
			t.Parallel()

			fs := afero.NewMemMapFs()
			require.NoError(t, afero.WriteFile(fs, dogpic.DefaultSource, []byte(testBreed+"\n"), 0o644))
			store := dogpic.NewFileStore(fs, nil)
			pipe := dogpic.New(store, &stubFetcher{imageURL: testImageURL}, store, dogpic.PipelineStyle(style))

			for i := 0; i < 2; i++ {
				_, err := pipe.Run(context.Background())
				require.NoError(t, err)

				content, err := afero.ReadFile(fs, dogpic.DefaultDestination)
				require.NoError(t, err)
				assert.Equal(t, testImageURL, string(content))
			}
		})
	}
}

func TestPipelineTrimBreed(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{imageURL: testImageURL}
	_, err := dogpic.New(&stubReader{content: " labrador\n"}, fetcher, &spyWriter{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{testBreed}, fetcher.breeds)
}

func TestPipelineKeepBreedVerbatim(t *testing.T) {
	t.Parallel()

	fetcher := &stubFetcher{imageURL: testImageURL}
	pipe := dogpic.New(&stubReader{content: "labrador\n"}, fetcher, &spyWriter{}, dogpic.PipelineTrimBreed(false))
	res, err := pipe.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"labrador\n"}, fetcher.breeds)
	assert.Equal(t, "labrador\n", res.Breed)
}

func TestPipelineVerbatimBreedBreaksURL(t *testing.T) {
	t.Parallel()

	writer := &spyWriter{}
	pipe := dogpic.New(&stubReader{content: "labrador\n"}, dogpic.NewHTTPFetcher(dogpic.VariantAPI), writer, dogpic.PipelineTrimBreed(false))
	_, err := pipe.Run(context.Background())

	var fetchErr *dogpic.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Zero(t, fetchErr.StatusCode)
	assert.Zero(t, writer.calls())
}

func TestPipelineCustomPaths(t *testing.T) {
	t.Parallel()

	reader := &stubReader{content: testBreed}
	writer := &spyWriter{}
	pipe := dogpic.New(reader, &stubFetcher{imageURL: testImageURL}, writer, dogpic.PipelinePaths("in.txt", "out.txt"))
	_, err := pipe.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"in.txt"}, reader.paths)
	assert.Equal(t, []string{"out.txt"}, writer.paths)
}

func TestPipelineUnknownStyle(t *testing.T) {
	t.Parallel()

	reader := &stubReader{content: testBreed}
	res, err := dogpic.New(reader, &stubFetcher{}, &spyWriter{}, dogpic.PipelineStyle("promise")).Run(context.Background())
	require.ErrorIs(t, err, dogpic.ErrUnknownStyle)
	assert.Equal(t, dogpic.StateFailed, res.State)
	assert.Zero(t, reader.calls())
}

func TestPipelineChainGraph(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	fs := afero.NewMemMapFs()
	pipe := dogpic.New(&stubReader{content: testBreed}, &stubFetcher{imageURL: testImageURL}, &spyWriter{},
		dogpic.PipelineStyle(dogpic.StyleChain),
		dogpic.PipelineMeasure(),
		dogpic.PipelineGraph(fs, "pipeline.dot"),
		dogpic.PipelineLogger(zap.New(core)),
	)

	_, err := pipe.Run(context.Background())
	require.NoError(t, err)

	content, err := afero.ReadFile(fs, "pipeline.dot")
	require.NoError(t, err)
	assert.Contains(t, string(content), `"start" -> "read"`)
	assert.Contains(t, string(content), `"read" -> "fetch"`)
	assert.Contains(t, string(content), `"fetch" -> "write"`)

	assert.Equal(t, 5, logs.FilterMessage("step measure").Len())
}

func TestPipelineLogsProgress(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	pipe := dogpic.New(&stubReader{content: testBreed}, &stubFetcher{imageURL: testImageURL}, &spyWriter{},
		dogpic.PipelineLogger(zap.New(core)),
	)

	_, err := pipe.Run(context.Background())
	require.NoError(t, err)

	messages := []string{}
	for _, entry := range logs.All() {
		messages = append(messages, entry.Message)
	}
	assert.Equal(t, []string{"breed read", "image found", "image of random dog written to file"}, messages)
}

func TestPipelineLogsFailure(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.ErrorLevel)
	pipe := dogpic.New(&stubReader{err: os.ErrNotExist}, &stubFetcher{}, &spyWriter{},
		dogpic.PipelineLogger(zap.New(core)),
	)

	_, err := pipe.Run(context.Background())
	require.Error(t, err)

	entries := logs.FilterMessage("pipeline failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "read", entries[0].ContextMap()["stage"])
}
