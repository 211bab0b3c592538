package dogpic_test

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/askiada/go-dogpic/pkg/dogpic"
)

func TestStageOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, dogpic.StageRead, dogpic.StageOf(&dogpic.ReadError{Path: "dog.txt"}))
	assert.Equal(t, dogpic.StageFetch, dogpic.StageOf(errors.Wrap(&dogpic.FetchError{Err: assert.AnError}, "fetch")))
	assert.Equal(t, dogpic.StageWrite, dogpic.StageOf(&dogpic.WriteError{Path: "dog-img.txt"}))
	assert.Equal(t, dogpic.StageNone, dogpic.StageOf(assert.AnError))
	assert.Equal(t, dogpic.StageNone, dogpic.StageOf(nil))
}

func TestFetchErrorMessage(t *testing.T) {
	t.Parallel()

	err := &dogpic.FetchError{URL: "https://dog.ceo/api/breed/pug/images/random", Err: assert.AnError}
	assert.Equal(t, "fetch https://dog.ceo/api/breed/pug/images/random: "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)

	err = &dogpic.FetchError{URL: "https://dog.ceo/api/breed/pug/images/random", StatusCode: http.StatusInternalServerError, Err: dogpic.ErrUnexpectedStatus}
	assert.Equal(t, "fetch https://dog.ceo/api/breed/pug/images/random: unexpected status (500 Internal Server Error)", err.Error())
}

func TestStateString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", dogpic.StateIdle.String())
	assert.Equal(t, "reading", dogpic.StateReading.String())
	assert.Equal(t, "fetching", dogpic.StateFetching.String())
	assert.Equal(t, "writing", dogpic.StateWriting.String())
	assert.Equal(t, "succeeded", dogpic.StateSucceeded.String())
	assert.Equal(t, "failed", dogpic.StateFailed.String())
	assert.True(t, dogpic.StateFailed.Terminal())
	assert.True(t, dogpic.StateSucceeded.Terminal())
	assert.False(t, dogpic.StateWriting.Terminal())
}

func TestParseStyle(t *testing.T) {
	t.Parallel()

	for _, style := range dogpic.Styles {
		got, err := dogpic.ParseStyle(string(style))
		assert.NoError(t, err)
		assert.Equal(t, style, got)
	}

	_, err := dogpic.ParseStyle("promise")
	assert.ErrorIs(t, err, dogpic.ErrUnknownStyle)
}
