package pipeline_test

import (
	"testing"
)

func processOutputChan[O any](t *testing.T, output chan O) []O {
	t.Helper()

	res := []O{}

	for out := range output {
		res = append(res, out)
	}

	return res
}
