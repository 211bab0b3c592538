package model

type stepType string

const (
	RootStepType   stepType = "root"
	NormalStepType stepType = "step"
	SinkStepType   stepType = "sink"
)

type StepInfo struct {
	Type stepType
	Name string
}

var (
	StartStep = &StepInfo{Name: "start"}
	EndStep   = &StepInfo{Name: "end"}
)

// Step is the handle returned when a stage is added to a pipeline.
// Output is closed once the stage stops producing values.
type Step[O any] struct {
	Output  chan O
	Details *StepInfo
}
