// Package pipeline links stages together with channels.
//
// Each stage added to a Pipeline runs on its own goroutine and receives the output of its parent through a channel.
// A stage never runs its function before the parent has produced a value, so a chain of stages executes strictly in
// order even though every stage lives on a different goroutine. Receiving from the parent channel is the suspension
// point of a stage.
//
// The pipeline stops on the first encountered error. The error is wrapped with the name of the failing stage and
// returned by Run, the remaining stages are cancelled through the pipeline context, and stages downstream of the
// failure see their input channel closed without a value and return without doing any work.
//
// Options implementing model.PipelineOption are notified when stages are added and every time a stage produces a
// value. The measure and drawer sub-packages use these hooks to time stages and to render the pipeline as a graph.
package pipeline
