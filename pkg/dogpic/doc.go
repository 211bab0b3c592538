// Package dogpic reads a breed name from a file, fetches a random image URL for that breed and writes the URL to
// another file.
//
// The three stages always run in the same order and each one starts only once the previous one succeeded. The
// first failure aborts the run and is returned unchanged as one of ReadError, FetchError or WriteError. The
// stages can be sequenced in three styles (see Style) that only differ in how the pipeline waits for a stage to
// complete.
package dogpic
