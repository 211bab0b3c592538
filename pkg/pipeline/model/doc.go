// Package model provides the data structures shared by the pipeline package and its options.
// It defines the steps linking the stages together and the hooks a pipeline option can implement.
package model
