//go:build !inference

package main

import (
	"errors"

	"punctuate-go/pkg/punctuate"
)

// The token-classification model runs in an external inference engine; this
// binary only ships the text pipeline. A backend provides its own newEngine
// in a file built under the `inference` tag.
func newEngine() (punctuate.Engine, error) {
	return nil, errors.New("no inference backend linked into this build")
}
