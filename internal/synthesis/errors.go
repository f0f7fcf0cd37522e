package synthesis

import (
	"errors"
	"fmt"
)

// ErrNoUtterances is returned when the pipeline is invoked with an empty
// script. No network calls are issued in that case.
var ErrNoUtterances = errors.New("no text to synthesize")

// SynthesisError reports a failed speech synthesis call for one utterance.
type SynthesisError struct {
	Index int
	Err   error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("synthesize utterance %d: %v", e.Index, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// DecodeError reports a synthesis result that could not be decoded as audio.
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode utterance %d: %v", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UploadError reports a failed object store upload of the merged track.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload merged track: %v", e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }
