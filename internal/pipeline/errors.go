package pipeline

import "errors"

// Stage names a step of either conversion path.
type Stage string

const (
	StageIdle          Stage = "idle"
	StageCapture       Stage = "capture"
	StageTranscription Stage = "transcription"
	StageTranslation   Stage = "translation"
	StageSynthesis     Stage = "synthesis"
	StageStorage       Stage = "storage"
	StageDone          Stage = "done"
)

var (
	// ErrEmptyInput means there was no text to speak. It is a warning, not a
	// stage failure.
	ErrEmptyInput = errors.New("no text to speak")

	ErrCapture       = errors.New("saving recording failed")
	ErrTranscription = errors.New("transcription failed")
	ErrTranslation   = errors.New("translation failed")
	ErrSynthesis     = errors.New("synthesis failed")
	ErrStorage       = errors.New("storing audio failed")
)

func stageSentinel(s Stage) error {
	switch s {
	case StageCapture:
		return ErrCapture
	case StageTranscription:
		return ErrTranscription
	case StageTranslation:
		return ErrTranslation
	case StageSynthesis:
		return ErrSynthesis
	case StageStorage:
		return ErrStorage
	}
	return errors.New(string(s) + " failed")
}

// StageError is a failure of one stage. errors.Is matches both the stage
// sentinel and the underlying cause.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return stageSentinel(e.Stage).Error() + ": " + e.Err.Error()
}

func (e *StageError) Unwrap() []error {
	return []error{stageSentinel(e.Stage), e.Err}
}
