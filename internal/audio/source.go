package audio

import (
	"fmt"
	"log/slog"
)

// Source names accepted by NewSource.
const (
	SourceDemo = "demo"
	SourceMic  = "mic"
	SourceFile = "file"
)

// NewSource builds the named source. path is only used by SourceFile.
func NewSource(name, path string, s Settings, seed int64, logger *slog.Logger) (Source, error) {
	switch name {
	case SourceDemo, "":
		synth, err := NewSynth(s, seed)
		if err != nil {
			return nil, err
		}
		return synth, nil
	case SourceMic:
		return NewCapture(s, logger), nil
	case SourceFile:
		if path == "" {
			return nil, fmt.Errorf("audio: file source needs a path")
		}
		return NewFileSource(path, s, logger), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSource, name)
}
