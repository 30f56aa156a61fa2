// Package assistant answers free-text questions about the file collection.
package assistant

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrEmptyReply is returned when the model answered with no text
	ErrEmptyReply = errors.New("assistant returned an empty reply")
	// ErrUnavailable is returned when the model could not be reached
	ErrUnavailable = errors.New("assistant unavailable")
)

// ErrorKind classifies a failed request for localization
type ErrorKind int

const (
	EmptyReply ErrorKind = iota + 1
	Unavailable
)

// KindOf maps an error from a Responder to its kind
func KindOf(err error) ErrorKind {
	if errors.Is(err, ErrEmptyReply) {
		return EmptyReply
	}
	return Unavailable
}

// Responder answers one query against a serialized file summary
type Responder interface {
	Respond(ctx context.Context, query, summary string, lang Language) (string, error)
}

// Offline is the responder used when no model is configured
type Offline struct{}

// Respond always fails as unavailable
func (Offline) Respond(context.Context, string, string, Language) (string, error) {
	return "", fmt.Errorf("%w: no model configured", ErrUnavailable)
}

// SystemInstruction tells the model who it is and which language to answer in
func SystemInstruction(lang Language) string {
	return fmt.Sprintf("You are Aura Explorer's AI Assistant. You must respond in %s. "+
		"Be helpful, concise, and professional. Analyze the provided file list to answer user queries.", lang.Name())
}

// Prompt builds the request contents
func Prompt(query, summary string, lang Language) string {
	return fmt.Sprintf("User language: %s\nFile System Data:\n%s\n\nUser query: %s", lang.Name(), summary, query)
}
