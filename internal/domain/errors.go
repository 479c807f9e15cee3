package domain

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the enhancement pipeline and the article store.
var (
	ErrNotFound               = errors.New("article not found")
	ErrInvalidState           = errors.New("can only enhance original articles")
	ErrInsufficientReferences = errors.New("not enough reference articles")
	ErrScrapeFailure          = errors.New("could not scrape reference articles")
	ErrGenerationFailure      = errors.New("content generation failed")
	ErrConflict               = errors.New("article with this slug or source url already exists")
	ErrValidation             = errors.New("invalid article")
)

// InsufficientReferencesError reports how many usable candidates search returned.
type InsufficientReferencesError struct {
	Found    int
	Required int
}

func (e *InsufficientReferencesError) Error() string {
	return fmt.Sprintf("not enough reference articles found (%d/%d required)", e.Found, e.Required)
}

func (e *InsufficientReferencesError) Is(target error) bool {
	return target == ErrInsufficientReferences
}

// GenerationError is the terminal failure of a completion call after the retry
// budget is spent.
type GenerationError struct {
	Attempts int
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("completion failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailure
}

// Kind names the error kind of err for transport layers; unknown errors map to
// "Internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "NotFound"
	case errors.Is(err, ErrInvalidState):
		return "InvalidState"
	case errors.Is(err, ErrInsufficientReferences):
		return "InsufficientReferences"
	case errors.Is(err, ErrScrapeFailure):
		return "ScrapeFailure"
	case errors.Is(err, ErrGenerationFailure):
		return "GenerationFailure"
	case errors.Is(err, ErrConflict):
		return "Conflict"
	case errors.Is(err, ErrValidation):
		return "Validation"
	default:
		return "Internal"
	}
}
