package sprig

import (
	"errors"
	"fmt"
)

var (
	// ErrNoImage matches every *NoImageError.
	ErrNoImage = errors.New("sprig: sprite has no image")
	// ErrLayersLocked is returned when a view's layer list is changed after
	// it has been set.
	ErrLayersLocked = errors.New("sprig: view layers already set")
	// ErrUnknownStyleParent is returned when a style rule inherits from a
	// rule that does not exist.
	ErrUnknownStyleParent = errors.New("sprig: unknown style parent")
)

// NoImageError reports a visible sprite that was drawn without an image.
type NoImageError struct {
	Sprite string
}

func (e *NoImageError) Error() string {
	return fmt.Sprintf("sprig: sprite %q drawn with no image", e.Sprite)
}

func (e *NoImageError) Is(target error) bool { return target == ErrNoImage }
