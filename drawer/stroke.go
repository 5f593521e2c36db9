package drawer

import (
	"fmt"
	"strconv"
	"strings"
)

type Point struct {
	X int
	Y int
}

func (p Point) String() string {
	return fmt.Sprintf("%d,%d", p.X, p.Y)
}

// Stroke is one straight segment of the drawing, the unit of undo.
// ID keys the display handle on the surface side.
type Stroke struct {
	ID        string
	From      Point
	To        Point
	Thickness float64
}

// InputFormatError reports point text that is not "x,y" with integer parts.
type InputFormatError struct {
	Field string
	Input string
	Err   error
}

func (e *InputFormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s point %q, want \"x,y\": %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("invalid %s point %q, want \"x,y\"", e.Field, e.Input)
}

func (e *InputFormatError) Unwrap() error {
	return e.Err
}

// ParsePoint reads "x,y". Whitespace around either number is ignored.
func ParsePoint(field, text string) (Point, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return Point{}, &InputFormatError{Field: field, Input: text}
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Point{}, &InputFormatError{Field: field, Input: text, Err: err}
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Point{}, &InputFormatError{Field: field, Input: text, Err: err}
	}
	return Point{X: x, Y: y}, nil
}
