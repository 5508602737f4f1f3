package models

import "fmt"

// DataShapeError means the loaded data does not have the expected shape,
// e.g. an hourly series of the wrong length or a missing column.
type DataShapeError struct {
	What     string
	Expected int
	Got      int
}

func (e *DataShapeError) Error() string {
	if e.Expected == 0 && e.Got == 0 {
		return fmt.Sprintf("data inconsistency: %s", e.What)
	}
	return fmt.Sprintf("data inconsistency: %s: expected length %d, got %d", e.What, e.Expected, e.Got)
}

// EmptySelectionError is the soft outcome of a polygon that contains no buildings.
type EmptySelectionError struct {
	Area string
}

func (e *EmptySelectionError) Error() string {
	return fmt.Sprintf("selection outside data extent (area %q)", e.Area)
}

// NumericDegeneracyError reports valid data that cannot be used for a
// computation, such as a zero reference total.
type NumericDegeneracyError struct {
	Op     string
	Reason string
}

func (e *NumericDegeneracyError) Error() string {
	return fmt.Sprintf("numeric degeneracy in %s: %s", e.Op, e.Reason)
}
