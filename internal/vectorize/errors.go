package vectorize

import "errors"

var (
	// ErrUnknownClass means an image holds a class id that the category
	// table does not define. The image produces no record.
	ErrUnknownClass = errors.New("class id not in category table")

	// ErrInvalidTable is returned when a category table fails validation.
	ErrInvalidTable = errors.New("invalid category table")

	// ErrUnknownKind is returned when a geometry kind name is not one of
	// Polygon, Point or Polyline.
	ErrUnknownKind = errors.New("unknown geometry kind")

	// ErrUnknownStrategy is returned for an unrecognised polyline strategy.
	ErrUnknownStrategy = errors.New("unknown polyline strategy")

	// ErrInvalidOptions is returned when extraction options are out of range.
	ErrInvalidOptions = errors.New("invalid extraction options")
)
