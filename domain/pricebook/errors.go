package pricebook

import "errors"

var (
	ErrNonFiniteNumber = errors.New("numeric cell is not a finite number")
	ErrUnknownCellKind = errors.New("unknown cell kind")
	ErrRowTooWide      = errors.New("row has more cells than columns")
)
