package qprogress

import "errors"

var (
	ErrInvalidTotal          = errors.New("qprogress: total steps must be positive")
	ErrInvalidCollapseFactor = errors.New("qprogress: collapse factor must be within [0, 1]")
	ErrInvalidUncertainty    = errors.New("qprogress: uncertainty level must be within [0, 1]")
	ErrInvalidWidth          = errors.New("qprogress: width must be positive")
)
