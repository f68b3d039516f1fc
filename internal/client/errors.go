package client

import "errors"

var (
	ErrNoServices        = errors.New("client services are not configured")
	ErrNoCommand         = errors.New("no command given")
	ErrUnknownCommand    = errors.New("unknown command")
	ErrMissingArgument   = errors.New("missing argument")
	ErrReadingSubmission = errors.New("error reading submission file")
)
