package commands

import (
	"context"
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to errors returned by Handler.Execute.
const (
	CodeInvalidMessage = "POSTS_COMMAND_INVALID"
	CodeCanceled       = "POSTS_COMMAND_CANCELED"
	CodeTimeout        = "POSTS_COMMAND_TIMEOUT"
	CodeFailed         = "POSTS_COMMAND_FAILED"
)

// Errors that already carry a go-errors category pass through unchanged.
func wrapValidationError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid command message").
		WithTextCode(CodeInvalidMessage)
}

func wrapContextError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return goerrors.Wrap(err, goerrors.CategoryCommand, "command timed out").
			WithTextCode(CodeTimeout)
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command canceled").
		WithTextCode(CodeCanceled)
}

func wrapExecuteError(err error) error {
	if err == nil || goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryCommand, "command failed").
		WithTextCode(CodeFailed)
}
