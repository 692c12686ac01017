package common

import (
	"context"
	"io"

	"resumematch/internal/errors"
)

// OperationFunc runs an analysis over the text of the command's input files.
type OperationFunc[Output any] func(ctx context.Context, contents []string) (Output, error)

// LogDetailsFunc logs the start of an operation.
type LogDetailsFunc func(contents []string, cfg CommandConfig)

// Runner carries what every file-based command needs.
type Runner struct {
	Logger *errors.Logger
	Config CommandConfig
	Stdout io.Writer
}

// RunFileCommand reads and validates the input files, runs operation on their
// text and writes the formatted result.
func RunFileCommand[Output any](
	ctx context.Context,
	r Runner,
	args []string,
	operation OperationFunc[Output],
	logDetails LogDetailsFunc,
) error {
	fileProcessor := NewFileProcessor(r.Logger, r.Config.MaxFileSize)
	outputHandler := r.outputHandler()

	contents, err := fileProcessor.ValidateAndReadFiles(args...)
	if err != nil {
		return err
	}

	if logDetails != nil {
		logDetails(contents, r.Config)
	}

	result, err := operation(ctx, contents)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, r.Config)
}

func (r Runner) outputHandler() *OutputHandler {
	if r.Stdout != nil {
		return NewOutputHandlerTo(r.Stdout, r.Logger)
	}
	return NewOutputHandler(r.Logger)
}
