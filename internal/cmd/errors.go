package cmd

import (
	"errors"
	"fmt"
	"io"

	oerrors "github.com/projgen/cli/internal/errors"
	"github.com/projgen/cli/internal/output"
)

// printError reports err on w. Detail errors keep their multi-line layout;
// anything else goes through the logger with msg as the summary.
func printError(w io.Writer, msg string, err error) {
	var detail *oerrors.DetailError
	if errors.As(err, &detail) {
		fmt.Fprint(w, detail.Error())
		return
	}
	output.Error(msg, "error", err)
}

// exitError prints err and marks it as printed for main.
func exitError(w io.Writer, msg string, err error) error {
	printError(w, msg, err)
	return &oerrors.ExitError{Code: oerrors.ExitCodeFromError(err), Err: err, Printed: true}
}
