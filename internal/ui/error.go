package ui

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/go-pym/pym/usefulerror"
)

// errorLogger receives the raw error before it is rendered for the user.
// Nil until SetErrorLogger is called, so packages that never wire logging
// (tests, one-off scripts) still work.
var errorLogger *zap.SugaredLogger

// SetErrorLogger wires the logger ErrorExit uses to record the raw error
// before rendering a human-friendly version to stdout.
func SetErrorLogger(logger *zap.SugaredLogger) {
	errorLogger = logger
}

// ErrorExit prints a minimal, clean error message and exits with a non-zero status code.
func ErrorExit(err error) {
	if errorLogger != nil {
		errorLogger.Errorw("exiting due to error", "error", err)
	}

	usefulErr := convertToUsefulError(err)

	ClearStatus()

	// Use help as hint, but for unknown errors fall back to a generic nudge
	hint := usefulErr.Help()
	if usefulErr.Code() == usefulerror.ErrCodeUnknown {
		hint = "Run with --verbose for the full error chain."
	}

	if verbosityLevel == VerbosityLevelVerbose {
		printVerboseError(usefulErr.Code(), usefulErr.HumanError(), hint,
			usefulErr.AdditionalHelp(), usefulErr.Error())
	} else {
		printMinimalError(usefulErr.Code(), usefulErr.HumanError(), hint)
	}

	os.Exit(2)
}

// printMinimalError prints error in minimal two-line format:
func printMinimalError(code, message, hint string) {
	fmt.Printf("%s  %s\n", Colors.ErrorCode(" %s ", code), Colors.Red(message))

	if hint != "" && hint != "No additional help is available for this error." {
		fmt.Printf(" %s %s\n", Colors.Dim("→"), Colors.Dim(hint))
	}
}

// printVerboseError prints detailed error for debugging (--verbose mode)
// Includes additional help and original error chain for troubleshooting
func printVerboseError(code, message, hint, additionalHelp, originalError string) {
	fmt.Printf("%s  %s\n", Colors.ErrorCode(" %s ", code), Colors.Red(message))

	if hint != "" && hint != "No additional help is available for this error." {
		fmt.Printf(" %s %s\n", Colors.Dim("→"), Colors.Dim(hint))
	}

	if additionalHelp != "" && additionalHelp != "No additional help is available for this error." {
		fmt.Printf(" %s %s\n", Colors.Dim("→"), Colors.Dim(additionalHelp))
	}

	if originalError != "" && originalError != message {
		fmt.Printf(" %s %s\n", Colors.Dim("┄"), Colors.Dim(originalError))
	}
}
