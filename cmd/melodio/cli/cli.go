package cli

import (
	"log"
	"os"

	"github.com/melodio/melodio-go/common/gerror"
)

var Stderr = log.New(os.Stderr, "", 0)
var Stdout = log.New(os.Stdout, "", 0)

// Exit codes returned by the melodio binary.
const (
	ExitOK = 0
	// ExitError covers API and transport failures.
	ExitError = 1
	// ExitUsage covers invalid input: bad queries, flag values or missing
	// configuration.
	ExitUsage = 2
)

func Exit(err error) {
	if err != nil {
		Stderr.Println(err)
		if gerror.IsValidationFailed(err) || gerror.IsInvalidConfig(err) {
			os.Exit(ExitUsage)
		}
		os.Exit(ExitError)
	}
	os.Exit(ExitOK)
}
