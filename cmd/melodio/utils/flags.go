package utils

import (
	flag "github.com/spf13/pflag"

	"github.com/melodio/melodio-go/common/models"
)

// AddLimitFlag registers the standard --limit flag for commands that
// request results from the API.
func AddLimitFlag(flags *flag.FlagSet, limit *int) {
	flags.IntVar(
		limit,
		"limit",
		models.DefaultPaginationLimit,
		"The number of results to request per page")
}

// AddPageFlags registers the standard --limit and --all flags for
// listing commands.
func AddPageFlags(flags *flag.FlagSet, limit *int, all *bool) {
	AddLimitFlag(flags, limit)
	flags.BoolVar(
		all,
		"all",
		false,
		"Fetch every page of results, not just one")
}
