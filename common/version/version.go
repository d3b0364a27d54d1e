package version

import "fmt"

// VERSION indicates the major.minor.patch version the binary was built off of.
var VERSION string

// GITCOMMIT indicates which git hash (12char) the binary was built off of.
var GITCOMMIT string

func VersionToString() string {
	// Don't return a version if they haven't been injected
	if VERSION == "" && GITCOMMIT == "" {
		return ""
	}
	return fmt.Sprintf("%s - %s", VERSION, GITCOMMIT)
}

// UserAgent returns the product token sent in the User-Agent header
// by the API client.
func UserAgent() string {
	if VERSION == "" {
		return "melodio-go/dev"
	}
	return fmt.Sprintf("melodio-go/%s", VERSION)
}
