// Package version carries the CLI's build metadata. Everything here can be
// overridden at link time through -ldflags.
package version

import "github.com/fatih/color"

var (
	major = color.New(color.FgYellow, color.Bold).Sprint("0")
	minor = color.New(color.FgGreen, color.Bold).Sprint("1")
	patch = color.New(color.FgBlue, color.Bold).Sprint("0")

	// Version is the semantic version of the CLI, with colored segments.
	Version = major + "." + minor + "." + patch + "-dev"

	// GitCommit is the hash of the commit this binary was built from.
	GitCommit = ""

	// GitMessage is the subject line of that commit.
	GitMessage = ""

	// BuildDate is the build timestamp in ISO-8601.
	BuildDate = ""
)
