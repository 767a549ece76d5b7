package version

// these values are set at build time via ldflags
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	FullVersion = Version + " (" + Commit + ") " + BuildDate
)
