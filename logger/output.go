package logger

// OutputCategory defines a category of output that can be enabled/disabled.
//
// Unlike log levels (which filter by severity), output categories control
// WHAT types of information are displayed.
type OutputCategory int

const (
	// Level 0 (default) - Always shown
	OutputResults OutputCategory = iota // Command output: parsed quantities, tokens, matches
	OutputErrors                        // Errors with hints

	// Level 1 (-v)
	OutputStartup // Startup banners, config summary
	OutputCatalog // Ingredient catalog changes
	OutputSession // Autocomplete session open/close

	// Level 2 (-vv)
	OutputConfig // Config values loaded/applied
	OutputTiming // Operation timing

	// Level 3 (-vvv)
	OutputKeystrokes // Every autocomplete event and its result
)

var categoryLevels = map[OutputCategory]int{
	OutputResults:    VerbosityUser,
	OutputErrors:     VerbosityUser,
	OutputStartup:    VerbosityInfo,
	OutputCatalog:    VerbosityInfo,
	OutputSession:    VerbosityInfo,
	OutputConfig:     VerbosityDebug,
	OutputTiming:     VerbosityDebug,
	OutputKeystrokes: VerbosityTrace,
}

// ShouldOutput returns true if the given category should be shown at the given verbosity
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}
