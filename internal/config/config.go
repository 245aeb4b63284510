package config

import (
	"os"
	"strconv"

	"dupfinder/internal/scan"
)

const DefaultOutputName = "duplicates"

// Threshold returns the duplicate threshold from the DUPFINDER_THRESHOLD
// env var, falling back to the engine default. Values that do not parse
// or fall outside the valid range are ignored.
func Threshold() int {
	env := os.Getenv("DUPFINDER_THRESHOLD")
	if env == "" {
		return scan.DefaultThreshold
	}
	t, err := strconv.Atoi(env)
	if err != nil || t < 0 || t > scan.MaxThreshold {
		return scan.DefaultThreshold
	}
	return t
}

// OutputName returns the folder name suggested for relocated duplicates
// from DUPFINDER_OUTPUT, falling back to DefaultOutputName. Used by the
// interactive UI to prefill the output field.
func OutputName() string {
	if env := os.Getenv("DUPFINDER_OUTPUT"); env != "" {
		return env
	}
	return DefaultOutputName
}
