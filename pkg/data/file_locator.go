package data

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultDataRoot is searched when the data argument is a bare ticker
const DefaultDataRoot = "data"

// DefaultFileLocator resolves a data argument to a CSV file on disk
type DefaultFileLocator struct {
	log zerolog.Logger
}

// NewDefaultFileLocator creates a new default file locator
func NewDefaultFileLocator(log zerolog.Logger) *DefaultFileLocator {
	return &DefaultFileLocator{log: log}
}

// candidates lists the paths tried for a bare ticker such as "spx"
func (f *DefaultFileLocator) candidates(dataRoot, name string) []string {
	upper, lower := strings.ToUpper(name), strings.ToLower(name)
	return []string{
		filepath.Join(dataRoot, name+".csv"),
		filepath.Join(dataRoot, upper+".csv"),
		filepath.Join(dataRoot, lower+".csv"),
		filepath.Join(dataRoot, upper, "daily.csv"),
		filepath.Join(dataRoot, lower, "daily.csv"),
	}
}

// FindDataFile returns arg when it names an existing file. Otherwise arg is
// treated as a ticker and looked up under dataRoot.
// Returns empty string if no file is found
func (f *DefaultFileLocator) FindDataFile(dataRoot, arg string) string {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return ""
	}
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		return arg
	}
	if strings.ContainsAny(arg, `/\`) || filepath.Ext(arg) != "" {
		return ""
	}

	if dataRoot == "" {
		dataRoot = DefaultDataRoot
	}

	attempted := f.candidates(dataRoot, arg)
	for _, path := range attempted {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}

	f.log.Warn().Str("ticker", arg).Strs("attempted", attempted).Msg("⚠️ No data file found")
	return ""
}
