package common

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	simerrors "github.com/ducminhle1904/dca-hybrid-backtest/internal/errors"
	"github.com/ducminhle1904/dca-hybrid-backtest/internal/logger"
)

// EnvLogLevel is read when -log-level is not given
const EnvLogLevel = "DCA_LOG_LEVEL"

// CommonFlags contains flags that are shared across multiple commands
type CommonFlags struct {
	// Environment and logging
	EnvFile  *string
	LogLevel *string
	LogDir   *string

	// Help and version
	Version *bool
	Help    *bool
}

// RegisterCommonFlags registers common flags with fs
func RegisterCommonFlags(fs *flag.FlagSet) *CommonFlags {
	return &CommonFlags{
		EnvFile:  fs.String("env", ".env", "Environment file path"),
		LogLevel: fs.String("log-level", "", "Log level (debug, info, warn, error); defaults to $"+EnvLogLevel+" or info"),
		LogDir:   fs.String("log-dir", "", "Directory for run log files (empty disables file logging)"),

		Version: fs.Bool("version", false, "Show version information"),
		Help:    fs.Bool("help", false, "Show help information"),
	}
}

// ResolveLogLevel returns the flag value, then the environment, then "info"
func (c *CommonFlags) ResolveLogLevel() string {
	if *c.LogLevel != "" {
		return *c.LogLevel
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		return v
	}
	return "info"
}

// SetupLogger builds the run logger from the common flags
func SetupLogger(c *CommonFlags, name string) (*logger.Logger, error) {
	return logger.New(logger.Options{
		Name:  name,
		Level: c.ResolveLogLevel(),
		Dir:   *c.LogDir,
	})
}

// BootstrapLogger is the console logger used before the run logger exists.
// It honours the resolved log level; an unknown level falls back to info.
func BootstrapLogger(w io.Writer, c *CommonFlags) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(c.ResolveLogLevel()))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).
		With().Timestamp().Logger()
}

// ExplicitFlags returns the names of the flags set on the command line
func ExplicitFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	return set
}

// EnvSkip translates explicitly set flags into the environment variables they
// override, given a flag name to env var mapping
func EnvSkip(fs *flag.FlagSet, flagToEnv map[string]string) map[string]bool {
	skip := make(map[string]bool)
	for name := range ExplicitFlags(fs) {
		if env, ok := flagToEnv[name]; ok {
			skip[env] = true
		}
	}
	return skip
}

// FlagValidator provides flag validation utilities
type FlagValidator struct {
	errors []string
}

// NewFlagValidator creates a new flag validator
func NewFlagValidator() *FlagValidator {
	return &FlagValidator{
		errors: make([]string, 0),
	}
}

// ValidateFloat validates a float flag value within [min, max]
func (v *FlagValidator) ValidateFloat(name string, value float64, min, max float64) *FlagValidator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("%s must be between %.4f and %.4f, got: %.4f", name, min, max, value))
	}
	return v
}

// ValidateInt validates an int flag value within [min, max]
func (v *FlagValidator) ValidateInt(name string, value int, min, max int) *FlagValidator {
	if value < min || value > max {
		v.errors = append(v.errors, fmt.Sprintf("%s must be between %d and %d, got: %d", name, min, max, value))
	}
	return v
}

// ValidateFile validates that a file exists
func (v *FlagValidator) ValidateFile(name, path string, required bool) *FlagValidator {
	if path == "" {
		if required {
			v.errors = append(v.errors, fmt.Sprintf("%s is required", name))
		}
		return v
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		v.errors = append(v.errors, fmt.Sprintf("%s file does not exist: %s", name, path))
	}
	return v
}

// AddError adds a custom validation error
func (v *FlagValidator) AddError(message string) *FlagValidator {
	v.errors = append(v.errors, message)
	return v
}

// HasErrors returns true if there are validation errors
func (v *FlagValidator) HasErrors() bool {
	return len(v.errors) > 0
}

// GetErrors returns all validation errors
func (v *FlagValidator) GetErrors() []string {
	return v.errors
}

// GetError returns a configuration error listing every validation failure
func (v *FlagValidator) GetError() error {
	if len(v.errors) == 0 {
		return nil
	}

	msg := v.errors[0]
	if len(v.errors) > 1 {
		msg = "\n  - " + strings.Join(v.errors, "\n  - ")
	}
	return simerrors.NewConfigurationError("cli", "ValidateFlags", msg)
}

// UsageFormatter provides utilities for formatting flag usage
type UsageFormatter struct {
	AppName        string
	AppDescription string
	Arguments      string
	Examples       []UsageExample
}

// UsageExample represents a usage example
type UsageExample struct {
	Command     string
	Description string
}

// NewUsageFormatter creates a new usage formatter
func NewUsageFormatter(appName, description, arguments string) *UsageFormatter {
	return &UsageFormatter{
		AppName:        appName,
		AppDescription: description,
		Arguments:      arguments,
		Examples:       make([]UsageExample, 0),
	}
}

// AddExample adds a usage example
func (u *UsageFormatter) AddExample(command, description string) *UsageFormatter {
	u.Examples = append(u.Examples, UsageExample{
		Command:     command,
		Description: description,
	})
	return u
}

// PrintUsage prints formatted usage information followed by the flag defaults
func (u *UsageFormatter) PrintUsage(w io.Writer, fs *flag.FlagSet) {
	fmt.Fprintf(w, "%s - %s\n\n", u.AppName, u.AppDescription)

	fmt.Fprintf(w, "USAGE:\n")
	fmt.Fprintf(w, "  %s [OPTIONS] %s\n\n", filepath.Base(os.Args[0]), u.Arguments)

	if len(u.Examples) > 0 {
		fmt.Fprintf(w, "EXAMPLES:\n")
		for _, example := range u.Examples {
			fmt.Fprintf(w, "  # %s\n", example.Description)
			fmt.Fprintf(w, "  %s\n\n", example.Command)
		}
	}

	fmt.Fprintf(w, "OPTIONS:\n")
	fs.SetOutput(w)
	fs.PrintDefaults()
}

// CheckHelpAndVersion handles -help and -version, reporting whether either was shown
func CheckHelpAndVersion(w io.Writer, appName string, c *CommonFlags, fs *flag.FlagSet, formatter *UsageFormatter) bool {
	if *c.Version {
		PrintVersion(w, appName)
		return true
	}

	if *c.Help {
		formatter.PrintUsage(w, fs)
		return true
	}

	return false
}
