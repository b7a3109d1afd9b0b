package genetic

import (
	"fmt"
	"runtime"
	"time"

	"gopkg.in/ini.v1"
)

// Context holds the parameters of a search. It is produced by the settings
// loader and consumed by the engine and the driver.
type Context struct {
	MutationsCount   int           `ini:"mutations_count"`   // Edits per mutation and replay cap of crossover.
	PopulationSize   int           `ini:"population_size"`   // Target population size.
	ChildrenCount    int           `ini:"children_count"`    // Mutated children per parent.
	GenerationsCount int           `ini:"generations_count"` // Generation budget, 0 only rescores the seed.
	ResultsCount     int           `ini:"results_count"`     // Size of the top set checked for convergence.
	RepeatsCount     int           `ini:"repeats_count"`     // Unchanged checks before stopping, 0 never stops early.
	Workers          int           `ini:"workers"`           // Worker pool size.
	Seed             uint64        `ini:"seed"`              // Master random seed, 0 picks one.
	ReportInterval   time.Duration `ini:"report_interval"`   // Minimum time between result pushes.
}

// DefaultContext returns the parameters used when nothing is configured.
func DefaultContext() Context {
	return Context{
		MutationsCount:   2,
		PopulationSize:   100,
		ChildrenCount:    10,
		GenerationsCount: 1000,
		ResultsCount:     20,
		RepeatsCount:     100,
		Workers:          runtime.GOMAXPROCS(0),
		ReportInterval:   5 * time.Second,
	}
}

// Validate checks that the parameters describe a runnable search.
func (c Context) Validate() error {
	if c.MutationsCount <= 0 {
		return fmt.Errorf("config error: mutations_count must be positive")
	}
	if c.PopulationSize <= 0 {
		return fmt.Errorf("config error: population_size must be positive")
	}
	if c.ChildrenCount <= 0 {
		return fmt.Errorf("config error: children_count must be positive")
	}
	if c.GenerationsCount < 0 {
		return fmt.Errorf("config error: generations_count cannot be negative")
	}
	if c.ResultsCount <= 0 {
		return fmt.Errorf("config error: results_count must be positive")
	}
	if c.RepeatsCount < 0 {
		return fmt.Errorf("config error: repeats_count cannot be negative")
	}
	if c.Workers <= 0 {
		return fmt.Errorf("config error: workers must be positive")
	}
	if c.ReportInterval < 0 {
		return fmt.Errorf("config error: report_interval cannot be negative")
	}
	return nil
}

// Config is a loaded configuration file. The [Genetic] section is mapped to
// the search Context, other sections are mapped on demand by their owners.
type Config struct {
	Genetic Context

	file *ini.File
}

// DefaultConfig returns a configuration that is not backed by a file.
func DefaultConfig() *Config {
	return &Config{Genetic: DefaultContext()}
}

// LoadConfig loads configuration parameters from an INI file.
// Keys missing from the file keep their default values.
func LoadConfig(filePath string) (*Config, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		SpaceBeforeInlineComment: true, // values such as "; " stay intact
	}, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file '%s': %w", filePath, err)
	}

	config := &Config{Genetic: DefaultContext(), file: file}
	if err := file.Section("Genetic").MapTo(&config.Genetic); err != nil {
		return nil, fmt.Errorf("failed to map [Genetic] section: %w", err)
	}
	if err := config.Genetic.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// MapSection maps the named section onto v. Fields of v whose keys are absent
// are left untouched, so callers pre-fill v with their defaults.
func (c *Config) MapSection(name string, v any) error {
	if c.file == nil {
		return nil
	}
	if err := c.file.Section(name).MapTo(v); err != nil {
		return fmt.Errorf("failed to map [%s] section: %w", name, err)
	}
	return nil
}
