package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/lookup"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/monday"
	"github.com/sansonsan-1-5-9/woc-monday-streamlit-app/woc"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "wocmonday.yaml"

// Config holds all wocmonday configuration.
type Config struct {
	Output   OutputConfig   `yaml:"output"`
	Lookups  LookupConfig   `yaml:"lookups"`
	Filter   FilterConfig   `yaml:"filter"`
	Schedule ScheduleConfig `yaml:"schedule"`
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// OutputConfig names the generated files. Relative names resolve against Dir.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	MondayFile   string `yaml:"monday_file"`
	BusinessFile string `yaml:"business_file"`
	ConsumerFile string `yaml:"consumer_file"`
	PDFDir       string `yaml:"pdf_dir"`
	ZipFile      string `yaml:"zip_file"`
	Zip          bool   `yaml:"zip"`
}

// Lookup table sources.
const (
	SourceWorkbook = "workbook"
	SourceSQLite   = "sqlite"
)

// ValidSources lists the supported lookup sources.
var ValidSources = []string{SourceWorkbook, SourceSQLite}

// LookupConfig says where the region, contractor and product tables come
// from. The workbooks are also the input of `tables import`.
type LookupConfig struct {
	Source       string      `yaml:"source"` // workbook, sqlite
	DatabasePath string      `yaml:"database_path"`
	Regions      SheetConfig `yaml:"regions"`
	Contractors  SheetConfig `yaml:"contractors"`
	Products     SheetConfig `yaml:"products"`
}

type SheetConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"` // empty selects the first sheet
}

// FilterConfig holds the wocOrderStatus allow-lists of both pipelines.
type FilterConfig struct {
	MondayStatuses    []string `yaml:"monday_statuses"`
	WorkOrderStatuses []string `yaml:"workorder_statuses"`
}

type ScheduleConfig struct {
	BookingDays int `yaml:"booking_days"`
}

// ServerConfig configures `wocmonday serve`. With the sqlite lookup source
// the server polls the store every ReloadSeconds and swaps in newly imported
// tables; 0 disables polling.
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxUploadMB    int      `yaml:"max_upload_mb"`
	ReloadSeconds  int      `yaml:"reload_seconds"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Dir:          ".",
			MondayFile:   monday.CombinedFile,
			BusinessFile: monday.BusinessFile,
			ConsumerFile: monday.ConsumerFile,
			PDFDir:       "generated_pdfs",
			ZipFile:      "generated_pdfs.zip",
			Zip:          true,
		},
		Lookups: LookupConfig{
			Source:       SourceWorkbook,
			DatabasePath: "data/lookups.db",
			Regions:      SheetConfig{Path: "Datafiler/Kommune_Fylke_Oversikt.xlsx", Sheet: "Ark1"},
			Contractors:  SheetConfig{Path: "Datafiler/Fordeling_Entreprenor.xlsx", Sheet: "Postnummerregister"},
			Products:     SheetConfig{Path: "Datafiler/WOC_Prioritering_Produktkategorier.xlsx"},
		},
		Filter: FilterConfig{
			MondayStatuses:    append([]string(nil), woc.MondayStatuses...),
			WorkOrderStatuses: append([]string(nil), woc.WorkOrderStatuses...),
		},
		Schedule: ScheduleConfig{BookingDays: monday.DefaultBookingDays},
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"*"},
			MaxUploadMB:    32,
			ReloadSeconds:  60,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
// Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if dir := os.Getenv("WOC_OUTPUT_DIR"); dir != "" {
		c.Output.Dir = dir
	}
	if src := os.Getenv("WOC_LOOKUP_SOURCE"); src != "" {
		c.Lookups.Source = src
	}
	if db := os.Getenv("WOC_LOOKUP_DB"); db != "" {
		c.Lookups.DatabasePath = db
	}
	if level := os.Getenv("WOC_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
	if port := os.Getenv("WOC_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid WOC_PORT %q: %w", port, err)
		}
		c.Server.Port = p
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if !slices.Contains(ValidSources, c.Lookups.Source) {
		return fmt.Errorf("invalid lookup source: %s (valid: %v)", c.Lookups.Source, ValidSources)
	}
	if c.Lookups.Source == SourceSQLite && c.Lookups.DatabasePath == "" {
		return fmt.Errorf("lookup source sqlite needs lookups.database_path")
	}
	if len(c.Filter.MondayStatuses) == 0 || len(c.Filter.WorkOrderStatuses) == 0 {
		return fmt.Errorf("status allow-lists must not be empty")
	}
	if c.Schedule.BookingDays < 0 {
		return fmt.Errorf("schedule.booking_days must not be negative: %d", c.Schedule.BookingDays)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive: %d", c.Server.MaxUploadMB)
	}
	if c.Server.ReloadSeconds < 0 {
		return fmt.Errorf("server.reload_seconds must not be negative: %d", c.Server.ReloadSeconds)
	}
	return nil
}

// =============================================================================
// RESOLVED PATHS
// =============================================================================

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}

// MondayFiles are the three Monday imports.
func (c *Config) MondayFiles() monday.Files {
	return monday.Files{
		Combined: c.resolve(c.Output.MondayFile),
		Business: c.resolve(c.Output.BusinessFile),
		Consumer: c.resolve(c.Output.ConsumerFile),
	}
}

// PDFRoot is the directory the work-order sheets are filed under.
func (c *Config) PDFRoot() string { return c.resolve(c.Output.PDFDir) }

// ZipPath is the archive of PDFRoot, "" when zipping is off.
func (c *Config) ZipPath() string {
	if !c.Output.Zip {
		return ""
	}
	return c.resolve(c.Output.ZipFile)
}

// Workbooks locates the lookup workbooks.
func (c *Config) Workbooks() lookup.Workbooks {
	sheet := func(s SheetConfig) lookup.Sheet { return lookup.Sheet{Path: s.Path, Name: s.Sheet} }
	return lookup.Workbooks{
		Regions:     sheet(c.Lookups.Regions),
		Contractors: sheet(c.Lookups.Contractors),
		Products:    sheet(c.Lookups.Products),
	}
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string { return ":" + strconv.Itoa(c.Server.Port) }

// ReloadInterval is the table polling period, 0 when off.
func (c *Config) ReloadInterval() time.Duration {
	return time.Duration(c.Server.ReloadSeconds) * time.Second
}

// MaxUploadBytes caps request bodies of the upload endpoints.
func (c *Config) MaxUploadBytes() int64 { return int64(c.Server.MaxUploadMB) << 20 }
