package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the runtime settings.
type Config struct {
	DataFile        string        `mapstructure:"data_file"`   // 지역별 면허 반납 현황 파일
	TargetYear      int           `mapstructure:"target_year"` // 지역 비율을 계산할 연도
	TrendYears      []int         `mapstructure:"trend_years"`
	ExportFile      string        `mapstructure:"export_file"`
	LogName         string        `mapstructure:"log_name"`
	LogMaxSize      string        `mapstructure:"log_max_size"` // e.g. "10 * 1024 * 1024"
	LogLevel        string        `mapstructure:"log_level"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
}

// YearColumns names the elderly and total columns of one year. Empty fields
// fall back to the templates in DataConfig.
type YearColumns struct {
	Elderly string `mapstructure:"elderly"`
	Total   string `mapstructure:"total"`
}

// DataConfig describes the dataset header.
type DataConfig struct {
	RegionColumn  string                 `mapstructure:"region_column"`
	ElderlyFormat string                 `mapstructure:"elderly_format"`
	TotalFormat   string                 `mapstructure:"total_format"`
	YearOverrides map[string]YearColumns `mapstructure:"year_overrides"`
	SummaryRows   []string               `mapstructure:"summary_rows"` // 전국/합계 rows, left out of sums
	Encodings     []string               `mapstructure:"encodings"`    // 앞에서부터 순서대로 시도
	Delimiter     string                 `mapstructure:"delimiter"`
}

const (
	envPrefix     = "SURRENDER"
	dataEnvPrefix = "SURRENDER_DATA"
)

// LoadConfig reads jsonFile and dataJsonFile from jsonFolder. A file that does
// not exist leaves the defaults in place; a file that exists but fails to
// parse is an error. Environment variables override both.
func LoadConfig(jsonFolder, jsonFile, dataJsonFile string) (*Config, *DataConfig, error) {
	cfgChan := make(chan *Config, 1)
	dcfgChan := make(chan *DataConfig, 1)
	errChan := make(chan error, 2)

	go parseConfig(jsonFolder, jsonFile, cfgChan, errChan)
	go parseDataConfig(jsonFolder, dataJsonFile, dcfgChan, errChan)

	return waitForResults(cfgChan, dcfgChan, errChan)
}

func newViper(folder, file, prefix string) *viper.Viper {
	v := viper.New()
	v.SetConfigName(strings.TrimSuffix(file, filepath.Ext(file)))
	v.SetConfigType("json")
	v.AddConfigPath(folder)
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func readIn(v *viper.Viper, file string) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read %s: %w", file, err)
	}
	return nil
}

func parseConfig(folder, file string, resultChan chan<- *Config, errChan chan<- error) {
	v := newViper(folder, file, envPrefix)
	SetDefaults(v)

	if err := readIn(v, file); err != nil {
		errChan <- err
		return
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		errChan <- fmt.Errorf("decode %s: %w", file, err)
		return
	}
	resultChan <- &cfg
}

func parseDataConfig(folder, file string, resultChan chan<- *DataConfig, errChan chan<- error) {
	v := newViper(folder, file, dataEnvPrefix)
	SetDataDefaults(v)

	if err := readIn(v, file); err != nil {
		errChan <- err
		return
	}

	var dcfg DataConfig
	if err := v.Unmarshal(&dcfg); err != nil {
		errChan <- fmt.Errorf("decode %s: %w", file, err)
		return
	}
	if err := dcfg.Validate(); err != nil {
		errChan <- fmt.Errorf("%s: %w", file, err)
		return
	}
	resultChan <- &dcfg
}

func waitForResults(
	cfgChan <-chan *Config,
	dcfgChan <-chan *DataConfig,
	errChan <-chan error,
) (*Config, *DataConfig, error) {
	var (
		cfg  *Config
		dcfg *DataConfig
		errs []error
	)

	for i := 0; i < 2; i++ {
		select {
		case c := <-cfgChan:
			cfg = c
		case d := <-dcfgChan:
			dcfg = d
		case err := <-errChan:
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return nil, nil, combineErrors(errs)
	}
	return cfg, dcfg, nil
}

func combineErrors(errs []error) error {
	if len(errs) == 1 {
		return fmt.Errorf("load config: %w", errs[0])
	}
	return fmt.Errorf("load config: %w", errors.Join(errs...))
}

// SetDefaults registers the runtime defaults on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("data_file", "data/license_surrender.csv")
	v.SetDefault("target_year", 2023)
	v.SetDefault("trend_years", []int{2019, 2020, 2021, 2022, 2023})
	v.SetDefault("export_file", "traffic_safety.xlsx")
	v.SetDefault("log_name", "app.log")
	v.SetDefault("log_max_size", "10 * 1024 * 1024")
	v.SetDefault("log_level", "info")
	v.SetDefault("refresh_interval", "10m")
}

// SetDataDefaults registers the dataset header defaults on v. The most recent
// year of the published file writes its elderly column without a space.
func SetDataDefaults(v *viper.Viper) {
	v.SetDefault("region_column", "지역")
	v.SetDefault("elderly_format", "%d 65세 이상")
	v.SetDefault("total_format", "%d 전체")
	v.SetDefault("year_overrides", map[string]any{
		"2023": map[string]any{"elderly": "2023 65세이상"},
	})
	v.SetDefault("summary_rows", []string{"전국", "합계"})
	v.SetDefault("encodings", []string{"utf-8", "euc-kr", "windows-949"})
	v.SetDefault("delimiter", ",")
}

// Validate checks the fields every loader depends on.
func (dc *DataConfig) Validate() error {
	if strings.TrimSpace(dc.RegionColumn) == "" {
		return fmt.Errorf("region_column is empty")
	}
	if strings.Count(dc.ElderlyFormat, "%d") != 1 || strings.Count(dc.TotalFormat, "%d") != 1 {
		return fmt.Errorf("column formats need exactly one %%d verb")
	}
	if len(dc.Encodings) == 0 {
		return fmt.Errorf("encodings is empty")
	}
	if len([]rune(dc.Delimiter)) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", dc.Delimiter)
	}
	for key := range dc.YearOverrides {
		if _, err := strconv.Atoi(key); err != nil {
			return fmt.Errorf("year_overrides key %q is not a year", key)
		}
	}
	return nil
}

// Overrides returns YearOverrides keyed by numeric year.
func (dc *DataConfig) Overrides() map[int]YearColumns {
	out := make(map[int]YearColumns, len(dc.YearOverrides))
	for key, cols := range dc.YearOverrides {
		year, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		out[year] = cols
	}
	return out
}

// DelimiterRune returns the delimiter as a rune, ',' when unset.
func (dc *DataConfig) DelimiterRune() rune {
	r := []rune(dc.Delimiter)
	if len(r) != 1 {
		return ','
	}
	return r[0]
}
