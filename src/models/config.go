package models

// MConfig Structure
type MConfig struct {
	Name     string         `yaml:"name"`
	Host     string         `yaml:"host"`
	Port     int            `yaml:"port"`
	LogLevel string         `yaml:"log_level"`
	Storage  MStorageConfig `yaml:"storage"`
	Reports  MReportsConfig `yaml:"reports"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	DataRetentionDays  int    `yaml:"data_retention_days"`
}

type MReportsConfig struct {
	Dir           string          `yaml:"dir"`
	AdminToken    string          `yaml:"admin_token"` // Empty falls back to REPORTS_ADMIN_TOKEN env
	MaxConcurrent int             `yaml:"max_concurrent"`
	Schedule      MScheduleConfig `yaml:"schedule"`
}

type MScheduleConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Hour            int    `yaml:"hour"`
	Minute          int    `yaml:"minute"`
	Timezone        string `yaml:"timezone"`
	TradingDaysOnly bool   `yaml:"trading_days_only"`
	CalendarSymbol  string `yaml:"calendar_symbol"`
}
