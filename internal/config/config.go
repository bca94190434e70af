package config

import (
	"github.com/garasindo/wms/internal/logger"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Upload    UploadConfig    `mapstructure:"upload"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type SchedulerConfig struct {
	StatusInterval int `mapstructure:"status_interval"` // seconds
	RecalcInterval int `mapstructure:"recalc_interval"` // seconds
	RecalcWorkers  int `mapstructure:"recalc_workers"`  // pool size for fleet recalculation
}

type UploadConfig struct {
	Dir          string `mapstructure:"dir"`
	MaxPhotos    int    `mapstructure:"max_photos"`
	MaxSizeBytes int64  `mapstructure:"max_size_bytes"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error, fatal
	Output string `mapstructure:"output"` // stdout, stderr, file
	File   string `mapstructure:"file"`   // log file path when output is file
}

// GetLevel implements the logger.LogConfig interface.
func (l LogConfig) GetLevel() string {
	return l.Level
}

// GetOutput implements the logger.LogConfig interface.
func (l LogConfig) GetOutput() string {
	return l.Output
}

// GetFile implements the logger.LogConfig interface.
func (l LogConfig) GetFile() string {
	return l.File
}

func Load() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/wms")

	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.mode", "debug")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "")
	viper.SetDefault("database.dbname", "workshop")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("scheduler.status_interval", 60)
	viper.SetDefault("scheduler.recalc_interval", 300)
	viper.SetDefault("scheduler.recalc_workers", 4)
	viper.SetDefault("upload.dir", "uploads")
	viper.SetDefault("upload.max_photos", 5)
	viper.SetDefault("upload.max_size_bytes", 5<<20)
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.output", "stdout")
	viper.SetDefault("log.file", "logs/app.log")

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logger.Warn("Warning: Could not read config file: %v", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		logger.Fatal("Unable to decode config into struct: %v", err)
	}

	return &config
}
