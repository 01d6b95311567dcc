package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/blocksearch/internal/flagx"
	"github.com/dmitrijs2005/blocksearch/internal/timex"
	"github.com/pelletier/go-toml/v2"
)

// FileConfig is the on-disk shape of the config file. Pointer fields keep
// "absent" apart from "set to the zero value", so a partial file only
// overrides what it names.
type FileConfig struct {
	HTTPAddr                *string         `json:"http_addr" toml:"http_addr"`
	GRPCHealthAddr          *string         `json:"grpc_health_addr" toml:"grpc_health_addr"`
	SecretKey               *string         `json:"secret_key" toml:"secret_key"`
	SessionValidityDuration *timex.Duration `json:"session_validity_duration" toml:"session_validity_duration"`
	CookieName              *string         `json:"cookie_name" toml:"cookie_name"`
	CookieSecure            *bool           `json:"cookie_secure" toml:"cookie_secure"`
	LogLevel                *string         `json:"log_level" toml:"log_level"`
	UserBackend             *string         `json:"user_backend" toml:"user_backend"`
	DatabaseDSN             *string         `json:"database_dsn" toml:"database_dsn"`
	TabularBackend          *string         `json:"tabular_backend" toml:"tabular_backend"`
	SpreadsheetID           *string         `json:"spreadsheet_id" toml:"spreadsheet_id"`
	GoogleCredentialsFile   *string         `json:"google_credentials_file" toml:"google_credentials_file"`
	GoogleCredentialsJSON   *string         `json:"google_credentials_json" toml:"google_credentials_json"`
	WorkbookStorage         *string         `json:"workbook_storage" toml:"workbook_storage"`
	WorkbookPath            *string         `json:"workbook_path" toml:"workbook_path"`
	S3AccessKey             *string         `json:"s3_access_key" toml:"s3_access_key"`
	S3SecretKey             *string         `json:"s3_secret_key" toml:"s3_secret_key"`
	S3Bucket                *string         `json:"s3_bucket" toml:"s3_bucket"`
	S3Region                *string         `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint          *string         `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
}

// parseFile loads the file named by -c/-config, if any. Files ending in
// .toml are decoded as TOML, everything else as JSON. Unreadable or
// malformed files panic.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	if err := loadFile(config, path); err != nil {
		panic(err)
	}
}

func loadFile(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	fc, err := decodeFile(path, data)
	if err != nil {
		return err
	}

	fc.apply(config)
	return nil
}

func decodeFile(path string, data []byte) (*FileConfig, error) {
	fc := &FileConfig{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, fc); err != nil {
			return nil, err
		}
		return fc, nil
	}
	if err := json.Unmarshal(data, fc); err != nil {
		return nil, err
	}
	return fc, nil
}

func (fc *FileConfig) apply(config *Config) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}

	set(&config.HTTPAddr, fc.HTTPAddr)
	set(&config.GRPCHealthAddr, fc.GRPCHealthAddr)
	set(&config.SecretKey, fc.SecretKey)
	set(&config.CookieName, fc.CookieName)
	set(&config.LogLevel, fc.LogLevel)
	set(&config.UserBackend, fc.UserBackend)
	set(&config.DatabaseDSN, fc.DatabaseDSN)
	set(&config.TabularBackend, fc.TabularBackend)
	set(&config.SpreadsheetID, fc.SpreadsheetID)
	set(&config.GoogleCredentialsFile, fc.GoogleCredentialsFile)
	set(&config.GoogleCredentialsJSON, fc.GoogleCredentialsJSON)
	set(&config.WorkbookStorage, fc.WorkbookStorage)
	set(&config.WorkbookPath, fc.WorkbookPath)
	set(&config.S3AccessKey, fc.S3AccessKey)
	set(&config.S3SecretKey, fc.S3SecretKey)
	set(&config.S3Bucket, fc.S3Bucket)
	set(&config.S3Region, fc.S3Region)
	set(&config.S3BaseEndpoint, fc.S3BaseEndpoint)

	if fc.SessionValidityDuration != nil {
		config.SessionValidityDuration = fc.SessionValidityDuration.Duration
	}
	if fc.CookieSecure != nil {
		config.CookieSecure = *fc.CookieSecure
	}
}
