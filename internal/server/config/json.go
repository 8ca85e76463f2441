package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/driveaccess/internal/flagx"
)

// Duration reads either a Go duration string ("1.5s") or integer
// nanoseconds from JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch val := v.(type) {
	case float64:
		*d = Duration(time.Duration(val))
	case string:
		parsed, err := time.ParseDuration(val)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is the on-disk shape of the -c file. Absent or zero fields
// leave the current value untouched.
type JsonConfig struct {
	BotToken            string            `json:"bot_token"`
	AdminIDs            []int64           `json:"admin_ids"`
	Locale              string            `json:"locale"`
	Teams               []string          `json:"team_choices"`
	FolderMap           map[string]string `json:"team_folder_map"`
	DefaultFolder       string            `json:"default_drive_folder"`
	CredentialsPath     string            `json:"google_credentials_path"`
	DelegatedUser       string            `json:"google_delegated_user"`
	AutoNotifyOnStart   *bool             `json:"auto_notify_on_start"`
	FilePanelLimit      int               `json:"file_panel_limit"`
	PhoneRegion         string            `json:"phone_region"`
	StorageDriver       string            `json:"storage_driver"`
	DatabaseDSN         string            `json:"database_dsn"`
	GRPCAddr            string            `json:"grpc_addr"`
	AdminTokenSecret    string            `json:"admin_token_secret"`
	MaxGrantAttempts    int               `json:"max_grant_attempts"`
	GrantBackoffUnit    Duration          `json:"grant_backoff_unit"`
	GrantBackoffCap     Duration          `json:"grant_backoff_cap"`
	GrantAttemptTimeout Duration          `json:"grant_attempt_timeout"`
	BroadcastInterval   Duration          `json:"broadcast_interval"`
	ExportS3Bucket      string            `json:"export_s3_bucket"`
	ExportS3Region      string            `json:"export_s3_region"`
	ExportS3Endpoint    string            `json:"export_s3_endpoint"`
	ExportS3AccessKey   string            `json:"export_s3_access_key"`
	ExportS3SecretKey   string            `json:"export_s3_secret_key"`
	LogLevel            string            `json:"log_level"`
	LogFormat           string            `json:"log_format"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v Duration) {
	if v != 0 {
		*dst = time.Duration(v)
	}
}

// parseJSON loads the file named by -c/-config, if any, into config.
func parseJSON(config *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file error: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("config file error: %w", err)
	}

	setString(&config.BotToken, c.BotToken)
	if len(c.AdminIDs) > 0 {
		config.AdminIDs = c.AdminIDs
	}
	setString(&config.Locale, c.Locale)
	if len(c.Teams) > 0 {
		config.Teams = c.Teams
	}
	if len(c.FolderMap) > 0 {
		config.FolderMap = c.FolderMap
	}
	setString(&config.DefaultFolder, c.DefaultFolder)
	setString(&config.CredentialsPath, c.CredentialsPath)
	setString(&config.DelegatedUser, c.DelegatedUser)
	if c.AutoNotifyOnStart != nil {
		config.AutoNotifyOnStart = Switch(*c.AutoNotifyOnStart)
	}
	setInt(&config.FilePanelLimit, c.FilePanelLimit)
	setString(&config.PhoneRegion, c.PhoneRegion)
	setString(&config.StorageDriver, c.StorageDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.AdminTokenSecret, c.AdminTokenSecret)
	setInt(&config.MaxGrantAttempts, c.MaxGrantAttempts)
	setDuration(&config.GrantBackoffUnit, c.GrantBackoffUnit)
	setDuration(&config.GrantBackoffCap, c.GrantBackoffCap)
	setDuration(&config.GrantAttemptTimeout, c.GrantAttemptTimeout)
	setDuration(&config.BroadcastInterval, c.BroadcastInterval)
	setString(&config.ExportS3Bucket, c.ExportS3Bucket)
	setString(&config.ExportS3Region, c.ExportS3Region)
	setString(&config.ExportS3Endpoint, c.ExportS3Endpoint)
	setString(&config.ExportS3AccessKey, c.ExportS3AccessKey)
	setString(&config.ExportS3SecretKey, c.ExportS3SecretKey)
	setString(&config.LogLevel, c.LogLevel)
	setString(&config.LogFormat, c.LogFormat)

	return nil
}
