package toml

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

type TomlConfig struct {
	AppName     string
	Environment string
	Log         LogConfig
	Http        HttpConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Device      DeviceConfig
	Portal      PortalConfig
	Pipeline    PipelineConfig
	Cron        CronConfig
}

type LogConfig struct {
	Path  string
	Level string
}

type HttpConfig struct {
	Addr string
}

type MongoConfig struct {
	Uri      string
	Database string
}

type RedisConfig struct {
	Urls           []string
	Password       string
	DeviceCacheTTL int
}

type DeviceConfig struct {
	Name string
	Id   string
}

type PortalConfig struct {
	BaseUrl            string
	Username           string
	Password           string
	DownloadDir        string
	StepTimeoutSeconds int
}

type PipelineConfig struct {
	RawFile string
}

type CronConfig struct {
	Enabled  bool
	Schedule string
}

var c TomlConfig // c is type TomlConfig

func init() {
	//viper is used as a configuration solution for Go Applications
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()
	// secrets are read from the environment only, never from config.toml
	viper.BindEnv("mongo.uri", "MONGO_URI")
	viper.BindEnv("device.name", "DEVICE_NAME")
	viper.BindEnv("device.id", "DEVICE_ID")
	viper.BindEnv("portal.baseurl", "PORTAL_BASE_URL")
	viper.BindEnv("portal.username", "PORTAL_USERNAME")
	viper.BindEnv("portal.password", "PORTAL_PASSWORD")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println(err)
	}
	viper.Unmarshal(&c) // from low level format to object (json) structure
}

func GetConfig() TomlConfig {
	return c
}

// ValidateMongo checks the settings every process needs to reach the
// store. These have no defaults, absence is a startup failure.
func ValidateMongo() error {
	return requireAll(map[string]string{
		"MONGO_URI": c.Mongo.Uri,
	})
}

// ValidateDevice checks the settings the ETL stages need.
func ValidateDevice() error {
	return requireAll(map[string]string{
		"DEVICE_NAME": c.Device.Name,
	})
}

// ValidatePortal checks the settings the scraper needs.
func ValidatePortal() error {
	return requireAll(map[string]string{
		"PORTAL_BASE_URL": c.Portal.BaseUrl,
		"PORTAL_USERNAME": c.Portal.Username,
		"PORTAL_PASSWORD": c.Portal.Password,
		"DEVICE_NAME":     c.Device.Name,
		"DEVICE_ID":       c.Device.Id,
	})
}

func requireAll(keys map[string]string) error {
	var missing []string
	for k, v := range keys {
		if v == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
