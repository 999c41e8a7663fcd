package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	ThreadTokenTTL    time.Duration `mapstructure:"THREAD_TOKEN_TTL"`

	// Scheduling.
	BusinessTimezone     string `mapstructure:"BUSINESS_TIMEZONE"`
	CalendarID           string `mapstructure:"CALENDAR_ID"`
	CalendarSendUpdates  string `mapstructure:"CALENDAR_SEND_UPDATES"`
	SlotSearchMaxResults int    `mapstructure:"SLOT_SEARCH_MAX_RESULTS"`
	SlotSearchMaxProbes  int    `mapstructure:"SLOT_SEARCH_MAX_PROBES"`

	// Calendar credentials. CredentialSource is one of
	// auto, service_account, oauth, token_file.
	CredentialSource        string `mapstructure:"CREDENTIAL_SOURCE"`
	GoogleCredentials       string `mapstructure:"GOOGLE_CREDENTIALS"`
	GoogleCredentialsFile   string `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	ServiceAccountEmailHint string `mapstructure:"SERVICE_ACCOUNT_EMAIL_HINT"`
	CalendarImpersonate     string `mapstructure:"CALENDAR_IMPERSONATE"`
	GoogleClientID          string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret      string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRefreshToken      string `mapstructure:"GOOGLE_REFRESH_TOKEN"`
	TokenFile               string `mapstructure:"TOKEN_FILE"`
	TokenEncryptionKey      string `mapstructure:"TOKEN_ENCRYPTION_KEY"`

	// Assistants.
	GeminiAPIKey        string        `mapstructure:"GEMINI_API_KEY"`
	GeminiSolarModel    string        `mapstructure:"GEMINI_SOLAR_MODEL"`
	GeminiCalendarModel string        `mapstructure:"GEMINI_CALENDAR_MODEL"`
	ChatContextTTL      time.Duration `mapstructure:"CHAT_CONTEXT_TTL"`

	// Google Maps API Key, used for geocoding.
	GoogleAPIKey  string        `mapstructure:"GOOGLE_API_KEY"`
	PVGISURL      string        `mapstructure:"PVGIS_URL"`
	SolarCacheTTL time.Duration `mapstructure:"SOLAR_CACHE_TTL"`

	// Lead capture.
	AirtableAPIKey string `mapstructure:"AIRTABLE_API_KEY"`
	AirtableBaseID string `mapstructure:"AIRTABLE_BASE_ID"`
	AirtableTable  string `mapstructure:"AIRTABLE_TABLE"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DatabaseName   string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisChatDB   int    `mapstructure:"REDIS_CHAT_DB"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// setDefaults also registers every key so AutomaticEnv picks it up on Unmarshal.
func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("THREAD_TOKEN_TTL", 24*time.Hour)

	viper.SetDefault("BUSINESS_TIMEZONE", "Europe/Berlin")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("CALENDAR_SEND_UPDATES", "all")
	viper.SetDefault("SLOT_SEARCH_MAX_RESULTS", 3)
	viper.SetDefault("SLOT_SEARCH_MAX_PROBES", 24)

	viper.SetDefault("CREDENTIAL_SOURCE", "auto")
	viper.SetDefault("GOOGLE_CREDENTIALS", "")
	viper.SetDefault("GOOGLE_CREDENTIALS_FILE", "credentials.json")
	viper.SetDefault("SERVICE_ACCOUNT_EMAIL_HINT", "")
	viper.SetDefault("CALENDAR_IMPERSONATE", "")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REFRESH_TOKEN", "")
	viper.SetDefault("TOKEN_FILE", "token.json")
	viper.SetDefault("TOKEN_ENCRYPTION_KEY", "")

	viper.SetDefault("GEMINI_API_KEY", "")
	viper.SetDefault("GEMINI_SOLAR_MODEL", "gemini-1.5-pro")
	viper.SetDefault("GEMINI_CALENDAR_MODEL", "gemini-1.5-pro")
	viper.SetDefault("CHAT_CONTEXT_TTL", 30*time.Minute)

	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("PVGIS_URL", "https://re.jrc.ec.europa.eu/api/v5_2/PVcalc")
	viper.SetDefault("SOLAR_CACHE_TTL", 24*time.Hour)

	viper.SetDefault("AIRTABLE_API_KEY", "")
	viper.SetDefault("AIRTABLE_BASE_ID", "")
	viper.SetDefault("AIRTABLE_TABLE", "Leads")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "solarbot")

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CHAT_DB", 0)
	viper.SetDefault("REDIS_CACHE_DB", 1)
	viper.SetDefault("REDIS_QUEUE_DB", 2)
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// BusinessLocation resolves BUSINESS_TIMEZONE, falling back to UTC when the
// zone database does not know it.
func BusinessLocation() (*time.Location, error) {
	name := AppConfig.BusinessTimezone
	if name == "" {
		name = "Europe/Berlin"
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}
