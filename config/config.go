package config

import (
	"log"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
	} `mapstructure:"database"`
	Redis struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Server struct {
		Port string `mapstructure:"port"`
	} `mapstructure:"server"`
	JWT struct {
		SecretKey    string `mapstructure:"secret_key"`
		ExpiryHours  int    `mapstructure:"expiry_hours"`
		CookieSecure bool   `mapstructure:"cookie_secure"`
	} `mapstructure:"jwt"`
	OTP struct {
		ExpiryMinutes int `mapstructure:"expiry_minutes"`
	} `mapstructure:"otp"`
	SMTP struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
		// OverrideRecipient, when set, redirects every outbound mail to a
		// single address. Carried over from the original login flow, where
		// the OTP recipient was pinned. Leave empty in production.
		OverrideRecipient string `mapstructure:"override_recipient"`
	} `mapstructure:"smtp"`
}

var AppConfig Config

func LoadConfig(path string) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yml")

	viper.SetDefault("jwt.expiry_hours", 72)
	viper.SetDefault("otp.expiry_minutes", 10)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		log.Fatalf("Error reading config file, %s", err)
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}
}
