package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// GetEnv loads .env (if present) and fills Config from the environment.
// Variables that are unset fall back to their envDefault tag.
func GetEnv() (config *Config, er error) {
	err := godotenv.Load()
	if err != nil {
		_ = godotenv.Load("../../.env")
	}

	config = &Config{}
	if err := load(config, os.LookupEnv); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func load(config *Config, lookup func(string) (string, bool)) error {
	v := reflect.ValueOf(config).Elem()
	t := v.Type()

	for i := range make([]struct{}, v.NumField()) {
		field := t.Field(i)
		envTag := field.Tag.Get("env")
		if envTag == "" {
			continue
		}

		value, exists := lookup(envTag)
		if !exists {
			value, exists = field.Tag.Lookup("envDefault")
		}
		if !exists {
			return fmt.Errorf("environment variable %s not set", envTag)
		}
		value = strings.TrimSpace(value)

		switch field.Type.Kind() {
		case reflect.String:
			v.Field(i).SetString(value)
		case reflect.Int:
			if value == "" {
				continue
			}
			intValue, err := strconv.Atoi(value)
			if err != nil {
				return fmt.Errorf("invalid value for %s: %v", envTag, err)
			}
			v.Field(i).SetInt(int64(intValue))
		case reflect.Bool:
			if value == "" {
				continue
			}
			boolValue, err := strconv.ParseBool(value)
			if err != nil {
				return fmt.Errorf("invalid boolean value for %s: %v", envTag, err)
			}
			v.Field(i).SetBool(boolValue)
		default:
			return fmt.Errorf("unsupported config field type %s for %s", field.Type, envTag)
		}
	}

	return nil
}

func (c *Config) validate() error {
	if !c.AppEnv.IsValid() {
		return fmt.Errorf("invalid APP_ENV %q", c.AppEnv)
	}
	if c.AppPort <= 0 || c.AppPort > 65535 {
		return fmt.Errorf("invalid APP_PORT %d", c.AppPort)
	}
	if c.PaystackTimeoutSeconds < 0 {
		return fmt.Errorf("PAYSTACK_TIMEOUT_SECONDS must not be negative")
	}
	return nil
}

// CorsOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) CorsOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CorsAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
