// Package config loads application configuration from environment variables.
package config

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time parses duration values

	"github.com/iliyamo/smart-parking/internal/model"
)

// Config holds all runtime configuration values.  Each field corresponds
// to one or more environment variables.  The lot layout and hourly rates
// are deliberately configurable: the billing granularity and spot
// numbering are policy, not hard requirements.
type Config struct {
	Env         string                       // application environment (e.g. "dev", "prod")
	Port        string                       // HTTP port to listen on
	LotLayout   map[model.VehicleType]int    // number of spots per vehicle type
	HourlyRates map[model.VehicleType]int64  // fee per started hour per vehicle type
}

// Load reads configuration values from environment variables and returns
// a Config.  APP_ENV and APP_PORT are required; lot layout and rates fall
// back to the facility defaults (20 car / 10 bike / 5 truck spots at
// 20 / 10 / 40 per hour).
func Load() Config {
	return Config{
		Env:  must("APP_ENV"),  // environment (dev/test/prod)
		Port: must("APP_PORT"), // port to bind the HTTP server
		LotLayout: map[model.VehicleType]int{
			model.VehicleCar:   atoi(getenv("LOT_CAR_SPOTS", "20")),
			model.VehicleBike:  atoi(getenv("LOT_BIKE_SPOTS", "10")),
			model.VehicleTruck: atoi(getenv("LOT_TRUCK_SPOTS", "5")),
		},
		HourlyRates: map[model.VehicleType]int64{
			model.VehicleCar:   int64(atoi(getenv("RATE_CAR_PER_HOUR", "20"))),
			model.VehicleBike:  int64(atoi(getenv("RATE_BIKE_PER_HOUR", "10"))),
			model.VehicleTruck: int64(atoi(getenv("RATE_TRUCK_PER_HOUR", "40"))),
		},
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// getenv returns the variable's value or the given default when unset.
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

func parseDur(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Second
	}
	return d
}

func envBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return def
}
