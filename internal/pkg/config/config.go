package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (rates, timeouts, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Booking BookingConfig
	Pricing PricingConfig
	Gateway GatewayConfig
	Ops     OpsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"America/Bogota"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,X-Cron-Secret"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"America/Bogota"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"-18000"` // -5*60*60
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// BookingConfig carries the commercial rule parameters. They are injected
// into the validator at construction so tests can supply fixtures.
type BookingConfig struct {
	MinGroupSize    int           `envconfig:"BOOKING_MIN_GROUP_SIZE" default:"10"`
	FamilyMaxGuests int           `envconfig:"BOOKING_FAMILY_MAX_GUESTS" default:"5"`
	PaymentWindow   time.Duration `envconfig:"BOOKING_PAYMENT_WINDOW" default:"60m"`
}

// PricingConfig carries the published 2026 rate card in COP.
type PricingConfig struct {
	Currency       string `envconfig:"PRICING_CURRENCY" default:"COP"`
	DayPassRate    int64  `envconfig:"PRICING_DAY_PASS_RATE" default:"25000"`
	WeekdayRate    int64  `envconfig:"PRICING_WEEKDAY_RATE" default:"55000"`
	WeekendRate    int64  `envconfig:"PRICING_WEEKEND_RATE" default:"60000"`
	HolidayRate    int64  `envconfig:"PRICING_HOLIDAY_RATE" default:"70000"`
	FamilyPlanRate int64  `envconfig:"PRICING_FAMILY_PLAN_RATE" default:"420000"`
	CleaningFee    int64  `envconfig:"PRICING_CLEANING_FEE" default:"70000"`
	Deposit        int64  `envconfig:"PRICING_DEPOSIT" default:"200000"`
}

// GatewayConfig configures the online payment provider integration. The
// dummy gateway only needs the signing secret.
type GatewayConfig struct {
	Secret      string `envconfig:"GATEWAY_SECRET" default:"dev-gateway-secret"`
	CheckoutURL string `envconfig:"GATEWAY_CHECKOUT_URL" default:"https://pay.example.com/checkout"`
}

type OpsConfig struct {
	CronSecret    string        `envconfig:"OPS_CRON_SECRET" default:""`
	SweepInterval time.Duration `envconfig:"OPS_SWEEP_INTERVAL" default:"5m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "America/Bogota",
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "America/Bogota",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: -18000,
		},
		Booking: BookingConfig{
			MinGroupSize:    10,
			FamilyMaxGuests: 5,
			PaymentWindow:   60 * time.Minute,
		},
		Pricing: PricingConfig{
			Currency:       "COP",
			DayPassRate:    25000,
			WeekdayRate:    55000,
			WeekendRate:    60000,
			HolidayRate:    70000,
			FamilyPlanRate: 420000,
			CleaningFee:    70000,
			Deposit:        200000,
		},
		Gateway: GatewayConfig{
			Secret:      "test-gateway-secret",
			CheckoutURL: "https://pay.example.com/checkout",
		},
		Ops: OpsConfig{
			CronSecret:    "test-cron-secret",
			SweepInterval: 5 * time.Minute,
		},
	}
}
