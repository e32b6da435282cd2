package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/urbano-mdr/urbano/internal/logging"
)

// Config holds the settings shared by every service. Each binary only reads
// the fields it needs.
type Config struct {
	Env     string `envconfig:"ENV" default:"local"`
	Service string `envconfig:"SERVICE"`
	Version string `envconfig:"VERSION" default:"dev"`
	Local   bool   `envconfig:"LOCAL"`

	Port               int           `envconfig:"PORT" default:"5000"`
	LogLevel           string        `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat          string        `envconfig:"LOG_FORMAT" default:"json"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
	SecretKey          string        `envconfig:"SECRET_KEY" default:"dev-secret-key"`
	CORSAllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	DatabaseURL    string `envconfig:"DATABASE_URL"`
	PGHost         string `envconfig:"PGHOST" default:"localhost"`
	PGPort         int    `envconfig:"PGPORT" default:"5432"`
	PGUser         string `envconfig:"PGUSER" default:"postgres"`
	PGPassword     string `envconfig:"PGPASSWORD"`
	PGDatabase     string `envconfig:"PGDATABASE" default:"postgres"`
	DBSchema       string `envconfig:"DB_SCHEMA" default:"urbano"`
	TableName      string `envconfig:"TABLE_NAME" default:"solicitacoes"`
	ClientEncoding string `envconfig:"CLIENT_ENCODING" default:"UTF8"`
	RunDBBootstrap bool   `envconfig:"RUN_DB_BOOTSTRAP"`

	AWSRegion        string `envconfig:"AWS_REGION"`
	RDSProxyEndpoint string `envconfig:"RDS_PROXY_ENDPOINT"`
	RDSProxyUser     string `envconfig:"RDS_PROXY_USER"`
	RDSDBName        string `envconfig:"RDS_DB_NAME"`

	UploadDir         string `envconfig:"UPLOAD_DIR" default:"static/uploads"`
	MaxUploadBytes    int64  `envconfig:"MAX_UPLOAD_BYTES" default:"16777216"`
	RequireSituations bool   `envconfig:"REQUIRE_SITUATIONS"`

	RainfallCSV  string `envconfig:"RAINFALL_CSV" default:"precipitacao.csv"`
	WaterGeoJSON string `envconfig:"WATER_GEOJSON" default:"BD_CONSUMO_AGUA_AC.geojson"`

	KafkaBrokers      []string `envconfig:"KAFKA_BROKERS"`
	KafkaReportsTopic string   `envconfig:"KAFKA_REPORTS_TOPIC" default:"urbano.reports"`
}

func Load() (*Config, error) {
	c := &Config{}
	if val, present := os.LookupEnv("LOCAL"); present {
		local, err := strconv.ParseBool(val)
		if err != nil {
			logging.Error(context.Background(), err, nil, "failed to load configuration")
			return nil, fmt.Errorf("invalid LOCAL: %w", err)
		}
		c.Local = local
	}
	if c.Local {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			logging.Warn(context.Background(), err, nil, "failed to read .env file")
		}
	}
	if err := envconfig.Process("", c); err != nil {
		logging.Error(context.Background(), err, logging.Data{"local": c.Local}, "failed to populate config")
		return nil, err
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("invalid PORT")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("invalid SHUTDOWN_TIMEOUT")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("invalid MAX_UPLOAD_BYTES")
	}
	if !validIdentifier(c.DBSchema) {
		return errors.New("invalid DB_SCHEMA")
	}
	if !validIdentifier(c.TableName) {
		return errors.New("invalid TABLE_NAME")
	}
	if c.RDSProxyEndpoint != "" && (c.RDSProxyUser == "" || c.AWSRegion == "") {
		return errors.New("RDS_PROXY_ENDPOINT requires RDS_PROXY_USER and AWS_REGION")
	}
	return nil
}

// validIdentifier accepts any non-empty name without double quotes or NUL;
// names are always quoted when used in SQL, so accents and spaces are fine.
func validIdentifier(s string) bool {
	return strings.TrimSpace(s) != "" && !strings.ContainsAny(s, "\"\x00")
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// DatabaseConnString prefers DATABASE_URL and falls back to the PG*
// variables. SQLAlchemy style schemes are normalized.
func (c *Config) DatabaseConnString() string {
	if c.DatabaseURL != "" {
		u := c.DatabaseURL
		for _, prefix := range []string{"postgresql+psycopg2://", "postgres://"} {
			if strings.HasPrefix(u, prefix) {
				u = "postgresql://" + strings.TrimPrefix(u, prefix)
				break
			}
		}
		return u
	}
	u := url.URL{
		Scheme: "postgresql",
		Host:   fmt.Sprintf("%s:%d", c.PGHost, c.PGPort),
		Path:   "/" + c.PGDatabase,
	}
	if c.PGPassword != "" {
		u.User = url.UserPassword(c.PGUser, c.PGPassword)
	} else {
		u.User = url.User(c.PGUser)
	}
	return u.String()
}

// KafkaEnabled reports whether submitted reports should be published.
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0 && c.KafkaReportsTopic != ""
}
