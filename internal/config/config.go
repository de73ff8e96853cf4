package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"strings"
	"time"

	nested "github.com/antonfisher/nested-logrus-formatter"
	"github.com/joho/godotenv"
	"github.com/kr/pretty"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Level            string        `mapstructure:"level"`
	ConfigFile       string        `mapstructure:"config_file"`
	Addr             string        `mapstructure:"addr"`
	PostgresHost     string        `mapstructure:"postgres_host"`
	PostgresPort     string        `mapstructure:"postgres_port"`
	PostgresUser     string        `mapstructure:"postgres_user"`
	PostgresPassword string        `mapstructure:"postgres_password"`
	PostgresDB       string        `mapstructure:"postgres_db"`
	JWTSecret        string        `mapstructure:"jwt_secret"`
	RedisURI         string        `mapstructure:"redis_uri"`
	ResultsCacheTTL  time.Duration `mapstructure:"results_cache_ttl"`
	CookieDomain     string        `mapstructure:"cookie_domain"`
	CookieSecure     bool          `mapstructure:"cookie_secure"`
	AllowedOrigins   []string      `mapstructure:"allowed_origins"`
}

func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:     c.PostgresHost + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Load reads the configuration from, by increasing precedence, defaults,
// the config file, the environment (including a .env file) and args.
func Load(name string, args []string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("config_file", "config.yaml", "Configuration filename.")
	flags.String("level", "info", "Log level.")
	flags.String("addr", "0.0.0.0:8080", "Address the HTTP server listens on.")
	flags.String("postgres_host", "localhost", "Postgres host.")
	flags.String("postgres_port", "5432", "Postgres port.")
	flags.String("postgres_user", "postgres", "Postgres user.")
	flags.String("postgres_password", "", "Postgres password.")
	flags.String("postgres_db", "survey", "Postgres database.")
	flags.String("jwt_secret", "", "Secret that signs access tokens.")
	flags.String("redis_uri", "", "Address for the redis server. Results are not cached when empty.")
	flags.Duration("results_cache_ttl", 6*time.Hour, "How long cached poll results are kept.")
	flags.String("cookie_domain", "", "Domain of the anonymous voter cookie.")
	flags.Bool("cookie_secure", true, "Send the anonymous voter cookie over HTTPS only.")
	flags.StringSlice("allowed_origins", []string{"*"}, "Origins allowed by CORS.")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	replacer := strings.NewReplacer(".", "_")
	v.SetEnvKeyReplacer(replacer)
	v.AutomaticEnv()

	v.SetConfigFile(v.GetString("config_file"))
	if err := v.ReadInConfig(); err != nil {
		log.WithField("config_file", v.GetString("config_file")).Debug("config file not loaded, using flags and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.AllowedOrigins = splitOrigins(cfg.AllowedOrigins)

	initLog(cfg.Level)
	log.Debugf("Current configurations: \n%# v", pretty.Formatter(cfg.redacted()))
	return &cfg, nil
}

// splitOrigins accepts comma separated values coming from the environment.
func splitOrigins(in []string) []string {
	var out []string
	for _, o := range in {
		for _, part := range strings.Split(o, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (c Config) redacted() Config {
	if c.PostgresPassword != "" {
		c.PostgresPassword = "***"
	}
	if c.JWTSecret != "" {
		c.JWTSecret = "***"
	}
	return c
}

func initLog(level string) {
	if l, err := log.ParseLevel(level); err == nil {
		log.SetLevel(l)
	}
	log.SetFormatter(&nested.Formatter{
		HideKeys:    true,
		FieldsOrder: []string{"component", "category"},
	})
}
