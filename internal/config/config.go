package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	UploadsLocal = "local"
	UploadsS3    = "s3"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-default:"local"`
	Database   `yaml:"database"`
	HTTPServer `yaml:"http_server"`
	Uploads    Uploads       `yaml:"uploads"`
	Clients    ClientsConfig `yaml:"clients"`
}

type Database struct {
	Host       string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port       int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	UsernameDB string `yaml:"username-db" env:"DB_USERNAME" env-required:"true"`
	Password   string `yaml:"password" env:"DB_PASSWORD"`
	DBName     string `yaml:"dbname" env:"DB_NAME" env-default:"games_hub"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	Cors        []string      `yaml:"cors" env-default:"http://localhost:3000"`
}

// Uploads selects where game thumbnails and assets are stored.
type Uploads struct {
	Backend   string `yaml:"backend" env:"UPLOADS_BACKEND" env-default:"local"`
	Path      string `yaml:"path" env:"UPLOADS_PATH" env-default:"./media"`
	URLPrefix string `yaml:"url_prefix" env-default:"/media/"`
	S3        S3     `yaml:"s3"`
}

type S3 struct {
	Bucket    string `yaml:"bucket" env:"S3_BUCKET"`
	Region    string `yaml:"region" env:"AWS_REGION"`
	Prefix    string `yaml:"prefix" env:"S3_PREFIX" env-default:"games/"`
	PublicURL string `yaml:"public_url" env:"S3_PUBLIC_URL"`
}

type Client struct {
	Address      string        `yaml:"address" env:"SSO_ADDRESS"`
	Timeout      time.Duration `yaml:"timeout" env-default:"5s"`
	RetriesCount int           `yaml:"retries_count" env-default:"3"`
	AppID        uint32        `yaml:"app_id" env:"SSO_APP_ID"`
}

type ClientsConfig struct {
	SSO Client `yaml:"sso"`
}

func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()

	path := *configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("cannot read config: %s - %s", path, err)
	}

	return cfg
}

// Load reads the YAML file at path and applies environment overrides.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	if err := cfg.Uploads.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (u Uploads) validate() error {
	switch u.Backend {
	case UploadsLocal:
		if u.Path == "" {
			return errors.New("uploads.path is required for the local backend")
		}
	case UploadsS3:
		if u.S3.Bucket == "" {
			return errors.New("uploads.s3.bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown uploads backend %q", u.Backend)
	}
	return nil
}

func (cfg *Database) GetDSN() string {
	return fmt.Sprintf(
		"%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		cfg.UsernameDB,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
	)
}
