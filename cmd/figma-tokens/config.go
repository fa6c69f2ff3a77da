package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/kataras/figma-token-exporter/pkg/archive"
	"github.com/kataras/figma-token-exporter/pkg/github"
)

// defaultConfigFile is read from the current directory when --config is not given.
const defaultConfigFile = ".figma-tokens.yaml"

// Config holds every setting of the CLI. Values come from flags, then environment
// variables (a .env file is loaded first), then the YAML config file, then defaults.
type Config struct {
	FigmaToken      string           `yaml:"figma_token"`
	FileURL         string           `yaml:"file_url"`
	Page            string           `yaml:"page"`
	Snapshot        string           `yaml:"snapshot"`
	Output          string           `yaml:"output"`
	Report          string           `yaml:"report"`
	Database        string           `yaml:"database"`
	Addr            string           `yaml:"addr"`
	CredentialsFile string           `yaml:"credentials_file"`
	PublishTimeout  time.Duration    `yaml:"publish_timeout"`
	GitHub          github.Target    `yaml:"github"`
	Archive         archive.S3Config `yaml:"archive"`
}

func defaultConfig() Config {
	return Config{
		Output:         "design-tokens.json",
		Addr:           ":5000",
		PublishTimeout: 30 * time.Second,
		GitHub:         github.Target{Branch: "main", FilePath: "tokens/design-tokens.json"},
	}
}

// loadConfigFile decodes path over cfg. A missing file is not an error unless required.
func loadConfigFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) && !required {
		return nil
	}
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides cfg with the non-empty environment variables.
func applyEnv(cfg *Config) {
	setString(&cfg.FigmaToken, "FIGMA_TOKEN")
	setString(&cfg.FileURL, "FIGMA_FILE_URL")
	setString(&cfg.Database, "DATABASE_URL")
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		if strings.HasPrefix(port, ":") {
			cfg.Addr = port
		} else {
			cfg.Addr = ":" + port
		}
	}
	setString(&cfg.GitHub.Owner, "GITHUB_OWNER")
	setString(&cfg.GitHub.Repo, "GITHUB_REPO")
	setString(&cfg.GitHub.Branch, "GITHUB_BRANCH")
	setString(&cfg.GitHub.FilePath, "GITHUB_FILE_PATH")

	setString(&cfg.Archive.Endpoint, "ARCHIVE_S3_ENDPOINT")
	setString(&cfg.Archive.Region, "ARCHIVE_S3_REGION")
	setString(&cfg.Archive.AccessKey, "ARCHIVE_S3_ACCESS_KEY")
	setString(&cfg.Archive.SecretKey, "ARCHIVE_S3_SECRET_KEY")
	setString(&cfg.Archive.Bucket, "ARCHIVE_S3_BUCKET")
	if raw := strings.TrimSpace(os.Getenv("ARCHIVE_S3_USE_SSL")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			cfg.Archive.UseSSL = v
		}
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cfg *Config, flags *pflag.FlagSet) {
	str := func(name string, dst *string) {
		if f := flags.Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	str("token", &cfg.FigmaToken)
	str("url", &cfg.FileURL)
	str("page", &cfg.Page)
	str("snapshot", &cfg.Snapshot)
	str("output", &cfg.Output)
	str("report", &cfg.Report)
	str("database", &cfg.Database)
	str("addr", &cfg.Addr)
	str("credentials", &cfg.CredentialsFile)
	str("owner", &cfg.GitHub.Owner)
	str("repo", &cfg.GitHub.Repo)
	str("branch", &cfg.GitHub.Branch)
	str("path", &cfg.GitHub.FilePath)
	str("message", &cfg.GitHub.CommitMessage)

	if f := flags.Lookup("timeout"); f != nil && f.Changed {
		if d, err := time.ParseDuration(f.Value.String()); err == nil {
			cfg.PublishTimeout = d
		}
	}
}

// loadConfig resolves the configuration of a command.
func loadConfig(flags *pflag.FlagSet) (Config, error) {
	_ = godotenv.Load()

	cfg := defaultConfig()
	path, required := defaultConfigFile, false
	if f := flags.Lookup("config"); f != nil && f.Changed {
		path, required = f.Value.String(), true
	}
	if err := loadConfigFile(&cfg, path, required); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	applyEnv(&cfg)
	applyFlags(&cfg, flags)
	return cfg, nil
}
