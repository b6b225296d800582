package configuration

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/go-faster/errors"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/iota-uz/orgportal/pkg/logging"
)

var singleton = sync.OnceValue(func() *Configuration {
	c, err := Load([]string{".env", ".env.local"})
	if err != nil {
		panic(err)
	}
	return c
})

// LoadEnv loads the env files that exist, looking first in the working
// directory and then in the nearest parent holding a go.mod.
func LoadEnv(envFiles []string) (int, error) {
	existing := existingFiles(".", envFiles)
	if len(existing) == 0 {
		if root, ok := moduleRoot(); ok {
			existing = existingFiles(root, envFiles)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

func existingFiles(dir string, names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		p := filepath.Join(dir, name)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			out = append(out, p)
		}
	}
	return out
}

func moduleRoot() (string, bool) {
	dir, err := os.Getwd()
	if err != nil {
		return "", false
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

type StoreOptions struct {
	// Backend is memory, file or redis.
	Backend  string `env:"ORG_STORE_BACKEND" envDefault:"file"`
	Dir      string `env:"ORG_STORE_DIR" envDefault:"./data"`
	RedisURL string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	Prefix   string `env:"ORG_STORE_PREFIX" envDefault:"orgportal:slots"`
}

type Configuration struct {
	Store StoreOptions

	LogLevel string `env:"LOG_LEVEL" envDefault:"error"`
	// LogPath enables JSON file logging when set.
	LogPath string `env:"LOG_PATH"`

	// Locale drives collation of unit and member names.
	Locale          string `env:"ORG_LOCALE" envDefault:"ko"`
	DefaultPriority int    `env:"ORG_DEFAULT_PRIORITY" envDefault:"999"`
	HeaderScanRows  int    `env:"ORG_HEADER_SCAN_ROWS" envDefault:"20"`
	Admin           bool   `env:"ORG_ADMIN" envDefault:"false"`

	logFile *os.File
	logger  *logrus.Logger
}

func (c *Configuration) Logger() *logrus.Logger {
	return c.logger
}

func (c *Configuration) LogrusLogLevel() logrus.Level {
	switch c.LogLevel {
	case "silent":
		return logrus.PanicLevel
	case "error":
		return logrus.ErrorLevel
	case "warn":
		return logrus.WarnLevel
	case "info":
		return logrus.InfoLevel
	case "debug":
		return logrus.DebugLevel
	default:
		return logrus.ErrorLevel
	}
}

// LocaleTag falls back to language.Und when ORG_LOCALE does not parse.
func (c *Configuration) LocaleTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und
	}
	return tag
}

func Use() *Configuration {
	return singleton()
}

// Load reads envFiles and the process environment into a fresh Configuration.
func Load(envFiles []string) (*Configuration, error) {
	c := &Configuration{}
	if err := c.load(envFiles); err != nil {
		c.Unload()
		return nil, err
	}
	return c, nil
}

func (c *Configuration) load(envFiles []string) error {
	n, err := LoadEnv(envFiles)
	if err != nil {
		return errors.Wrap(err, "load env files")
	}
	if n == 0 && len(envFiles) > 0 {
		log.Printf("No .env files found. Tried: %s", strings.Join(envFiles, ", "))
	}
	if err := env.Parse(c); err != nil {
		return errors.Wrap(err, "parse environment")
	}
	if err := c.validate(); err != nil {
		return err
	}

	if c.LogPath == "" {
		c.logger = logging.ConsoleLogger(c.LogrusLogLevel())
		return nil
	}
	f, logger, err := logging.FileLogger(c.LogrusLogLevel(), c.LogPath)
	if err != nil {
		return err
	}
	c.logFile = f
	c.logger = logger
	return nil
}

func (c *Configuration) validate() error {
	backend := strings.ToLower(strings.TrimSpace(c.Store.Backend))
	switch backend {
	case "memory", "file", "redis":
	default:
		return errors.Errorf("invalid ORG_STORE_BACKEND=%q (expected memory|file|redis)", c.Store.Backend)
	}
	c.Store.Backend = backend
	if backend == "file" && strings.TrimSpace(c.Store.Dir) == "" {
		return errors.New("ORG_STORE_DIR is required when ORG_STORE_BACKEND=file")
	}
	if c.HeaderScanRows <= 0 {
		return errors.Errorf("ORG_HEADER_SCAN_ROWS must be positive, got %d", c.HeaderScanRows)
	}
	return nil
}

// Unload closes the log file, if any.
func (c *Configuration) Unload() {
	if c.logFile != nil {
		if err := c.logFile.Close(); err != nil {
			log.Printf("Failed to close log file: %v", err)
		}
		c.logFile = nil
	}
}
