package config

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"booktracker/internal/helpers"
	"booktracker/internal/store"
)

const (
	DebugMode      = "debug"
	ProductionMode = "production"
)

// Store backends.
const (
	StoreMemory    = "memory"
	StoreMySQL     = "mysql"
	StoreDynamo    = "dynamodb"
	StoreFirestore = "firestore"
)

// Identity backends.
const (
	IdentityLocal    = "local"
	IdentityFirebase = "firebase"
)

type AppConfig struct {
	AppEnv     string         `json:"app_env"`
	Mode       string         `json:"mode"`
	Port       string         `json:"port"`
	SessionTTL time.Duration  `json:"session_ttl"`
	Store      StoreConfig    `json:"store"`
	Identity   IdentityConfig `json:"identity"`
	AWS        AWSConfig      `json:"aws"`
	Events     EventsConfig   `json:"events"`
}

type StoreConfig struct {
	Backend                  string      `json:"backend"`
	MySQL                    MySQLConfig `json:"mysql"`
	DynamoTable              string      `json:"dynamo_table"`
	Collection               string      `json:"collection"`
	FirestoreProject         string      `json:"firestore_project"`
	FirestoreCredentialsFile string      `json:"firestore_credentials_file"`
}

type MySQLConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"-"`
	Database string `json:"database"`
}

type IdentityConfig struct {
	Backend        string `json:"backend"`
	FirebaseAPIKey string `json:"-"`
	FirebaseURL    string `json:"firebase_url"`
}

type AWSConfig struct {
	Region    string `json:"region"`
	AccessKey string `json:"-"`
	SecretKey string `json:"-"`
}

type EventsConfig struct {
	Queue       string `json:"queue"`
	SQSPrefix   string `json:"sqs_prefix"`
	WorkerCount int    `json:"worker_count"`
	Buffer      int    `json:"buffer"`
}

// Load reads the configuration from the environment (after an optional .env file).
func Load() (*AppConfig, error) {
	helpers.LoadEnv()

	cfg := &AppConfig{
		AppEnv: helpers.GetEnvOrDefault("APP_ENV", "local"),
		Mode:   helpers.GetEnvOrDefault("MODE", ProductionMode),
		Port:   helpers.GetEnvOrDefault("PORT", "8080"),
		Store: StoreConfig{
			Backend: helpers.GetEnvOrDefault("STORE_BACKEND", StoreMemory),
			MySQL: MySQLConfig{
				Host:     os.Getenv("DB_HOST"),
				Port:     helpers.GetEnvOrDefault("DB_PORT", "3306"),
				User:     os.Getenv("DB_USERNAME"),
				Password: os.Getenv("DB_PASSWORD"),
				Database: os.Getenv("DB_DATABASE"),
			},
			DynamoTable:              helpers.GetEnvOrDefault("DYNAMO_TABLE", "books_borrowed"),
			Collection:               helpers.GetEnvOrDefault("COLLECTION", store.DefaultCollection),
			FirestoreProject:         os.Getenv("FIRESTORE_PROJECT"),
			FirestoreCredentialsFile: os.Getenv("FIRESTORE_CREDENTIALS_FILE"),
		},
		Identity: IdentityConfig{
			Backend:     helpers.GetEnvOrDefault("IDENTITY_BACKEND", IdentityLocal),
			FirebaseURL: os.Getenv("FIREBASE_AUTH_URL"),
		},
		AWS: AWSConfig{
			Region:    os.Getenv("AWS_REGION"),
			AccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
			SecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		},
		Events: EventsConfig{
			Queue:     os.Getenv("EVENTS_QUEUE"),
			SQSPrefix: os.Getenv("SQS_PREFIX"),
		},
	}

	var err error
	if cfg.SessionTTL, err = helpers.GetEnvDuration("SESSION_TTL", 12*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Events.WorkerCount, err = helpers.GetEnvInt("WORKER_COUNT", 2); err != nil {
		return nil, err
	}
	if cfg.Events.Buffer, err = helpers.GetEnvInt("EVENTS_BUFFER", 10); err != nil {
		return nil, err
	}
	if cfg.Identity.Backend == IdentityFirebase {
		if cfg.Identity.FirebaseAPIKey, err = helpers.RequireEnv("FIREBASE_API_KEY"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings each selected backend needs.
func (cfg *AppConfig) Validate() error {
	if !cfg.IsDebugMode() && !cfg.IsProductionMode() {
		return errors.Errorf("invalid MODE %q, it must be either `debug` or `production`", cfg.Mode)
	}

	var missing []string
	need := func(key, value string) {
		if value == "" {
			missing = append(missing, key)
		}
	}

	switch cfg.Store.Backend {
	case StoreMemory:
	case StoreMySQL:
		need("DB_HOST", cfg.Store.MySQL.Host)
		need("DB_USERNAME", cfg.Store.MySQL.User)
		need("DB_DATABASE", cfg.Store.MySQL.Database)
	case StoreDynamo:
		need("AWS_REGION", cfg.AWS.Region)
	case StoreFirestore:
		need("FIRESTORE_PROJECT", cfg.Store.FirestoreProject)
	default:
		return errors.Errorf("unknown STORE_BACKEND %q", cfg.Store.Backend)
	}

	switch cfg.Identity.Backend {
	case IdentityLocal:
	case IdentityFirebase:
		need("FIREBASE_API_KEY", cfg.Identity.FirebaseAPIKey)
	default:
		return errors.Errorf("unknown IDENTITY_BACKEND %q", cfg.Identity.Backend)
	}

	if cfg.Events.Queue != "" {
		need("SQS_PREFIX", cfg.Events.SQSPrefix)
		need("AWS_REGION", cfg.AWS.Region)
		if cfg.Events.WorkerCount < 1 {
			return errors.New("WORKER_COUNT must be at least 1 when EVENTS_QUEUE is set")
		}
	}

	if len(missing) > 0 {
		return errors.Errorf("missing configuration: %v", missing)
	}
	return nil
}

// DSN is the go-sql-driver connection string for the store database.
func (c MySQLConfig) DSN() string {
	mc := mysql.NewConfig()
	mc.User = c.User
	mc.Passwd = c.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Host, c.Port)
	mc.DBName = c.Database
	return mc.FormatDSN()
}

// Redacted is the DSN with the password hidden, for logging.
func (c MySQLConfig) Redacted() string {
	return fmt.Sprintf("%s:***@tcp(%s)/%s", c.User, net.JoinHostPort(c.Host, c.Port), c.Database)
}

// QueueURL is the SQS URL events are published to.
func (c EventsConfig) QueueURL() string {
	return fmt.Sprintf("%s/%s", c.SQSPrefix, c.Queue)
}

// UsesAWS reports whether any AWS service is needed.
func (cfg *AppConfig) UsesAWS() bool {
	return cfg.Store.Backend == StoreDynamo || cfg.Events.Queue != ""
}

func (cfg *AppConfig) GetLogger() *logrus.Logger {
	logLvl := logrus.InfoLevel
	if cfg.IsDebugMode() {
		logLvl = logrus.DebugLevel
	}
	var l = &logrus.Logger{
		Out:       os.Stderr,
		Formatter: new(logrus.TextFormatter),
		Hooks:     make(logrus.LevelHooks),
		Level:     logLvl,
	}
	return l
}

func (cfg *AppConfig) IsDebugMode() bool {
	return cfg.Mode == DebugMode
}

func (cfg *AppConfig) IsProductionMode() bool {
	return cfg.Mode == ProductionMode
}
