package config

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Astemirdum/department-portal/pkg/auth"
	"github.com/Astemirdum/department-portal/pkg/kafka"
	"github.com/Astemirdum/department-portal/pkg/logger"
	"github.com/Astemirdum/department-portal/pkg/postgres"
	"github.com/Astemirdum/department-portal/pkg/sqlite"
	"github.com/kelseyhightower/envconfig"
)

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"PORTAL_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"PORTAL_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ" default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Storage struct {
	Driver string `yaml:"driver" envconfig:"STORAGE_DRIVER" default:"memory"`
}

type Library struct {
	LoanPeriod      time.Duration `yaml:"loanPeriod" envconfig:"LIBRARY_LOAN_PERIOD" default:"336h"`
	RestockOnReturn bool          `yaml:"restockOnReturn" envconfig:"LIBRARY_RESTOCK_ON_RETURN" default:"false"`
}

type Config struct {
	Server      HTTPServer   `yaml:"server"`
	Storage     Storage      `yaml:"storage"`
	SQLite      sqlite.DB    `yaml:"sqlite"`
	Database    postgres.DB  `yaml:"db"`
	Kafka       kafka.Config `yaml:"kafka"`
	Auth        auth.Config  `yaml:"auth" json:"-"`
	Library     Library      `yaml:"library"`
	AdminEmails []string     `yaml:"adminEmails" envconfig:"PORTAL_ADMIN_EMAILS"`
	Log         logger.Log   `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads config from environment.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		var config Config
		for _, op := range ops {
			op(&config)
		}
		err := envconfig.Process("", &config)
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		cfg = &config
		printConfig(cfg)
	})

	return cfg
}

func printConfig(cfg *Config) {
	c := *cfg
	c.Database.Password = "***"
	jscfg, _ := json.MarshalIndent(c, "", "	") //nolint:errcheck
	fmt.Println(string(jscfg))
}
