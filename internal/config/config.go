package config

import (
	"fmt"
	"os"
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	Private Private
}

type Public struct {
	Port            int    `yaml:"port"`
	LogLevel        string `yaml:"log_level"`
	LogJSON         bool   `yaml:"log_json"`
	SecureCookies   bool   `yaml:"secure_cookies"`
	SessionTTLHours int    `yaml:"session_ttl_hours"`

	Csv Csv `yaml:"csv"`

	EventsPageSize int `yaml:"events_page_size"` // default page size for the events listing
}

// SessionTTL returns the configured session lifetime.
func (p *Public) SessionTTL() time.Duration {
	return time.Duration(p.SessionTTLHours) * time.Hour
}

type Csv struct {
	Tech1  CsvFile `yaml:"tech1"`
	Tech2  CsvFile `yaml:"tech2"`
	Events CsvFile `yaml:"events"`
}

type CsvFile struct {
	Path     string `yaml:"path"`
	Encoding string `yaml:"encoding"` // "utf-8", "euc-kr" or "cp949"
}

type Private struct {
	Pg Pg `yaml:"pg"`
}

type Pg struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Dbname   string `yaml:"dbname"`
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	err = yaml.Unmarshal(configFile, output)
	if err != nil {
		panic("can't unmarshal config file")
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	cfg := &Config{public, private}
	if err := cfg.validate(); err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) validate() error {
	if c.Public.Port == 0 {
		return fmt.Errorf("config: port is required")
	}
	if c.Public.SessionTTLHours <= 0 {
		return fmt.Errorf("config: session_ttl_hours is required")
	}
	for name, f := range map[string]CsvFile{
		"csv.tech1":  c.Public.Csv.Tech1,
		"csv.tech2":  c.Public.Csv.Tech2,
		"csv.events": c.Public.Csv.Events,
	} {
		if f.Path == "" {
			return fmt.Errorf("config: %s.path is required", name)
		}
	}
	if c.Private.Pg.Host == "" || c.Private.Pg.Dbname == "" {
		return fmt.Errorf("config: pg host and dbname are required")
	}
	return nil
}
