package config

import (
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"k8s.io/klog/v2"
	"sigs.k8s.io/yaml"
)

type Config struct {
	// Port Settings
	Host        string `json:"host"`        // The domain name of the server.
	ServerAddr  string `json:"serverAddr"`  // The address the server endpoint binds to.
	MetricsAddr string `json:"metricsAddr"` // The address the metric endpoint binds to.
	ProbeAddr   string `json:"probeAddr"`   // The address the probe endpoint binds to.

	Auth struct {
		AccessTokenSecret string `json:"accessTokenSecret"`
		TokenExpiryHour   int    `json:"tokenExpiryHour"`
	} `json:"auth"`

	Session struct {
		TTLMinutes int    `json:"ttlMinutes"` // Idle minutes before a draft session expires.
		SweepCron  string `json:"sweepCron"`  // Cron spec for the expiry sweep.
	} `json:"session"`

	// External collaborators reached over HTTP.
	Subgraph struct {
		URL            string `json:"url"`
		TimeoutSeconds int    `json:"timeoutSeconds"`
	} `json:"subgraph"`

	Relay struct {
		URL            string `json:"url"`
		APIKey         string `json:"apiKey"`
		TimeoutSeconds int    `json:"timeoutSeconds"`
	} `json:"relay"`

	Metadata struct {
		GatewayURL string `json:"gatewayURL"`
		PinURL     string `json:"pinURL"`
		Token      string `json:"token"`
	} `json:"metadata"`
}

func (c *Config) SessionTTL() time.Duration {
	if c.Session.TTLMinutes <= 0 {
		return 2 * time.Hour
	}
	return time.Duration(c.Session.TTLMinutes) * time.Minute
}

func (c *Config) SubgraphTimeout() time.Duration {
	if c.Subgraph.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Subgraph.TimeoutSeconds) * time.Second
}

func (c *Config) RelayTimeout() time.Duration {
	if c.Relay.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Relay.TimeoutSeconds) * time.Second
}

var (
	once   sync.Once
	config *Config
)

func GetConfig() *Config {
	once.Do(func() {
		config = initConfig()
	})
	return config
}

func IsDebugMode() bool {
	return gin.Mode() == gin.DebugMode
}

// initConfig reads the configuration file. In debug mode it reads the
// local debug-config.yaml (overridable via ORGFORGE_DEBUG_CONFIG_PATH);
// otherwise it reads the mounted config.yaml.
func initConfig() *Config {
	config := &Config{}
	var configPath string
	if IsDebugMode() {
		if os.Getenv("ORGFORGE_DEBUG_CONFIG_PATH") != "" {
			configPath = os.Getenv("ORGFORGE_DEBUG_CONFIG_PATH")
		} else {
			configPath = "./etc/debug-config.yaml"
		}
	} else {
		configPath = "/etc/config/config.yaml"
	}
	klog.Info("config path: ", configPath)

	err := readConfig(configPath, config)
	if err != nil {
		klog.Error("init config", err)
		panic(err)
	}
	return config
}

func readConfig(filePath string, config *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return err
	}
	return nil
}
