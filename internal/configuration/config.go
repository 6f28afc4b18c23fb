package configuration

import (
	"encoding/json"
	"os"
)

const configPathEnv = "DEVFLOW_CONFIG"

type MongoConfig struct {
	Uri                    string `json:"uri"`
	Database               string `json:"database"`
	UsersCollection        string `json:"usersCollection"`
	QuestionsCollection    string `json:"questionsCollection"`
	AnswersCollection      string `json:"answersCollection"`
	TagsCollection         string `json:"tagsCollection"`
	InteractionsCollection string `json:"interactionsCollection"`
}

type ServerConfig struct {
	AppPort     int      `json:"app_port"`
	FeedPort    int      `json:"feed_port"`
	CorsOrigins []string `json:"cors_origins"`
}

type AuthConfig struct {
	JwtSecret string `json:"jwt_secret"`
	JwtIssuer string `json:"jwt_issuer"`
}

type Config struct {
	Mongo  MongoConfig  `json:"mongo"`
	Server ServerConfig `json:"server"`
	Auth   AuthConfig   `json:"auth"`
}

// ConfigPath returns the config file location, overridable via DEVFLOW_CONFIG.
func ConfigPath() string {
	if path := os.Getenv(configPathEnv); path != "" {
		return path
	}
	return "config.json"
}

func LoadConfig(configPath string) (*Config, error) {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config Config
	err = json.Unmarshal(file, &config)
	if err != nil {
		return nil, err
	}

	return &config, nil
}
