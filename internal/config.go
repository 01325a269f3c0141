package internal

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
)

type Config struct {
	HTTPServerPort     uint16 `json:"http-server-port"`
	BaseURL            string `json:"base-url"`
	DBName             string `json:"db-name"`
	EnableLogging      bool   `json:"enable-logging"`
	LogDirectory       string `json:"log-directory"`
	TemplateDirectory  string `json:"template-directory"`
	ReadTimeout        int64  `json:"read-timeout"`
	WriteTimeout       int64  `json:"write-timeout"`
	SecretKey          string `json:"secret-key"`
	GoogleClientID     string `json:"google-client-id"`
	GoogleClientSecret string `json:"google-client-secret"`
	GoogleRedirectURL  string `json:"google-redirect-url"`

	// Seconds after which a presence row with no refresh counts as offline.
	LivenessWindow int64 `json:"liveness-window"`
}

func LoadConfig(folderPath string) (*Config, error) {

	file, err := os.OpenFile(folderPath+"/.cfg", os.O_RDONLY, 0755)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	var config *Config = &Config{}
	if err = json.Unmarshal(payload, config); err != nil {
		return nil, err
	}

	// Secrets from the environment win over the file.
	if v := os.Getenv("SESSION_SECRET"); v != "" {
		config.SecretKey = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		config.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		config.GoogleClientSecret = v
	}
	if v := os.Getenv("GOOGLE_CALLBACK_URL"); v != "" {
		config.GoogleRedirectURL = v
	}

	if config.LivenessWindow <= 0 {
		config.LivenessWindow = 300
	}

	return config, nil
}

func RetrieveWebTemplates(templateDir string) (map[string][]string, error) {

	mapping := make(map[string][]string)

	layoutPath := filepath.Join(templateDir, "layouts")
	layoutFiles, err := filepath.Glob(filepath.Join(layoutPath, "*.html"))
	if err != nil {
		return nil, err
	}

	pageFiles, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}

	for _, page := range pageFiles {
		files := append([]string{}, layoutFiles...)
		files = append(files, page)
		mapping[filepath.Base(page)] = files
	}

	return mapping, nil
}
