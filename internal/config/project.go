package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultDatabase is the Firestore database used when none is configured.
	DefaultDatabase = "(default)"

	// DefaultCollection is the collection holding task documents.
	DefaultCollection = "tasks"
)

// ErrNoProject is returned when no project configuration is available.
var ErrNoProject = errors.New("project not configured (run: taskboard init)")

// Project is the static backend configuration: which hosted project to talk
// to and the public API key used by the identity service.
type Project struct {
	ProjectID  string `yaml:"project_id" env:"TASKBOARD_PROJECT_ID"`
	APIKey     string `yaml:"api_key" env:"TASKBOARD_API_KEY"`
	AuthDomain string `yaml:"auth_domain,omitempty" env:"TASKBOARD_AUTH_DOMAIN"`
	Database   string `yaml:"database,omitempty" env:"TASKBOARD_DATABASE"`
	Collection string `yaml:"collection,omitempty" env:"TASKBOARD_COLLECTION"`
}

// LoadProject reads project.yaml from the config directory and applies
// environment overrides. A missing file is not an error as long as the
// environment supplies the required values.
func (c *Config) LoadProject() (*Project, error) {
	p := new(Project)

	var err error
	if c.HasProject() {
		err = cleanenv.ReadConfig(c.ProjectPath(), p)
	} else {
		err = cleanenv.ReadEnv(p)
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ProjectFile, err)
	}

	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// SaveProject writes the project configuration with mode 0600.
func (c *Config) SaveProject(p *Project) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(c.ProjectPath(), data, 0600)
}

// Validate checks that the fields needed to reach the backend are present.
func (p *Project) Validate() error {
	if p.ProjectID == "" && p.APIKey == "" {
		return ErrNoProject
	}
	if p.ProjectID == "" {
		return errors.New("project_id is required")
	}
	if p.APIKey == "" {
		return errors.New("api_key is required")
	}
	return nil
}

func (p *Project) applyDefaults() {
	if p.Database == "" {
		p.Database = DefaultDatabase
	}
	if p.Collection == "" {
		p.Collection = DefaultCollection
	}
}
