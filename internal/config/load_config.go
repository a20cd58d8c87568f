package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"devstrap/internal/logger"
)

// Default returns the built-in configuration used when no devstrap.yaml is
// present. The lists mirror what a fresh Node.js workstation usually wants.
func Default() Config {
	return Config{
		GlobalPackages: []string{"typescript", "ts-node", "nodemon"},
		EditorExtensions: []string{
			"dbaeumer.vscode-eslint",
			"esbenp.prettier-vscode",
			"ms-azuretools.vscode-docker",
		},
		Templates: []Template{
			{Source: "templates/npmrc", Target: "~/.npmrc"},
			{Source: "templates/yarnrc", Target: "~/.yarnrc"},
		},
	}
}

// Load reads the devstrap.yaml at the given path and merges it over the
// defaults. A missing file is not an error: the defaults are used as-is.
// A file that exists but fails to parse is a hard error, since silently
// ignoring a user's config would be worse than stopping.
func Load(path string, log logger.Logger) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("[DEBUG] No config file at %s, using built-in defaults\n", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	// The file wraps everything under a top-level "devstrap" key so the
	// YAML stays self-describing when it lives next to other dotfiles.
	var wrapper struct {
		Devstrap Config `yaml:"devstrap"`
	}
	if err := yaml.Unmarshal(raw, &wrapper); err != nil {
		return cfg, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}

	// Merge: a list present in the file replaces the default list wholesale.
	// Partial merges would make it impossible to remove a default entry.
	if wrapper.Devstrap.GlobalPackages != nil {
		cfg.GlobalPackages = wrapper.Devstrap.GlobalPackages
	}
	if wrapper.Devstrap.EditorExtensions != nil {
		cfg.EditorExtensions = wrapper.Devstrap.EditorExtensions
	}
	if wrapper.Devstrap.ProfileLines != nil {
		cfg.ProfileLines = wrapper.Devstrap.ProfileLines
	}
	if wrapper.Devstrap.Templates != nil {
		cfg.Templates = wrapper.Devstrap.Templates
	}

	log.Debug("[DEBUG] Loaded config from %s: %d global packages, %d extensions\n",
		path, len(cfg.GlobalPackages), len(cfg.EditorExtensions))
	return cfg, nil
}
