package config

// Options holds the command-line options that shape an install run.
// It is constructed once from flags and never mutated afterwards.
// - SkipEditor: omit the editor install and its extensions.
// - SkipVersionControl: omit the git install.
// - NodeVersion: runtime version to install ("lts", "18", "20.11.1", ...).
// - DryRun: log every install action without executing it.
type Options struct {
	SkipEditor         bool
	SkipVersionControl bool
	NodeVersion        string
	DryRun             bool
}

// Template describes a configuration file to copy into the user's profile.
// - Source: path to the bundled template, relative to the working directory.
// - Target: destination path; a leading "~/" expands to the home directory.
type Template struct {
	Source string `yaml:"source"`
	Target string `yaml:"target"`
}

// Config is the optional YAML-backed customization layer on top of the
// built-in defaults. Only list-shaped extras live here; the core install
// sequence itself is fixed.
// - GlobalPackages: npm packages installed globally after the runtime.
// - EditorExtensions: editor extension identifiers to install.
// - ProfileLines: extra lines appended (idempotently) to the shell profile.
// - Templates: config files copied into the home directory.
type Config struct {
	GlobalPackages   []string   `yaml:"global_packages"`
	EditorExtensions []string   `yaml:"editor_extensions"`
	ProfileLines     []string   `yaml:"profile_lines"`
	Templates        []Template `yaml:"templates"`
}
