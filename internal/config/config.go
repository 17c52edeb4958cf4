// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads the optional .checkformat.yaml file from the
// repository root. Every field has a default matching the layout of an
// SPDK-style tree, so the file only needs to list what differs.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the repository root.
const FileName = ".checkformat.yaml"

// Config holds every tunable of the checks.
type Config struct {
	// Exclude lists paths or globs (vendored or generated code) that no check looks at.
	Exclude []string `yaml:"exclude"`
	// Skip lists check names that are not run at all.
	Skip []string `yaml:"skip"`

	Naming    NamingConfig    `yaml:"naming"`
	Changelog ChangelogConfig `yaml:"changelog"`
	Patterns  PatternConfig   `yaml:"patterns"`
	Tools     ToolsConfig     `yaml:"tools"`
}

// NamingConfig drives the symbol export consistency check.
type NamingConfig struct {
	ReservedPrefix   string   `yaml:"reserved_prefix"`
	LibraryRoots     []string `yaml:"library_roots"`
	SourceExtensions []string `yaml:"source_extensions"`
	HeaderRoots      []string `yaml:"header_roots"`
	BlankMap         string   `yaml:"blank_map"`
}

// ChangelogConfig drives the changelog reminder.
type ChangelogConfig struct {
	File          string   `yaml:"file"`
	PublicSurface []string `yaml:"public_surface"`
}

// PatternConfig feeds the text-scan checks.
type PatternConfig struct {
	ForbiddenFunctions []string `yaml:"forbidden_functions"`
	PosixList          string   `yaml:"posix_list"`
	StdincHeader       string   `yaml:"stdinc_header"`
	PublicIncludeDir   string   `yaml:"public_include_dir"`
}

// ToolsConfig holds the fixed argument sets of the external formatters.
type ToolsConfig struct {
	AstyleOptions     string   `yaml:"astyle_options"`
	PycodestyleArgs   []string `yaml:"pycodestyle_args"`
	ShfmtArgs         []string `yaml:"shfmt_args"`
	ShellcheckExclude []string `yaml:"shellcheck_exclude"`
	ShellcheckApply   bool     `yaml:"shellcheck_apply"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Exclude: []string{
			"lib/rte_vhost*/**",
			"test/cpp_headers",
			"dpdk",
			"intel-ipsec-mb",
			"isa-l",
			"isa-l_crypto",
			"libvfio-user",
			"xnvme",
			"ocf",
		},
		Naming: NamingConfig{
			ReservedPrefix:   "spdk_",
			LibraryRoots:     []string{"lib", "module"},
			SourceExtensions: []string{".c"},
			HeaderRoots:      []string{"include/spdk", "include/spdk_internal"},
			BlankMap:         "mk/spdk_blank.map",
		},
		Changelog: ChangelogConfig{
			File:          "CHANGELOG.md",
			PublicSurface: []string{"include/spdk/*", "scripts/rpc.py", "etc/*"},
		},
		Patterns: PatternConfig{
			ForbiddenFunctions: []string{
				"atoi", "atol", "atoll", "strncpy", "strcpy", "strcat", "sprintf", "vsprintf",
			},
			PosixList:        "scripts/posix.txt",
			StdincHeader:     "include/spdk/stdinc.h",
			PublicIncludeDir: "spdk",
		},
		Tools: ToolsConfig{
			AstyleOptions:   ".astylerc",
			PycodestyleArgs: []string{"--max-line-length=140", "--ignore=E302,E305,E722,W504"},
			ShfmtArgs:       []string{"-i", "0", "-bn", "-ci", "-sr"},
			ShellcheckExclude: []string{
				"SC1083", "SC1090", "SC1091", "SC2010", "SC2015", "SC2016", "SC2034",
				"SC2046", "SC2086", "SC2119", "SC2120", "SC2128", "SC2148", "SC2153",
				"SC2154", "SC2164", "SC2174", "SC2001", "SC2206", "SC2207", "SC2223",
			},
		},
	}
}

var identRE = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate rejects configurations the checks cannot work with.
func (c Config) Validate() error {
	if !identRE.MatchString(c.Naming.ReservedPrefix) {
		return fmt.Errorf("naming.reserved_prefix %q is not an identifier prefix", c.Naming.ReservedPrefix)
	}
	if len(c.Naming.LibraryRoots) == 0 {
		return errors.New("naming.library_roots must not be empty")
	}
	for _, ext := range c.Naming.SourceExtensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("naming.source_extensions entry %q must start with '.'", ext)
		}
	}
	if c.Naming.BlankMap == "" {
		return errors.New("naming.blank_map must not be empty")
	}
	if c.Patterns.PublicIncludeDir == "" {
		return errors.New("patterns.public_include_dir must not be empty")
	}
	if c.Changelog.File == "" {
		return errors.New("changelog.file must not be empty")
	}
	for _, name := range c.Skip {
		if strings.TrimSpace(name) == "" {
			return errors.New("skip entries must not be blank")
		}
	}
	return nil
}

// Skipped reports whether the named check is disabled.
func (c Config) Skipped(name string) bool {
	for _, s := range c.Skip {
		if s == name {
			return true
		}
	}
	return false
}

// Load reads the config file from repoRoot, or from path when it is non-empty.
// A missing default file yields Default(); a missing explicit path is an error.
// Values present in the file replace the defaults field by field.
func Load(repoRoot, path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(repoRoot, FileName)
	}

	cfg := Default()
	data, err := os.ReadFile(path) //nolint:gosec // G304: config path chosen by the user
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}
