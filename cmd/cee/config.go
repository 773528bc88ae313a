package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cee-lang/cee/diag"
	"github.com/cee-lang/cee/lang"
)

// fileConfig is the yaml configuration surface. When no config file
// is given the dialect defaults to the GNU89 flavor.
type fileConfig struct {
	Dialect struct {
		Trigraphs    bool   `yaml:"trigraphs"`
		DollarIdents bool   `yaml:"dollar_idents"`
		Digraphs     bool   `yaml:"digraphs"`
		BCPLComments bool   `yaml:"bcpl_comments"`
		HexFloats    bool   `yaml:"hex_floats"`
		CPlusPlus    bool   `yaml:"cplusplus"`
		CPPMinMax    bool   `yaml:"cpp_min_max"`
		Microsoft    bool   `yaml:"microsoft"`
		ObjC1        bool   `yaml:"objc1"`
		C99          bool   `yaml:"c99"`
		GCMode       string `yaml:"gc_mode"`
	} `yaml:"dialect"`

	Diagnostics struct {
		WarningsAsErrors  bool              `yaml:"warnings_as_errors"`
		WarnOnExtensions  bool              `yaml:"warn_on_extensions"`
		ErrorOnExtensions bool              `yaml:"error_on_extensions"`
		IgnoreAllWarnings bool              `yaml:"ignore_all_warnings"`
		StrictUninit      bool              `yaml:"strict_uninit"`
		Overrides         map[string]string `yaml:"overrides"`
	} `yaml:"diagnostics"`
}

func readConfig(path string) (*fileConfig, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c fileConfig
	if err := yaml.Unmarshal(buf, &c); err != nil {
		return nil, fmt.Errorf("%s: %v", path, err)
	}
	return &c, nil
}

func (c *fileConfig) langOpts() (lang.Opts, error) {
	d := c.Dialect
	opts := lang.Opts{
		Trigraphs:    d.Trigraphs,
		DollarIdents: d.DollarIdents,
		Digraphs:     d.Digraphs,
		BCPLComments: d.BCPLComments,
		HexFloats:    d.HexFloats,
		CPlusPlus:    d.CPlusPlus,
		CPPMinMax:    d.CPPMinMax,
		Microsoft:    d.Microsoft,
		ObjC1:        d.ObjC1,
		C99:          d.C99,
	}
	switch d.GCMode {
	case "", "non-gc":
		opts.GC = lang.NonGC
	case "hybrid-gc":
		opts.GC = lang.HybridGC
	case "gc-only":
		opts.GC = lang.GCOnly
	default:
		return opts, fmt.Errorf("unknown gc_mode %q", d.GCMode)
	}
	return opts, nil
}

// checkNames are the override keys the config accepts.
var checkNames = map[string]diag.ID{
	"dead-store":        diag.WarnDeadStore,
	"dead-init":         diag.WarnDeadInit,
	"dead-increment":    diag.WarnDeadIncrement,
	"uninit-value":      diag.WarnUninitValue,
	"leak":              diag.WarnLeak,
	"use-after-release": diag.WarnUseAfterRelease,
	"release-not-owned": diag.WarnReleaseNotOwned,
	"macro-redefined":   diag.WarnMacroRedefined,
	"multi-char":        diag.WarnMultiCharLiteral,
}

func (c *fileConfig) diagConfig() (diag.Config, error) {
	d := c.Diagnostics
	cfg := diag.Config{
		WarningsAsErrors:  d.WarningsAsErrors,
		WarnOnExtensions:  d.WarnOnExtensions,
		ErrorOnExtensions: d.ErrorOnExtensions,
		IgnoreAllWarnings: d.IgnoreAllWarnings,
	}
	if len(d.Overrides) == 0 {
		return cfg, nil
	}
	cfg.Overrides = make(map[diag.ID]diag.Mapping, len(d.Overrides))
	for name, level := range d.Overrides {
		id, ok := checkNames[name]
		if !ok {
			return cfg, fmt.Errorf("unknown diagnostic %q in overrides", name)
		}
		switch level {
		case "ignore":
			cfg.Overrides[id] = diag.MapIgnore
		case "warning":
			cfg.Overrides[id] = diag.MapWarning
		case "error":
			cfg.Overrides[id] = diag.MapError
		default:
			return cfg, fmt.Errorf("unknown level %q for diagnostic %q", level, name)
		}
	}
	return cfg, nil
}
