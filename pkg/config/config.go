// Package config loads parser options from an HCL or YAML file.
package config

import (
	"bytes"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/vuetmpls/pkg/parser"
)

type Config struct {
	// Dev enables dev-only warnings and key population.
	Dev bool `json:"dev,omitempty" yaml:"dev,omitempty" hcl:"dev,optional"`
	// SSR disables the forbidden tag check.
	SSR           bool `json:"ssr,omitempty" yaml:"ssr,omitempty" hcl:"ssr,optional"`
	NewSlotSyntax bool `json:"new_slot_syntax,omitempty" yaml:"new_slot_syntax,omitempty" hcl:"new_slot_syntax,optional"`
	// Whitespace is "preserve" or "condense".
	Whitespace string `json:"whitespace,omitempty" yaml:"whitespace,omitempty" hcl:"whitespace,optional"`

	PreTags           []string `json:"pre_tags,omitempty" yaml:"pre_tags,omitempty" hcl:"pre_tags,optional"`
	ExtraReservedTags []string `json:"extra_reserved_tags,omitempty" yaml:"extra_reserved_tags,omitempty" hcl:"extra_reserved_tags,optional"`
}

func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Whitespace == "" {
		c.Whitespace = string(parser.WhitespacePreserve)
	}
	if len(c.PreTags) == 0 {
		c.PreTags = []string{"pre"}
	}
}

// Load reads path from fs. Files ending in .yaml or .yml are YAML, anything
// else is parsed as HCL.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	} else {
		file, diags := hclparse.NewParser().ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}

		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{},
		}
		if diags := gohcl.DecodeBody(file.Body, evalCtx, &cfg); diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating %s: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	switch parser.Whitespace(c.Whitespace) {
	case parser.WhitespacePreserve, parser.WhitespaceCondense:
	default:
		return errors.Errorf("whitespace must be %q or %q, got %q", parser.WhitespacePreserve, parser.WhitespaceCondense, c.Whitespace)
	}
	for _, tag := range c.PreTags {
		if strings.TrimSpace(tag) == "" {
			return errors.New("pre_tags must not contain empty names")
		}
	}
	return nil
}

// Options converts the file settings into parser options.
func (c *Config) Options() parser.Options {
	return parser.Options{
		Dev:           c.Dev,
		SSR:           c.SSR,
		NewSlotSyntax: c.NewSlotSyntax,
		Whitespace:    parser.Whitespace(c.Whitespace),
		IsPreTag:      parser.PreTags(c.PreTags...),
		IsReservedTag: parser.ReservedTags(c.ExtraReservedTags...),
	}
}
