package config

/*
License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
	"gopkg.in/yaml.v3"
)

// Configuration keys.
const (
	KeyTracingAdapter = "tracing.adapter"
	KeyTracingDest    = "tracing.destination"
	KeyTraceRoot      = "trace.root"
	KeyEngineStrict   = "engine.strict"
	KeyReportFormat   = "report.format"
)

// Conf is a flat key-value configuration.
type Conf struct {
	values map[string]string
}

var _ schuko.Configuration = (*Conf)(nil)

// New creates a configuration holding the defaults.
func New() *Conf {
	c := &Conf{values: make(map[string]string)}
	c.InitDefaults()
	return c
}

// Load reads a YAML configuration. Values from r override the defaults.
func Load(r io.Reader) (*Conf, error) {
	c := New()
	var m map[string]interface{}
	if err := yaml.NewDecoder(r).Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return c, nil
		}
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	flatten("", m, c.values)
	return c, nil
}

// LoadFile reads a YAML configuration file.
func LoadFile(path string) (*Conf, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

func flatten(prefix string, m map[string]interface{}, into map[string]string) {
	for k, v := range m {
		if prefix != "" {
			k = prefix + "." + k
		}
		switch x := v.(type) {
		case map[string]interface{}:
			flatten(k, x, into)
		case nil:
			into[k] = ""
		default:
			into[k] = fmt.Sprint(x)
		}
	}
}

// Set sets a configuration value.
func (c *Conf) Set(key, value string) {
	c.values[key] = value
}

// Keys returns all configuration keys, sorted.
func (c *Conf) Keys() []string {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// InitDefaults is part of interface schuko.Configuration.
func (c *Conf) InitDefaults() {
	c.values[KeyTracingAdapter] = "go"
	c.values[KeyTraceRoot] = "Error"
	c.values[KeyEngineStrict] = "false"
	c.values[KeyReportFormat] = "text"
}

// IsSet is part of interface schuko.Configuration.
func (c *Conf) IsSet(key string) bool {
	_, ok := c.values[key]
	return ok
}

// GetString is part of interface schuko.Configuration.
func (c *Conf) GetString(key string) string {
	return c.values[key]
}

// GetInt is part of interface schuko.Configuration. Values which are not
// integers yield 0.
func (c *Conf) GetInt(key string) int {
	n, err := strconv.Atoi(c.values[key])
	if err != nil {
		return 0
	}
	return n
}

// GetBool is part of interface schuko.Configuration. Values which are not
// booleans yield false.
func (c *Conf) GetBool(key string) bool {
	b, err := strconv.ParseBool(c.values[key])
	if err != nil {
		return false
	}
	return b
}

// IsInteractive is part of interface schuko.Configuration.
func (c *Conf) IsInteractive() bool {
	return false
}

// SetupTracing installs schuko's trace2go tracers, configured from conf:
// the adapter from key "tracing.adapter", the output from
// "tracing.destination" and trace levels from keys "trace.root" and
// "trace.<tracer key>", e.g. "trace.restyle.engine".
func SetupTracing(conf schuko.Configuration) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(conf, "trace", trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}
