// Package config layers document, directory and global configuration.
// Lookups use dotted paths ("docweave.autonumbering.depth") and fall back
// through the parent chain, so a document inherits from its directory and
// a directory from the tree root.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hesusruiz/vcutils/yaml"
)

// Config is one layer of configuration values with an optional parent.
type Config struct {
	values *yaml.YAML
	parent *Config
}

// New returns an empty layer on top of parent. Parent may be nil.
func New(parent *Config) *Config {
	v, _ := yaml.ParseYaml("")
	return &Config{values: v, parent: parent}
}

// Parse builds a layer from YAML text on top of parent. The text must be
// empty or a key-value mapping; lists and bare scalars cannot serve as a
// configuration layer.
func Parse(text string, parent *Config) (*Config, error) {
	v, err := yaml.ParseYaml(text)
	if err != nil {
		return nil, err
	}
	if d := v.Data(); d != nil {
		if _, ok := d.(map[string]any); !ok {
			return nil, fmt.Errorf("configuration is not a key-value mapping: %T", d)
		}
	}
	return &Config{values: v, parent: parent}, nil
}

// Parent returns the fallback layer, or nil at the root.
func (c *Config) Parent() *Config {
	if c == nil {
		return nil
	}
	return c.parent
}

// Get returns the raw value for key, walking the parent chain. The second
// result is false when no layer defines the key.
func (c *Config) Get(key string) (any, bool) {
	for l := c; l != nil; l = l.parent {
		if l.values == nil {
			continue
		}
		if v, err := yaml.Get(l.values.Data(), key); err == nil && v != nil {
			return v, true
		}
	}
	return nil, false
}

// String returns the string value for key or def. Scalar values of other
// types are formatted, wrong-typed values yield def.
func (c *Config) String(key, def string) string {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	switch s := v.(type) {
	case string:
		return s
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(s)
	}
	return def
}

// Int returns the integer value for key or def. Untyped YAML numbers
// arrive as uint64 or int64.
func (c *Config) Int(key string, def int) int {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case uint64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if i, err := strconv.Atoi(n); err == nil {
			return i
		}
	}
	return def
}

// Bool returns the boolean value for key or def.
func (c *Config) Bool(key string, def bool) bool {
	v, ok := c.Get(key)
	if !ok {
		return def
	}
	switch b := v.(type) {
	case bool:
		return b
	case string:
		if p, err := strconv.ParseBool(b); err == nil {
			return p
		}
	}
	return def
}

// ExtractFrontMatter splits a leading "---" fenced YAML block off a
// document. It returns the YAML text, the remaining body and the 1-based
// line number at which the body starts. Documents without front matter
// come back unchanged with line 1.
func ExtractFrontMatter(text string) (front, body string, bodyLine int) {
	const fence = "---"
	if !strings.HasPrefix(text, fence+"\n") && text != fence {
		return "", text, 1
	}
	lines := strings.Split(text, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], " ") == fence {
			front = strings.Join(lines[1:i], "\n")
			body = strings.Join(lines[i+1:], "\n")
			return front, body, i + 2
		}
	}
	// No closing fence: the would-be front matter is document content.
	return "", text, 1
}
