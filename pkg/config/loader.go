// Package config loads qmqp configuration files.
//
// YAML, JSON and CUE files are all read through CUE, so several files can be
// unified into a single value and conflicting settings are reported instead
// of silently overridden.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/encoding/yaml"
)

// DefaultPaths are searched by the qmqp command when no --config is given.
// Later files are unified with earlier ones, so they may add settings but not
// contradict them.
var DefaultPaths = []string{
	"/etc/qmqp/*.yaml",
	"/etc/qmqp/*.cue",
	"~/.config/qmqp/*.yaml",
	"~/.config/qmqp/*.cue",
}

// LoadValueFromReader parses YAML (or JSON, which YAML accepts) from r.
func LoadValueFromReader(r io.Reader) (cue.Value, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to read config: %w", err)
	}

	file, err := yaml.Extract("", data)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to parse config: %w", err)
	}

	val := cuecontext.New().BuildFile(file)
	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to build CUE value: %w", err)
	}
	return val, nil
}

// LoadValue loads a single file or a directory of .cue files.
func LoadValue(path string) (cue.Value, error) {
	return loadValue(cuecontext.New(), path)
}

func loadValue(ctx *cue.Context, path string) (cue.Value, error) {
	info, err := os.Stat(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to stat path: %w", err)
	}

	var val cue.Value
	if info.IsDir() || strings.EqualFold(filepath.Ext(path), ".cue") {
		val, err = loadInstance(ctx, path, info.IsDir())
		if err != nil {
			return cue.Value{}, err
		}
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return cue.Value{}, fmt.Errorf("failed to read file: %w", err)
		}

		if strings.EqualFold(filepath.Ext(path), ".json") {
			val = ctx.CompileBytes(data, cue.Filename(path))
		} else {
			// .yaml, .yml and anything unrecognised
			file, err := yaml.Extract(path, data)
			if err != nil {
				return cue.Value{}, fmt.Errorf("failed to parse %s: %w", path, err)
			}
			val = ctx.BuildFile(file)
		}
	}

	if err := val.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("failed to build CUE value from %s: %w", path, err)
	}
	return val, nil
}

// loadInstance uses the CUE loader so that .cue files may import packages.
func loadInstance(ctx *cue.Context, path string, isDir bool) (cue.Value, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return cue.Value{}, fmt.Errorf("failed to resolve path: %w", err)
	}

	cfg := &load.Config{
		Dir:       filepath.Dir(absPath),
		DataFiles: true,
	}
	arg := absPath
	if isDir {
		arg = path
	}

	instances := load.Instances([]string{arg}, cfg)
	if len(instances) == 0 {
		return cue.Value{}, fmt.Errorf("no instances loaded from %s", path)
	}
	if err := instances[0].Err; err != nil {
		return cue.Value{}, fmt.Errorf("failed to load config: %w", err)
	}
	return ctx.BuildInstance(instances[0]), nil
}

// LoadAndUnifyPaths expands each pattern (globs and a leading ~ are
// supported), loads every matching file and unifies them into one value.
// Patterns that match nothing are skipped, so an empty result is an empty
// struct rather than an error.
func LoadAndUnifyPaths(patterns []string) (cue.Value, error) {
	ctx := cuecontext.New()
	result := ctx.CompileString("{}")

	for _, pattern := range patterns {
		paths, err := expand(pattern)
		if err != nil {
			return cue.Value{}, err
		}
		for _, path := range paths {
			val, err := loadValue(ctx, path)
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					continue
				}
				return cue.Value{}, err
			}
			result = result.Unify(val)
			if err := result.Err(); err != nil {
				return cue.Value{}, fmt.Errorf("conflicting configuration in %s: %w", path, err)
			}
		}
	}

	if err := result.Validate(); err != nil {
		return cue.Value{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return result, nil
}

func expand(pattern string) ([]string, error) {
	if rest, ok := strings.CutPrefix(pattern, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			// No home directory means nothing to load from it.
			return nil, nil
		}
		pattern = filepath.Join(home, rest)
	}

	if !strings.ContainsAny(pattern, "*?[") {
		return []string{pattern}, nil
	}
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid config pattern %q: %w", pattern, err)
	}
	return paths, nil
}

// LoadFromFile decodes a file or .cue directory into a T.
//
//	cfg, err := config.LoadFromFile[qmqpclient.Config]("client.yaml")
func LoadFromFile[T any](path string) (*T, error) {
	val, err := LoadValue(path)
	if err != nil {
		return nil, err
	}
	return decode[T](val)
}

// LoadFromPaths decodes the unification of all files matched by patterns
// into a T. See LoadAndUnifyPaths.
func LoadFromPaths[T any](patterns []string) (*T, error) {
	val, err := LoadAndUnifyPaths(patterns)
	if err != nil {
		return nil, err
	}
	return decode[T](val)
}

func decode[T any](val cue.Value) (*T, error) {
	var out T
	if err := val.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &out, nil
}
