// Package config loads coursegrab settings from a json5 file with an
// optional local override next to it.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/gaurav-prasanna/coursegrab/core"
	"github.com/gaurav-prasanna/coursegrab/traverse"
	"github.com/titanous/json5"
)

// DefaultFile is read from the working directory when --config is not given.
const DefaultFile = "coursegrab.json5"

// Config mirrors the download flags. Empty fields leave the flag default.
type Config struct {
	Platform     string `json:"platform"`
	OutputDir    string `json:"output_dir"`
	RemoteURL    string `json:"remote_url"`
	Headless     bool   `json:"headless"`
	UserDataDir  string `json:"user_data_dir"`
	QuizFormat   string `json:"quiz_format"`
	SkipExisting bool   `json:"skip_existing"`
	Timing       Timing `json:"timing"`
}

// Timing holds Go duration strings such as "1.5s".
type Timing struct {
	ReadyTimeout   string `json:"ready_timeout"`
	PollInterval   string `json:"poll_interval"`
	LessonInterval string `json:"lesson_interval"`
	// Settle is keyed by resource kind: video, quiz, attachment.
	Settle map[string]string `json:"settle"`
}

// Load reads the config at path merged with its .local override. A missing
// file yields the zero Config.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultFile
	}
	cfg, err := Read[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return cfg, nil
}

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// Read merges the following files, later ones taking priority:
//  1. <name>.<ext>
//  2. <name>.local.<ext>
//
// It returns os.ErrNotExist when neither exists.
func Read[T any](name string) (T, error) {
	var out T
	allNotFound := true

	dirname := filepath.Dir(name)
	prefixname, ext := splitExt(filepath.Base(name))

	defaultFile, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(defaultFile) > 0 {
		if err := json5.Unmarshal(defaultFile, &out); err != nil {
			return out, err
		}
		allNotFound = false
	}

	localFilepath := filepath.Join(dirname, fmt.Sprintf("%s.local.%s", prefixname, ext))
	localFile, err := os.ReadFile(localFilepath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(localFile) > 0 {
		var override T
		if err := json5.Unmarshal(localFile, &override); err != nil {
			return out, err
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", localFilepath)
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}

// Resolve parses the durations, keeping the defaults for empty fields.
func (t Timing) Resolve() (traverse.Timing, error) {
	out := traverse.DefaultTiming()

	for _, f := range []struct {
		key string
		raw string
		dst *time.Duration
	}{
		{"ready_timeout", t.ReadyTimeout, &out.ReadyTimeout},
		{"poll_interval", t.PollInterval, &out.PollInterval},
		{"lesson_interval", t.LessonInterval, &out.LessonInterval},
	} {
		if err := parseDuration(f.key, f.raw, f.dst); err != nil {
			return out, err
		}
	}

	for kind, raw := range t.Settle {
		k := core.ResourceKind(strings.ToLower(kind))
		switch k {
		case core.KindVideo, core.KindQuiz, core.KindAttachment:
		default:
			return out, fmt.Errorf("timing.settle: unknown resource kind %q", kind)
		}
		d := out.Settle[k]
		if err := parseDuration("settle."+kind, raw, &d); err != nil {
			return out, err
		}
		out.Settle[k] = d
	}
	return out, nil
}

func parseDuration(key, raw string, dst *time.Duration) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("timing.%s: %w", key, err)
	}
	if d < 0 {
		return fmt.Errorf("timing.%s: negative duration %s", key, raw)
	}
	*dst = d
	return nil
}
