package gokuromoji

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Settings is the TOML configuration of a tokenizer:
//
//	path = "/usr/local/share/gokuromoji"
//	systemDict = "unidic"
//	userDict = ["user.txt"]
//	schema = "unidic"
//	mode = "search"
//	split = true
//
//	[penalties]
//	kanjiLengthThreshold = 2
//	kanjiPenalty = 3000
//	otherLengthThreshold = 7
//	otherPenalty = 1700
//
// Relative dictionary paths are resolved against path, or against the
// directory of the settings file when path is not given.
type Settings struct {
	Path       string    `toml:"path"`
	SystemDict string    `toml:"systemDict"`
	UserDict   []string  `toml:"userDict"`
	Schema     string    `toml:"schema"`
	Mode       Mode      `toml:"mode"`
	Split      bool      `toml:"split"`
	Penalties  Penalties `toml:"penalties"`
}

func NewSettings() *Settings {
	return &Settings{
		Split:     true,
		Penalties: DefaultPenalties,
	}
}

// ParseSettings reads settings from r. defpath is used as the base of
// relative paths when the settings do not set path.
func ParseSettings(defpath string, r io.Reader) (*Settings, error) {
	s := NewSettings()
	md, err := toml.NewDecoder(r).Decode(s)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown settings: %s", strings.Join(keys, ", "))
	}
	if !md.IsDefined("path") {
		s.Path = defpath
	}
	s.SystemDict = s.getPath(s.SystemDict)
	for i, ud := range s.UserDict {
		s.UserDict[i] = s.getPath(ud)
	}
	return s, nil
}

func ReadSettings(filename string) (*Settings, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := ParseSettings(filepath.Dir(filename), f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return s, nil
}

func (s *Settings) getPath(path string) string {
	if path == "" || filepath.IsAbs(path) || s.Path == "" {
		return path
	}
	return filepath.Join(s.Path, path)
}
