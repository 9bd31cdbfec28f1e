package gokuromoji

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/msnoigrs/gokuromoji/dictionary"
)

// ReadUserDictionaries reads the user dictionary files into one user
// dictionary, in order. It returns nil when filenames is empty.
func ReadUserDictionaries(schema *dictionary.Schema, filenames ...string) (*dictionary.UserDictionary, error) {
	if len(filenames) == 0 {
		return nil, nil
	}
	user := dictionary.NewUserDictionary(schema)
	for _, filename := range filenames {
		if err := readUserDictionary(user, filename); err != nil {
			return nil, fmt.Errorf("fail to read a user dictionary: %w", err)
		}
	}
	return user, nil
}

func readUserDictionary(user *dictionary.UserDictionary, filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return user.Read(f, filename)
}

// NewTokenizerFromSettings loads the dictionaries named by s and builds a
// tokenizer with its mode, splitting and penalties. opts are applied after
// the settings.
func NewTokenizerFromSettings(s *Settings, logger *log.Logger, opts ...Option) (*Tokenizer, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if s.SystemDict == "" {
		return nil, fmt.Errorf("no system dictionary")
	}
	schema, err := dictionary.LookupSchema(s.Schema)
	if err != nil {
		return nil, err
	}

	logger.Debug("loading system dictionary", "dir", s.SystemDict)
	d, err := dictionary.Load(s.SystemDict)
	if err != nil {
		return nil, fmt.Errorf("fail to read a system dictionary: %w", err)
	}
	logger.Debug("system dictionary", "description", d.Header.Description, "words", d.TokenInfo.Size())

	user, err := ReadUserDictionaries(schema, s.UserDict...)
	if err != nil {
		return nil, err
	}
	if user != nil {
		logger.Debug("user dictionary", "files", len(s.UserDict), "words", user.Len())
	}

	all := []Option{
		WithSchema(schema),
		WithMode(s.Mode),
		WithSplit(s.Split),
		WithPenalties(s.Penalties),
		WithUserDictionary(user),
		WithLogger(logger),
	}
	return New(d, append(all, opts...)...)
}
