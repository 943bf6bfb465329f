package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spacedl/spacedl/constant"
	"github.com/spacedl/spacedl/where"
	"github.com/spf13/viper"
)

// ErrUnknownKey is wrapped by every lookup of a key that has no registered field.
var ErrUnknownKey = errors.New("unknown config key")

// File is the path of the TOML config file.
func File() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

// Parse converts raw command line values to the type of the default of k.
func Parse(k string, raw []string) (any, error) {
	field, ok := Default[k]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, k)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s: no value given", k)
	}

	switch field.Value.(type) {
	case []string:
		return raw, nil
	case int:
		n, err := strconv.Atoi(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects an integer, got %q", k, raw[0])
		}
		return n, nil
	case bool:
		b, err := strconv.ParseBool(raw[0])
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false, got %q", k, raw[0])
		}
		return b, nil
	default:
		return raw[0], nil
	}
}

// Save writes the current settings, creating the config file when there is none.
func Save() error {
	err := viper.WriteConfig()

	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return viper.SafeWriteConfig()
	}
	return err
}
