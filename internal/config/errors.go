package config

import "errors"

var (
	// ErrConfigKeyMissing is reported when a required key is absent from the settings file
	ErrConfigKeyMissing = errors.New("required config key missing")

	// ErrConfigUnparsable is reported when the settings file is not a YAML mapping
	ErrConfigUnparsable = errors.New("config file could not be parsed")

	// ErrConfigValueInvalid is reported when a value has the wrong type or is out of range
	ErrConfigValueInvalid = errors.New("invalid config value")

	// ErrInvalidFont is returned when a font descriptor cannot be parsed
	ErrInvalidFont = errors.New("font must be family,size,weight,style")

	// ErrInvalidColor is returned when a color is not a #rgb or #rrggbb hex string
	ErrInvalidColor = errors.New("color must be a hex string like #ffdd1c")

	// ErrInvalidPeriod is returned when a blink period is not a positive hh:mm:ss value
	ErrInvalidPeriod = errors.New("blink period must be a positive hh:mm:ss value")
)

// ErrConfigDirCreation is returned when the config directory cannot be created
var ErrConfigDirCreation = errors.New("failed to create config directory")
