package defaults

import (
	"errors"
	"fmt"
	"slices"
	"strconv"

	"github.com/davedittrich/ocd/internal/config"
)

// Defaults holds command line option defaults that survive invocations.
// Values are persisted as YAML so they can be inspected and edited by hand.
type Defaults struct {
	// ModelID is the model used for text completions.
	ModelID string `yaml:"model_id"`
	// Temperature is the sampling temperature for completions.
	Temperature float64 `yaml:"temperature"`
	// MaxTokens caps the completion length.
	MaxTokens int64 `yaml:"max_tokens"`
	// N is how many choices to generate.
	N int64 `yaml:"n"`
	// EditModelID is the model used to rewrite prompts from instructions.
	EditModelID string `yaml:"edit_model_id"`
	// CodeModelID is the model used for code-oriented commands.
	CodeModelID string `yaml:"code_model_id"`
	// CodeTemperature is the sampling temperature for code commands.
	CodeTemperature float64 `yaml:"code_temperature"`
	// CodeMaxTokens caps completions produced by code commands.
	CodeMaxTokens int64 `yaml:"code_max_tokens"`
	// ImagesN is how many images to generate per prompt.
	ImagesN int64 `yaml:"images_n"`
	// ImagesMaxN is the upper bound of images per request.
	ImagesMaxN int64 `yaml:"images_max_n"`
	// ImagesMaxPrompt is the maximum prompt length for image generation.
	ImagesMaxPrompt int64 `yaml:"images_max_prompt"`
	// ImagesSize is the generated image size.
	ImagesSize string `yaml:"images_size"`
	// ImagesResponseFormat selects b64_json or url responses.
	ImagesResponseFormat string `yaml:"images_response_format"`
}

const (
	// DefaultFilename is the default path of the persisted defaults file.
	DefaultFilename = "ocd-defaults.yaml"

	// TokenEncoding is the tiktoken encoding used for token counting.
	TokenEncoding = "cl100k_base"
)

var (
	// ImageSizes are the sizes accepted by the image generation endpoint.
	ImageSizes = []string{"256x256", "512x512", "1024x1024"}

	// ImageResponseFormats are the accepted image response formats.
	ImageResponseFormats = []string{"b64_json", "url"}

	// errUnknownName is returned when Set is called with an unknown default name.
	errUnknownName = errors.New("unknown default name")
	// errInvalidChoice is returned when a value is outside its allowed set.
	errInvalidChoice = errors.New("value is not an allowed choice")
	// errOutOfRange is returned when a numeric value is outside its range.
	errOutOfRange = errors.New("value is out of range")
)

// New returns Defaults populated with initial values.
func New() *Defaults {
	return &Defaults{
		ModelID:              "gpt-3.5-turbo-instruct",
		Temperature:          0.9,
		MaxTokens:            16,
		N:                    1,
		EditModelID:          "gpt-4o-mini",
		CodeModelID:          "gpt-4o-mini",
		CodeTemperature:      0.0,
		CodeMaxTokens:        500,
		ImagesN:              1,
		ImagesMaxN:           10,
		ImagesMaxPrompt:      1000,
		ImagesSize:           "512x512",
		ImagesResponseFormat: "b64_json",
	}
}

// List returns name/type/value rows in a fixed order for display.
func (d *Defaults) List() [][]string {
	return [][]string{
		{"model_id", "string", d.ModelID},
		{"temperature", "float", formatFloat(d.Temperature)},
		{"max_tokens", "int", strconv.FormatInt(d.MaxTokens, 10)},
		{"n", "int", strconv.FormatInt(d.N, 10)},
		{"edit_model_id", "string", d.EditModelID},
		{"code_model_id", "string", d.CodeModelID},
		{"code_temperature", "float", formatFloat(d.CodeTemperature)},
		{"code_max_tokens", "int", strconv.FormatInt(d.CodeMaxTokens, 10)},
		{"images_n", "int", strconv.FormatInt(d.ImagesN, 10)},
		{"images_max_n", "int", strconv.FormatInt(d.ImagesMaxN, 10)},
		{"images_max_prompt", "int", strconv.FormatInt(d.ImagesMaxPrompt, 10)},
		{"images_size", "string", d.ImagesSize},
		{"images_response_format", "string", d.ImagesResponseFormat},
	}
}

// Set assigns a default by its display name, parsing and validating the value.
func (d *Defaults) Set(name, value string) error {
	switch name {
	case "model_id":
		d.ModelID = value
	case "edit_model_id":
		d.EditModelID = value
	case "code_model_id":
		d.CodeModelID = value
	case "temperature":
		return setTemperature(&d.Temperature, value)
	case "code_temperature":
		return setTemperature(&d.CodeTemperature, value)
	case "max_tokens":
		return setInt(&d.MaxTokens, value, 1, 1<<20)
	case "code_max_tokens":
		return setInt(&d.CodeMaxTokens, value, 1, 1<<20)
	case "n":
		return setInt(&d.N, value, 1, 10)
	case "images_n":
		return setInt(&d.ImagesN, value, 1, d.ImagesMaxN)
	case "images_max_n":
		return setInt(&d.ImagesMaxN, value, 1, 100)
	case "images_max_prompt":
		return setInt(&d.ImagesMaxPrompt, value, 1, 10000)
	case "images_size":
		if !slices.Contains(ImageSizes, value) {
			return fmt.Errorf("images_size %q: %w", value, errInvalidChoice)
		}

		d.ImagesSize = value
	case "images_response_format":
		if !slices.Contains(ImageResponseFormats, value) {
			return fmt.Errorf("images_response_format %q: %w", value, errInvalidChoice)
		}

		d.ImagesResponseFormat = value
	default:
		return fmt.Errorf("%q: %w", name, errUnknownName)
	}

	return nil
}

// setTemperature parses a sampling temperature and enforces the [0, 1] range.
func setTemperature(target *float64, value string) error {
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("parse temperature: %w", err)
	}

	if parsed < 0 || parsed > 1 {
		return fmt.Errorf("temperature %v must be within [0, 1]: %w", parsed, errOutOfRange)
	}

	*target = parsed

	return nil
}

// setInt parses an integer and enforces the inclusive [minimum, maximum] range.
func setInt(target *int64, value string, minimum, maximum int64) error {
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return fmt.Errorf("parse integer: %w", err)
	}

	if parsed < minimum || parsed > maximum {
		return fmt.Errorf("%d must be within [%d, %d]: %w", parsed, minimum, maximum, errOutOfRange)
	}

	*target = parsed

	return nil
}

// formatFloat renders floats without trailing zeros for table output.
func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// filePermissions reuses the config package's restricted mode.
const filePermissions = config.DefaultFilePermissions
