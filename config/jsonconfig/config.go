package jsonconfig

import (
	"encoding/json"
	"os"
	"path"
	"regexp"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Schema holds the different Implementations the client wants to configure,
// keyed by the top-level JSON field they are read from.
type Schema map[string]Implementations

// Implementations maps the names of implementations to the Implementation.
// As a special case, "" maps to a default implementation that is used
// as-is when the top-level field is absent.
type Implementations map[string]Implementation

// Implementation is a pointer to a config struct with a "Type" field.
// It is filled in by json.Unmarshal.
type Implementation interface{}

// Configuration holds the chosen, parsed Implementation per schema field.
type Configuration map[string]Implementation

var emptyJson = []byte("{}")

// Parse picks, for every field of the schema, the Implementation named by
// that field's "Type" and unmarshals the field into it. Fields of text not
// in the schema are ignored.
func (schema Schema) Parse(text []byte) (Configuration, error) {
	var parsedConfig map[string]json.RawMessage
	if len(text) == 0 {
		text = emptyJson
	}
	if err := json.Unmarshal(text, &parsedConfig); err != nil {
		return nil, errors.Wrap(err, "couldn't parse top-level config")
	}

	result := Configuration{}
	for optionName, impls := range schema {
		optionText := parsedConfig[optionName]
		// Parse this field just enough to get the type
		implName, err := ParseType(optionText)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing type for %v", optionName)
		}
		impl, ok := impls[implName]
		if !ok {
			return nil, errors.Errorf("parsing %v: %q is not a valid Type, expected one of %v", optionName, implName, impls.names())
		}
		if len(optionText) > 0 {
			if err := json.Unmarshal(optionText, impl); err != nil {
				return nil, errors.Wrapf(err, "parsing %v", optionName)
			}
		}
		result[optionName] = impl
	}
	return result, nil
}

func (impls Implementations) names() []string {
	var names []string
	for name := range impls {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// ParseType finds the type, which is simply the string value for the key "Type".
func ParseType(data json.RawMessage) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	var t struct{ Type string }
	if err := json.Unmarshal(data, &t); err != nil {
		return "", err
	}
	return t.Type, nil
}

var assetName = regexp.MustCompile(`^[[:alnum:]_-]*\.[[:alnum:]]*$`)

// GetConfigText finds the right text for a configFlag.
// If configFlag looks like a filename (of the form foo.bar where foo and bar are just alphanumeric)
// and there is an asset config/<configFlag>, read the asset.
// Otherwise if configFlag names an existing file, read the file.
// Otherwise, assume it's the literal json text.
func GetConfigText(configFlag string, asset func(string) ([]byte, error)) ([]byte, error) {
	if assetName.MatchString(configFlag) && asset != nil {
		configFileName := path.Join("config", configFlag)
		if configText, err := asset(configFileName); err == nil {
			log.Infof("Reading config asset %v", configFileName)
			return configText, nil
		}
	}
	if fi, err := os.Stat(configFlag); err == nil && fi.Mode().IsRegular() {
		log.Infof("Reading config file %v", configFlag)
		configText, err := os.ReadFile(configFlag)
		if err != nil {
			return nil, errors.Wrapf(err, "loading config file %v", configFlag)
		}
		return configText, nil
	}
	if assetName.MatchString(configFlag) {
		return nil, errors.Errorf("no config asset or file named %v", configFlag)
	}
	log.Infof("Using --config as JSON config: %v", configFlag)
	return []byte(configFlag), nil
}
