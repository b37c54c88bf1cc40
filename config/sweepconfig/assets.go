package sweepconfig

import (
	"embed"
)

//go:embed config/*.json
var assets embed.FS

// Asset returns the embedded config asset at name, ex: "config/default.json".
func Asset(name string) ([]byte, error) {
	return assets.ReadFile(name)
}
