package source

import (
	gokata "github.com/reoring/gokata"
	drvgojson "github.com/reoring/gokata/source/gojson"
)

// init in a separate package to avoid import cycle in root. Importing this
// package selects go-json as the process-wide driver (the encoding/json stub
// applies unless built with -tags gojson).
func init() { gokata.SetJSONDriver(drvgojson.Driver()) }
