// Package config loads board presets for the Same Game engine.
//
// Presets live in a directory as either JSON (".json") or HCL (".hcl") files
// and decode into engine.GameConfig. A preset names the board width, the
// number of colors, and optionally a seed, a fixed starting layout, and
// message templates.
//
// JSON:
//
//	{
//	  "name": "Classic",
//	  "description": "10x10 board with five colors",
//	  "width": 10,
//	  "colors": 5
//	}
//
// HCL:
//
//	name        = "Small"
//	description = "6x6 warm-up board"
//	width       = 6
//	colors      = 3
//	seed        = 42
//
//	messages {
//	  welcome = "Warm up!"
//	}
//
// Lookup:
//
// LoadConfig accepts a name with or without extension and tries ".json"
// before ".hcl". Loaded presets are validated with engine.ValidateGameConfig
// and cached until RefreshCache. The default preset is "classic" when it
// exists, else the first valid preset by ID, else engine.DefaultConfig.
package config
