// Package config loads, caches and saves blockfall game presets.
//
// A preset is a JSON file in the configs directory naming a mode, the piece
// palette and optionally a base gravity speed and a fixed seed:
//
//	{
//	  "name": "Survival",
//	  "description": "Survive as long as possible while gravity speeds up",
//	  "mode": "survival",
//	  "colors": ["#00FF00", "#00FFFF", "#0000FF"],
//	  "base_speed_ms": 700
//	}
//
// The file name without .json is the config ID used when creating sessions.
// The default preset is classic.json when it is valid, otherwise the first
// valid preset, otherwise engine.DefaultGameConfig.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		return err
//	}
//
//	gameConfig, err := manager.LoadConfig("time-attack")
//	presets, err := manager.ListConfigs()
package config
