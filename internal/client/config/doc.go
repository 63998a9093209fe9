// Package config provides configuration loading for the users CLI client.
//
// Sources, from lowest to highest precedence:
//
//	defaults -> JSON file (-c/-config) -> environment -> command-line flags
package config
