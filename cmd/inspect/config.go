package main

import "github.com/kelseyhightower/envconfig"

type Config struct {
	BadgerFilepath string `envconfig:"BADGER_FILEPATH" default:"./data/badger"`
	// INSPECT_COLOURS enables colorized section headers
	Colours bool `envconfig:"INSPECT_COLOURS" default:"true"`
	// INSPECT_LIMIT bounds the rows printed per section, 0 prints everything
	Limit int `envconfig:"INSPECT_LIMIT" default:"0"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
