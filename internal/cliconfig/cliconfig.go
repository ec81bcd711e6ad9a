// Package cliconfig loads the YAML device profiles shared by the command-line tools.
//
// A profile names the transport and the part geometry:
//
//	transport: /dev/i2c-5
//	address: 0x50
//	page_size: 64
//	total_size: 32768
//	write_delay: 5ms
//	log_level: info
//	sim:
//	  write_cycle: 3ms
//
// Omitted keys keep the driver defaults. A transport of the form "sim:name"
// runs the tools against an in-process simulated part, configured by the
// sim block.
package cliconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/go-eeprom/bus/simbus"
	"github.com/arloliu/go-eeprom/eeprom"
	"github.com/arloliu/go-eeprom/logger"
)

// Profile is a device profile.
type Profile struct {
	Transport  string        `yaml:"transport"`
	Address    uint8         `yaml:"address"`
	PageSize   int           `yaml:"page_size"`
	TotalSize  int           `yaml:"total_size"`
	WriteDelay time.Duration `yaml:"write_delay"`
	LogLevel   string        `yaml:"log_level"`
	Sim        SimProfile    `yaml:"sim"`
}

// SimProfile configures the simulated part behind a "sim:" transport.
type SimProfile struct {
	WriteCycle time.Duration `yaml:"write_cycle"`
}

// Default returns the profile of the default part on /dev/i2c-5.
func Default() Profile {
	return Profile{
		Transport:  eeprom.DefaultTransportID,
		Address:    eeprom.DefaultBusAddress,
		PageSize:   eeprom.DefaultPageSize,
		TotalSize:  eeprom.DefaultTotalSize,
		WriteDelay: eeprom.DefaultWriteDelay,
		LogLevel:   logger.InfoLevel.String(),
	}
}

// Parse decodes a YAML profile on top of the defaults. Unknown keys are rejected.
func Parse(data []byte) (Profile, error) {
	p := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Profile{}, fmt.Errorf("cliconfig: parse profile: %w", err)
	}

	if _, err := logger.ParseLevel(p.LogLevel); err != nil {
		return Profile{}, fmt.Errorf("cliconfig: %w", err)
	}

	return p, nil
}

// Load reads the profile at path. An empty path yields Default().
func Load(path string) (Profile, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("cliconfig: read profile: %w", err)
	}

	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}

	return p, nil
}

// Level returns the parsed log level.
func (p Profile) Level() logger.LogLevel {
	level, _ := logger.ParseLevel(p.LogLevel)
	return level
}

// Options returns the driver options described by the profile.
func (p Profile) Options(l logger.Logger) []eeprom.Option {
	opts := []eeprom.Option{
		eeprom.WithBusAddress(p.Address),
		eeprom.WithPageSize(p.PageSize),
		eeprom.WithTotalSize(p.TotalSize),
		eeprom.WithWriteDelay(p.WriteDelay),
	}
	if l != nil {
		opts = append(opts, eeprom.WithLogger(l))
	}

	return opts
}

// Config builds the driver configuration, creating the simulated part first
// when the transport is a "sim:" one.
func (p Profile) Config(l logger.Logger) (*eeprom.Config, error) {
	if name, ok := strings.CutPrefix(p.Transport, simbus.Scheme+":"); ok {
		if _, err := simbus.LoadOrCreate(name,
			simbus.WithSize(p.TotalSize),
			simbus.WithPageSize(p.PageSize),
			simbus.WithAddress(p.Address),
			simbus.WithWriteCycle(p.Sim.WriteCycle),
		); err != nil {
			return nil, fmt.Errorf("cliconfig: create simulated device: %w", err)
		}
	}

	return eeprom.NewConfig(p.Transport, p.Options(l)...)
}

// Open builds the configuration and opens the device.
func (p Profile) Open(l logger.Logger) (*eeprom.Device, error) {
	cfg, err := p.Config(l)
	if err != nil {
		return nil, err
	}

	return eeprom.Open(cfg)
}
