// Package config handles loading and parsing of configuration from YAML files,
// a .env file and environment variables. It defines the application configuration
// structure: listen address and timeouts, dataset location, logging and metrics.
//
// The defaults match the service's historical fixed behaviour: port 3000 and
// climate.json in the working directory.
package config
