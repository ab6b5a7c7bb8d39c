// Package config loads, normalizes, and validates issuereel configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, loads a local .env file, and honours
// environment fallbacks such as GITHUB_TOKEN and OPENAI_API_KEY. The Config
// type centralizes every knob the CLI and pipeline stages need, so service
// credentials, encoder parameters, and slide styling are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
