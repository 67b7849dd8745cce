// Package config loads and validates QMTG's TOML configuration.
//
// Configuration is optional: every value has a default, and the common case
// of running with no config file at all yields a working setup rooted at
// ~/.qmtg. A sample config can be materialized with CreateSample.
package config
