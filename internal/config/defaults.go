package config

const (
	defaultHomeDir        = "~/.qmtg"
	defaultScryfallHost   = "api.scryfall.com"
	defaultRateLimitMS    = 200
	defaultCatalogTTLDays = 7
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
)

// Default returns a Config populated with repository defaults. The Home
// field still contains the unexpanded default; Load normalizes it.
func Default() Config {
	return Config{
		Home: "",
		Scryfall: Scryfall{
			Host:           defaultScryfallHost,
			Pretty:         false,
			RateLimitMS:    defaultRateLimitMS,
			CatalogTTLDays: defaultCatalogTTLDays,
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
