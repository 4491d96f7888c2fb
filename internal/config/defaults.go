package config

const remoteBase = "https://raw.githubusercontent.com/sweko/internet-programming-adefinater/refs/heads/preparation/data/"

// DefaultRemoteURLs are the published pages of the episode data set.
var DefaultRemoteURLs = []string{
	remoteBase + "doctor-who-episodes-01-10.json",
	remoteBase + "doctor-who-episodes-11-20.json",
	remoteBase + "doctor-who-episodes-21-30.json",
	remoteBase + "doctor-who-episodes-31-40.json",
	remoteBase + "doctor-who-episodes-41-50.json",
	remoteBase + "doctor-who-episodes-51-65.json",
}

// DefaultFallback is the local backup, relative to the working directory.
const DefaultFallback = "./doctor-who-episodes-full.json"

// Default returns a Config populated with the built-in settings.
func Default() Config {
	return Config{
		Source: Source{
			RemoteURLs: append([]string(nil), DefaultRemoteURLs...),
			Fallback:   DefaultFallback,
		},
		HTTP: HTTP{
			TimeoutSeconds: 10,
			RetryMax:       2,
			RetryBaseMS:    250,
			RetryCapMS:     5000,
			RPS:            20,
			Burst:          20,
		},
		Display: Display{
			FallbackDelayMS:  1000,
			SuccessHoldMS:    1500,
			FilterMode:       "substring",
			FuzzyMinCoverage: 0.6,
			FuzzyMaxSpread:   40,
			FuzzyMaxResults:  200,
		},
		Logging: Logging{
			Level: "info",
			File:  "debug.log",
		},
	}
}
