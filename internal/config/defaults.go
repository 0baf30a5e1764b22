package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	return Config{
		Automata: map[string]string{
			"1": "example-1.txt",
			"2": "example-2.txt",
			"3": "example-3.txt",
		},
		Default: "1",
		Serve: ServeConfig{
			Address:       "127.0.0.1:50077",
			DialTimeoutMS: 3000,
		},
		Log: LogConfig{Level: "info"},
	}
}
