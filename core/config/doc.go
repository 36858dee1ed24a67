// Package config provides configuration management for the launcher.
//
// It utilizes Viper for layering the configuration sources and godotenv for reading
// an optional .env file.
//
// # Resolution Order
//
// Each tunable is resolved, highest priority first, from:
//   - a property passed as -Dkey=value (e.g. -Dserver.port=8081)
//   - an environment variable (e.g. SERVER_PORT)
//   - the .env file
//   - the hard-coded default from the struct tags
//
// Blank values are treated as absent. Explicit setters on the boot controller take
// priority over all of the above. The environment lookup is injected through Sources,
// so tests never touch the process environment.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".", map[string]string{"server.port": "9090"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
