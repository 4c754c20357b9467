// Package config provides configuration management for the webhook server.
//
// Configuration is loaded from environment variables using the env package.
// When ENV_FILE names a dotenv file its entries are used as a fallback for
// variables that are not set in the process environment.
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("HTTP server will listen on %s\n", cfg.GetHTTPAddr())
package config
