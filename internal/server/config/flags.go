package config

import (
	"flag"
	"os"
	"time"

	"github.com/avolkov/authgate/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-y string   auth strategy: "token" or "session"
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-l int      session validity, minutes
//	-w int      bcrypt cost (work factor)
//	-f string   users file path (file-backed credential store)
//	-d string   PostgreSQL DSN
//	-r string   Redis address for the session store
//	-o string   comma-separated CORS allowed origins
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes. The conversion is
//     applied only when the flag was actually passed, so sub-minute values
//     from the JSON or env layers survive untouched.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-y", "-s", "-t", "-l", "-w", "-f", "-d", "-r", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.AuthStrategy, "y", config.AuthStrategy, "auth strategy: token or session")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	sessionValidity := fs.Int("l", int(config.SessionValidityDuration.Minutes()), "session validity (in minutes)")

	fs.IntVar(&config.BcryptCost, "w", config.BcryptCost, "bcrypt cost (work factor)")
	fs.StringVar(&config.UsersFile, "f", config.UsersFile, "users file path")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisAddr, "r", config.RedisAddr, "redis address")
	fs.StringVar(&config.CORSAllowedOrigins, "o", config.CORSAllowedOrigins, "CORS allowed origins (comma-separated)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "t":
			config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
		case "l":
			config.SessionValidityDuration = time.Duration(*sessionValidity) * time.Minute
		}
	})
}
