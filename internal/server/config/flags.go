package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/socialnet/internal/flagx"
)

// Flags lists every value-taking flag understood by the server, the JSON
// config selectors included. cmd/server uses it to locate the command word.
var Flags = []string{"-c", "-config", "-d", "-t", "-s", "-f", "-k", "-v"}

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   PostgreSQL DSN
//	-t int      connect timeout, seconds
//	-s string   password hashing salt
//	-f string   seed data file
//	-k string   session token HMAC secret key
//	-v int      session token validity, minutes
//
// Notes:
//   - os.Args is first filtered with flagx.FilterArgs so that the command
//     word and the -c/-config selector do not reach the flag set.
//   - Duration flags are accepted as integers and converted to time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-t", "-s", "-f", "-k", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	connectTimeout := fs.Int("t", int(config.ConnectTimeout.Seconds()), "connect timeout (in seconds)")
	fs.StringVar(&config.PasswordSalt, "s", config.PasswordSalt, "password hashing salt")
	fs.StringVar(&config.SeedFile, "f", config.SeedFile, "seed data file")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "session token secret key")
	sessionValidity := fs.Int("v", int(config.SessionTokenValidityDuration.Minutes()), "session token validity (in minutes)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.ConnectTimeout = time.Duration(*connectTimeout) * time.Second
	config.SessionTokenValidityDuration = time.Duration(*sessionValidity) * time.Minute
}
