/*
Crunchd starts a cfgcrunch server and begins listening for new connections.

Usage:

	crunchd [flags]
	crunchd [flags] -l [[ADDRESS]:PORT]

Once started, the server will listen for HTTP requests and respond to them
using REST protocol. Logged-in users may submit grammars to be simplified, and
the results are kept so they can be retrieved later. By default, it will listen
on localhost:8080. This can be changed with the --listen/-l flag (or config via
environment var). The flag argument must be either a full address with port,
such as "192.168.0.2:6001", or just the port preceeded by a colon, such as
":6001".

If a JWT token secret is not given, one will be automatically generated. As a
consequence, in this mode of operation all tokens are rendered invalid as soon
as the server shuts down. This is suitable for testing, but must be given via
either CLI flags or environment variable if running in production.

The flags are:

	-v, --version
		Give the current version of the server and then exit.

	-l, --listen LISTEN_ADDRESS
		Listen on the given address. Must be in BIND_ADDRESS:PORT or :PORT
		format. If not given, will default to the value of environment variable
		CFGCRUNCH_LISTEN_ADDRESS, and if that is not given, will default to
		localhost:8080.

	-s, --secret TOKEN_SECRET
		Use the provided secret for signing JWT tokens. If there are less than
		32 bytes in the secret, it will be repeated until it is. The maximum
		size is 64 bytes. If not given, will default to the value of environment
		variable CFGCRUNCH_TOKEN_SECRET. If no secret is specified or an empty
		secret is given, a random secret will be automatically generated.

	--db DRIVER[:PARAMS]
		Use the given DB connection string. DRIVER must be one of the following:
		inmem, sqlite. inmem has no further params. sqlite needs the path to the
		data directory such as sqlite:path/to/db_dir. If not given, will default
		to the value of environment variable CFGCRUNCH_DATABASE. If no DB driver
		is specified, an in-memory database is used.

	--max-expansion N
		Reject grammars whose epsilon removal would create more than N
		productions. Defaults to 65536.

	--admin-password PASSWORD
		Password given to the "admin" user created at startup if it does not
		already exist. If not given, will default to the value of environment
		variable CFGCRUNCH_ADMIN_PASSWORD, and if that is not given, will
		default to "password".
*/
package main

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/dekarrin/cfgcrunch/internal/version"
	"github.com/dekarrin/cfgcrunch/server"
	"github.com/dekarrin/cfgcrunch/server/crunch"
	"github.com/dekarrin/cfgcrunch/server/dao"
	"github.com/spf13/pflag"
)

const (
	EnvListen    = "CFGCRUNCH_LISTEN_ADDRESS"
	EnvSecret    = "CFGCRUNCH_TOKEN_SECRET"
	EnvDB        = "CFGCRUNCH_DATABASE"
	EnvAdminPass = "CFGCRUNCH_ADMIN_PASSWORD"
)

var (
	flagVersion      = pflag.BoolP("version", "v", false, "Give the current version of the server and then exit.")
	flagListen       = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret       = pflag.StringP("secret", "s", "", "Use the given secret for token generation.")
	flagDB           = pflag.String("db", "", "Use the given DB connection string.")
	flagMaxExpansion = pflag.Int("max-expansion", crunch.DefaultMaxExpansion, "Reject grammars that would expand to more than this many productions.")
	flagAdminPass    = pflag.String("admin-password", "", "Password for the initial admin user.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (cfgcrunch v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	if len(pflag.Args()) > 0 {
		fmt.Fprintf(os.Stderr, "Too many arguments\nDo -h for help.\n")
		os.Exit(1)
	}

	listenAddr := fromFlagOrEnv("listen", *flagListen, EnvListen)
	if listenAddr != "" {
		bindParts := strings.SplitN(listenAddr, ":", 2)
		if len(bindParts) != 2 {
			fmt.Fprintf(os.Stderr, "Listen address is not in ADDRESS:PORT or :PORT format.\nDo -h for help.\n")
			os.Exit(1)
		}
		if _, err := strconv.Atoi(bindParts[1]); err != nil {
			fmt.Fprintf(os.Stderr, "%q is not a valid port number.\nDo -h for help.\n", bindParts[1])
			os.Exit(1)
		}
	}

	cfg := server.Config{
		MaxExpansion: *flagMaxExpansion,
	}

	if dbConnStr := fromFlagOrEnv("db", *flagDB, EnvDB); dbConnStr != "" {
		db, err := server.ParseDBConnString(dbConnStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Not a valid DB string: %s\nDo -h for help.\n", err.Error())
			os.Exit(1)
		}
		cfg.DB = db
	}

	if tokSecStr := fromFlagOrEnv("secret", *flagSecret, EnvSecret); tokSecStr != "" {
		cfg.TokenSecret = []byte(tokSecStr)

		for len(cfg.TokenSecret) < server.MinSecretSize {
			doubled := make([]byte, len(cfg.TokenSecret)*2)
			copy(doubled, cfg.TokenSecret)
			copy(doubled[len(cfg.TokenSecret):], cfg.TokenSecret)
			cfg.TokenSecret = doubled
		}

		if len(cfg.TokenSecret) > server.MaxSecretSize {
			// keys would be chopped at 64, so rather than the user thinking
			// they have more security by giving a longer key, refuse to start.
			fmt.Fprintf(os.Stderr, "Token secret is %d bytes, but it must be <= %d bytes\nDo -h for help.\n", len(cfg.TokenSecret), server.MaxSecretSize)
			os.Exit(1)
		}
	} else {
		cfg.TokenSecret = make([]byte, server.MaxSecretSize)
		if _, err := rand.Read(cfg.TokenSecret); err != nil {
			fmt.Fprintf(os.Stderr, "Could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}

		log.Printf("WARN  Using generated token secret; all tokens issued will become invalid at shutdown")
	}

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatalf("FATAL could not start server: %s", err.Error())
	}
	log.Printf("DEBUG Server initialized")

	adminPass := fromFlagOrEnv("admin-password", *flagAdminPass, EnvAdminPass)
	if adminPass == "" {
		adminPass = "password"
	}

	// immediately create the admin user so we have someone we can log in as.
	admin, err := srv.CreateUser(context.Background(), "admin", adminPass, dao.Admin)
	if err != nil {
		log.Printf("ERROR could not create initial admin user: %v", err)
		os.Exit(2)
	}
	log.Printf("INFO  Admin user is %s", admin.ID)

	go func() {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, os.Interrupt)
		<-sigs
		log.Printf("INFO  Shutting down...")
		if err := srv.Close(); err != nil {
			log.Printf("ERROR %v", err)
		}
	}()

	log.Printf("INFO  Starting cfgcrunch server %s...", version.ServerCurrent)
	if err := srv.ServeForever(listenAddr); err != nil {
		log.Fatalf("FATAL %v", err)
	}
}

// fromFlagOrEnv returns the value of the named flag if it was given on the
// command line, and the value of the environment variable otherwise.
func fromFlagOrEnv(flagName, flagVal, envVar string) string {
	if pflag.Lookup(flagName).Changed {
		return flagVal
	}
	return os.Getenv(envVar)
}
