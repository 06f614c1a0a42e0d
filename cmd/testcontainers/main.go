// Standalone runner for the container test stack. Starts the database,
// Authorizer, and service containers and keeps them up until interrupted,
// for poking at a full deployment without running the e2e suite.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/habitstack/stickerdb/tests/helpers"
)

const usage = `
Run the stickerdb test containers with the environment variables from the .env file.

Usage:

testcontainers [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  testcontainers -f /path/to/something/.env
`

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	showHelp := flag.Bool("h", false, "show help")
	envFilename := flag.String("f", "", "path to the .env file")
	flag.Parse()

	if *showHelp {
		fmt.Print(usage)
		return
	}

	if *envFilename != "" {
		log.Info().Str("file", *envFilename).Msg("loading environment variables")
		if err := godotenv.Load(*envFilename); err != nil {
			log.Fatal().Err(err).Msg("failed to load environment variables")
		}
	} else {
		log.Info().Msg("no environment file specified, using current environment variables")
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP, syscall.SIGQUIT)

	var testContainers *helpers.TestContainers
	go func() {
		var err error
		testContainers, err = helpers.CreateAllTestContainers(nil)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create test containers")
		}
	}()

	sig := <-sigs
	log.Info().Str("signal", sig.String()).Msg("terminating test containers")
	if testContainers != nil {
		testContainers.Terminate(nil)
	}
}
