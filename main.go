/*
The ridatours translation service: serves the tourism catalog (experiences,
monuments, categories, guide pages) translated on demand into the supported
languages, backed by a durable translation cache so each source string is
sent to the external provider at most once per target language.

Various program settings are controlled by a TOML config file, which must be
available for the program to run. By default, the program will look for a
file called 'ridatours.toml' in the same directory as its binary. The
provider credential may instead be supplied via the TRANSLATION_API_KEY
environment variable (a .env file is honoured); without a credential the
service still runs and serves source-language text.

The program must be run with a 'command' argument to indicate what you would
like it to do. Available commands are:

  - serve: Starts an HTTP server providing a JSON API for translated catalog reads and cache administration.
  - init-db: Initializes the database with all necessary tables.
  - warm-cache: Populates the translation cache for every entity collection and target language.
  - clear-cache: Deletes every translation cache entry.
  - help: Prints usage instructions
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/rferruzq202217/ridatours-marketplace-sub000/config"
	"github.com/rferruzq202217/ridatours-marketplace-sub000/server"
)

var (
	configPath string
)

const (
	cmdMissing      = "missing"
	cmdUnrecognised = "unrecognised"
	cmdHelp         = "help"
	cmdServe        = "serve"
	cmdInitDb       = "init-db"
	cmdWarmCache    = "warm-cache"
	cmdClearCache   = "clear-cache"
)

func init() {
	defaultConfigPath := filepath.FromSlash("./ridatours.toml")
	flag.StringVar(&configPath, "config", defaultConfigPath, "Full `path` and file name to the config file")
}

type Command interface {
	Run(config.Config)
}

type CommandFunc func(config.Config)

func (f CommandFunc) Run(c config.Config) {
	f(c)
}

// Gets list of available commands
func availableCommands() []string {
	return []string{cmdServe, cmdInitDb, cmdWarmCache, cmdClearCache, cmdHelp}
}

// Converts os.Args to one of the cmd* constants.
func parseArgs(args []string) (command string) {
	if len(args) < 1 {
		return cmdMissing
	}

	switch args[0] {
	case cmdHelp:
		return cmdHelp
	case cmdServe:
		return cmdServe
	case cmdInitDb:
		return cmdInitDb
	case cmdWarmCache:
		return cmdWarmCache
	case cmdClearCache:
		return cmdClearCache
	}

	return cmdUnrecognised
}

// Prints a normal usage message.
func printUsage(c config.Config) {
	flag.PrintDefaults()
}

// Prints a usage message indicating that a command must be given.
func printMissingCommandUsage(c config.Config) {
	fmt.Fprintf(os.Stderr, "No command given. Command can be one of: %v\n\n", strings.Join(availableCommands(), ", "))
	printUsage(c)
}

// Prints a usage message indicating that the given command was not recognised.
func printUnrecognisedCommandUsage(cmd string) CommandFunc {
	return func(c config.Config) {
		fmt.Fprintf(os.Stderr, "Command '%v' not recognised. Command must be one of: %v\n\n", os.Args[1], strings.Join(availableCommands(), ", "))
		printUsage(c)
	}
}

func main() {
	flag.Parse()

	// Optional; real deployments set env vars directly
	godotenv.Load()

	config, cfgErr := config.Load(configPath)
	var command = parseArgs(flag.Args())

	var commandFunc = CommandFunc(printMissingCommandUsage)
	switch command {
	case cmdUnrecognised:
		commandFunc = printUnrecognisedCommandUsage(command)
	case cmdHelp:
		commandFunc = CommandFunc(printUsage)
	case cmdServe:
		commandFunc = CommandFunc(server.Serve)
	case cmdInitDb:
		commandFunc = CommandFunc(initDb)
	case cmdWarmCache:
		commandFunc = CommandFunc(warmCache)
	case cmdClearCache:
		commandFunc = CommandFunc(clearCache)
	}

	// Invalid config only matters for non-'help' commands
	if command != cmdUnrecognised && command != cmdMissing && command != cmdHelp {
		checkFatal(cfgErr)
	}

	commandFunc.Run(config)
}
