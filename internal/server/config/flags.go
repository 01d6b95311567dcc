package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/blocksearch/internal/flagx"
)

var serverFlags = []string{"-a", "-g", "-d", "-s", "-t", "-u", "-b", "-i", "-k", "-w", "-l"}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     HTTP bind address (e.g., ":5000")
//	-g string     gRPC health bind address, empty to disable
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-t duration   session validity (e.g., "12h")
//	-u string     user backend: sheets | postgres
//	-b string     tabular backend: gsheets | workbook
//	-i string     spreadsheet id
//	-k string     Google service-account credentials file
//	-w string     workbook path (file path or S3 object key)
//	-l string     log level: debug | info | warn | error
//
// os.Args is filtered through flagx.FilterArgs first so that -c/-config and
// flags owned by other components do not trip the parser.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run the HTTP server")
	fs.StringVar(&config.GRPCHealthAddr, "g", config.GRPCHealthAddr, "address and port of the gRPC health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.DurationVar(&config.SessionValidityDuration, "t", config.SessionValidityDuration, "session validity duration")
	fs.StringVar(&config.UserBackend, "u", config.UserBackend, "user backend (sheets|postgres)")
	fs.StringVar(&config.TabularBackend, "b", config.TabularBackend, "tabular backend (gsheets|workbook)")
	fs.StringVar(&config.SpreadsheetID, "i", config.SpreadsheetID, "spreadsheet id")
	fs.StringVar(&config.GoogleCredentialsFile, "k", config.GoogleCredentialsFile, "Google credentials file")
	fs.StringVar(&config.WorkbookPath, "w", config.WorkbookPath, "workbook path or object key")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
