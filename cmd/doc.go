// Package cmd implements the omap command line interface. The CLI exists
// to exercise the library end to end: the play command runs a scripted
// mutation sequence with visible change notifications and undo, the bench
// command measures mutation throughput for inline and marshaled maps.
//
// Configuration follows the 12-factor style: every flag can also be set
// via an OMAP_ prefixed environment variable or an .env file.
package cmd
