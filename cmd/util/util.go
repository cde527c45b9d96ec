package util

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ValentinKolb/omap/lib/omap"
	"github.com/ValentinKolb/omap/lib/serializer"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupMapFlags adds the common map construction flags to a command
func SetupMapFlags(cmd *cobra.Command) {
	key := "marshaled"
	cmd.PersistentFlags().Bool(key, true, WrapString("Marshal mutations onto a dedicated home goroutine"))

	key = "track-changes"
	cmd.PersistentFlags().Bool(key, true, WrapString("Record inverse actions for undo"))

	key = "undo-label"
	cmd.PersistentFlags().String(key, "", WrapString("Label for individually scoped undo records"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("omap")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetMapOptions builds map options from the common flags
func GetMapOptions() *omap.Options {
	opts := omap.DefaultOptions()
	opts.Marshaled = viper.GetBool("marshaled")
	opts.TrackChanges = viper.GetBool("track-changes")
	if label := viper.GetString("undo-label"); label != "" {
		opts.UndoLabel = label
	}
	return opts
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetByteSerializer returns the byte-payload serializer selected by the
// --serializer flag
func GetByteSerializer() (serializer.ISerializer[string, []byte], error) {
	switch name := viper.GetString("serializer"); name {
	case "json":
		return serializer.NewJSONSerializer[string, []byte](), nil
	case "gob":
		return serializer.NewGOBSerializer[string, []byte](), nil
	case "binary":
		return serializer.NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("unknown serializer %q (must be json, gob or binary)", name)
	}
}
