package sprig

import (
	"os"

	"github.com/charmbracelet/log"
)

// logger is the package-wide logger. Replace it with SetLogger.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "sprig",
	Level:  log.WarnLevel,
})

// SetLogger replaces the logger used for warnings and debug output.
// A nil logger is ignored.
func SetLogger(l *log.Logger) {
	if l != nil {
		logger = l
	}
}

// Logger returns the logger currently in use.
func Logger() *log.Logger { return logger }
