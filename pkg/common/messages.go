package common

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Global variable to control debug output
var VerboseMode bool = false

var (
	logMu     sync.Mutex
	logger    = newLogger(os.Stderr)
	logCloser io.Closer
)

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
}

// LogOptions selects where log lines go. File is optional; when set the log
// is also written to a size-rotated file.
type LogOptions struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Verbose    bool
}

// ConfigureLogging installs the process logger according to opts.
func ConfigureLogging(opts LogOptions) error {
	SetVerboseMode(opts.Verbose)

	if opts.File == "" {
		SetLogOutput(os.Stderr)
		return nil
	}

	rotating := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
	}

	logMu.Lock()
	defer logMu.Unlock()
	if logCloser != nil {
		if err := logCloser.Close(); err != nil {
			return FormatError(ErrFailedToConfigureLog, err)
		}
	}
	logger = newLogger(io.MultiWriter(os.Stderr, rotating))
	logCloser = rotating
	return nil
}

// CloseLogging releases the rotating log file, if any.
func CloseLogging() error {
	logMu.Lock()
	defer logMu.Unlock()
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}

// SetLogOutput redirects all log output to w.
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = newLogger(w)
}

func newLogger(w io.Writer) *slog.Logger {
	// Level filtering is done by the Log* helpers so that VerboseMode can be
	// flipped without rebuilding the handler.
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func currentLogger() *slog.Logger {
	logMu.Lock()
	defer logMu.Unlock()
	return logger
}

// Error messages
const (
	ErrFailedToOpenDisc          = "failed to open disc image"
	ErrFailedToReadDiscHeader    = "failed to read disc header"
	ErrFailedToReadFST           = "failed to read file-system table"
	ErrFailedToReadExecutable    = "failed to read main executable"
	ErrFailedToReadFile          = "failed to read file from disc"
	ErrFailedToWriteDisc         = "failed to write disc region"
	ErrFailedToDecompress        = "failed to decompress AKLZ data"
	ErrFailedToReadEntries       = "failed to read entries"
	ErrFailedToWriteEntries      = "failed to write entries"
	ErrFailedToExportCSV         = "failed to export CSV"
	ErrFailedToImportCSV         = "failed to import CSV"
	ErrFailedToLoadOffsets       = "failed to load offset table"
	ErrFailedToLoadConfig        = "failed to load configuration"
	ErrFailedToConfigureLog      = "failed to configure logging"
	ErrFailedToCreateOutputFile  = "failed to create output file"
	ErrFailedToCreateBackup      = "failed to create disc backup"
	ErrImportBlockedByIssues     = "import has validation issues; nothing was written"
	ErrExecutableOutOfBounds     = "executable patch is out of bounds"
	ErrStagedFileOutOfBounds     = "file patch is out of bounds"
	ErrDescriptionSlotsExhausted = "description range holds fewer strings than records"
)

// Info messages
const (
	InfoDiscOpened      = "Opened %s (%s, region %s)"
	InfoEntriesExported = "Exported %d %s records to %s"
	InfoEntriesImported = "Imported %d %s records from %s"
	InfoDiscSaved       = "Saved %d region(s) to %s"
	InfoBackupCreated   = "Backup written to %s"
	InfoAKLZUnpacked    = "AKLZ file unpacked: %s -> %s"
	InfoAKLZPacked      = "AKLZ file packed: %s -> %s"
	InfoAKLZSizes       = "Compressed size: %d bytes, decompressed size: %d bytes"
)

// Debug messages
const (
	DebugDiscHeader        = "Disc header: id=%s dol=0x%X fst=0x%X fst_size=%d"
	DebugExecutableFound   = "Executable at 0x%X, %d bytes"
	DebugFSTParsed         = "File-system table: %d entries at 0x%X"
	DebugFSTEntry          = "FST %d: %s offset=0x%X size=%d"
	DebugSourceResolved    = "%s: %d span(s) across %d source(s)"
	DebugEnemyNode         = "Enemy node %s: id=%d pos=0x%X"
	DebugSkippingEnemyNode = "Skipping enemy node in %s: id=%d pos=0x%X does not fit"
	DebugFileDecompressed  = "Decompressed %s: %d -> %d bytes"
	DebugFileStaged        = "Staged %s (%d bytes)"
	DebugRecordUnchanged   = "%s[%d] unchanged, not written"
	DebugRegionWritten     = "Wrote %d bytes at 0x%X (%s)"
	DebugDescriptionSlot   = "%s description %d: 0x%X (%d bytes)"
	DebugWriteRetry        = "Retrying write of %s (attempt %d): %v"
	DebugConfigFileUsed    = "Using config file %s"
	DebugCompressionResult = "AKLZ compression: %d -> %d bytes"
	DebugReadOnlySkipped   = "%s is read-only, %s not imported"
)

// Warning messages
const (
	WarnCompressedSizeChanged = "Re-compressed %s is %d bytes (was %d); slack is zero-filled"
	WarnImportIssues          = "%s: %d validation issue(s)"
	WarnOpenedReadOnly        = "Disc %s opened read-only: %v"
	WarnUnknownRegion         = "Unknown region code in game ID %q"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	currentLogger().Info(format(message, args...))
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	currentLogger().Warn(format(message, args...))
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	currentLogger().Error(format(message, args...))
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if !VerboseMode {
		return
	}
	currentLogger().Debug(format(message, args...))
}

func format(message string, args ...interface{}) string {
	if len(args) > 0 {
		return fmt.Sprintf(message, args...)
	}
	return message
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// FormatErrorString creates a formatted error with string details
func FormatErrorString(baseMessage, details string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+details, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, details)
}
