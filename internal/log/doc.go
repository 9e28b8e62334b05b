// Package log builds the structured logger of docscan on top of log/slog.
//
// New returns a logger that fans every record out to two destinations:
//   - the console, through github.com/lmittmann/tint
//   - a size-rotated file under the logs directory, through
//     gopkg.in/natefinch/lumberjack.v2
//
// Both destinations sit behind a SecureHandler, which masks credentials
// (authorization headers, cookies, tokens, and user:password pairs embedded
// in URLs) before anything is written. Every record carries a "run"
// attribute with a UUID so that lines from one invocation can be grouped in
// the shared log file.
//
// # Usage
//
//	logger, err := log.New(log.Options{
//	    Console:    os.Stderr,
//	    File:       cfg.LogFile(),
//	    MaxSizeMB:  cfg.LogMaxSizeMB,
//	    MaxBackups: cfg.LogMaxBackups,
//	    Verbose:    cfg.Verbose,
//	})
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
package log
