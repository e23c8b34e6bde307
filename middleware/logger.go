package middleware

import (
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/dzonerzy/go-clap/internal/pool"
)

// SweepInfo is what the logger records about one sweep.
type SweepInfo struct {
	Path         string
	Tokens       []string
	Declarations int
	StartTime    time.Time
	Duration     time.Duration
	Error        error
}

var sweepInfoPool = pool.NewWithReset(
	func() *SweepInfo { return &SweepInfo{} },
	func(info *SweepInfo) {
		*info = SweepInfo{Tokens: info.Tokens[:0]}
	},
)

// Logger creates a middleware that records each sweep with its duration and
// outcome.
func Logger(options ...MiddlewareOption) Middleware {
	config := newConfig(options)

	return func(next SweepFunc) SweepFunc {
		return func(s Sweep) error {
			if config.LogLevel == LogLevelNone || config.Output == nil {
				return next(s)
			}

			info := sweepInfoPool.Get()
			defer sweepInfoPool.Put(info)

			info.Path = s.Path()
			info.Tokens = append(info.Tokens, s.Tokens()...)
			info.Declarations = s.Declarations()
			info.StartTime = time.Now()

			if config.LogLevel >= LogLevelDebug {
				writeLog(config, info, "START")
			}

			err := next(s)

			info.Duration = time.Since(info.StartTime)
			info.Error = err
			s.Set("sweep_duration", info.Duration)

			level := "SUCCESS"
			if err != nil {
				level = "ERROR"
			}
			writeLog(config, info, level)

			return err
		}
	}
}

func shouldLog(configLevel LogLevel, messageLevel string) bool {
	switch messageLevel {
	case "ERROR":
		return configLevel >= LogLevelError
	case "START":
		return configLevel >= LogLevelDebug
	default:
		return configLevel >= LogLevelInfo
	}
}

func writeLog(config *MiddlewareConfig, info *SweepInfo, level string) {
	if !shouldLog(config.LogLevel, level) {
		return
	}

	switch config.LogFormat {
	case LogFormatJSON:
		writeJSONLog(config.Output, info, level, config)
	case LogFormatText:
		writeTextLog(config.Output, info, level, config)
	default:
		writeTextLog(config.Output, info, level, config)
	}
}

func writeTextLog(w io.Writer, info *SweepInfo, level string, config *MiddlewareConfig) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	*buf = append(*buf, '[')
	*buf = append(*buf, info.StartTime.Format("2006-01-02 15:04:05")...)
	*buf = append(*buf, "] "...)
	*buf = append(*buf, level...)
	*buf = append(*buf, " sweep="...)
	*buf = append(*buf, pathName(info.Path)...)
	*buf = append(*buf, " specs="...)
	*buf = strconv.AppendInt(*buf, int64(info.Declarations), 10)

	if info.Duration > 0 {
		*buf = append(*buf, " duration="...)
		*buf = append(*buf, info.Duration.String()...)
	}

	if config.IncludeTokens && len(info.Tokens) > 0 {
		*buf = append(*buf, " tokens="...)
		for i, tok := range info.Tokens {
			if i > 0 {
				*buf = append(*buf, ' ')
			}
			*buf = strconv.AppendQuote(*buf, tok)
		}
	}

	if info.Error != nil {
		*buf = append(*buf, " error="...)
		*buf = strconv.AppendQuote(*buf, info.Error.Error())
	}

	*buf = append(*buf, '\n')

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	w.Write(*buf)
}

func writeJSONLog(w io.Writer, info *SweepInfo, level string, config *MiddlewareConfig) {
	buf := pool.GetBuffer()
	defer pool.PutBuffer(buf)

	*buf = append(*buf, `{"timestamp":"`...)
	*buf = append(*buf, info.StartTime.Format(time.RFC3339)...)
	*buf = append(*buf, `","level":"`...)
	*buf = append(*buf, level...)
	*buf = append(*buf, `","sweep":`...)
	enc, _ := json.Marshal(pathName(info.Path))
	*buf = append(*buf, enc...)
	*buf = append(*buf, `,"specs":`...)
	*buf = strconv.AppendInt(*buf, int64(info.Declarations), 10)

	if info.Duration > 0 {
		*buf = append(*buf, `,"duration_us":`...)
		*buf = strconv.AppendInt(*buf, info.Duration.Microseconds(), 10)
	}

	if config.IncludeTokens && len(info.Tokens) > 0 {
		enc, _ := json.Marshal(info.Tokens)
		*buf = append(*buf, `,"tokens":`...)
		*buf = append(*buf, enc...)
	}

	if info.Error != nil {
		enc, _ := json.Marshal(info.Error.Error())
		*buf = append(*buf, `,"error":`...)
		*buf = append(*buf, enc...)
	}

	*buf = append(*buf, "}\n"...)

	//nolint:errcheck,gosec // Logging is best-effort; ignore write errors.
	w.Write(*buf)
}

// LoggerWithWriter creates a logger middleware that writes to w.
func LoggerWithWriter(w io.Writer, options ...MiddlewareOption) Middleware {
	return Logger(append(options, WithOutput(w))...)
}

// DebugLogger logs sweep start and end.
func DebugLogger() Middleware {
	return Logger(WithLogLevel(LogLevelDebug))
}

// JSONLogger logs one JSON object per sweep.
func JSONLogger() Middleware {
	return Logger(WithFormat(LogFormatJSON))
}
