package log

/**
 * @author: gagral.x@gmail.com
 * @file: log_rewrite.go
 * @description: package-level logging helpers over the global sugar instance
 */

func Info(args ...any) {
	getSugar().Info(args...)
}

func Infof(format string, args ...any) {
	getSugar().Infof(format, args...)
}

func Infow(msg string, keysAndValues ...any) {
	getSugar().Infow(msg, keysAndValues...)
}

func Debug(args ...any) {
	getSugar().Debug(args...)
}

func Debugf(format string, args ...any) {
	getSugar().Debugf(format, args...)
}

func Debugw(msg string, keysAndValues ...any) {
	getSugar().Debugw(msg, keysAndValues...)
}

func Warn(args ...any) {
	getSugar().Warn(args...)
}

func Warnf(format string, args ...any) {
	getSugar().Warnf(format, args...)
}

func Warnw(msg string, keysAndValues ...any) {
	getSugar().Warnw(msg, keysAndValues...)
}

func Error(args ...any) {
	getSugar().Error(args...)
}

func Errorf(format string, args ...any) {
	getSugar().Errorf(format, args...)
}

func Errorw(msg string, keysAndValues ...any) {
	getSugar().Errorw(msg, keysAndValues...)
}

func Fatal(args ...any) {
	getSugar().Fatal(args...)
}

func Fatalf(format string, args ...any) {
	getSugar().Fatalf(format, args...)
}
