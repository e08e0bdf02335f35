package logger

func logPrint(level int, format string, values ...any) {
	if logLevel > level {
		return
	}
	switch level {
	case LogLevelTrace:
		log.Debugf("[TRACE] "+format, values...)
	case LogLevelDebug:
		log.Debugf(format, values...)
	case LogLevelInfo:
		log.Infof(format, values...)
	case LogLevelWarn:
		log.Warnf(format, values...)
	default:
		log.Errorf(format, values...)
	}
}
