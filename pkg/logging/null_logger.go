package logging

// NullLogger discards everything. It is the default logger of the
// checker and the runner.
type NullLogger struct{}

func (NullLogger) Info(string, ...Field)      {}
func (NullLogger) Warn(string, ...Field)      {}
func (NullLogger) Error(string, ...Field)     {}
func (NullLogger) Debug(string, ...Field)     {}
func (NullLogger) WithFields(...Field) Logger { return NullLogger{} }
func (NullLogger) LogVerdict(VerdictLog)      {}
func (NullLogger) Close() error               { return nil }
