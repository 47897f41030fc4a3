package logging

import "github.com/sirupsen/logrus"

var (
	logger *logrus.Entry
)

func SetLevel(l logrus.Level) {
	logger.Logger.SetLevel(l)
}

// SetVerbose switches between info and debug output.
func SetVerbose(v bool) {
	if v {
		SetLevel(logrus.DebugLevel)
		return
	}
	SetLevel(logrus.InfoLevel)
}

func init() {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
}

func WithError(e error) *logrus.Entry {
	return logger.WithError(e)
}

func Entry() *logrus.Entry {
	return logger
}

// Component returns the shared entry tagged with the component name.
func Component(name string) *logrus.Entry {
	return logger.WithField("component", name)
}

func Error(args ...interface{}) {
	logger.Error(args...)
}
