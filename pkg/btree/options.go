package btree

import "github.com/sirupsen/logrus"

// Log is the default logger for trees created without WithLogger.
var Log = logrus.New()

type options struct {
	log logrus.FieldLogger
}

// Option configures a Tree.
type Option func(*options)

// WithLogger routes the tree's structural and diagnostic events to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}
