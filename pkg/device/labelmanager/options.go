package labelmanager

type Option func(l *LabelManager)

// WithMaxLines changes how many rows are sent per flush. Values below one are ignored.
func WithMaxLines(max int) Option {
	return func(l *LabelManager) {
		if max > 0 {
			l.maxLines = max
		}
	}
}

// WithProgress registers a callback invoked after every flushed chunk of a label.
func WithProgress(fn func(done, total int)) Option {
	return func(l *LabelManager) {
		l.progress = fn
	}
}
