//go:build !windows

package notify

// ShowAndWait has no native popup here; the message goes to the log.
func (n *Notifier) ShowAndWait(message string) error {
	n.log.Info("notification", "message", message)
	return nil
}

func EnablePerMonitorDPI() error { return nil }
