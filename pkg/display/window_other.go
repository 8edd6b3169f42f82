//go:build !windows

package display

// raiseWindow is a no-op outside Windows; the bell is the only signal.
func raiseWindow() error { return nil }

func enableVirtualTerminal() {}
