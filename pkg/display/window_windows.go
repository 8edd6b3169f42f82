//go:build windows

package display

import (
	"golang.org/x/sys/windows"
)

var (
	kernel32             = windows.NewLazySystemDLL("kernel32.dll")
	user32               = windows.NewLazySystemDLL("user32.dll")
	procGetConsoleWindow = kernel32.NewProc("GetConsoleWindow")
	procSetForeground    = user32.NewProc("SetForegroundWindow")
	procShowWindow       = user32.NewProc("ShowWindow")
)

const swRestore = 9

// raiseWindow brings the console window to the foreground.
func raiseWindow() error {
	if err := procGetConsoleWindow.Find(); err != nil {
		return err
	}
	hwnd, _, _ := procGetConsoleWindow.Call()
	if hwnd == 0 {
		// Hosted terminals (e.g. Windows Terminal) may not expose a console window.
		return nil
	}
	_, _, _ = procShowWindow.Call(hwnd, swRestore)
	_, _, _ = procSetForeground.Call(hwnd)
	return nil
}

// enableVirtualTerminal turns on ANSI escape handling for the console.
func enableVirtualTerminal() {
	h, err := windows.GetStdHandle(windows.STD_OUTPUT_HANDLE)
	if err != nil {
		return
	}
	var mode uint32
	if err := windows.GetConsoleMode(h, &mode); err != nil {
		return
	}
	_ = windows.SetConsoleMode(h, mode|windows.ENABLE_VIRTUAL_TERMINAL_PROCESSING)
}
