package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Profile(ctx context.Context) error
	ToggleStatus(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL starts a read–eval–print loop for the onboarding CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
//	Not logged in:
//	  - help           — show available commands
//	  - register       — run the onboarding wizard
//	  - login          — authenticate with phone + OTP
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - profile        — show the server-side profile
//	  - toggle         — toggle delivery-partner active status
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
// Errors returned by command handlers are printed and the loop continues;
// no command failure is fatal to the REPL.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("onboard> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: profile, toggle, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}
		case "register":
			if err := a.Register(ctx); err != nil {
				printlnFn("register failed: " + err.Error())
			}
		case "login":
			if err := a.Login(ctx); err != nil {
				printlnFn("login failed: " + err.Error())
			}
		case "profile":
			if err := a.Profile(ctx); err != nil {
				printlnFn("profile failed: " + err.Error())
			}
		case "toggle":
			if err := a.ToggleStatus(ctx); err != nil {
				printlnFn("toggle failed: " + err.Error())
			}
		case "logout":
			if err := a.Logout(ctx); err != nil {
				printlnFn("logout failed: " + err.Error())
			}
		case "exit", "quit":
			return
		default:
			printlnFn("unknown command: " + cmd)
		}
	}
}
