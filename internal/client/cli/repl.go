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
	LoginWithGoogle(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	More(ctx context.Context) error
	Toggle(ctx context.Context, args []string) error
	AddNote(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the NoteKeeper client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. The loop exits on EOF, when ctx is done, or
// when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account
//	  - login          sign in with email and password
//	  - google         sign in with a Google account
//	  - whoami         show the signed-in account
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - (l)ist         first page of notes
//	  - more           remaining notes
//	  - toggle <n>     expand or collapse note n
//	  - add            create a note
//	  - delete <n>     delete note n
//	  - whoami         show the signed-in account
//	  - logout         sign out
//	  - deleteaccount  delete the account
//	  - exit | quit    leave the program
//
// Command errors are ignored here; the controllers already logged them and
// told the user.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("nk %s> ", statusFn()))

		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if !a.isLoggedIn() {
			switch cmd {
			case "help":
				printlnFn("Available commands: register, login, google, whoami, exit")
			case "register":
				_ = a.Register(ctx)
			case "login":
				_ = a.Login(ctx)
			case "google":
				_ = a.LoginWithGoogle(ctx)
			case "whoami":
				_ = a.Whoami(ctx)
			case "exit", "quit":
				printlnFn("Bye!")
				return
			default:
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		switch cmd {
		case "help":
			printlnFn("Available commands: (l)ist, more, toggle <n>, add, delete <n>, whoami, logout, deleteaccount, exit")
		case "l", "list":
			_ = a.List(ctx)
		case "more":
			_ = a.More(ctx)
		case "toggle":
			_ = a.Toggle(ctx, args)
		case "add":
			_ = a.AddNote(ctx)
		case "delete":
			_ = a.Delete(ctx, args)
		case "whoami":
			_ = a.Whoami(ctx)
		case "logout":
			_ = a.Logout(ctx)
		case "deleteaccount":
			_ = a.DeleteAccount(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
