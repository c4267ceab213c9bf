package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
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
	LostPassword(ctx context.Context) error
	ResetPassword(ctx context.Context, token string) error
	Logout(ctx context.Context) error

	Exercises(ctx context.Context) error
	AddExercise(ctx context.Context) error
	EditExercise(ctx context.Context, id int64) error
	DeleteExercise(ctx context.Context, id int64) error

	Trainings(ctx context.Context) error
	ShowTraining(ctx context.Context, id int64) error
	AddTraining(ctx context.Context) error
	EditTraining(ctx context.Context, id int64) error
	DeleteTraining(ctx context.Context, id int64) error

	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	DeleteAccount(ctx context.Context) error
	WhoAmI(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, lostpassword, resetpassword <token>, help, exit"
	helpLoggedIn  = "Available commands: exercises, addexercise, editexercise <id>, deleteexercise <id>, " +
		"trainings, showtraining <id>, addtraining, edittraining <id>, deletetraining <id>, " +
		"profile, editprofile, password, deleteaccount, whoami, logout, help, exit"
)

var loggedOutOnly = map[string]bool{
	"register":      true,
	"login":         true,
	"lostpassword":  true,
	"resetpassword": true,
}

// runREPL starts a simple read–eval–print loop for the Calistrack CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on 'a'. Commands that act on a record take its id as
// the second token. The loop exits on EOF or when the user types "exit" or
// "quit".
//
// The prompt shows the signed-in email (from statusFn). Logged-out commands
// are refused while logged in and the other way round.
//
// Any errors returned by command handlers are ignored here; handlers print
// their own notices. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("calistrack %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}
		if cmd == "help" {
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		}

		if a.isLoggedIn() {
			if loggedOutOnly[cmd] {
				printlnFn("Already logged in, use logout first")
				continue
			}
			dispatchLoggedIn(ctx, a, cmd, args)
		} else {
			dispatchLoggedOut(ctx, a, cmd, args)
		}
	}
}

func dispatchLoggedOut(ctx context.Context, a execIface, cmd string, args []string) {
	switch cmd {
	case "register":
		_ = a.Register(ctx)
	case "login":
		_ = a.Login(ctx)
	case "lostpassword":
		_ = a.LostPassword(ctx)
	case "resetpassword":
		if len(args) == 0 {
			printlnFn("Usage: resetpassword <token>")
			return
		}
		_ = a.ResetPassword(ctx, args[0])
	default:
		printlnFn("Unknown command:", cmd, "(log in to see more commands)")
	}
}

func dispatchLoggedIn(ctx context.Context, a execIface, cmd string, args []string) {
	withID := func(fn func(context.Context, int64) error) {
		id, ok := parseID(cmd, args)
		if ok {
			_ = fn(ctx, id)
		}
	}

	switch cmd {
	case "exercises":
		_ = a.Exercises(ctx)
	case "addexercise":
		_ = a.AddExercise(ctx)
	case "editexercise":
		withID(a.EditExercise)
	case "deleteexercise":
		withID(a.DeleteExercise)
	case "trainings":
		_ = a.Trainings(ctx)
	case "showtraining":
		withID(a.ShowTraining)
	case "addtraining":
		_ = a.AddTraining(ctx)
	case "edittraining":
		withID(a.EditTraining)
	case "deletetraining":
		withID(a.DeleteTraining)
	case "profile":
		_ = a.Profile(ctx)
	case "editprofile":
		_ = a.EditProfile(ctx)
	case "password":
		_ = a.ChangePassword(ctx)
	case "deleteaccount":
		_ = a.DeleteAccount(ctx)
	case "whoami":
		_ = a.WhoAmI(ctx)
	case "logout":
		_ = a.Logout(ctx)
	default:
		printlnFn("Unknown command:", cmd)
	}
}

func parseID(cmd string, args []string) (int64, bool) {
	if len(args) == 0 {
		printlnFn(fmt.Sprintf("Usage: %s <id>", cmd))
		return 0, false
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		printlnFn("Invalid id:", args[0])
		return 0, false
	}
	return id, true
}
