package cli

import (
	"context"
	"fmt"
	"strings"
)

const helpText = `Commands:
  login                         authenticate
  register                      create an account and log in
  logout                        drop the session
  whoami                        show the signed-in user
  stats                         show request counters for this session

  colleges list [page] [limit] [key=value ...]   list colleges
  colleges create               create a college
  colleges update <code>        update a college
  colleges delete <code>        delete a college

  programs list [page] [limit] [key=value ...]   list programs
  programs create               create a program
  programs update <code>        update a program
  programs delete <code>        delete a program

  students list [page] [limit] [key=value ...]   list students
  students create               create a student
  students update <id>          update a student
  students delete <id>          delete a student
  students image <id> <file>    upload or replace a student photo
  students image-rm <id>        remove a student photo

  help                          show this text
  exit                          leave

List filters are forwarded to the backend as query parameters
(query, filterBy, sortBy, sortDesc, program, year, gender, college), e.g.
  students list 1 10 query=ana sortDesc=true year=3`

// Run reads commands until EOF or exit.
func (a *App) Run(ctx context.Context) error {
	fmt.Fprintf(a.out, "campusctl connected to %s (type 'help' for commands)\n", a.cfg.Backend.BaseURL)
	for {
		fmt.Fprintf(a.out, "campus%s> ", a.status())
		if !a.in.Scan() {
			return a.in.Err()
		}
		parts := strings.Fields(a.in.Text())
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "help":
			fmt.Fprintln(a.out, helpText)
		case "login":
			a.cmdLogin(ctx)
		case "register":
			a.cmdRegister(ctx)
		case "logout":
			a.cmdLogout()
		case "whoami":
			a.cmdWhoami()
		case "stats":
			a.cmdStats()
		case "colleges", "programs", "students":
			a.dispatchEntity(ctx, parts[0], parts[1:])
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return nil
		default:
			fmt.Fprintf(a.out, "Unknown command %q; try 'help'.\n", parts[0])
		}
	}
}

func (a *App) status() string {
	if claims, ok := a.session.Claims(); ok && claims.Subject != "" {
		return " (" + claims.Subject + ")"
	}
	if a.session.IsLoggedIn() {
		return " (signed in)"
	}
	return ""
}

func (a *App) dispatchEntity(ctx context.Context, entity string, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "%s needs a subcommand; try 'help'.\n", entity)
		return
	}
	sub, rest := args[0], args[1:]

	needID := func() (string, bool) {
		if len(rest) == 0 {
			fmt.Fprintf(a.out, "%s %s needs an identifier.\n", entity, sub)
			return "", false
		}
		return rest[0], true
	}

	switch entity {
	case "colleges":
		switch sub {
		case "list":
			a.cmdCollegesList(ctx, rest)
		case "create":
			a.cmdCollegeCreate(ctx)
		case "update":
			if id, ok := needID(); ok {
				a.cmdCollegeUpdate(ctx, id)
			}
		case "delete":
			if id, ok := needID(); ok {
				a.cmdCollegeDelete(ctx, id)
			}
		default:
			fmt.Fprintf(a.out, "Unknown subcommand %q.\n", sub)
		}
	case "programs":
		switch sub {
		case "list":
			a.cmdProgramsList(ctx, rest)
		case "create":
			a.cmdProgramCreate(ctx)
		case "update":
			if id, ok := needID(); ok {
				a.cmdProgramUpdate(ctx, id)
			}
		case "delete":
			if id, ok := needID(); ok {
				a.cmdProgramDelete(ctx, id)
			}
		default:
			fmt.Fprintf(a.out, "Unknown subcommand %q.\n", sub)
		}
	case "students":
		switch sub {
		case "list":
			a.cmdStudentsList(ctx, rest)
		case "create":
			a.cmdStudentCreate(ctx)
		case "update":
			if id, ok := needID(); ok {
				a.cmdStudentUpdate(ctx, id)
			}
		case "delete":
			if id, ok := needID(); ok {
				a.cmdStudentDelete(ctx, id)
			}
		case "image":
			if len(rest) < 2 {
				fmt.Fprintln(a.out, "students image needs <id> <file>.")
				return
			}
			a.cmdStudentImage(ctx, rest[0], rest[1])
		case "image-rm":
			if id, ok := needID(); ok {
				a.cmdStudentImageRemove(ctx, id)
			}
		default:
			fmt.Fprintf(a.out, "Unknown subcommand %q.\n", sub)
		}
	}
}
