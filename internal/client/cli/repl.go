package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// command is one shell verb. Handlers receive the words after the verb.
type command struct {
	usage string
	help  string
	auth  bool
	run   func(ctx context.Context, args []string) error
}

func (a *App) commands() map[string]command {
	return map[string]command{
		"register":       {usage: "register", help: "create an account", run: a.Register},
		"login":          {usage: "login", help: "log in", run: a.Login},
		"logout":         {usage: "logout", help: "log out", auth: true, run: a.Logout},
		"whoami":         {usage: "whoami", help: "show the current user", auth: true, run: a.Whoami},
		"categories":     {usage: "categories", help: "list categories", auth: true, run: a.Categories},
		"addcategory":    {usage: "addcategory", help: "create a category", auth: true, run: a.AddCategory},
		"renamecategory": {usage: "renamecategory <id>", help: "rename a category", auth: true, run: a.RenameCategory},
		"delcategory":    {usage: "delcategory <id>", help: "delete a category and its cards", auth: true, run: a.DeleteCategory},
		"cards":          {usage: "cards", help: "list cards using the active filter", auth: true, run: a.Cards},
		"filter":         {usage: "filter <all|category id> [query...]", help: "set the card filter", auth: true, run: a.Filter},
		"show":           {usage: "show <id>", help: "show a card", auth: true, run: a.Show},
		"addcard":        {usage: "addcard", help: "create a card", auth: true, run: a.AddCard},
		"editcard":       {usage: "editcard <id>", help: "edit a card", auth: true, run: a.EditCard},
		"delcard":        {usage: "delcard <id>", help: "delete a card", auth: true, run: a.DeleteCard},
		"search":         {usage: "search <query...>", help: "search cards on the server", auth: true, run: a.Search},
		"stats":          {usage: "stats", help: "cards per category", auth: true, run: a.Stats},
		"reload":         {usage: "reload", help: "fetch categories and cards again", auth: true, run: a.Reload},
	}
}

// runREPL reads a line, takes the first word as the command and dispatches
// it. The loop ends on EOF, "exit"/"quit" or when ctx is done. Handler
// errors are reported to the user and never end the loop.
func runREPL(ctx context.Context, a *App) {
	cmds := a.commands()
	for {
		if ctx.Err() != nil {
			return
		}
		fmt.Fprint(a.out, a.prompt())
		line, err := a.reader.ReadString('\n')
		if err != nil && line == "" {
			a.println()
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := strings.ToLower(parts[0]), parts[1:]

		switch name {
		case "exit", "quit":
			a.println("Bye!")
			return
		case "help":
			a.help(cmds)
			continue
		}

		cmd, ok := cmds[name]
		if !ok {
			a.println("Unknown command:", name)
			continue
		}
		if cmd.auth && !a.isLoggedIn() {
			a.println("Please log in first.")
			continue
		}
		if err := cmd.run(ctx, args); err != nil {
			a.report(err)
		}
	}
}

func (a *App) help(cmds map[string]command) {
	names := make([]string, 0, len(cmds))
	loggedIn := a.isLoggedIn()
	for name, c := range cmds {
		if c.auth != loggedIn {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	a.println("Available commands:")
	for _, n := range names {
		a.printf("  %-38s %s\n", cmds[n].usage, cmds[n].help)
	}
	a.printf("  %-38s %s\n", "help", "show this list")
	a.printf("  %-38s %s\n", "exit | quit", "leave the program")
}
