// Package main is the interactive terminal client for the note
// service. It logs in, lists and opens notes, runs an edit session on
// an open note, and manages sharing.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/notely/notely/internal/client/api"
	"github.com/notely/notely/internal/client/markup"
	"github.com/notely/notely/internal/client/session"
	"github.com/notely/notely/internal/models"
	"github.com/notely/notely/internal/noteerr"
)

var (
	version   string
	buildDate string
)

// repl runs the interactive shell loop.
func repl(client *api.Client, userID string) {
	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("notely> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}
		switch args[0] {
		case "help":
			fmt.Println("Available commands: help, list, new <title>, open <id>, rm <id>,")
			fmt.Println("  share <id> <username> <editor|viewer>, unshare <id> <username>,")
			fmt.Println("  notebooks, exit")
		case "list":
			notes, err := client.ListNotes(ctx, models.NoteFilter{})
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			for _, n := range notes {
				marker := " "
				if n.IsPinned {
					marker = "*"
				}
				fmt.Printf("%s %s  %-30s  by %s  (%d collaborators)\n",
					marker, n.ID, n.Title, n.Owner.Username, len(n.Collaborators))
			}
		case "new":
			title := strings.Join(args[1:], " ")
			n, err := client.CreateNote(ctx, api.CreateNoteParams{Title: title})
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Created note", n.ID)
		case "open":
			if len(args) < 2 {
				fmt.Println("Usage: open <id>")
				continue
			}
			editNote(ctx, scanner, client, userID, args[1])
		case "rm":
			if len(args) < 2 {
				fmt.Println("Usage: rm <id>")
				continue
			}
			if err := client.DeleteNote(ctx, args[1]); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Note deleted")
		case "share":
			if len(args) < 4 {
				fmt.Println("Usage: share <id> <username> <editor|viewer>")
				continue
			}
			n, err := client.AddCollaborator(ctx, args[1], args[2], models.Role(args[3]))
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Printf("Shared with %s; %d collaborators now\n", args[2], len(n.Collaborators))
		case "unshare":
			if len(args) < 3 {
				fmt.Println("Usage: unshare <id> <username>")
				continue
			}
			if _, err := client.RemoveCollaborator(ctx, args[1], args[2]); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			fmt.Println("Access revoked for", args[2])
		case "notebooks":
			nbs, err := client.ListNotebooks(ctx)
			if err != nil {
				fmt.Println("Error:", err)
				continue
			}
			for _, nb := range nbs {
				fmt.Printf("%s  %s\n", nb.ID, nb.Name)
			}
		case "exit":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

// editNote runs an edit session on one note until the user closes it.
func editNote(ctx context.Context, scanner *bufio.Scanner, client *api.Client, userID, noteID string) {
	s := session.New(client, userID)
	if err := s.Open(ctx, noteID); err != nil {
		fmt.Println("Error:", err)
		return
	}
	defer s.Wait()

	printNote(s)
	for {
		fmt.Printf("note(%s)> ", s.State())
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		args := strings.SplitN(strings.TrimSpace(line), " ", 2)
		switch args[0] {
		case "help":
			fmt.Println("Commands: show, title <text>, write <text>, save, close")
		case "show":
			printNote(s)
		case "title":
			if len(args) < 2 {
				fmt.Println("Usage: title <text>")
				continue
			}
			reportEdit(s.SetTitle(args[1]))
		case "write":
			if len(args) < 2 {
				fmt.Println("Usage: write <text>")
				continue
			}
			reportEdit(s.SetContent(args[1]))
		case "save":
			if err := s.Save(ctx); err != nil {
				fmt.Println("Error:", err)
				continue
			}
			s.Wait()
			if err := s.LastError(); err != nil {
				fmt.Println("Save failed:", err)
			} else {
				fmt.Println("Saved")
			}
		case "close":
			return
		default:
			fmt.Println("Unknown command. Type 'help' for a list of commands.")
		}
	}
}

func reportEdit(err error) {
	if errors.Is(err, noteerr.ErrForbidden) {
		fmt.Println("This note is read-only for you")
	} else if err != nil {
		fmt.Println("Error:", err)
	}
}

func printNote(s *session.Session) {
	n := s.Note()
	if n == nil {
		return
	}
	mode := "read-only"
	if s.CanEdit() {
		mode = "editable"
	}
	fmt.Printf("# %s (%s)\n", s.Title(), mode)
	fmt.Println(markup.Strip(s.Content()))
}

// main parses flags, authenticates, and hands off to the shell.
func main() {
	var (
		cmd      string
		baseURL  string
		username string
		password string
		email    string
		fullName string
		showVer  bool
	)

	flag.StringVar(&cmd, "cmd", "shell", "command: register | shell")
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "server base URL")
	flag.StringVar(&username, "user", "", "username")
	flag.StringVar(&password, "password", "", "password")
	flag.StringVar(&email, "email", "", "email (registration)")
	flag.StringVar(&fullName, "name", "", "full name (registration)")
	flag.BoolVar(&showVer, "version", false, "show build version and date")
	flag.Parse()

	if showVer {
		fmt.Printf("Notely Client\nVersion: %s\nBuild Date: %s\n", version, buildDate)
		return
	}

	client := api.New(baseURL)
	ctx := context.Background()

	switch cmd {
	case "register":
		if username == "" || password == "" || email == "" {
			log.Fatal("please provide -user, -password, and -email")
		}
		u, err := client.Register(ctx, username, email, password, fullName)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Registered as", u.Username)
	case "shell":
		if username == "" || password == "" {
			log.Fatal("please provide -user and -password")
		}
		u, err := client.Login(ctx, username, password)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Logged in as", u.Username)
		repl(client, u.ID)
	default:
		log.Fatalf("unknown command: %s", cmd)
	}
}
