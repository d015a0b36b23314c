// studioctl is a command-line companion for the content studio API. It
// submits YAML-authored challenges and quizzes, inspects stored records,
// and exports published content to an Excel workbook.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/edustack/content-studio/internal/contentfile"
	"github.com/edustack/content-studio/internal/export"
	"github.com/edustack/content-studio/internal/models"
	"github.com/edustack/content-studio/pkg/client"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		usage()
		return errors.New("no command given")
	}

	baseURL := os.Getenv("STUDIO_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	var opts []client.Option
	if key := os.Getenv("STUDIO_API_KEY"); key != "" {
		opts = append(opts, client.WithAPIKey(key))
	}
	api := client.NewClient(baseURL, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch args[0] {
	case "challenge":
		return runChallenge(ctx, api, args[1:])
	case "quiz":
		return runQuiz(ctx, api, args[1:])
	case "export":
		return runExport(ctx, api, args[1:])
	default:
		usage()
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  studioctl challenge save-draft -f challenge.yaml [-id <draft-id>]
  studioctl challenge publish    -f challenge.yaml [-id <draft-id>]
  studioctl challenge list
  studioctl challenge show -id <id>
  studioctl challenge delete -id <id>
  studioctl quiz save-draft -f quiz.yaml [-id <draft-id>]
  studioctl quiz publish    -f quiz.yaml [-id <draft-id>]
  studioctl quiz list
  studioctl quiz show -id <id>
  studioctl quiz delete -id <id>
  studioctl export -o content.xlsx

environment:
  STUDIO_URL      API base URL (default http://localhost:8080)
  STUDIO_API_KEY  admin token, if the server requires one`)
}

func runChallenge(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 1 {
		usage()
		return errors.New("challenge: no subcommand given")
	}
	sub := args[0]

	fs := flag.NewFlagSet("challenge "+sub, flag.ExitOnError)
	file := fs.String("f", "", "challenge definition file (YAML)")
	id := fs.String("id", "", "record id")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch sub {
	case "save-draft", "publish":
		if *file == "" {
			return errors.New("challenge: -f is required")
		}
		form, err := contentfile.LoadChallenge(*file)
		if err != nil {
			return err
		}

		sess := sessionFor(*id)
		var result client.SubmitResult
		if sub == "publish" {
			result = api.PublishChallenge(ctx, sess, form)
		} else {
			result = api.SaveDraftChallenge(ctx, sess, form)
		}
		return reportSubmit(result, sess)

	case "list":
		challenges, err := api.ListChallenges(ctx)
		if err != nil {
			return err
		}
		for _, ch := range challenges {
			fmt.Printf("%s  %-9s  %s\n", ch.ID, ch.Status, ch.Title)
		}
		fmt.Printf("%d challenge(s)\n", len(challenges))
		return nil

	case "show":
		if *id == "" {
			return errors.New("challenge: -id is required")
		}
		ch, err := api.GetChallenge(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("title:       %s\n", ch.Title)
		fmt.Printf("status:      %s\n", ch.Status)
		fmt.Printf("difficulty:  %s\n", ch.DifficultyLevel)
		fmt.Printf("points:      %d\n", ch.RewardPoints)
		fmt.Printf("tags:        %s\n", strings.Join(ch.Tags, ", "))
		fmt.Printf("test cases:  %d\n", len(ch.TestCases))
		return nil

	case "delete":
		if *id == "" {
			return errors.New("challenge: -id is required")
		}
		if !confirm(fmt.Sprintf("delete challenge %s?", *id)) {
			fmt.Println("aborted")
			return nil
		}
		if err := api.DeleteChallenge(ctx, *id); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	default:
		usage()
		return fmt.Errorf("challenge: unknown subcommand: %s", sub)
	}
}

func runQuiz(ctx context.Context, api *client.Client, args []string) error {
	if len(args) < 1 {
		usage()
		return errors.New("quiz: no subcommand given")
	}
	sub := args[0]

	fs := flag.NewFlagSet("quiz "+sub, flag.ExitOnError)
	file := fs.String("f", "", "quiz definition file (YAML)")
	id := fs.String("id", "", "record id")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	switch sub {
	case "save-draft", "publish":
		if *file == "" {
			return errors.New("quiz: -f is required")
		}
		form, err := contentfile.LoadQuiz(*file)
		if err != nil {
			return err
		}

		sess := sessionFor(*id)
		var result client.SubmitResult
		if sub == "publish" {
			result = api.PublishQuiz(ctx, sess, form)
		} else {
			result = api.SaveDraftQuiz(ctx, sess, form)
		}
		return reportSubmit(result, sess)

	case "list":
		quizzes, err := api.ListQuizzes(ctx)
		if err != nil {
			return err
		}
		for _, qz := range quizzes {
			due := "-"
			if qz.DueDate != nil {
				due = qz.DueDate.UTC().Format(time.RFC3339)
			}
			fmt.Printf("%s  %-9s  %-20s  due %s\n", qz.ID, qz.Status, qz.Title, due)
		}
		fmt.Printf("%d quiz(zes)\n", len(quizzes))
		return nil

	case "show":
		if *id == "" {
			return errors.New("quiz: -id is required")
		}
		qz, err := api.GetQuiz(ctx, *id)
		if err != nil {
			return err
		}
		fmt.Printf("title:         %s\n", qz.Title)
		fmt.Printf("status:        %s\n", qz.Status)
		fmt.Printf("time limit:    %d min\n", qz.TimeLimit)
		fmt.Printf("passing score: %d%%\n", qz.PassingScore)
		if qz.DueDate != nil {
			fmt.Printf("due date:      %s\n", qz.DueDate.UTC().Format(time.RFC3339))
		}
		fmt.Printf("questions:     %d\n", len(qz.Questions))
		return nil

	case "delete":
		if *id == "" {
			return errors.New("quiz: -id is required")
		}
		if !confirm(fmt.Sprintf("delete quiz %s?", *id)) {
			fmt.Println("aborted")
			return nil
		}
		if err := api.DeleteQuiz(ctx, *id); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil

	default:
		usage()
		return fmt.Errorf("quiz: unknown subcommand: %s", sub)
	}
}

func runExport(ctx context.Context, api *client.Client, args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	out := fs.String("o", "content.xlsx", "output file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	challenges, err := api.ListChallenges(ctx)
	if err != nil {
		return err
	}
	quizzes, err := api.ListQuizzes(ctx)
	if err != nil {
		return err
	}

	var published []*models.Challenge
	for i := range challenges {
		if challenges[i].Status == models.StatusPublished {
			published = append(published, &challenges[i])
		}
	}
	var publishedQuizzes []*models.Quiz
	for i := range quizzes {
		if quizzes[i].Status == models.StatusPublished {
			publishedQuizzes = append(publishedQuizzes, &quizzes[i])
		}
	}

	data, err := export.Workbook(published, publishedQuizzes)
	if err != nil {
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return err
	}

	fmt.Printf("wrote %s (%d challenges, %d quizzes)\n", *out, len(published), len(publishedQuizzes))
	return nil
}

// sessionFor resumes an existing draft when an id is given, otherwise
// starts a fresh session
func sessionFor(id string) *client.DraftSession {
	if id != "" {
		return client.ResumeDraftSession(id)
	}
	return client.NewDraftSession()
}

func reportSubmit(result client.SubmitResult, sess *client.DraftSession) error {
	if !result.Success {
		return errors.New(result.Message)
	}
	fmt.Println(result.Message)
	if id := sess.ID(); id != "" {
		fmt.Println("draft id:", id)
	} else if id := result.RecordID(); id != "" {
		fmt.Println("record id:", id)
	}
	return nil
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N] ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
