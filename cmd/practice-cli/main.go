package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"syscall"

	"github.com/unitechhub/examhub/internal/cli"
	"github.com/unitechhub/examhub/internal/model"
	"golang.org/x/term"
)

func main() {
	var baseURL string
	flag.StringVar(&baseURL, "server", envOr("EXAMHUB_SERVER", "http://localhost:8080"), "Portal base URL")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	statePath, err := cli.DefaultStatePath()
	if err != nil {
		fatal("resolve state path: %v", err)
	}
	state, err := cli.LoadState(statePath)
	if err != nil {
		fatal("load state: %v", err)
	}

	client := cli.NewClient(baseURL)
	client.Token = state.Token

	ctx := context.Background()
	app := &app{client: client, state: state, statePath: statePath, in: bufio.NewReader(os.Stdin)}

	switch args[0] {
	case "signup":
		err = app.signup(ctx)
	case "login":
		err = app.login(ctx)
	case "start":
		err = app.start(ctx)
	case "resume":
		err = app.resume(ctx)
	case "history":
		err = app.history(ctx)
	case "leaderboard":
		err = app.leaderboard(ctx)
	case "cgpa":
		err = app.cgpa(ctx)
	case "result":
		err = app.lastResult()
	default:
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fatal("%v", err)
	}
}

func printUsage() {
	fmt.Println("Usage: practice-cli [-server URL] <command>")
	fmt.Println("Commands:")
	fmt.Println("  signup       Create an account")
	fmt.Println("  login        Authenticate and store the token")
	fmt.Println("  start        Start a timed practice session")
	fmt.Println("  resume       Resume the active session after a restart")
	fmt.Println("  history      Show finished sessions")
	fmt.Println("  leaderboard  Show the ranked averages")
	fmt.Println("  cgpa         Run the CGPA calculator")
	fmt.Println("  result       Show the last submission result")
}

type app struct {
	client    *cli.Client
	state     *cli.State
	statePath string
	in        *bufio.Reader
}

func (a *app) signup(ctx context.Context) error {
	name := a.prompt("Name: ")
	email := a.prompt("Email: ")
	password, err := a.promptPassword("Password: ")
	if err != nil {
		return err
	}

	if err := a.client.Signup(ctx, name, email, password); err != nil {
		return err
	}
	fmt.Println("Account created. Run login next.")
	return nil
}

func (a *app) login(ctx context.Context) error {
	email := a.prompt("Email: ")
	password, err := a.promptPassword("Password: ")
	if err != nil {
		return err
	}

	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return err
	}

	a.state.Token = token
	if err := a.state.Save(a.statePath); err != nil {
		return err
	}
	fmt.Println("Logged in.")
	return nil
}

func (a *app) start(ctx context.Context) error {
	courses, err := a.client.Courses(ctx)
	if err != nil {
		return err
	}
	if len(courses) == 0 {
		return errors.New("no courses available")
	}
	fmt.Println("Courses:")
	for _, c := range courses {
		fmt.Printf("  %d) %s (%s)\n", c.ID, c.CourseName, c.CourseCode)
	}
	courseID, err := a.promptInt("Course id: ")
	if err != nil {
		return err
	}

	topics, err := a.client.Topics(ctx, courseID)
	if err != nil {
		return err
	}
	if len(topics) == 0 {
		return errors.New("no topics available for this course")
	}
	fmt.Println("Topics:")
	for _, t := range topics {
		fmt.Printf("  %d) %s\n", t.ID, t.TopicName)
	}
	topicID, err := a.promptInt("Topic id: ")
	if err != nil {
		return err
	}

	count, err := a.promptInt("Questions (5-45): ")
	if err != nil {
		return err
	}
	minutes, err := a.promptInt("Minutes (5-30): ")
	if err != nil {
		return err
	}

	paper, err := a.client.StartPractice(ctx, &model.StartPracticeRequest{
		CourseID:        courseID,
		TopicID:         topicID,
		QuestionCount:   count,
		DurationMinutes: minutes,
	})
	if err != nil {
		return err
	}

	a.state.CurrentSession = &cli.SessionRef{
		ID:              paper.SessionID,
		DurationSeconds: paper.DurationSeconds,
		Questions:       paper.Questions,
	}
	if err := a.state.Save(a.statePath); err != nil {
		return err
	}

	return a.runExam(ctx, paper, nil)
}

// resume reattaches to the active session: the server replays autosaved
// answers and the authoritative remaining time.
func (a *app) resume(ctx context.Context) error {
	if a.state.CurrentSession == nil {
		return errors.New("no active session to resume")
	}

	st, err := a.client.SessionState(ctx, a.state.CurrentSession.ID)
	if err != nil {
		// The session ended while we were away; forget it either way.
		a.state.ClearSession()
		_ = a.state.Save(a.statePath)
		return err
	}

	// The server never re-serves question texts; the paper lives in the
	// state file, while the server supplies the authoritative remaining
	// time and the autosaved answers.
	fmt.Printf("Resuming session %s with %s remaining and %d saved answers.\n",
		st.SessionID, st.Display, len(st.AutosavedAnswers))

	return a.runExam(ctx, a.state.CurrentSession.Paper(), st)
}

func (a *app) runExam(ctx context.Context, paper *model.StartPracticeResponse, st *model.SessionState) error {
	runner := cli.NewExamRunner(a.client, paper, os.Stdin, os.Stdout)
	if st != nil {
		runner.Restore(st)
	}

	result, err := runner.Run(ctx)
	if err != nil {
		if errors.Is(err, cli.ErrQuit) {
			fmt.Println("Session left running. Use resume to come back to it.")
			return nil
		}
		a.state.ClearSession()
		_ = a.state.Save(a.statePath)
		return err
	}

	a.state.ClearSession()
	a.state.LastResult = result
	if err := a.state.Save(a.statePath); err != nil {
		return err
	}

	printResult(result)
	return nil
}

func (a *app) history(ctx context.Context) error {
	rows, err := a.client.History(ctx)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Println("No finished sessions yet.")
		return nil
	}
	for _, r := range rows {
		fmt.Printf("%s  %s / %s  %d/%d (%.2f%%)  %s\n",
			r.Date.Format("2006-01-02 15:04"), r.CourseName, r.TopicName, r.Score, r.Total, r.Percentage, r.Advice)
	}
	return nil
}

func (a *app) leaderboard(ctx context.Context) error {
	rows, err := a.client.Leaderboard(ctx, 20)
	if err != nil {
		return err
	}
	for i, r := range rows {
		fmt.Printf("%2d. %-24s %.2f%% over %d attempts\n", i+1, r.Name, r.AvgScore, r.TotalAttempts)
	}
	return nil
}

func (a *app) cgpa(ctx context.Context) error {
	semCount, err := a.promptInt("Semesters: ")
	if err != nil {
		return err
	}

	req := &model.CGPARequest{}
	for s := 1; s <= semCount; s++ {
		fmt.Printf("Semester %d\n", s)
		sem := model.CGPASemester{}
		for {
			code := a.prompt("  Course code (blank to end semester): ")
			if code == "" {
				break
			}
			unit, err := a.promptInt("  Units: ")
			if err != nil {
				return err
			}
			grade := strings.ToUpper(a.prompt("  Grade (A-F): "))
			sem.Courses = append(sem.Courses, model.CGPACourse{Code: code, Unit: unit, Grade: grade})
		}
		if len(sem.Courses) == 0 {
			return fmt.Errorf("semester %d has no courses", s)
		}
		req.Semesters = append(req.Semesters, sem)
	}

	resp, err := a.client.ComputeCGPA(ctx, req)
	if err != nil {
		return err
	}
	for i, sem := range resp.Semesters {
		fmt.Printf("Semester %d: GPA %.2f over %d units\n", i+1, sem.GPA, sem.TotalUnits)
	}
	fmt.Printf("CGPA: %.2f (%s)\n", resp.CGPA, resp.Class)
	return nil
}

func (a *app) lastResult() error {
	if a.state.LastResult == nil {
		fmt.Println("No submission result stored.")
		return nil
	}
	printResult(a.state.LastResult)
	return nil
}

func printResult(r *model.PracticeResult) {
	fmt.Printf("\nScore: %d/%d (%.2f%%)\n%s\n", r.Score, r.Total, r.Percentage, r.Advice)
	for i, row := range r.Review {
		mark := "✗"
		if row.Correct {
			mark = "✓"
		}
		answer := row.YourAnswer
		if answer == "" {
			answer = "-"
		}
		fmt.Printf("%2d. %s %s\n    yours: %s  correct: %s) %s\n",
			i+1, mark, row.Question, answer, row.CorrectAnswer, row.CorrectText)
	}
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

func (a *app) promptInt(label string) (int, error) {
	raw := a.prompt(label)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", raw)
	}
	return n, nil
}

func (a *app) promptPassword(label string) (string, error) {
	fmt.Print(label)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(bytePassword), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
