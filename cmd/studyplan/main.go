package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"studyplan/internal/bootstrap"
	sessiondto "studyplan/internal/modules/session/dto"
	"studyplan/internal/platform/clock"
	"studyplan/internal/platform/config"
	"studyplan/internal/platform/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataDir    string
	configFile string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "studyplan",
		Short:         "Study session planner",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data-dir", ".", "directory holding .studyplan state")
	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default <data-dir>/.studyplan/config.yaml)")

	root.AddCommand(newSessionCmd(flags))
	root.AddCommand(newShareCmd(flags))
	root.AddCommand(newSubjectsCmd(flags))
	root.AddCommand(newServeCmd(flags))
	return root
}

// loadApp wires the application. Notifications go to w when it is non-nil.
func loadApp(flags *globalFlags, w io.Writer) (*bootstrap.App, error) {
	cfg, err := config.New(flags.dataDir, flags.configFile)
	if err != nil {
		return nil, err
	}
	logger := logging.New("studyplan", logging.Options{Level: cfg.LogLevel, JSON: cfg.LogJSON})
	return bootstrap.New(cfg, bootstrap.Options{Logger: logger, Notifications: w})
}

func printSession(w io.Writer, s sessiondto.SessionOutput) {
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s -> %s\t%d/%d\n", s.ID, s.Status, s.SubjectName, s.StartDate, s.EndDate, s.Progress.Done, s.Progress.Total)
	for i, l := range s.Lessons {
		mark := " "
		if l.Completed {
			mark = "x"
		}
		_, _ = fmt.Fprintf(w, "  %d. [%s] %s\n", i+1, mark, l.Name)
	}
}

func newSessionCmd(flags *globalFlags) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Study session commands"}

	var subject, date, start, end, status, excludeID string
	var lessons []string

	add := &cobra.Command{
		Use:   "add --subject <code> --date <YYYY-MM-DD> --start <HH:mm> --end <HH:mm> --lesson <name>...",
		Short: "Schedule a new study session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Add(cmd.Context(), subject, date, start, end, lessons)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session added: %s\n", out.ID)
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	}
	add.Flags().StringVar(&subject, "subject", "", "subject code (see `studyplan subjects`)")
	add.Flags().StringVar(&date, "date", "", "session date YYYY-MM-DD")
	add.Flags().StringVar(&start, "start", "", "start time HH:mm")
	add.Flags().StringVar(&end, "end", "", "end time HH:mm")
	add.Flags().StringArrayVar(&lessons, "lesson", nil, "lesson name (repeatable)")

	list := &cobra.Command{
		Use:   "list",
		Short: "List sessions, optionally one bucket",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			sessions, err := app.SessionCLI.List(cmd.Context(), status)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			for _, s := range sessions {
				printSession(cmd.OutOrStdout(), s)
			}
			return nil
		},
	}
	list.Flags().StringVar(&status, "status", "", "active|completed|postponed")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	}

	edit := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a session; omitted flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			current, err := app.SessionCLI.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			input := editInput(current)
			changed := cmd.Flags().Changed
			if changed("subject") {
				input.Subject = subject
			}
			if changed("date") {
				input.Date = date
			}
			if changed("start") {
				input.StartTime = start
			}
			if changed("end") {
				input.EndTime = end
			}
			if changed("lesson") {
				input.Lessons = lessons
			}
			if changed("status") {
				input.Status = status
			}
			out, err := app.SessionCLI.Edit(cmd.Context(), input)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session updated: %s\n", out.ID)
			printSession(cmd.OutOrStdout(), out)
			return nil
		},
	}
	edit.Flags().StringVar(&subject, "subject", "", "subject code")
	edit.Flags().StringVar(&date, "date", "", "session date YYYY-MM-DD")
	edit.Flags().StringVar(&start, "start", "", "start time HH:mm")
	edit.Flags().StringVar(&end, "end", "", "end time HH:mm")
	edit.Flags().StringArrayVar(&lessons, "lesson", nil, "lesson name (repeatable, replaces the list)")
	edit.Flags().StringVar(&status, "status", "", "active|postponed|completed")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			if err := app.SessionCLI.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session deleted: %s\n", args[0])
			return nil
		},
	}

	var lessonNumber int
	toggle := &cobra.Command{
		Use:   "toggle <id> --lesson <n>",
		Short: "Toggle completion of a lesson",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lessonNumber < 1 {
				return fmt.Errorf("--lesson must be 1 or greater")
			}
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Toggle(cmd.Context(), args[0], lessonNumber-1)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "lesson %q completed=%t\n", out.Lesson.Name, out.Lesson.Completed)
			printSession(cmd.OutOrStdout(), out.Session)
			return nil
		},
	}
	toggle.Flags().IntVar(&lessonNumber, "lesson", 0, "lesson number as listed (1-based)")

	postpone := &cobra.Command{
		Use:   "postpone <id>",
		Short: "Postpone unfinished lessons and file finished ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Postpone(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if out.Postponed != nil {
				printSession(cmd.OutOrStdout(), *out.Postponed)
			}
			if out.Completed != nil {
				printSession(cmd.OutOrStdout(), *out.Completed)
			}
			return nil
		},
	}

	check := &cobra.Command{
		Use:   "check --subject <code> --date <YYYY-MM-DD> --start <HH:mm> --end <HH:mm>",
		Short: "Check a time slot against active sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.CheckConflict(cmd.Context(), subject, date, start, end, excludeID)
			if err != nil {
				return err
			}
			if !out.Conflict {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "slot is free")
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "conflicts with:")
			printSession(cmd.OutOrStdout(), *out.With)
			return nil
		},
	}
	check.Flags().StringVar(&subject, "subject", "", "subject code")
	check.Flags().StringVar(&date, "date", "", "date YYYY-MM-DD")
	check.Flags().StringVar(&start, "start", "", "start time HH:mm")
	check.Flags().StringVar(&end, "end", "", "end time HH:mm")
	check.Flags().StringVar(&excludeID, "exclude", "", "session id to ignore")

	session.AddCommand(add, list, show, edit, del, toggle, postpone, check, newWatchCmd(flags))
	return session
}

func editInput(s sessiondto.SessionOutput) sessiondto.SessionInput {
	input := sessiondto.SessionInput{ID: s.ID, Subject: s.Subject}
	if d, t, ok := strings.Cut(s.StartDate, "T"); ok {
		input.Date, input.StartTime = d, hhmm(t)
	}
	if _, t, ok := strings.Cut(s.EndDate, "T"); ok {
		input.EndTime = hhmm(t)
	}
	for _, l := range s.Lessons {
		input.Lessons = append(input.Lessons, l.Name)
	}
	return input
}

// countdownLine joins the countdowns of every running session.
func countdownLine(out sessiondto.TickOutput) string {
	if len(out.Running) == 0 {
		return "no running session"
	}
	parts := make([]string, 0, len(out.Running))
	for _, r := range out.Running {
		parts = append(parts, fmt.Sprintf("%s %s remaining", r.Session.SubjectName, r.Remaining))
	}
	return strings.Join(parts, " | ")
}

// hhmm drops seconds kept from imported sessions.
func hhmm(clock string) string {
	if len(clock) > len("15:04") {
		return clock[:len("15:04")]
	}
	return clock
}

func newWatchCmd(flags *globalFlags) *cobra.Command {
	var once bool
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show countdowns for running sessions and remind before starts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for range clock.Ticks(ctx, app.Clock, time.Second) {
				out, err := app.SessionCLI.Tick(ctx)
				if err != nil {
					return err
				}
				line := countdownLine(out)
				if once {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), line)
					return nil
				}
				// \x1b[K clears what a longer previous line left behind.
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "\r%s\x1b[K", line)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "print a single tick and exit")
	return cmd
}

func newShareCmd(flags *globalFlags) *cobra.Command {
	share := &cobra.Command{Use: "share", Short: "Share links for active sessions"}

	share.AddCommand(&cobra.Command{
		Use:   "export",
		Short: "Print a share link for the active sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			out, err := app.SessionCLI.Share(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out.URL)
			return nil
		},
	})

	var yes bool
	importCmd := &cobra.Command{
		Use:   "import <link>",
		Short: "Import sessions from a share link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer app.Close()
			preview, err := app.SessionCLI.PreviewImport(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "shared schedule created %s:\n", preview.CreatedAt.Format(time.RFC3339))
			for _, s := range preview.Sessions {
				_, _ = fmt.Fprintf(w, "  %s\t%s -> %s\t%s\n", s.SubjectName, s.StartDate, s.EndDate, strings.Join(s.Lessons, ", "))
			}
			if !yes && !confirm(cmd.InOrStdin(), w, fmt.Sprintf("import %d sessions? [y/N] ", len(preview.Sessions))) {
				_, _ = fmt.Fprintln(w, "import cancelled")
				return nil
			}
			out, err := app.SessionCLI.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(w, "imported %d sessions\n", out.Added)
			return nil
		},
	}
	importCmd.Flags().BoolVar(&yes, "yes", false, "skip confirmation")

	share.AddCommand(importCmd)
	return share
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func newSubjectsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "subjects",
		Short: "List built-in subject codes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			for _, s := range app.Catalog.Subjects() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Code, app.Catalog.SubjectName(s.Code))
			}
			return nil
		},
	}
}

func newServeCmd(flags *globalFlags) *cobra.Command {
	var address string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(flags, nil)
			if err != nil {
				return err
			}
			defer app.Close()
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return bootstrap.RunServer(ctx, app, address)
		},
	}
	cmd.Flags().StringVar(&address, "address", "", "listen address (default from config)")
	return cmd
}
