package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"dayplan/internal/calendar"
	"dayplan/internal/datekey"
)

func newAddCmd(stdout, stderr io.Writer, flags *globalFlags, opts *Options) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task to a day (default today)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCLISession(stderr, flags, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := selectDate(s, date); err != nil {
				return err
			}
			t, ok, err := s.ctrl.Submit(strings.Join(args, " "))
			if !ok {
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Added #%d on %s: %s\n", t.ID, t.Date, t.Text)
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day in YYYY-MM-DD format")
	return cmd
}

func newListCmd(stdout, stderr io.Writer, flags *globalFlags, opts *Options) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Show the tasks of a day",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCLISession(stderr, flags, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			if err := selectDate(s, date); err != nil {
				return err
			}
			v := s.ctrl.View()
			fmt.Fprintln(stdout, v.Header)
			if len(v.Tasks) == 0 {
				fmt.Fprintln(stdout, v.Empty)
				return nil
			}
			for _, t := range v.Tasks {
				fmt.Fprintf(stdout, "%s #%d\n", t, t.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&date, "date", "d", "", "day in YYYY-MM-DD format")
	return cmd
}

func newDoneCmd(stdout, stderr io.Writer, flags *globalFlags, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between open and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openCLISession(stderr, flags, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			ok, err := s.ctrl.Toggle(id)
			if !ok {
				fmt.Fprintf(stdout, "No task #%d\n", id)
				return nil
			}
			if err != nil {
				return err
			}
			for _, t := range s.ctrl.Tasks() {
				if t.ID == id {
					fmt.Fprintf(stdout, "%s #%d\n", t, t.ID)
				}
			}
			return nil
		},
	}
}

func newRemoveCmd(stdout, stderr io.Writer, flags *globalFlags, opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openCLISession(stderr, flags, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			ok, err := s.ctrl.Delete(id)
			if !ok {
				fmt.Fprintf(stdout, "No task #%d\n", id)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(stdout, "Deleted #%d\n", id)
			return nil
		},
	}
}

func newCalCmd(stdout, stderr io.Writer, flags *globalFlags, opts *Options) *cobra.Command {
	var month string
	cmd := &cobra.Command{
		Use:   "cal",
		Short: "Print a month calendar; * marks days with open tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openCLISession(stderr, flags, opts)
			if err != nil {
				return err
			}
			defer s.Close()
			if month != "" {
				m, err := time.ParseInLocation("2006-01", month, time.Local)
				if err != nil {
					return fmt.Errorf("invalid month %q: want YYYY-MM", month)
				}
				s.ctrl.ShowMonth(m)
			}
			v := s.ctrl.View()
			fmt.Fprintln(stdout, v.MonthTitle)
			fmt.Fprintln(stdout, calendar.Render(v.Cells, calendar.PlainOptions()))
			return nil
		},
	}
	cmd.Flags().StringVarP(&month, "month", "m", "", "month in YYYY-MM format (default this month)")
	return cmd
}

func selectDate(s *session, date string) error {
	if date == "" {
		return nil
	}
	d, err := datekey.Parse(date)
	if err != nil {
		return err
	}
	s.ctrl.SelectDate(d)
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid task id %q", arg)
	}
	return id, nil
}
