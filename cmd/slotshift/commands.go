package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/daycard-scheduler/internal/models"
	"github.com/noah-isme/daycard-scheduler/internal/service"
	"github.com/noah-isme/daycard-scheduler/internal/shifter"
	"github.com/noah-isme/daycard-scheduler/internal/workday"
	"github.com/noah-isme/daycard-scheduler/pkg/config"
	"github.com/noah-isme/daycard-scheduler/pkg/date"
)

var errLockedTarget = errors.New("target date is not a working day")

func newRootCmd(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "slotshift",
		Short:         "Move day cards in a schedule file and cascade the following slots",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.AddCommand(newMoveCmd(), newCheckCmd(), newTokenCmd())
	return root
}

func newMoveCmd() *cobra.Command {
	var (
		file      string
		dayCardID string
		target    string
		asJSON    bool
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Move one day card to a date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, policy, err := loadScheduleFile(file)
			if err != nil {
				return err
			}
			to, err := date.Parse(target)
			if err != nil {
				return err
			}
			if policy.IsLocked(to) && !force {
				return fmt.Errorf("%w: %s", errLockedTarget, to)
			}

			res, err := shifter.Shift(doc.Schedule, dayCardID, to, policy)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(moveOutput{Result: res, Changes: len(res.Changed(doc.Schedule))})
			}
			return writeSchedule(cmd.OutOrStdout(), doc.Schedule, res)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "schedule YAML file")
	cmd.Flags().StringVar(&dayCardID, "day-card", "", "id of the day card to move")
	cmd.Flags().StringVar(&target, "date", "", "target date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&force, "force", false, "accept a target date the policy locks")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("day-card")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

type moveOutput struct {
	shifter.Result
	Changes int `json:"changes"`
}

func writeSchedule(w io.Writer, before []shifter.Slot, res shifter.Result) error {
	previous := make(map[string]date.Date, len(before))
	for _, s := range before {
		previous[s.DayCardID] = s.Date
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DAY CARD\tDATE\tWEEKDAY\tWAS")
	for _, s := range res.Slots {
		was := ""
		if prev := previous[s.DayCardID]; !prev.SameDay(s.Date) {
			was = prev.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", s.DayCardID, s.Date, workday.Label(s.Date.Weekday()), was)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "start %s  end %s\n", res.Start, res.End)
	return err
}

func newCheckCmd() *cobra.Command {
	var file, target string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report whether a date is locked and the next available date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, policy, err := loadScheduleFile(file)
			if err != nil {
				return err
			}
			d, err := date.Parse(target)
			if err != nil {
				return err
			}
			next, err := policy.NextAvailable(d)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if _, err := fmt.Fprintln(out, describePolicy(policy)); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "%s %s locked=%t next=%s\n", d, workday.Label(d.Weekday()), policy.IsLocked(d), next)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "schedule YAML file")
	cmd.Flags().StringVar(&target, "date", "", "date to check (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func describePolicy(p *workday.Policy) string {
	days := p.WorkingDays()
	labels := make([]string, len(days))
	for i, wd := range days {
		labels[i] = workday.Label(wd)
	}
	list := strings.Join(labels, ",")
	if list == "" {
		list = "none"
	}
	return fmt.Sprintf("working days: %s (work on non-working days: %t)", list, p.AllowsWorkOnNonWorkingDays())
}

func newTokenCmd() *cobra.Command {
	var userID, role, email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token signed with the configured JWT secret",
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := models.UserRole(role)
			if !r.Valid() {
				return fmt.Errorf("unknown role %q", role)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			auth := service.NewAuthService(zap.NewNop(), service.AuthConfig{
				AccessTokenSecret: cfg.JWT.Secret,
				AccessTokenExpiry: cfg.JWT.Expiration,
				Issuer:            cfg.JWT.Issuer,
			})
			token, expires, err := auth.IssueToken(userID, r, email, "")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\nexpires %s\n", token, expires.Format(time.RFC3339))
			return err
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "subject user id")
	cmd.Flags().StringVar(&role, "role", string(models.RoleViewer), "ADMIN, MANAGER, FOREMAN or VIEWER")
	cmd.Flags().StringVar(&email, "email", "", "email claim")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}
