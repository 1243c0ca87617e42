package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the ticket store and repair it if it is corrupted",
	Long: `Check the ticket store.

A store file that cannot be parsed is copied to a timestamped .bak file next
to it and replaced by an empty store. A store that parses but holds invalid
tickets is reported and left untouched.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

type doctorReport struct {
	Path       string   `json:"path"`
	Exists     bool     `json:"exists"`
	DirMissing bool     `json:"dirMissing"`
	Recovered  bool     `json:"recovered"`
	BackupPath string   `json:"backupPath,omitempty"`
	Warnings   []string `json:"warnings"`
	Tickets    int      `json:"tickets"`
	Error      string   `json:"error,omitempty"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	format, err := a.format()
	if err != nil {
		return err
	}

	guard := a.store.GuardReport()
	report := doctorReport{
		Path:       guard.Path,
		Exists:     guard.Exists,
		DirMissing: guard.DirMissing,
		Recovered:  guard.Recovered,
		BackupPath: guard.BackupPath,
		Warnings:   guard.Warnings,
	}
	if report.Warnings == nil {
		report.Warnings = []string{}
	}

	tickets, loadErr := a.svc.ListTickets()
	if loadErr != nil {
		report.Error = loadErr.Error()
	}
	report.Tickets = len(tickets)

	out := cmd.OutOrStdout()
	if format == formatJSON {
		if err := encodeJSON(out, report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(out, formatDoctorReport(report))
	}

	if loadErr != nil {
		return fmt.Errorf("store is not usable: %w", loadErr)
	}
	return nil
}

func formatDoctorReport(r doctorReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Store:  %s\n", r.Path)
	switch {
	case r.DirMissing:
		b.WriteString("Status: no store yet (directory does not exist)\n")
		return b.String()
	case r.Recovered:
		b.WriteString("Status: recovered from corruption\n")
		if r.BackupPath != "" {
			fmt.Fprintf(&b, "Backup: %s\n", r.BackupPath)
		}
	case r.Error != "":
		b.WriteString("Status: invalid\n")
	case !r.Exists:
		b.WriteString("Status: ok (empty)\n")
	default:
		fmt.Fprintf(&b, "Status: ok (%d tickets)\n", r.Tickets)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "Warning: %s\n", w)
	}
	return b.String()
}
