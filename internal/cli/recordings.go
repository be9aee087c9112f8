package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"bptracker/internal/dateconv"
	"bptracker/internal/models"
	"bptracker/internal/store"
)

type vitalsFlags struct {
	systolic  int
	diastolic int
	heartRate int
	notes     string
}

func (v vitalsFlags) validate() error {
	if v.systolic <= 0 || v.diastolic <= 0 || v.heartRate <= 0 {
		return errors.New("systolic, diastolic and heart-rate must be positive")
	}
	return nil
}

func newAddCmd(dbPath *string) *cobra.Command {
	var (
		dateStr       string
		timeStr       string
		offsetMinutes int
		vitals        vitalsFlags
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Log a new blood pressure reading",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := vitals.validate(); err != nil {
				return err
			}
			date, err := pickerDate(dateStr, timeStr, offsetMinutes)
			if err != nil {
				return err
			}
			st, closer, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			rec := models.NewRecording(date, vitals.systolic, vitals.diastolic, vitals.heartRate, vitals.notes)
			st.Dispatch(store.New{Recording: rec})
			st.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", rec.DateInfo(), rec.ID)
			return nil
		},
	}
	now := time.Now()
	cmd.Flags().StringVar(&dateStr, "date", now.Format("2006-01-02"), "Reading date (YYYY-MM-DD, local)")
	cmd.Flags().StringVar(&timeStr, "time", now.Format("15:04"), "Reading time (HH:MM, local)")
	cmd.Flags().IntVar(&offsetMinutes, "offset", timezoneOffsetMinutes(now), "Timezone offset in minutes behind UTC")
	addVitalsFlags(cmd, &vitals)
	_ = cmd.MarkFlagRequired("systolic")
	_ = cmd.MarkFlagRequired("diastolic")
	_ = cmd.MarkFlagRequired("heart-rate")
	return cmd
}

func newListCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recordings, most recent first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closer, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tBP\tPULSE\tID\tNOTES")
			for _, rec := range st.Recordings() {
				fmt.Fprintf(w, "%s\t%d/%d\t%d\t%s\t%s\n",
					rec.DateInfo(), rec.Systolic, rec.Diastolic, rec.HeartRate, rec.ID, rec.Notes)
			}
			return w.Flush()
		},
	}
}

func newEditCmd(dbPath *string) *cobra.Command {
	var (
		dateStr       string
		timeStr       string
		offsetMinutes int
		vitals        vitalsFlags
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a recording by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closer, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			existing, ok := st.Get(args[0])
			if !ok {
				return fmt.Errorf("no recording with id %s", args[0])
			}

			date := existing.Date
			if cmd.Flags().Changed("date") || cmd.Flags().Changed("time") {
				date, err = pickerDate(dateStr, timeStr, offsetMinutes)
				if err != nil {
					return err
				}
			}
			if !cmd.Flags().Changed("systolic") {
				vitals.systolic = existing.Systolic
			}
			if !cmd.Flags().Changed("diastolic") {
				vitals.diastolic = existing.Diastolic
			}
			if !cmd.Flags().Changed("heart-rate") {
				vitals.heartRate = existing.HeartRate
			}
			if !cmd.Flags().Changed("notes") {
				vitals.notes = existing.Notes
			}
			if err := vitals.validate(); err != nil {
				return err
			}

			updated := existing.Updated(date, vitals.systolic, vitals.diastolic, vitals.heartRate, vitals.notes)
			st.Dispatch(store.Edited{Recording: updated})
			st.Flush()
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s (%s)\n", updated.DateInfo(), updated.ID)
			return nil
		},
	}
	now := time.Now()
	cmd.Flags().StringVar(&dateStr, "date", now.Format("2006-01-02"), "Reading date (YYYY-MM-DD, local)")
	cmd.Flags().StringVar(&timeStr, "time", now.Format("15:04"), "Reading time (HH:MM, local)")
	cmd.Flags().IntVar(&offsetMinutes, "offset", timezoneOffsetMinutes(now), "Timezone offset in minutes behind UTC")
	addVitalsFlags(cmd, &vitals)
	return cmd
}

func newDeleteCmd(dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recording by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closer, err := openStore(*dbPath)
			if err != nil {
				return err
			}
			defer closer.Close()

			st.Dispatch(store.Deleted{ID: args[0]})
			st.Flush()
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}

func addVitalsFlags(cmd *cobra.Command, vitals *vitalsFlags) {
	cmd.Flags().IntVar(&vitals.systolic, "systolic", 0, "Systolic pressure")
	cmd.Flags().IntVar(&vitals.diastolic, "diastolic", 0, "Diastolic pressure")
	cmd.Flags().IntVar(&vitals.heartRate, "heart-rate", 0, "Heart rate in bpm")
	cmd.Flags().StringVar(&vitals.notes, "notes", "", "Free-form notes")
}

// pickerDate rebuilds the two picker-style instants a mobile date and time
// widget would produce and combines them, so the calendar day the user names
// never shifts across timezones.
func pickerDate(dateStr, timeStr string, offsetMinutes int) (time.Time, error) {
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --date: %w", err)
	}
	clock, err := time.Parse("15:04", timeStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --time: %w", err)
	}
	offset := time.Duration(offsetMinutes) * time.Minute
	datePart := day.Add(offset)
	timePart := time.Date(1970, time.January, 1, clock.Hour(), clock.Minute(), 0, 0, time.UTC).Add(offset)
	return dateconv.CombineDateAndTime(datePart, timePart, offsetMinutes)
}

// timezoneOffsetMinutes reports t's zone with the sign convention the
// combiner uses: positive means behind UTC.
func timezoneOffsetMinutes(t time.Time) int {
	_, secondsEast := t.Zone()
	return -secondsEast / 60
}
