package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/okian/careerpath/internal/domain/model"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

func validOutput(format string) error {
	switch format {
	case outputTable, outputJSON:
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want %s or %s)", format, outputTable, outputJSON)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printRecommendation(w io.Writer, format string, rec model.Recommendation) error {
	if format == outputJSON {
		return printJSON(w, rec)
	}
	if len(rec.Results) == 0 {
		_, err := fmt.Fprintln(w, rec.Message)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tCAREER\tINDUSTRY\tSCORE\tAVG SALARY (LPA)\tEXPECTED SALARY")
	for _, r := range rec.Results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			r.Rank, r.Title, r.Industry, optional(r.Score, "%.4f"), optional(r.AverageSalaryLPA, "%.1f"), r.ExpectedSalary)
	}
	return tw.Flush()
}

func printCareers(w io.Writer, format string, records []model.CareerRecord) error {
	if format == outputJSON {
		return printJSON(w, records)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CAREER\tINDUSTRY\tEXPECTED SALARY")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Title, r.Industry, r.ExpectedSalary)
	}
	return tw.Flush()
}

func printCareer(w io.Writer, format string, r model.CareerRecord) error {
	if format == outputJSON {
		return printJSON(w, r)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range [][2]string{
		{"Career", r.Title},
		{"Industry", r.Industry},
		{"Entry-level roles", r.EntryLevelRoles},
		{"Mid-level roles", r.MidLevelRoles},
		{"Senior-level roles", r.SeniorLevelRoles},
		{"Expected salary", r.ExpectedSalary},
		{"Top hiring companies", r.HiringCompanies},
	} {
		fmt.Fprintf(tw, "%s:\t%s\n", row[0], strings.TrimSpace(row[1]))
	}
	return tw.Flush()
}

func optional(v *float64, format string) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf(format, *v)
}
