package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"jeongsan/api"
	"jeongsan/trip"
)

// CSVMember is one row of a contribution sheet.
type CSVMember struct {
	Member trip.Member
	Amount string
}

// ContributionSheet is what contrib writes.
type ContributionSheet struct {
	Mode          trip.Mode          `json:"mode"`
	Total         int64              `json:"total"`
	Contributions []api.Contribution `json:"contributions"`
}

func contribCommand() *cobra.Command {
	var inputPath, outputPath string
	var total int64

	cmd := &cobra.Command{
		Use:   "contrib",
		Short: "turn a member CSV into trip contributions",
		Long: `contrib reads a CSV of name,amount[,member_id] rows after a header row and prints the
contribution list a trip is created with. With --total the total is split evenly and
the amount column may be empty.`,
		Example: `jeongsan contrib --input members.csv --output contributions.json
jeongsan contrib --input members.csv --total 300000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile, err := os.Open(inputPath)
			if err != nil {
				return err
			}
			defer func(inputFile *os.File) {
				if err := inputFile.Close(); err != nil {
					slog.Warn("close input file", "error", err)
				}
			}(inputFile)

			out := cmd.OutOrStdout()
			if outputPath != "" {
				outputFile, err := os.Create(outputPath)
				if err != nil {
					return err
				}
				defer func(outputFile *os.File) {
					if err := outputFile.Close(); err != nil {
						slog.Warn("close output file", "error", err)
					}
				}(outputFile)
				out = outputFile
			}
			return runContrib(inputFile, out, total)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "csv input file path (required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "json output file path (default stdout)")
	cmd.Flags().Int64Var(&total, "total", 0, "split this KRW total evenly instead of using the amount column")

	return cmd
}

func runContrib(in io.Reader, out io.Writer, total int64) error {
	csvContent, err := csv.NewReader(in).ReadAll()
	if err != nil {
		return err
	}
	members, err := ParseCSVToMembers(csvContent)
	if err != nil {
		return fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(members) == 0 {
		return fmt.Errorf("no members found in the CSV")
	}

	w, err := BuildWizard(members, total)
	if err != nil {
		return err
	}
	contributions, err := w.Contributions()
	if err != nil {
		return err
	}
	if total > 0 && w.Total() != total {
		slog.Warn("total does not split evenly", "total", total, "split", w.Total())
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(ContributionSheet{Mode: w.Mode, Total: w.Total(), Contributions: contributions})
}

// ParseCSVToMembers parses rows of name,amount[,member_id] after a header row.
func ParseCSVToMembers(csvContent [][]string) ([]CSVMember, error) {
	if len(csvContent) == 0 {
		return nil, fmt.Errorf("CSV is empty")
	}

	// skip the header row
	dataRows := csvContent[1:]

	var members []CSVMember
	for i, row := range dataRows {
		if len(row) < 2 || len(row) > 3 {
			return nil, fmt.Errorf("row %d: expected 2 or 3 columns, but got %d", i+2, len(row)) // +2 to account for the header row
		}

		name := strings.TrimSpace(row[0])
		if name == "" {
			return nil, fmt.Errorf("row %d: name is empty", i+2)
		}
		amount := strings.TrimSpace(row[1])
		if _, err := trip.ParseAmount(amount); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}

		m := trip.Member{Name: name}
		if len(row) == 3 && strings.TrimSpace(row[2]) != "" {
			id, err := strconv.ParseInt(strings.TrimSpace(row[2]), 10, 64)
			if err != nil || id <= 0 {
				return nil, fmt.Errorf("row %d: invalid member id '%s'", i+2, row[2])
			}
			m.ID = id
		} else {
			m.TempID = uuid.NewString()
		}
		members = append(members, CSVMember{Member: m, Amount: amount})
	}

	return members, nil
}

// BuildWizard loads the members into a wizard. The first row leads. A
// positive total is split evenly; otherwise each row's amount is used.
func BuildWizard(members []CSVMember, total int64) (*trip.Wizard, error) {
	w := trip.NewWizard()
	list := make([]trip.Member, 0, len(members))
	for _, m := range members {
		list = append(list, m.Member)
	}
	w.SeedMembers(list)

	if total > 0 {
		w.SetEqualTotal(total)
		return w, nil
	}

	if err := w.SwitchMode(trip.ModeIndividual); err != nil {
		return nil, err
	}
	for i, m := range w.Members {
		if err := w.SetIndividualAmount(m.Key(), members[i].Amount); err != nil {
			return nil, err
		}
	}
	return w, nil
}
