package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"jeongsan/api"
	"jeongsan/currency"
	"jeongsan/settle"
	"jeongsan/view"
)

func settleCommand() *cobra.Command {
	var inputPath string
	var tipped []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "print who sends what from a settlement result",
		Long: `settle reads a settlement result as returned by the backend and prints one line per
member. Members listed in --tipped are shown with their rounded-up amount.`,
		Example: `jeongsan settle --input result.json --tipped 2,id:3,name:멤버1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if inputPath != "-" {
				f, err := os.Open(inputPath)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runSettle(in, cmd.OutOrStdout(), settle.ParseTipToggles(tipped), asJSON)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "settlement result json (- for stdin)")
	cmd.Flags().StringSliceVar(&tipped, "tipped", nil, "member ids or names that round up (id:N and name:X force the key kind)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the resolved view as json")

	return cmd
}

func runSettle(in io.Reader, out io.Writer, toggles settle.TipToggles, asJSON bool) error {
	var result api.SettlementResult
	if err := json.NewDecoder(in).Decode(&result); err != nil {
		return fmt.Errorf("decode settlement result: %w", err)
	}
	v := view.BuildSettlementView(result, toggles)

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return printSettlement(out, v)
}

func printSettlement(out io.Writer, v view.SettlementView) error {
	fmt.Fprintf(out, "%s\n", v.Meeting.Name)
	fmt.Fprintf(out, "total %s (shared %s, personal %s)\n", v.TotalText, v.PublicText, v.PersonalText)
	if v.Leader != nil {
		fmt.Fprintf(out, "leader %s\n", v.Leader.Name)
	}
	if v.SimpleSplit {
		_, err := fmt.Fprintf(out, "everyone sends %s to the leader\n", v.SimpleText)
		return err
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, r := range v.Rows {
		verb := "sends"
		if r.IsReceiving {
			verb = "receives"
		}
		tip := ""
		if r.Tipped {
			tip = "(tipped)"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Name, verb, r.AmountText, r.Action, tip)
	}
	return tw.Flush()
}

func formatCommand() *cobra.Command {
	var decimals int

	cmd := &cobra.Command{
		Use:     "format AMOUNT [CODE]",
		Short:   "format an amount in a currency",
		Example: `jeongsan format 1234.5 JPY`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", args[0], err)
			}
			code := currency.DefaultCode
			if len(args) == 2 {
				code = args[1]
			}
			var opts []currency.Option
			if cmd.Flags().Changed("decimals") {
				opts = append(opts, currency.WithDecimals(decimals))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), currency.Format(amount, code, opts...))
			return err
		},
	}
	cmd.Flags().IntVar(&decimals, "decimals", 0, "override the currency's decimal places")
	return cmd
}
