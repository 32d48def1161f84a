package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/billcycle/internal/adapter/http/dto"
)

type clientFunc func() *apiClient

func syncCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Run the recurring sync now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.SyncReportResponse
			if err := client().do(cmd.Context(), http.MethodPost, "/api/v1/sync", nil, &report); err != nil {
				return err
			}

			fmt.Printf("Blueprints scanned: %d\n", report.BlueprintsScanned)
			fmt.Printf("Postings created:   %d\n", report.PostingsCreated)
			fmt.Printf("Failures:           %d\n", report.Failures)
			for _, s := range report.ChargesSkipped {
				fmt.Printf("Skipped %s on %s: attempted %s, available %s\n",
					truncate(s.Description, 30), s.OccurrenceAt.Format("2006-01-02"),
					s.AttemptedAmount.StringFixed(2), s.AvailableLimit.StringFixed(2))
			}
			return nil
		},
	}
}

func cardsCmd(client clientFunc) *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List cards with their available credit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("limit", strconv.Itoa(limit))
			q.Set("offset", strconv.Itoa(offset))

			var resp dto.ListCardsResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/api/v1/cards?"+q.Encode(), nil, &resp); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tLIMIT\tUSED\tAVAILABLE\tCLOSING\tDUE")
			for _, c := range resp.Cards {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\n",
					c.ID, truncate(c.Name, 24),
					c.MaxLimit.StringFixed(2), c.LimitUsed.StringFixed(2), c.AvailableCredit.StringFixed(2),
					c.ClosingDay, c.DueDay)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}

func statementCmd(client clientFunc) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "statement <card-id>",
		Short: "Show the statement of the cycle containing a date",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/cards/" + url.PathEscape(args[0]) + "/statement"
			if date != "" {
				path += "?date=" + url.QueryEscape(date)
			}

			var resp dto.StatementResponse
			if err := client().do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			printJSON(resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Reference date (YYYY-MM-DD), defaults to today")
	return cmd
}

func historyCmd(client clientFunc) *cobra.Command {
	var months int

	cmd := &cobra.Command{
		Use:   "history <card-id>",
		Short: "Show recent statements of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/cards/%s/statements?months=%d", url.PathEscape(args[0]), months)

			var resp dto.StatementHistoryResponse
			if err := client().do(cmd.Context(), http.MethodGet, path, nil, &resp); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MONTH\tCYCLE\tDUE\tREALIZED\tPROJECTED\tTXNS")
			for _, s := range resp.Statements {
				fmt.Fprintf(w, "%s\t%s..%s\t%s\t%s\t%s\t%d\n",
					s.ReferenceMonth, s.CycleStart, s.CycleEnd, s.DueDate,
					s.RealizedTotal.StringFixed(2), s.ProjectedTotal.StringFixed(2), s.TransactionsCount)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&months, "months", 6, "Number of cycles to show")
	return cmd
}

func installmentCmd(client clientFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "installment",
		Short: "Installment purchase operations",
	}

	cmd.AddCommand(installmentCreateCmd(client), scheduleCmd(client))
	return cmd
}

func installmentCreateCmd(client clientFunc) *cobra.Command {
	var (
		req    dto.CreateInstallmentRequest
		amount string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an installment purchase on a card",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			req.Amount = value

			var resp dto.InstallmentScheduleResponse
			if err := client().do(cmd.Context(), http.MethodPost, "/api/v1/installments", req, &resp); err != nil {
				return err
			}

			printSchedule(&resp)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.CardID, "card", "", "Card ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount of each installment")
	cmd.Flags().IntVar(&req.Count, "count", 0, "Number of installments")
	cmd.Flags().IntVar(&req.PurchaseDay, "purchase-day", 0, "Day of month of each installment")
	cmd.Flags().StringVar(&req.FirstPurchaseDate, "first-date", "", "First purchase date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().StringVar(&req.CategoryID, "category", "", "Category ID")
	_ = cmd.MarkFlagRequired("card")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("count")

	return cmd
}

func scheduleCmd(client clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <installment-id>",
		Short: "Show the schedule of an installment purchase",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.InstallmentScheduleResponse
			if err := client().do(cmd.Context(), http.MethodGet, "/api/v1/installments/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}

			printSchedule(&resp)
			return nil
		},
	}
}

func printSchedule(s *dto.InstallmentScheduleResponse) {
	fmt.Printf("%s  %s x%d\n", s.BlueprintID, truncate(s.Description, 40), s.Count)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tPURCHASE\tDUE\tAMOUNT\tSTATUS")
	for _, i := range s.Installments {
		fmt.Fprintf(w, "%d/%d\t%s\t%s\t%s\t%s\n", i.Sequence, s.Count, i.PurchaseDate, i.DueDate, i.Amount.StringFixed(2), i.Status)
	}
	_ = w.Flush()

	fmt.Printf("Remaining: %d (%s)\n", s.RemainingCount, s.RemainingTotal.StringFixed(2))
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("failed to encode output: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}
