package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/xraph/escrow"
	"github.com/xraph/escrow/journal"
	"github.com/xraph/escrow/types"
)

// report writes the escrow's configuration, counters and subscriber table.
func report(ctx context.Context, w io.Writer, e *escrow.Escrow, withHistory bool) error {
	p, err := e.Params(ctx)
	if errors.Is(err, escrow.ErrNotConstructed) {
		fmt.Fprintln(w, "escrow not constructed")
		return nil
	}
	if err != nil {
		return err
	}

	now := e.Height(ctx)
	prices := e.AllTierPrices(ctx)
	summary := e.Analytics(ctx)

	withdrawn, err := withdrawnTotal(ctx, e)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name\t%s\n", p.Name)
	fmt.Fprintf(tw, "creator\t%s\n", p.Creator)
	fmt.Fprintf(tw, "base price\t%s\n", p.BasePrice)
	fmt.Fprintf(tw, "period\t%d blocks\n", p.PeriodLength)
	fmt.Fprintf(tw, "tiers\tbronze=%s silver=%s gold=%s\n", prices.Bronze, prices.Silver, prices.Gold)
	fmt.Fprintf(tw, "height\t%d\n", now)
	fmt.Fprintf(tw, "subscribers\t%d (%d active)\n", summary.TotalSubscribers, summary.ActiveCount)
	fmt.Fprintf(tw, "revenue\t%s\n", summary.TotalRevenue)
	fmt.Fprintf(tw, "withdrawn\t%s\n", withdrawn)
	fmt.Fprintf(tw, "held\t%s\n", summary.TotalRevenue.Sub(withdrawn))
	if err := tw.Flush(); err != nil {
		return err
	}

	subs := e.Subscribers(ctx)
	if len(subs) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ACCOUNT\tTOKEN\tTIER\tEXPIRY\tACTIVE\tAUTO-RENEW")
		for _, r := range subs {
			token := "-"
			if id, ok := r.Token(); ok {
				token = fmt.Sprint(id)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%t\t%t\n",
				r.Account, token, r.Tier, r.ExpiryHeight, r.ActiveAt(now), r.AutoRenewal)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if withHistory {
		entries, err := e.History(ctx, journal.ListOpts{})
		if err != nil {
			return err
		}
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "SEQ\tHEIGHT\tKIND\tCALLER\tACCOUNT\tAMOUNT")
		for _, en := range entries {
			fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\n",
				en.Seq, en.Height, en.Kind, en.Caller, en.Account, en.Amount)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func withdrawnTotal(ctx context.Context, e *escrow.Escrow) (types.Balance, error) {
	entries, err := e.History(ctx, journal.ListOpts{Kind: journal.KindWithdrawn})
	if err != nil {
		return 0, err
	}
	var total types.Balance
	for _, en := range entries {
		total = total.Add(en.Amount)
	}
	return total, nil
}
