package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rentfold/rentfold/internal/offer"
	"github.com/rentfold/rentfold/internal/visit"
)

// printJSON marshals v as indented JSON and writes it to stdout.
func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printOfferDetail prints a single offer view in text format.
func printOfferDetail(v *offer.View) {
	o := v.Offer
	d := v.Decision

	fmt.Printf("Offer #%d\n", o.ID)
	fmt.Printf("  Listing:  %s\n", listingLabel(o.LeaseListing, o.SaleListing))
	fmt.Printf("  Role:     %s\n", o.Role)
	fmt.Printf("  Status:   %s\n", offerStatusLabel(o, d))
	fmt.Printf("  Price:    $%s\n", formatPrice(o.Price))
	if o.LeasePeriod > 0 {
		fmt.Printf("  Lease:    %d months\n", o.LeasePeriod)
	}
	if o.MinLockInPeriod > 0 {
		fmt.Printf("  Lock-in:  %d months\n", o.MinLockInPeriod)
	}
	if o.MoveInDate != "" {
		fmt.Printf("  Move-in:  %s\n", o.MoveInDate)
	}
	fmt.Printf("  Validity: %s\n", o.ValidDays)
	if o.CounterOffersCount > 0 {
		fmt.Printf("  Counters: %d\n", o.CounterOffersCount)
	}
	if o.Reason != "" {
		fmt.Printf("  Reason:   %s\n", o.Reason)
	}
	if len(d.LegalActions) > 0 {
		fmt.Printf("  Actions:  %s\n", joinActions(d.LegalActions))
	}
	for _, p := range o.Preferences {
		mark := " "
		if p.IsSelected {
			mark = "x"
		}
		fmt.Printf("  [%s] %s\n", mark, p.Name)
	}
}

// printOfferTable prints offer views as a formatted table.
func printOfferTable(views []*offer.View) error {
	if len(views) == 0 {
		fmt.Println("No offers found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tLISTING\tROLE\tSTATUS\tPRICE\tVALIDITY\tACTIONS"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-------\t----\t------\t-----\t--------\t-------"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, v := range views {
		o := v.Offer
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t$%s\t%s\t%s\n",
			o.ID,
			listingLabel(o.LeaseListing, o.SaleListing),
			o.Role,
			offerStatusLabel(o, v.Decision),
			formatPrice(o.Price),
			o.ValidDays,
			joinActions(v.Decision.LegalActions),
		); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d offers\n", len(views))
	return nil
}

// printCompareRows prints comparison rows with trend arrows.
func printCompareRows(rows []offer.CompareRow) {
	for _, row := range rows {
		arrow := " "
		switch row.Trend {
		case offer.TrendUp:
			arrow = "↑"
		case offer.TrendDown:
			arrow = "↓"
		}
		fmt.Printf("  %-20s %s %s\n", row.Label, row.Value, arrow)
	}
}

// printVisitDetail prints a single visit view in text format.
func printVisitDetail(v *visit.View) {
	fmt.Printf("Visit #%d (%s)\n", v.Visit.ID, v.Bucket)
	fmt.Printf("  Address:  %s\n", v.Visit.Address)
	fmt.Printf("  Listing:  %s\n", listingLabel(v.Visit.LeaseListing, v.Visit.SaleListing))
	fmt.Printf("  Status:   %s\n", v.Visit.Status)
	fmt.Printf("  Window:   %s - %s\n",
		v.Visit.StartDate.Format("2006-01-02 15:04"),
		v.Visit.EndDate.Format("15:04"))
	if v.Visit.Visitor != "" {
		fmt.Printf("  Visitor:  %s\n", v.Visit.Visitor)
	}
	if v.Visit.Comment != "" {
		fmt.Printf("  Comment:  %s\n", v.Visit.Comment)
	}
}

// printVisitTable prints visit views as a formatted table.
func printVisitTable(views []*visit.View) error {
	if len(views) == 0 {
		fmt.Println("No visits found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tADDRESS\tSTATUS\tBUCKET\tSTART"); err != nil {
		return fmt.Errorf("writing table header: %w", err)
	}
	if _, err := fmt.Fprintln(w, "--\t-------\t------\t------\t-----"); err != nil {
		return fmt.Errorf("writing table separator: %w", err)
	}

	for _, v := range views {
		if _, err := fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			v.Visit.ID,
			truncate(v.Visit.Address, 40),
			v.Visit.Status,
			v.Bucket,
			v.Visit.StartDate.Format("2006-01-02 15:04"),
		); err != nil {
			return fmt.Errorf("writing table row: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing table: %w", err)
	}

	fmt.Printf("\nTotal: %d visits\n", len(views))
	return nil
}

// printGroupedVisits prints the address/status sectioned visit listing.
func printGroupedVisits(groups []visit.GroupView) {
	if len(groups) == 0 {
		fmt.Println("No visits found.")
		return
	}

	for _, g := range groups {
		fmt.Printf("%s\n", g.Address)
		for _, sg := range g.Groups {
			fmt.Printf("  %s:\n", sg.Status)
			for _, v := range sg.Visits {
				fmt.Printf("    #%d  %s  (%s)\n",
					v.Visit.ID,
					v.Visit.StartDate.Format("2006-01-02 15:04"),
					v.Bucket)
			}
		}
		fmt.Println()
	}
}

// printSlots prints the slot catalog.
func printSlots(slots []visit.TimeSlot) {
	for _, s := range slots {
		if s.ID == visit.AllSlotID {
			continue
		}
		fmt.Printf("  %d: %s (%02d:00–%02d:00)\n", s.ID, s.Label, s.FromHour, s.ToHour)
	}
}

// offerStatusLabel renders the status, flagging expiry state for
// non-terminal offers.
func offerStatusLabel(o *offer.Offer, d *offer.Decision) string {
	switch {
	case d.IsExpired:
		return string(o.Status) + " (expired)"
	case d.IsExpiringSoon:
		return string(o.Status) + " (expiring soon)"
	}
	return string(o.Status)
}

func listingLabel(lease, sale int64) string {
	if lease != 0 {
		return fmt.Sprintf("lease/%d", lease)
	}
	return fmt.Sprintf("sale/%d", sale)
}

func joinActions(actions []offer.Action) string {
	if len(actions) == 0 {
		return "-"
	}
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = string(a)
	}
	return strings.Join(parts, ", ")
}

// formatPrice formats an amount as a string with commas.
func formatPrice(amount int64) string {
	s := fmt.Sprintf("%d", amount)

	// Add commas
	if len(s) <= 3 {
		return s
	}

	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)

	return strings.Join(parts, ",")
}

// truncate shortens a string to maxLen, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
