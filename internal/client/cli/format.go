package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dmitrijs2005/restorder/internal/client/models"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func (a *App) money(v float64) string {
	currency := "INR"
	if a.config != nil && a.config.Currency != "" {
		currency = a.config.Currency
	}
	return fmt.Sprintf("%s %.2f", currency, v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func (a *App) printOrders(list []models.Order, withCustomer bool) {
	if len(list) == 0 {
		a.out.Println("No orders")
		return
	}
	tw := newTable(a.out)
	if withCustomer {
		fmt.Fprintln(tw, "ID\tCUSTOMER\tSTATUS\tITEMS\tTOTAL\tPLACED")
	} else {
		fmt.Fprintln(tw, "ID\tSTATUS\tITEMS\tTOTAL\tPLACED")
	}
	for _, o := range list {
		items := 0
		for _, it := range o.Items {
			items += it.Quantity
		}
		if withCustomer {
			customer := o.User.Name
			if customer == "" {
				customer = o.User.ID
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n", o.ID, customer, o.Status, items, a.money(o.TotalPrice), formatTime(o.CreatedAt))
		} else {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", o.ID, o.Status, items, a.money(o.TotalPrice), formatTime(o.CreatedAt))
		}
	}
	_ = tw.Flush()
}
