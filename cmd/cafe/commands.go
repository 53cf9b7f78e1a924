package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/cafe-orders/internal/model"
	"github.com/mmeshcher/cafe-orders/internal/service"
)

var errUsage = errors.New("usage error")

func usageErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

func run(ctx context.Context, svc *service.Service, w io.Writer, args []string) error {
	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	switch cmd {
	case "migrate":
		// Миграции применяются при подключении к базе.
		fmt.Fprintln(w, "migrations applied")
		return nil

	case "register":
		name := fs.String("name", "", "customer name")
		email := fs.String("email", "", "customer email")
		password := fs.String("password", "", "customer password")
		if err := fs.Parse(rest); err != nil {
			return usageErrorf("%v", err)
		}
		account, err := svc.Register(ctx, *name, *email, *password)
		if err != nil {
			return err
		}
		printAccounts(w, []model.Account{account})
		return nil

	case "login":
		email := fs.String("email", "", "customer email")
		password := fs.String("password", "", "customer password")
		if err := fs.Parse(rest); err != nil {
			return usageErrorf("%v", err)
		}
		account, err := svc.Authenticate(ctx, *email, *password)
		if err != nil {
			return err
		}
		printAccounts(w, []model.Account{account})
		return nil

	case "menu-add":
		name := fs.String("name", "", "item name")
		desc := fs.String("desc", "", "item description")
		price := fs.String("price", "", "item price")
		if err := fs.Parse(rest); err != nil {
			return usageErrorf("%v", err)
		}
		p, err := parseAmount("price", *price)
		if err != nil {
			return err
		}
		item, err := svc.AddMenuItem(ctx, *name, *desc, p)
		if err != nil {
			return err
		}
		printMenu(w, []model.MenuItem{item})
		return nil

	case "menu":
		all := fs.Bool("all", false, "include unavailable items")
		if err := fs.Parse(rest); err != nil {
			return usageErrorf("%v", err)
		}
		items, err := svc.ListMenu(ctx, !*all)
		if err != nil {
			return err
		}
		printMenu(w, items)
		return nil

	case "place":
		userID := fs.Int64("user", 0, "account id")
		items := fs.String("items", "", "menu_item_id:quantity pairs separated by commas")
		pickup := fs.Duration("pickup", 30*time.Minute, "pickup delay from now")
		pay := fs.String("pay", string(model.PaymentAccount), "payment method")
		if err := fs.Parse(rest); err != nil {
			return usageErrorf("%v", err)
		}
		lines, err := parseLines(*items)
		if err != nil {
			return err
		}
		account, err := svc.GetAccount(ctx, *userID)
		if err != nil {
			return err
		}
		order, err := svc.PrepareOrder(ctx, account.ID, lines, time.Now().Add(*pickup), model.PaymentMethod(strings.ToUpper(*pay)))
		if err != nil {
			return err
		}
		placed, after, err := svc.PlaceOrder(ctx, account, order)
		if err != nil {
			return err
		}
		printOrder(w, placed)
		fmt.Fprintf(w, "balance: %s\n", after.Balance.StringFixed(2))
		return nil

	case "finalize":
		orderID := fs.Int64("order", 0, "order id")
		success := fs.Bool("success", true, "complete the order; false cancels it")
		if err := fs.Parse(rest); err != nil {
			return usageErrorf("%v", err)
		}
		order, err := svc.FinalizeOrder(ctx, *orderID, *success)
		if err != nil {
			return err
		}
		printOrder(w, order)
		return nil

	case "points":
		userID := fs.Int64("user", 0, "account id")
		value := fs.String("value", "", "loyalty points")
		if err := fs.Parse(rest); err != nil {
			return usageErrorf("%v", err)
		}
		points, err := parseAmount("value", *value)
		if err != nil {
			return err
		}
		account, err := svc.SetLoyaltyPoints(ctx, *userID, points)
		if err != nil {
			return err
		}
		printAccounts(w, []model.Account{account})
		return nil

	case "block", "unblock", "grant-staff":
		userID := fs.Int64("user", 0, "account id")
		if err := fs.Parse(rest); err != nil {
			return usageErrorf("%v", err)
		}
		var (
			account model.Account
			err     error
		)
		switch cmd {
		case "block":
			account, err = svc.BlockAccount(ctx, *userID)
		case "unblock":
			account, err = svc.UnblockAccount(ctx, *userID)
		default:
			account, err = svc.GrantStaffRole(ctx, *userID)
		}
		if err != nil {
			return err
		}
		printAccounts(w, []model.Account{account})
		return nil

	case "orders":
		orders, err := svc.ListOrders(ctx)
		if err != nil {
			return err
		}
		for _, o := range orders {
			printOrder(w, o)
		}
		return nil

	case "order":
		orderID := fs.Int64("id", 0, "order id")
		if err := fs.Parse(rest); err != nil {
			return usageErrorf("%v", err)
		}
		order, err := svc.GetOrder(ctx, *orderID)
		if err != nil {
			return err
		}
		printOrder(w, order)
		return nil

	case "users":
		accounts, err := svc.ListAccounts(ctx)
		if err != nil {
			return err
		}
		printAccounts(w, accounts)
		return nil
	}

	return usageErrorf("unknown command %q", cmd)
}

func parseAmount(field, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &model.ValidationError{Field: field, Reason: "not a decimal number"}
	}
	return d, nil
}

// parseLines разбирает строку вида "3:2,5:1".
func parseLines(raw string) ([]service.LineRequest, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, &model.ValidationError{Field: "items", Reason: "at least one item required"}
	}

	var lines []service.LineRequest
	for _, pair := range strings.Split(raw, ",") {
		idStr, qtyStr, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok {
			qtyStr = "1"
		}
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return nil, &model.ValidationError{Field: "items", Reason: fmt.Sprintf("bad menu item id %q", idStr)}
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, &model.ValidationError{Field: "items", Reason: fmt.Sprintf("bad quantity %q", qtyStr)}
		}
		lines = append(lines, service.LineRequest{MenuItemID: id, Quantity: qty})
	}
	return lines, nil
}

func printOrder(w io.Writer, o model.Order) {
	fmt.Fprintf(w, "order %d  user %d  %s  %s  total %s  pickup %s  created %s\n",
		o.ID, o.UserID, o.Status, o.PaymentMethod, o.TotalPrice.StringFixed(2),
		o.PickupTime.Format(time.RFC3339), o.CreatedAt.Format(time.RFC3339))

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, l := range o.Lines {
		fmt.Fprintf(tw, "  %d\t%s\tx%d\t%s\t%s\n",
			l.MenuItemID, l.Name, l.Quantity, l.UnitPrice.StringFixed(2), l.Subtotal().StringFixed(2))
	}
	tw.Flush()
}

func printAccounts(w io.Writer, accounts []model.Account) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLE\tBALANCE\tPOINTS\tBLOCKED")
	for _, a := range accounts {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%t\n",
			a.ID, a.Name, a.Email, a.Role, a.Balance.StringFixed(2), a.LoyaltyPoints.StringFixed(2), a.Blocked)
	}
	tw.Flush()
}

func printMenu(w io.Writer, items []model.MenuItem) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tAVAILABLE\tDESCRIPTION")
	for _, it := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\n", it.ID, it.Name, it.Price.StringFixed(2), it.Available, it.Description)
	}
	tw.Flush()
}
