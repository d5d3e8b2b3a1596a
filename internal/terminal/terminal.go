// Package terminal implements the interactive register session: a
// line-oriented command loop that mutates one sale draft and re-renders the
// cart and totals after every change. Validation errors print inline and
// never end the session.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/gnretail/pos-terminal/internal/client"
	"github.com/gnretail/pos-terminal/internal/domain/catalog"
	"github.com/gnretail/pos-terminal/internal/domain/sale"
)

// Terminal is one register session bound to a sale builder and the catalog
// snapshot it resolves against.
type Terminal struct {
	builder  *sale.Builder
	snapshot *catalog.Snapshot
	out      io.Writer
}

// New creates a Terminal writing its output to out.
func New(builder *sale.Builder, snapshot *catalog.Snapshot, out io.Writer) *Terminal {
	return &Terminal{
		builder:  builder,
		snapshot: snapshot,
		out:      out,
	}
}

// Run reads commands from in until EOF, a quit command, or context
// cancellation.
func (t *Terminal) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(t.out, "POS register session. Type 'help' for commands.")

	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(t.out, "> ")
		if !sc.Scan() {
			fmt.Fprintln(t.out)
			return sc.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if t.Execute(ctx, sc.Text()) {
			return nil
		}
	}
}

// Execute runs a single command line and reports whether the session should
// end. All errors are rendered to the output instead of being returned: the
// draft always survives a failed command.
func (t *Terminal) Execute(ctx context.Context, line string) (quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help":
		t.printHelp()
	case "stores":
		t.printStores()
	case "products":
		t.printProducts(strings.Join(args, " "))
	case "store":
		t.runStore(args)
	case "add":
		t.runAdd(args)
	case "rm":
		t.runRemove(args)
	case "qty":
		t.runSetQuantity(args)
	case "discount":
		t.runAmount(args, "discount", t.builder.SetDiscount)
	case "tax":
		t.runAmount(args, "tax", t.builder.SetTax)
	case "pay":
		t.runAmount(args, "pay", t.builder.SetAmountPaid)
	case "method":
		t.runMethod(args)
	case "note":
		t.runNote(args)
	case "show":
		t.render()
	case "submit":
		t.runSubmit(ctx)
	case "quit", "exit":
		return true
	default:
		t.errorf("unknown command %q, type 'help'", cmd)
	}
	return false
}

func (t *Terminal) printHelp() {
	fmt.Fprint(t.out, `commands:
  stores                 list stores
  products [query]       list catalog products
  store <id>             select the store for this sale
  add <id|sku|name> [n]  add n units of a product (default 1)
  rm <line>              remove a cart line
  qty <line> <n>         change the quantity of a cart line
  discount <amount>      set the sale discount
  tax <amount>           set the sale tax
  pay <amount>           set the amount tendered
  method <name>          payment method: cash, card, mobile, check
  note <text>            attach a note to the sale
  show                   show the cart and totals
  submit                 submit the sale
  quit                   end the session
`)
}

func (t *Terminal) printStores() {
	w := tabwriter.NewWriter(t.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCITY")
	for _, s := range t.snapshot.Stores() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Name, s.City)
	}
	_ = w.Flush()
}

func (t *Terminal) printProducts(query string) {
	q := strings.ToLower(query)
	w := tabwriter.NewWriter(t.out, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSKU\tNAME\tPRICE\tUNIT")
	for _, p := range t.snapshot.Products() {
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.SKU), q) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", p.ID, p.SKU, p.Name, p.Price, p.Unit)
	}
	_ = w.Flush()
}

func (t *Terminal) runStore(args []string) {
	if len(args) != 1 {
		t.errorf("usage: store <id>")
		return
	}
	if err := t.builder.SetStore(args[0]); err != nil {
		t.errorf("%v", err)
		return
	}
	st, _ := t.snapshot.Store(args[0])
	fmt.Fprintf(t.out, "store: %s (%s)\n", st.Name, st.City)
}

func (t *Terminal) runAdd(args []string) {
	if len(args) == 0 {
		t.errorf("usage: add <id|sku|name> [qty]")
		return
	}

	qty := 1
	query := strings.Join(args, " ")
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
			qty = n
			query = strings.Join(args[:len(args)-1], " ")
		}
	}

	p, err := t.snapshot.FindProduct(query)
	if err != nil {
		t.errorf("%v", err)
		return
	}
	if err := t.builder.AddItem(p.ID, qty); err != nil {
		t.errorf("%v", err)
		return
	}
	t.render()
}

func (t *Terminal) runRemove(args []string) {
	if len(args) != 1 {
		t.errorf("usage: rm <line>")
		return
	}
	idx, err := t.lineIndex(args[0])
	if err != nil {
		t.errorf("%v", err)
		return
	}
	if err := t.builder.RemoveLine(idx); err != nil {
		t.errorf("%v", err)
		return
	}
	t.render()
}

func (t *Terminal) runSetQuantity(args []string) {
	if len(args) != 2 {
		t.errorf("usage: qty <line> <n>")
		return
	}
	idx, err := t.lineIndex(args[0])
	if err != nil {
		t.errorf("%v", err)
		return
	}
	n, err := strconv.Atoi(args[1])
	if err != nil {
		t.errorf("invalid quantity %q", args[1])
		return
	}
	if err := t.builder.SetQuantity(idx, n); err != nil {
		t.errorf("%v", err)
		return
	}
	t.render()
}

func (t *Terminal) runAmount(args []string, name string, set func(decimal.Decimal) error) {
	if len(args) != 1 {
		t.errorf("usage: %s <amount>", name)
		return
	}
	v, err := decimal.NewFromString(args[0])
	if err != nil {
		t.errorf("invalid amount %q", args[0])
		return
	}
	if err := set(v); err != nil {
		t.errorf("%v", err)
		return
	}
	t.render()
}

func (t *Terminal) runMethod(args []string) {
	if len(args) != 1 {
		t.errorf("usage: method <cash|card|mobile|check>")
		return
	}
	m, err := parsePaymentMethod(args[0])
	if err != nil {
		t.errorf("%v", err)
		return
	}
	if err := t.builder.SetPaymentMethod(m); err != nil {
		t.errorf("%v", err)
		return
	}
	fmt.Fprintf(t.out, "payment method: %s\n", m)
}

func (t *Terminal) runNote(args []string) {
	if err := t.builder.SetNotes(strings.Join(args, " ")); err != nil {
		t.errorf("%v", err)
	}
}

func (t *Terminal) runSubmit(ctx context.Context) {
	receipt, err := t.builder.Submit(ctx)
	if err != nil {
		var connErr *client.ConnectionError
		if errors.As(err, &connErr) {
			t.errorf("connection error, the sale was not confirmed; check the network and submit again")
			return
		}
		t.errorf("%v", err)
		return
	}

	fmt.Fprintf(t.out, "sale %s recorded\n", receipt.SaleNumber)
	if receipt.Change.IsPositive() {
		fmt.Fprintf(t.out, "change due: %s\n", receipt.Change)
	}
}

// lineIndex converts a 1-based display line number to a cart index.
func (t *Terminal) lineIndex(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid line number %q", arg)
	}
	return n - 1, nil
}

func (t *Terminal) render() {
	lines := t.builder.Lines()
	if len(lines) == 0 {
		fmt.Fprintln(t.out, "cart is empty")
	} else {
		w := tabwriter.NewWriter(t.out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "#\tPRODUCT\tQTY\tPRICE\tSUBTOTAL")
		for i, l := range lines {
			fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", i+1, l.ProductName, l.Quantity, l.UnitPrice, l.Subtotal)
		}
		_ = w.Flush()
	}

	totals := t.builder.Totals()
	fmt.Fprintf(t.out, "subtotal: %s  total: %s\n", totals.Subtotal, totals.Total)
	if totals.Payable() {
		fmt.Fprintf(t.out, "change: %s\n", totals.Change)
	}
}

func (t *Terminal) errorf(format string, args ...any) {
	fmt.Fprintf(t.out, "error: "+format+"\n", args...)
}

func parsePaymentMethod(s string) (sale.PaymentMethod, error) {
	switch strings.ToLower(s) {
	case "cash":
		return sale.PaymentCash, nil
	case "card":
		return sale.PaymentCard, nil
	case "mobile", "momo":
		return sale.PaymentMobileMoney, nil
	case "check", "cheque":
		return sale.PaymentCheck, nil
	}
	m := sale.PaymentMethod(strings.ToUpper(s))
	if m.Valid() {
		return m, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}
