// orderctl is a small command-line client for the orderd REST API.
//
//	orderctl list [instrument=PETR4] [side=buy] [status=open] [date=2025-01-31]
//	orderctl get ORD-001
//	orderctl buy PETR4 28.45 100
//	orderctl sell VALE3 68.32 50
//	orderctl cancel ORD-001
//	orderctl fills PETR4 [limit]
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"

	"github.com/uhyunpark/orderdesk/params"
	"github.com/uhyunpark/orderdesk/pkg/api"
)

func main() {
	cfg := params.LoadFromEnv("")
	c := &client{
		base: strings.TrimRight(cfg.Client.APIURL, "/"),
		http: &http.Client{Timeout: 10 * time.Second},
	}

	if err := run(c, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() error {
	return fmt.Errorf("usage: orderctl list [key=value...] | get <id> | buy|sell <instrument> <price> <qty> | cancel <id> | fills <instrument> [limit]")
}

func run(c *client, args []string) error {
	if len(args) == 0 {
		return usage()
	}

	switch cmd := args[0]; cmd {
	case "list":
		q := url.Values{}
		for _, kv := range args[1:] {
			k, v, ok := strings.Cut(kv, "=")
			if !ok {
				return fmt.Errorf("bad filter %q, expected key=value", kv)
			}
			q.Set(k, v)
		}
		var orders []api.OrderInfo
		if err := c.do(http.MethodGet, "/api/v1/orders?"+q.Encode(), nil, &orders); err != nil {
			return err
		}
		printOrders(orders)

	case "get":
		if len(args) != 2 {
			return usage()
		}
		var o api.OrderDetail
		if err := c.do(http.MethodGet, "/api/v1/orders/"+url.PathEscape(args[1]), nil, &o); err != nil {
			return err
		}
		printDetail(o)

	case "buy", "sell":
		if len(args) != 4 {
			return usage()
		}
		price, err := decimal.NewFromString(args[2])
		if err != nil {
			return fmt.Errorf("bad price %q: %w", args[2], err)
		}
		qty, err := strconv.ParseInt(args[3], 10, 64)
		if err != nil {
			return fmt.Errorf("bad quantity %q: %w", args[3], err)
		}
		req := api.CreateOrderRequest{
			Instrument: args[1],
			Side:       cmd,
			Price:      price,
			Quantity:   qty,
		}
		var o api.OrderDetail
		if err := c.do(http.MethodPost, "/api/v1/orders", req, &o); err != nil {
			return err
		}
		printDetail(o)

	case "cancel":
		if len(args) != 2 {
			return usage()
		}
		var o api.OrderDetail
		if err := c.do(http.MethodPost, "/api/v1/orders/"+url.PathEscape(args[1])+"/cancel", nil, &o); err != nil {
			return err
		}
		printDetail(o)

	case "fills":
		if len(args) < 2 || len(args) > 3 {
			return usage()
		}
		path := "/api/v1/instruments/" + url.PathEscape(args[1]) + "/fills"
		if len(args) == 3 {
			path += "?limit=" + url.QueryEscape(args[2])
		}
		var fills []api.FillInfo
		if err := c.do(http.MethodGet, path, nil, &fills); err != nil {
			return err
		}
		printFills(fills)

	default:
		return usage()
	}
	return nil
}

type client struct {
	base string
	http *http.Client
}

// do sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses are returned as errors carrying the server's message.
func (c *client) do(method, path string, body, out interface{}) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e api.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			return fmt.Errorf("%s %s: %s", method, path, resp.Status)
		}
		if e.Message != "" {
			return fmt.Errorf("%s: %s", e.Error, e.Message)
		}
		return fmt.Errorf("%s", e.Error)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func printOrders(orders []api.OrderInfo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tINSTRUMENT\tSIDE\tPRICE\tQTY\tREMAINING\tSTATUS\tCREATED")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			o.ID, o.Instrument, o.Side, o.Price.StringFixed(2),
			o.Quantity, o.RemainingQuantity, o.Status,
			o.Timestamp.Local().Format("2006-01-02 15:04:05"))
	}
	w.Flush()
}

func printDetail(o api.OrderDetail) {
	printOrders([]api.OrderInfo{o.OrderInfo})
	fmt.Println()
	fmt.Println("History:")
	for _, h := range o.History {
		fmt.Printf("  %s  %-9s  %s\n", h.Timestamp.Local().Format("2006-01-02 15:04:05"), h.Status, h.Description)
	}
}

func printFills(fills []api.FillInfo) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tTAKER\tMAKER\tSIDE\tPRICE\tQTY")
	for _, f := range fills {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			f.Timestamp.Local().Format("15:04:05"), f.TakerOrderID, f.MakerOrderID,
			f.Side, f.Price.StringFixed(2), f.Quantity)
	}
	w.Flush()
}
