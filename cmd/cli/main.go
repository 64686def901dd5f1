package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// apiClient calls the billing HTTP API and prints indented JSON responses.
type apiClient struct {
	baseURL string
	timeout time.Duration
	out     io.Writer
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &apiClient{out: out}

	rootCmd := &cobra.Command{
		Use:          "billing-cli",
		Short:        "GoBilling CLI tool",
		Long:         `A command line interface for interacting with the GoBilling API.`,
		SilenceUsage: true,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&c.baseURL, "url", "http://localhost:8080", "Base URL of the GoBilling API")
	rootCmd.PersistentFlags().DurationVar(&c.timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(accountCmd(c), invoiceCmd(c), cardCmd(c))
	return rootCmd
}

func accountCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var asOf string
	balanceCmd := &cobra.Command{
		Use:   "balance <account-id>",
		Short: "Show the per-currency balance of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/balance", query("as_of", asOf), nil)
		},
	}
	balanceCmd.Flags().StringVar(&asOf, "as-of", "", "Only count rows created up to this date (YYYY-MM-DD or RFC 3339)")

	pastDueCmd := &cobra.Command{
		Use:   "past-due <account-id>",
		Short: "Report whether an account has past-due invoices",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/past-due", nil, nil)
		},
	}

	cmd.AddCommand(balanceCmd, pastDueCmd)
	return cmd
}

func invoiceCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice",
		Short: "Invoice operations",
	}

	createCmd := &cobra.Command{
		Use:   "create <account-id>",
		Short: "Invoice every uninvoiced charge of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(http.MethodPost, "/api/v1/accounts/"+url.PathEscape(args[0])+"/invoices", nil, nil)
		},
	}

	totalCmd := &cobra.Command{
		Use:   "total <invoice-id>",
		Short: "Show the per-currency total of an invoice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(http.MethodGet, "/api/v1/invoices/"+url.PathEscape(args[0])+"/total", nil, nil)
		},
	}

	cmd.AddCommand(createCmd, totalCmd)

	for _, action := range []struct{ name, path, short string }{
		{"pay", "pay", "Mark an invoice as paid"},
		{"cancel", "cancel", "Cancel an invoice"},
		{"past-due", "past-due", "Mark a pending invoice as past due"},
	} {
		cmd.AddCommand(&cobra.Command{
			Use:   action.name + " <invoice-id>",
			Short: action.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.do(http.MethodPost, "/api/v1/invoices/"+url.PathEscape(args[0])+"/"+action.path, nil, nil)
			},
		})
	}

	var cutoff string
	overdueCmd := &cobra.Command{
		Use:   "overdue",
		Short: "Mark past due every pending invoice created before the cutoff",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(http.MethodPost, "/api/v1/invoices/overdue", query("cutoff", cutoff), nil)
		},
	}
	overdueCmd.Flags().StringVar(&cutoff, "cutoff", "", "Invoices created before this date are overdue (YYYY-MM-DD or RFC 3339)")
	_ = overdueCmd.MarkFlagRequired("cutoff")

	cmd.AddCommand(overdueCmd)
	return cmd
}

func cardCmd(c *apiClient) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Credit card operations",
	}

	var asOf string
	validCmd := &cobra.Command{
		Use:   "valid <account-id>",
		Short: "List the unexpired cards of an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.do(http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/credit-cards/valid", query("as_of", asOf), nil)
		},
	}
	validCmd.Flags().StringVar(&asOf, "as-of", "", "Check validity on this date instead of today")

	var before string
	var limit, offset int
	expiringCmd := &cobra.Command{
		Use:   "expiring",
		Short: "List cards expiring before a date",
		RunE: func(cmd *cobra.Command, args []string) error {
			q := query("before", before)
			q.Set("limit", fmt.Sprint(limit))
			q.Set("offset", fmt.Sprint(offset))
			return c.do(http.MethodGet, "/api/v1/credit-cards/expiring", q, nil)
		},
	}
	expiringCmd.Flags().StringVar(&before, "before", "", "Expiry date bound, exclusive (YYYY-MM-DD)")
	expiringCmd.Flags().IntVar(&limit, "limit", 20, "Page size")
	expiringCmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	_ = expiringCmd.MarkFlagRequired("before")

	cmd.AddCommand(validCmd, expiringCmd)
	return cmd
}

func query(key, value string) url.Values {
	q := url.Values{}
	if value != "" {
		q.Set(key, value)
	}
	return q
}

func (c *apiClient) do(method, path string, q url.Values, payload any) error {
	target := c.baseURL + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, target, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: c.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s failed (status %d): %s", method, path, resp.StatusCode, bytes.TrimSpace(raw))
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		_, err = c.out.Write(raw)
		return err
	}
	pretty.WriteByte('\n')
	_, err = c.out.Write(pretty.Bytes())
	return err
}
