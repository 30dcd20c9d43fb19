package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tournevent/easytrans/internal/telemetry"
	"github.com/tournevent/easytrans/pkg/easytrans"
	"github.com/tournevent/easytrans/pkg/easytrans/client"
)

var importOrdersCmd = &cobra.Command{
	Use:   "import-orders FILE",
	Short: "Import the orders in a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportOrders,
}

var importCustomersCmd = &cobra.Command{
	Use:   "import-customers FILE",
	Short: "Import the customers in a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportCustomers,
}

var orderCmd = &cobra.Command{
	Use:   "order NO",
	Short: "Show one order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrder,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders",
	Args:  cobra.NoArgs,
	RunE:  runOrders,
}

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Show products, substatuses, package types and vehicle types",
	Args:  cobra.NoArgs,
	RunE:  runRefdata,
}

func init() {
	for _, cmd := range []*cobra.Command{importOrdersCmd, importCustomersCmd} {
		cmd.Flags().String("mode", "", "import mode, test or effect (default EASYTRANS_DEFAULT_MODE)")
	}
	importOrdersCmd.Flags().Bool("rates", false, "return the calculated rates")
	importOrdersCmd.Flags().String("documents", "", "return a document per order, e.g. delivery_note, label10x15 or cmr")
	importOrdersCmd.Flags().String("type", string(easytrans.AuthOrderImport), "import variant: order_import, packs_order_import or gls_order_import")

	orderCmd.Flags().Bool("customer", false, "include the customer")
	orderCmd.Flags().Bool("carrier", false, "include the carrier")
	orderCmd.Flags().Bool("history", false, "include the track history")
	orderCmd.Flags().Bool("rates", false, "include sales and purchase rates")

	ordersCmd.Flags().String("status", "", "only orders with this status")
	ordersCmd.Flags().String("since", "", "only orders dated on or after this date (YYYY-MM-DD)")
	ordersCmd.Flags().String("sort", "", "sort field, prefix with - for descending")
	ordersCmd.Flags().Int("page", 1, "page to show")
	ordersCmd.Flags().Bool("all", false, "walk every page")

	rootCmd.PersistentFlags().String("log-level", "warn", "log level of the command line tools")
	rootCmd.AddCommand(importOrdersCmd, importCustomersCmd, orderCmd, ordersCmd, refdataCmd)
}

// cliClient builds a client for one command. Logs go to stderr.
func cliClient(cmd *cobra.Command) (*client.Client, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	level, _ := cmd.Flags().GetString("log-level")
	logger, err := telemetry.NewCLILogger(level)
	if err != nil {
		return nil, err
	}
	return newClient(cfg, logger, nil, nil)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func importOptions(cmd *cobra.Command) []easytrans.ImportOption {
	var opts []easytrans.ImportOption
	if mode, _ := cmd.Flags().GetString("mode"); mode != "" {
		opts = append(opts, easytrans.WithMode(easytrans.Mode(mode)))
	}
	return opts
}

func runImportOrders(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading orders: %w", err)
	}
	orders, err := easytrans.ParseOrders(data)
	if err != nil {
		return err
	}

	api, err := cliClient(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	opts := importOptions(cmd)
	if rates, _ := cmd.Flags().GetBool("rates"); rates {
		opts = append(opts, easytrans.WithReturnRates())
	}
	if doc, _ := cmd.Flags().GetString("documents"); doc != "" {
		opts = append(opts, easytrans.WithReturnDocuments(easytrans.ReturnDocumentType(doc)))
	}
	if typ, _ := cmd.Flags().GetString("type"); typ != "" {
		opts = append(opts, easytrans.WithOrderType(easytrans.AuthType(typ)))
	}

	result, err := api.ImportOrders(cmd.Context(), orders, opts...)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

func runImportCustomers(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading customers: %w", err)
	}
	customers, err := easytrans.ParseCustomers(data)
	if err != nil {
		return err
	}

	api, err := cliClient(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	result, err := api.ImportCustomers(cmd.Context(), customers, importOptions(cmd)...)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

func runOrder(cmd *cobra.Command, args []string) error {
	orderNo, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("order number %q is not a number", args[0])
	}

	api, err := cliClient(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	flags := cmd.Flags()
	var inc easytrans.OrderIncludes
	inc.Customer, _ = flags.GetBool("customer")
	inc.Carrier, _ = flags.GetBool("carrier")
	inc.TrackHistory, _ = flags.GetBool("history")
	inc.SalesRates, _ = flags.GetBool("rates")
	inc.PurchaseRates = inc.SalesRates

	order, err := api.GetOrder(cmd.Context(), orderNo, inc)
	if err != nil {
		return err
	}
	return printJSON(cmd, order)
}

func runOrders(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	opts := easytrans.OrderListOptions{Filter: easytrans.Filter{}}
	if status, _ := flags.GetString("status"); status != "" {
		opts.Filter["status"] = status
	}
	if since, _ := flags.GetString("since"); since != "" {
		opts.Filter["date"] = easytrans.Ops{easytrans.OpGTE: since}
	}
	opts.Sort, _ = flags.GetString("sort")
	opts.Page, _ = flags.GetInt("page")

	api, err := cliClient(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	ctx := cmd.Context()
	if all, _ := flags.GetBool("all"); all {
		var orders []easytrans.RestOrder
		it := api.IterOrders(ctx, opts)
		for it.Next(ctx) {
			orders = append(orders, it.Item())
		}
		if err := it.Err(); err != nil {
			return err
		}
		return printJSON(cmd, orders)
	}

	page, err := api.GetOrders(ctx, opts)
	if err != nil {
		return err
	}
	return printJSON(cmd, page)
}

func runRefdata(cmd *cobra.Command, args []string) error {
	api, err := cliClient(cmd)
	if err != nil {
		return err
	}
	defer api.Close()

	data, err := api.ReferenceData(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd, data)
}
