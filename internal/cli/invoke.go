package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	Args string
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke <operation>",
		Short: "Run one named operation against the store",
		Long: `Run one named operation against the store and print its result as JSON.

Example:
  pos invoke addProduct --args '{"name":"Espresso","price":2.5,"stock":10}'
  pos invoke recordSale --args '{"items":[{"productId":"...","quantity":2}]}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw json.RawMessage
			if strings.TrimSpace(opts.Args) != "" {
				if !json.Valid([]byte(opts.Args)) {
					return fmt.Errorf("invalid --args JSON")
				}
				raw = json.RawMessage(opts.Args)
			}

			a, err := openApplication(cmd.Context(), opts.RootOptions, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer closeApplication(a, a.Logger())

			var input interface{}
			if raw != nil {
				input = raw
			}
			result := a.Dispatcher.Dispatch(cmd.Context(), args[0], input)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(result); err != nil {
				return err
			}
			return result.Err()
		},
	}

	cmd.Flags().StringVar(&opts.Args, "args", "", "operation arguments as JSON")

	return cmd
}
