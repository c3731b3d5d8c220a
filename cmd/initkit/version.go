package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/initkit/version"
)

func newVersionCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the initkit build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			switch EncodingType(output) {
			case EncodingTable:
				_, err := fmt.Fprintln(cmd.OutOrStdout(), info.String())
				return err
			case EncodingYAML, EncodingJSON:
				data, err := encodeVersion(EncodingType(output), info)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			default:
				return fmt.Errorf("unknown output format: %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, FlagOutput, "o", string(EncodingTable),
		fmt.Sprintf("output format, one of %v", Encodings()))
	return cmd
}
