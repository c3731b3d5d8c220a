package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const FlagOutput = "output"

func newSettingsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "settings",
		Aliases: []string{"setting", "s"},
		Short:   "Read the settings section of the configuration",
	}
	cmd.AddCommand(newSettingsGetCmd(root), newSettingsListCmd(root))
	return cmd
}

func newSettingsGetCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get NAME...",
		Short: "Print the value of one or more settings",
		Long: `Print the value of each named setting, one per line.

Names must match the settings section exactly, including case.
The command fails on the first missing name.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := root.loadSettings(cmd)
			if err != nil {
				return err
			}
			for _, name := range args {
				v, err := reg.Get(name)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

func newSettingsListCmd(root *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := root.loadSettings(cmd)
			if err != nil {
				return err
			}
			data, err := encodeSettings(EncodingType(output), reg.Names(), reg.Snapshot())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, FlagOutput, "o", string(EncodingTable),
		fmt.Sprintf("output format, one of %v", Encodings()))
	return cmd
}
