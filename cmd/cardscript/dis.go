package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deepnoodle-ai/cardscript/dis"
)

func newDisCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dis [FILE]",
		Short: "Disassemble a compiled script",
		Args:  cobra.MaximumNArgs(1),
		RunE:  disHandler,
	}
	cmd.Flags().String("func", "", "only disassemble the nested script with this name")
	cmd.Flags().Bool("all", false, "also disassemble nested scripts")
	return cmd
}

func disHandler(cmd *cobra.Command, args []string) error {
	script, err := loadScript(cmd, args)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	listings := dis.DisassembleAll(script)

	// If a function name was provided, disassemble its code only
	if funcName, _ := cmd.Flags().GetString("func"); funcName != "" {
		for _, listing := range listings {
			if listing.Name == funcName {
				return dis.Print(listing.Instructions, out)
			}
		}
		return fmt.Errorf("function %q not found", funcName)
	}
	if all, _ := cmd.Flags().GetBool("all"); all {
		return dis.PrintAll(listings, out)
	}
	return dis.Print(dis.Disassemble(script), out)
}
