package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/cardscript"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [FILE]",
		Short: "Evaluate a compiled script and print its value",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHandler,
	}
	cmd.Flags().Bool("timing", false, "show execution time")
	return cmd
}

func runHandler(cmd *cobra.Command, args []string) error {
	opts, err := getOptions(cmd)
	if err != nil {
		return err
	}
	script, err := loadScript(cmd, args, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := cardscript.Evaluate(cmd.Context(), script, opts...)
	if err != nil {
		return err
	}
	dt := time.Since(start)

	output, err := getOutput(result, viper.GetString("output"))
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if output != "" {
		fmt.Fprintln(out, output)
	}
	if timing, _ := cmd.Flags().GetBool("timing"); timing {
		fmt.Fprintf(out, "%v\n", dt)
	}
	return nil
}
