package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deepnoodle-ai/cardscript"
	"github.com/deepnoodle-ai/cardscript/internal/table"
	"github.com/deepnoodle-ai/cardscript/object"
)

func newDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps [FILE]",
		Short: "List the data a compiled script could read",
		Long: `Runs the script in dependency discovery mode. Each tracked global is
replaced by a placeholder that records every member path the script could
read, on any branch.`,
		Args: cobra.MaximumNArgs(1),
		RunE: depsHandler,
	}
	flags := cmd.Flags()
	flags.StringSlice("track", []string{"card"}, "globals to track")
	flags.String("kind", object.DepCardField.String(), "kind of the dependent value")
	flags.Int("index", 0, "index of the dependent value")
	flags.String("name", "", "name of the dependent value")
	return cmd
}

type depsResult struct {
	Path  string `json:"path"`
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
}

func depsHandler(cmd *cobra.Command, args []string) error {
	dep, err := getDependency(cmd)
	if err != nil {
		return err
	}
	opts, err := getOptions(cmd)
	if err != nil {
		return err
	}
	script, err := loadScript(cmd, args, opts...)
	if err != nil {
		return err
	}

	rec := object.NewRecorder()
	tracked, _ := cmd.Flags().GetStringSlice("track")
	for _, name := range tracked {
		opts = append(opts, cardscript.WithGlobal(name, object.NewTracked(name, rec)))
	}
	if _, err := cardscript.Dependencies(cmd.Context(), script, dep, opts...); err != nil {
		return err
	}

	results := make([]depsResult, 0, len(rec.Reads()))
	for _, read := range rec.Reads() {
		results = append(results, depsResult{
			Path:  read.Path,
			Kind:  read.Dep.Kind.String(),
			Index: read.Dep.Index,
			Name:  read.Dep.Name,
		})
	}
	return printDeps(cmd, results)
}

func printDeps(cmd *cobra.Command, results []depsResult) error {
	out := cmd.OutOrStdout()
	switch strings.ToLower(viper.GetString("output")) {
	case "json":
		output, err := getOutputJSON(results)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(output))
		return err
	case "", "text":
		if len(results) == 0 {
			_, err := fmt.Fprintln(out, "no dependencies")
			return err
		}
		t := table.NewTable(out).WithHeader([]string{"PATH", "DEPENDENT"})
		for _, r := range results {
			dependent := r.Kind + "[" + strconv.Itoa(r.Index) + "]"
			if r.Name != "" {
				dependent += ":" + r.Name
			}
			t.Append([]string{r.Path, dependent})
		}
		return t.Render()
	default:
		return fmt.Errorf("unknown output format: %s", viper.GetString("output"))
	}
}

// getDependency builds the dependent value description from flags.
func getDependency(cmd *cobra.Command) (object.Dependency, error) {
	flags := cmd.Flags()
	kindName, _ := flags.GetString("kind")
	index, _ := flags.GetInt("index")
	name, _ := flags.GetString("name")
	kind, err := parseDependencyKind(kindName)
	if err != nil {
		return object.Dependency{}, err
	}
	return object.Dependency{Kind: kind, Index: index, Name: name}, nil
}

func parseDependencyKind(name string) (object.DependencyKind, error) {
	var names []string
	for kind := object.DepCardField; kind <= object.DepDummy; kind++ {
		if kind.String() == name {
			return kind, nil
		}
		names = append(names, kind.String())
	}
	return 0, fmt.Errorf("unknown dependency kind %q (expected one of %s)", name, strings.Join(names, ", "))
}
