package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/viant/afs"
	"github.com/viant/repack/repack"
	"github.com/viant/repack/resource"
)

var rootCmd = &cobra.Command{
	Use:           "repack",
	Short:         "Merge tooling for compiled modules",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var patchCmd = &cobra.Command{
	Use:   "patch <storageURL>",
	Short: "Rewrite merged assembly names in compiled markup resources",
	Long: `Walk storageURL and patch every compiled markup (.baml) payload in place.

Element assembly names matching any --merged assembly are rewritten to --target.
Payloads that do not change are not uploaded.`,
	Args: cobra.ExactArgs(1),
	RunE: runPatch,
}

var (
	patchConfig string
	patchTarget string
	patchMerged []string
	verbose     bool
)

func init() {
	rootCmd.AddCommand(patchCmd)
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	patchCmd.Flags().StringVar(&patchConfig, "config", "", "Options YAML URL")
	patchCmd.Flags().StringVar(&patchTarget, "target", "", "Target assembly name")
	patchCmd.Flags().StringSliceVar(&patchMerged, "merged", nil, "Merged assembly names")
}

func runPatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	fs := afs.New()
	options := repack.DefaultOptions()
	if patchConfig != "" {
		var err error
		if options, err = repack.LoadOptions(ctx, fs, patchConfig); err != nil {
			return err
		}
	}
	if patchTarget == "" {
		return fmt.Errorf("target assembly not specified (use --target)")
	}
	if len(patchMerged) == 0 {
		return fmt.Errorf("merged assemblies not specified (use --merged)")
	}
	logger, err := repack.NewDevelopmentLogger(verbose || options.Verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	patcher := resource.NewPatcher(patchTarget, patchMerged, resource.WithLogger(logger))
	count, err := patcher.PatchDir(ctx, fs, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Patched %d resource(s) under %s\n", count, args[0])
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
