package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"
	bolt "go.etcd.io/bbolt"

	"github.com/alacrity-engine/sprite-anim/animation"
)

func newValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <descriptor>...",
		Short: "Check animation descriptor files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0, len(args))
			failed := 0
			for _, path := range args {
				anim, err := loadDescriptorFile(path)
				if err != nil {
					failed++
					rows = append(rows, []string{path, "-", "-", "-", err.Error()})
					continue
				}
				rows = append(rows, []string{
					path,
					strconv.Itoa(anim.Len()),
					anim.Mode().String(),
					anim.TotalDuration().String(),
					"ok",
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"File", "Frames", "Mode", "Length", "Status"},
				rows, 2, 4,
			))
			if failed > 0 {
				return fmt.Errorf("%d of %d descriptors are invalid", failed, len(args))
			}
			return nil
		},
	}
}

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <descriptor>",
		Short: "Print the canonical frame list of a descriptor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			anim, err := loadDescriptorFile(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Mode: %s\n", anim.Mode())
			if anim.Mode().Kind() == animation.ModeRepeatFrom && anim.Mode().ResumeIndex() >= anim.Len() {
				fmt.Fprintf(out, "Warning: resume index %d is past the last frame\n", anim.Mode().ResumeIndex())
			}
			rows := make([][]string, 0, anim.Len())
			for i, frame := range anim.Frames() {
				rows = append(rows, []string{
					strconv.Itoa(i),
					strconv.Itoa(frame.Index()),
					frame.Duration().String(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "Sprite", "Duration"},
				rows, 1, 2, 3,
			))
			return nil
		},
	}
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var resourcePath string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the animations stored in a resource file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("resource") {
				cfg.Paths.ResourceFile = resourcePath
			}

			db, err := bolt.Open(cfg.Paths.ResourceFile, 0600, &bolt.Options{ReadOnly: true})
			if err != nil {
				return fmt.Errorf("open resource file: %w", err)
			}
			defer db.Close()

			modes, err := readModes(db, cfg.Pack.ModesBucket)
			if err != nil {
				return err
			}
			names := make([]string, 0, len(modes))
			for name := range modes {
				names = append(names, name)
			}
			sort.Strings(names)

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				rows = append(rows, []string{name, modes[name].String()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Animation", "Mode"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&resourcePath, "resource", "", "Resource file to read.")
	return cmd
}
