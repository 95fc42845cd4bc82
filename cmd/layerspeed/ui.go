package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"layerspeed/internal/session"
	"layerspeed/internal/ui"
)

func newUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Edit interactively: pick a file, enter layer and speed, review the log",
		Args:  cobra.NoArgs,
		RunE:  runUI,
	}
	cmd.Flags().String("file", "", "preselect a G-code file")
	cmd.Flags().String("layer", "", "prefill the layer field")
	cmd.Flags().String("speed", "", "prefill the speed field (default from config)")
	cmd.Flags().String("start-dir", "", "directory the file browser opens in (default from config)")
	cmd.Flags().String("ui", "", "interactive mode (auto|on|off)")
	return cmd
}

func runUI(cmd *cobra.Command, _ []string) error {
	env, cleanup, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}

	modeValue := get("ui")
	if !cmd.Flags().Changed("ui") {
		modeValue = env.cfg.UIMode
	}
	mode, err := readUIMode(modeValue)
	if err != nil {
		return usageError("%v", err)
	}
	if !shouldUseTUI(mode) {
		return usageError("interactive session needs a terminal; use edit-layer instead")
	}

	speed := get("speed")
	if !cmd.Flags().Changed("speed") {
		speed = strconv.FormatUint(env.cfg.Speed, 10)
	}
	startDir := get("start-dir")
	if startDir == "" {
		startDir = env.cfg.StartDir
	}

	sess, err := ui.Run(env.ctx, os.Stdout, ui.Options{
		Session:  session.New(session.Options{}),
		StartDir: startDir,
		Path:     get("file"),
		Layer:    get("layer"),
		Speed:    speed,
		Info:     ui.DefaultInfo,
	})
	if sess != nil && sess.Len() > 0 && !env.quiet {
		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "log (%d edits):\n", sess.Len())
		for _, line := range sess.Render() {
			_, _ = fmt.Fprintf(out, "  %s\n", line)
		}
	}
	return err
}
