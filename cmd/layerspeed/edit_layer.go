package main

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"layerspeed/internal/gcode"
	"layerspeed/internal/session"
)

var okLabel = color.New(color.FgGreen, color.Bold)

func newEditLayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit-layer",
		Short: "Insert M220 S<speed> after the LAYER:<n> marker of a G-code file",
		Long: `Insert a speed-override line (M220 S<speed>) directly after the first line
containing LAYER:<layer>. The file is rewritten in place.

The marker is matched as plain text, so --layer 1 also matches LAYER:10 when
that marker comes first in the file. Layer and speed are used exactly as typed:
--layer 007 looks for LAYER:007, not LAYER:7.

Exit status is 0 on success, 2 when the marker is missing (or is on the last
line with no line break after it), and 1 on any other error.`,
		Example: "  layerspeed edit-layer --file benchy.gcode --layer 12 --speed 80",
		Args:    cobra.NoArgs,
		RunE:    runEditLayer,
	}
	cmd.Flags().String("file", "", "G-code file to edit")
	cmd.Flags().String("layer", "", "layer number whose marker to edit after")
	cmd.Flags().String("speed", "", "speed override in percent (default from config, else 100)")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("layer")
	return cmd
}

func runEditLayer(cmd *cobra.Command, _ []string) error {
	env, cleanup, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	file, err := cmd.Flags().GetString("file")
	if err != nil {
		return fmt.Errorf("failed to get file flag: %w", err)
	}
	layerText, err := cmd.Flags().GetString("layer")
	if err != nil {
		return fmt.Errorf("failed to get layer flag: %w", err)
	}
	speedText, err := cmd.Flags().GetString("speed")
	if err != nil {
		return fmt.Errorf("failed to get speed flag: %w", err)
	}
	if !cmd.Flags().Changed("speed") {
		speedText = strconv.FormatUint(env.cfg.Speed, 10)
	}

	req, err := session.ParseRequest(file, layerText, speedText)
	if err != nil {
		return usageError("%v", err)
	}

	sess := session.New(session.Options{Timer: env.timer})
	res, err := sess.Apply(env.ctx, req)
	env.printTimings(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if !res.Applied {
		return notFoundError(req.Layer, req.Path)
	}

	if !env.quiet {
		out := cmd.OutOrStdout()
		_, _ = okLabel.Fprint(out, "inserted ")
		_, _ = fmt.Fprintf(out, "%s after %s in %s\n", gcode.SpeedOverride(req.Speed), gcode.Marker(req.Layer), res.Entry.File)
		for _, line := range sess.Render() {
			_, _ = fmt.Fprintln(out, line)
		}
	}
	return nil
}
