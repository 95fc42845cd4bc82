package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"layerspeed/internal/gcode"
	"layerspeed/internal/session"
)

var warnLabel = color.New(color.FgYellow, color.Bold)

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan <plan.toml>",
		Short: "Apply a list of speed edits, one after another",
		Long: `Apply every [[edit]] entry of a TOML plan in order and print the edit log.

  [[edit]]
  file = "benchy.gcode"
  layer = 12
  speed = 80

Each entry is a separate edit. Entries whose layer marker is missing are
reported and skipped (exit status 2 at the end); an I/O error stops the plan.`,
		Args: cobra.ExactArgs(1),
		RunE: runPlan,
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	env, cleanup, err := prepare(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	reqs, err := loadPlan(args[0], env.cfg.Speed)
	if err != nil {
		return usageError("%v", err)
	}

	out := cmd.OutOrStdout()
	sess := session.New(session.Options{Timer: env.timer})
	var missing []session.Request
	var runErr error
	for _, req := range reqs {
		res, err := sess.Apply(env.ctx, req)
		if err != nil {
			runErr = err
			break
		}
		if !res.Applied {
			missing = append(missing, req)
			if !env.quiet {
				_, _ = warnLabel.Fprint(out, "skipped ")
				_, _ = fmt.Fprintf(out, "%s not found in %s\n", gcode.Marker(req.Layer), req.Path)
			}
		}
	}

	if !env.quiet || sess.Len() > 0 {
		_, _ = fmt.Fprintf(out, "log (%d edits):\n", sess.Len())
		for _, line := range sess.Render() {
			_, _ = fmt.Fprintf(out, "  %s\n", line)
		}
	}
	env.printTimings(cmd.ErrOrStderr())

	if runErr != nil {
		return runErr
	}
	if len(missing) > 0 {
		first := missing[0]
		if len(missing) == 1 {
			return notFoundError(first.Layer, first.Path)
		}
		return &exitError{code: exitNotFound, err: fmt.Errorf("%w: %d plan entries skipped", gcode.ErrLayerNotFound, len(missing))}
	}
	return nil
}
