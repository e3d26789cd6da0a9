package export

import (
	"fmt"
	"io"
	"text/tabwriter"

	"rccircuit/types"
)

// WriteSummary 输出结果汇总表
func WriteSummary(w io.Writer, r *types.Result) error {
	if r == nil {
		return types.ErrNoResult
	}
	mode := "charge"
	switch {
	case r.Params.Source == types.SourceAC:
		mode = "ac"
	case r.Discharge:
		mode = "discharge"
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "source\t%s\t\n", r.Params.Source)
	fmt.Fprintf(tw, "mode\t%s\t\n", mode)
	fmt.Fprintf(tw, "tau\t%.6g\ts\n", r.Tau)
	fmt.Fprintf(tw, "r_eff\t%.6g\tΩ\n", r.EffectiveResistance())
	fmt.Fprintf(tw, "impedance\t%.6g\tΩ\n", r.Impedance())
	fmt.Fprintf(tw, "phase_shift\t%.6g\trad\n", r.PhaseShift)
	fmt.Fprintf(tw, "energy\t%.6g\tJ\n", r.Energy)
	fmt.Fprintf(tw, "power_loss\t%.6g\tW\n", r.PowerLoss)
	fmt.Fprintf(tw, "points\t%d\t\n", r.Len())
	return tw.Flush()
}
