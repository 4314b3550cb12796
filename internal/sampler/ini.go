package sampler

import (
	"fmt"
	"strconv"
	"strings"

	"dynens/internal/priors"
	"dynens/pkg/types"
)

// FormatSetting renders a single settings value the way PolyChord-style
// ini files expect it: booleans as T/F, lists space-joined.
func FormatSetting(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "T"
		}
		return "F"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case []int:
		parts := make([]string, len(x))
		for i, n := range x {
			parts[i] = strconv.Itoa(n)
		}
		return strings.Join(parts, " ")
	case []float64:
		parts := make([]string, len(x))
		for i, f := range x {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return strings.Join(parts, " ")
	case []string:
		return strings.Join(x, " ")
	default:
		return fmt.Sprint(x)
	}
}

// IniString renders the full ini text for a sampler invocation. A non-empty
// live point profile becomes the paired loglikes/nlives lines. The prior
// block and derived-parameter strings are appended last.
func IniString(s types.Settings, priorStr, derivedStr string) string {
	var b strings.Builder
	line := func(key string, v any) {
		b.WriteString(key)
		b.WriteString(" = ")
		b.WriteString(FormatSetting(v))
		b.WriteString("\n")
	}
	line("base_dir", s.BaseDir)
	line("file_root", s.FileRoot)
	line("nlive", s.NLive)
	line("num_repeats", s.NumRepeats)
	line("precision_criterion", s.PrecisionCriterion)
	line("max_ndead", s.MaxNDead)
	line("seed", s.Seed)
	line("feedback", s.Feedback)
	line("do_clustering", s.DoClustering)
	line("posteriors", s.Posteriors)
	line("equals", s.Equals)
	line("cluster_posteriors", s.ClusterPosteriors)
	line("write_dead", s.WriteDead)
	line("write_stats", s.WriteStats)
	line("write_prior", s.WritePrior)
	line("write_live", s.WriteLive)
	line("write_resume", s.WriteResume)
	line("read_resume", s.ReadResume)
	if !s.NLives.IsZero() {
		line("loglikes", s.NLives.LogLs)
		line("nlives", s.NLives.Nlives)
	}
	b.WriteString(strings.TrimRight(priorStr, "\n"))
	b.WriteString("\n")
	b.WriteString(derivedStr)
	return b.String()
}

func priorLines(name string, params []float64, start, count, block, speed int) string {
	var b strings.Builder
	for i := start; i < start+count; i++ {
		fmt.Fprintf(&b, "P : p%d | \\theta_{%d} | %s | %d | %d | %s\n",
			i, i, name, block, speed, FormatSetting(params))
	}
	return b.String()
}

// PriorBlockString renders the prior specification lines for nparam
// parameters sharing one named prior. Fields are parameter id, latex name,
// prior name, block id, speed, then the prior parameters.
func PriorBlockString(name string, params []float64, nparam, block, speed int) string {
	return priorLines(name, params, 1, nparam, block, speed)
}

// PriorString maps a prior object to its ini block lines.
func PriorString(p priors.Prior, nparam int) string {
	return PriorBlockString(p.BlockName(), p.BlockParams(), nparam, 1, 1)
}

// BlockPriorString maps a composite prior to ini lines, one block per
// component with continuous parameter numbering.
func BlockPriorString(bp priors.Block) string {
	var b strings.Builder
	start := 1
	for i, p := range bp.Priors {
		b.WriteString(priorLines(p.BlockName(), p.BlockParams(), start, bp.Sizes[i], i+1, 1))
		start += bp.Sizes[i]
	}
	return b.String()
}

// DerivedString is the default derived-parameter line (none).
const DerivedString = ""
