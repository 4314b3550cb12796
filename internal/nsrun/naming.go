package nsrun

import (
	"fmt"
	"strconv"
)

// RootOptions parameterize the standard label for a run's output files.
type RootOptions struct {
	PriorScale  float64
	DynamicGoal float64
	NLiveConst  int
	NInit       int
	InitStep    int
	NRepeats    int
}

// SettingsRoot builds the standard file root label for a dynamic run:
// <likelihood>_<prior>_<prior-scale>_dg<goal>_<ninit>init_<init_step>is_<dim>d_<nlive>nlive_<nrepeats>nrepeats.
func SettingsRoot(likelihood, prior string, ndim int, opt RootOptions) string {
	return fmt.Sprintf("%s_%s_%s_dg%s_%dinit_%dis_%dd_%dnlive_%dnrepeats",
		likelihood, prior,
		trimFloat(opt.PriorScale), trimFloat(opt.DynamicGoal),
		opt.NInit, opt.InitStep, ndim, opt.NLiveConst, opt.NRepeats)
}

// trimFloat renders a float without a trailing ".0" so integral values read
// as integers in file names.
func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
