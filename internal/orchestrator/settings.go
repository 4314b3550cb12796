package orchestrator

import (
	"fmt"
	"sort"

	"dynens/pkg/types"
)

// recognizedKeys is the closed set of settings accepted at public entry
// points.
var recognizedKeys = map[string]struct{}{
	"nlive":               {},
	"nlives":              {},
	"num_repeats":         {},
	"do_clustering":       {},
	"posteriors":          {},
	"equals":              {},
	"cluster_posteriors":  {},
	"write_dead":          {},
	"write_stats":         {},
	"write_prior":         {},
	"write_live":          {},
	"read_resume":         {},
	"write_resume":        {},
	"precision_criterion": {},
	"max_ndead":           {},
	"seed":                {},
	"feedback":            {},
	"base_dir":            {},
	"file_root":           {},
}

// Defaults returns the settings applied before any caller-supplied values.
func Defaults() types.Settings {
	return types.Settings{
		NLive:              100,
		NumRepeats:         20,
		DoClustering:       true,
		Posteriors:         true,
		WriteDead:          true,
		WriteStats:         true,
		PrecisionCriterion: 0.001,
		MaxNDead:           -1,
		Seed:               -1,
		Feedback:           -1,
		BaseDir:            "chains",
		FileRoot:           "dynens_run",
	}
}

// SettingsFromMap converts an open key/value mapping into typed Settings.
// Every key is checked against the recognized set before any value is
// applied; an unknown key fails the whole call. The returned set records
// which keys the caller actually supplied, for use by CheckSettings.
func SettingsFromMap(m map[string]any) (types.Settings, map[string]bool, error) {
	for key := range m {
		if _, ok := recognizedKeys[key]; !ok {
			return types.Settings{}, nil, ErrUnknownSetting(key)
		}
	}
	s := Defaults()
	provided := make(map[string]bool, len(m))
	for key, v := range m {
		provided[key] = true
		var err error
		switch key {
		case "nlive":
			s.NLive, err = asInt(v)
		case "nlives":
			s.NLives, err = asProfile(v)
		case "num_repeats":
			s.NumRepeats, err = asInt(v)
		case "do_clustering":
			s.DoClustering, err = asBool(v)
		case "posteriors":
			s.Posteriors, err = asBool(v)
		case "equals":
			s.Equals, err = asBool(v)
		case "cluster_posteriors":
			s.ClusterPosteriors, err = asBool(v)
		case "write_dead":
			s.WriteDead, err = asBool(v)
		case "write_stats":
			s.WriteStats, err = asBool(v)
		case "write_prior":
			s.WritePrior, err = asBool(v)
		case "write_live":
			s.WriteLive, err = asBool(v)
		case "read_resume":
			s.ReadResume, err = asBool(v)
		case "write_resume":
			s.WriteResume, err = asBool(v)
		case "precision_criterion":
			s.PrecisionCriterion, err = asFloat(v)
		case "max_ndead":
			s.MaxNDead, err = asInt(v)
		case "seed":
			var n int
			n, err = asInt(v)
			s.Seed = int64(n)
		case "feedback":
			s.Feedback, err = asInt(v)
		case "base_dir":
			s.BaseDir, err = asString(v)
		case "file_root":
			s.FileRoot, err = asString(v)
		}
		if err != nil {
			return types.Settings{}, nil, ErrBadSettingValue(key, err.Error())
		}
	}
	return s, provided, nil
}

// CheckSettings substitutes the values this system requires to function,
// emitting one warning per caller-supplied key it overrides. Resume reading
// must start disabled and the live point profile must start empty; both are
// managed by the orchestrator itself.
func CheckSettings(s types.Settings, provided map[string]bool) (types.Settings, []string) {
	var warnings []string
	if s.ReadResume {
		if provided["read_resume"] {
			warnings = append(warnings, "mandatory setting read_resume=false overrides supplied value")
		}
		s.ReadResume = false
	}
	if !s.NLives.IsZero() {
		if provided["nlives"] {
			warnings = append(warnings, "mandatory setting nlives={} overrides supplied value")
		}
		s.NLives = types.AllocationProfile{}
	}
	return s, warnings
}

func asInt(v any) (int, error) {
	switch x := v.(type) {
	case int:
		return x, nil
	case int64:
		return int(x), nil
	case float64:
		return int(x), nil
	default:
		return 0, fmt.Errorf("want integer, got %T", v)
	}
}

func asFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("want number, got %T", v)
	}
}

func asBool(v any) (bool, error) {
	if b, ok := v.(bool); ok {
		return b, nil
	}
	return false, fmt.Errorf("want boolean, got %T", v)
}

func asString(v any) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	return "", fmt.Errorf("want string, got %T", v)
}

// asProfile accepts a ready-made profile or a logl -> nlive mapping.
func asProfile(v any) (types.AllocationProfile, error) {
	switch x := v.(type) {
	case types.AllocationProfile:
		return x, nil
	case map[float64]int:
		p := types.AllocationProfile{}
		for logl := range x {
			p.LogLs = append(p.LogLs, logl)
		}
		sort.Float64s(p.LogLs)
		for _, logl := range p.LogLs {
			p.Nlives = append(p.Nlives, x[logl])
		}
		return p, nil
	default:
		return types.AllocationProfile{}, fmt.Errorf("want live point profile, got %T", v)
	}
}
