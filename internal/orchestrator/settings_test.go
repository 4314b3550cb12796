package orchestrator

import (
	"testing"

	"dynens/pkg/types"
)

func TestSettingsFromMapUnknownKey(t *testing.T) {
	_, _, err := SettingsFromMap(map[string]any{"nlive": 10, "unexpected": 1})
	if !IsUnknownSetting(err) {
		t.Fatalf("expected unknown-setting error, got %v", err)
	}
}

func TestSettingsFromMapAppliesValues(t *testing.T) {
	s, provided, err := SettingsFromMap(map[string]any{
		"nlive":               float64(50),
		"num_repeats":         10,
		"posteriors":          false,
		"seed":                1,
		"max_ndead":           -1,
		"precision_criterion": 0.1,
		"base_dir":            "out",
		"file_root":           "test_run",
	})
	if err != nil {
		t.Fatal(err)
	}
	if s.NLive != 50 || s.NumRepeats != 10 || s.Posteriors || s.Seed != 1 {
		t.Fatalf("values not applied: %+v", s)
	}
	if s.PrecisionCriterion != 0.1 || s.BaseDir != "out" || s.FileRoot != "test_run" {
		t.Fatalf("values not applied: %+v", s)
	}
	if !provided["nlive"] || provided["feedback"] {
		t.Fatalf("provided set wrong: %v", provided)
	}
	// Defaults survive for unsupplied keys.
	if !s.WriteDead || s.MaxNDead != -1 {
		t.Fatalf("defaults lost: %+v", s)
	}
}

func TestSettingsFromMapBadValue(t *testing.T) {
	_, _, err := SettingsFromMap(map[string]any{"nlive": "fifty"})
	if !IsBadSettingValue(err) {
		t.Fatalf("expected bad-value error, got %v", err)
	}
}

func TestSettingsFromMapProfileMapping(t *testing.T) {
	s, _, err := SettingsFromMap(map[string]any{
		"nlives": map[float64]int{-10: 200, -20: 100},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(s.NLives.LogLs) != 2 || s.NLives.LogLs[0] != -20 || s.NLives.Nlives[0] != 100 {
		t.Fatalf("profile not sorted by logl: %+v", s.NLives)
	}
}

func TestCheckSettingsWarnsOncePerOverriddenKey(t *testing.T) {
	s, provided, err := SettingsFromMap(map[string]any{
		"read_resume": true,
		"equals":      true,
		"posteriors":  false,
	})
	if err != nil {
		t.Fatal(err)
	}
	checked, warnings := CheckSettings(s, provided)
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want exactly 1: %v", len(warnings), warnings)
	}
	if checked.ReadResume {
		t.Fatal("mandatory read_resume=false not applied")
	}
	if !checked.Equals || checked.Posteriors {
		t.Fatalf("non-mandatory values overridden: %+v", checked)
	}
}

func TestCheckSettingsClearsProfile(t *testing.T) {
	s, provided, err := SettingsFromMap(map[string]any{
		"nlives": types.AllocationProfile{LogLs: []float64{-5}, Nlives: []int{10}},
	})
	if err != nil {
		t.Fatal(err)
	}
	checked, warnings := CheckSettings(s, provided)
	if len(warnings) != 1 {
		t.Fatalf("got %d warnings, want 1: %v", len(warnings), warnings)
	}
	if !checked.NLives.IsZero() {
		t.Fatalf("profile not cleared: %+v", checked.NLives)
	}
}

func TestCheckSettingsNoWarningsForDefaults(t *testing.T) {
	s, provided, err := SettingsFromMap(map[string]any{"nlive": 100})
	if err != nil {
		t.Fatal(err)
	}
	_, warnings := CheckSettings(s, provided)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}
