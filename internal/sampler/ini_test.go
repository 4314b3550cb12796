package sampler

import (
	"strings"
	"testing"

	"dynens/internal/priors"
	"dynens/pkg/types"
)

func TestFormatSetting(t *testing.T) {
	cases := []struct {
		in   any
		want string
	}{
		{true, "T"},
		{false, "F"},
		{1, "1"},
		{[]int{1, 2}, "1 2"},
		{[]float64{-20, -10}, "-20 -10"},
		{0.5, "0.5"},
		{"chains", "chains"},
	}
	for _, c := range cases {
		if got := FormatSetting(c.in); got != c.want {
			t.Errorf("FormatSetting(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPriorBlockString(t *testing.T) {
	got := PriorBlockString("uniform", []float64{1, 2}, 1, 1, 1)
	want := "P : p1 | \\theta_{1} | uniform | 1 | 1 | 1 2\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestPriorString(t *testing.T) {
	p := priors.Uniform{Min: 1, Max: 2, Adaptive: true, Sort: true}
	got := PriorString(p, 3)
	want := PriorBlockString("adaptive_sorted_uniform", []float64{1, 2}, 3, 1, 1)
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !strings.Contains(got, "P : p3 | \\theta_{3} |") {
		t.Fatalf("missing third parameter line: %q", got)
	}
}

func TestBlockPriorString(t *testing.T) {
	bp := priors.Block{
		Priors: []priors.Prior{
			priors.Uniform{Min: 0, Max: 1},
			priors.Exponential{Lambda: 2},
		},
		Sizes: []int{2, 1},
	}
	got := BlockPriorString(bp)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	if !strings.HasPrefix(lines[2], "P : p3 | \\theta_{3} | exponential | 2 | 1 |") {
		t.Fatalf("block numbering wrong: %q", lines[2])
	}
}

func TestIniString(t *testing.T) {
	s := types.Settings{
		NLive: 50,
		NLives: types.AllocationProfile{
			LogLs:  []float64{-20, -10},
			Nlives: []int{100, 200},
		},
		BaseDir:  "chains",
		FileRoot: "demo",
	}
	out := IniString(s, "prior_block\n", "derived")
	lines := strings.Split(out, "\n")
	if lines[len(lines)-1] != "derived" {
		t.Fatalf("last line = %q, want derived string", lines[len(lines)-1])
	}
	if lines[len(lines)-2] != "prior_block" {
		t.Fatalf("second to last line = %q, want prior block", lines[len(lines)-2])
	}
	for _, want := range []string{
		"nlive = 50",
		"loglikes = -20 -10",
		"nlives = 100 200",
		"base_dir = chains",
		"file_root = demo",
		"read_resume = F",
	} {
		found := false
		for _, l := range lines {
			if l == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("missing line %q in:\n%s", want, out)
		}
	}
}

func TestIniStringOmitsEmptyProfile(t *testing.T) {
	out := IniString(types.Settings{NLive: 10}, "p", "")
	if strings.Contains(out, "loglikes") || strings.Contains(out, "nlives =") {
		t.Fatalf("profile lines present for empty profile:\n%s", out)
	}
}
