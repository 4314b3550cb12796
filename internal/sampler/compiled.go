package sampler

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"dynens/pkg/types"
)

// Compiled invokes a compiled sampler executable with a generated ini file.
// MPIStr, when non-empty, is prepended to the command line (for example
// "mpirun -np 4").
type Compiled struct {
	Executable string
	MPIStr     string
	PriorStr   string
	DerivedStr string
	Logger     zerolog.Logger
}

// NewCompiled constructs a Compiled sampler with logging disabled.
func NewCompiled(executable, priorStr, derivedStr string) *Compiled {
	return &Compiled{
		Executable: executable,
		PriorStr:   priorStr,
		DerivedStr: derivedStr,
		Logger:     zerolog.Nop(),
	}
}

// Command returns the argv that Run would execute for the given settings.
func (c *Compiled) Command(s types.Settings) []string {
	args := strings.Fields(c.MPIStr)
	return append(args, c.Executable, IniPath(s.BaseDir, s.FileRoot))
}

// Run writes the ini file and blocks until the executable exits. Process
// output is streamed into the structured log line by line.
func (c *Compiled) Run(ctx context.Context, s types.Settings, comm Communicator) error {
	if _, err := os.Stat(c.Executable); err != nil {
		return ErrExecutableNotFound(c.Executable)
	}
	if err := os.MkdirAll(s.BaseDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	iniPath := IniPath(s.BaseDir, s.FileRoot)
	if err := os.WriteFile(iniPath, []byte(IniString(s, c.PriorStr, c.DerivedStr)), 0o644); err != nil {
		return fmt.Errorf("write ini: %w", err)
	}

	argv := c.Command(s)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start sampler: %w", err)
	}

	g := new(errgroup.Group)
	g.Go(func() error {
		sc := bufio.NewScanner(stdout)
		for sc.Scan() {
			c.Logger.Info().Str("file_root", s.FileRoot).Msg(sc.Text())
		}
		return sc.Err()
	})
	g.Go(func() error {
		sc := bufio.NewScanner(stderr)
		for sc.Scan() {
			c.Logger.Warn().Str("file_root", s.FileRoot).Msg(sc.Text())
		}
		return sc.Err()
	})
	pumpErr := g.Wait()
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("sampler exited: %w", err)
	}
	return pumpErr
}
